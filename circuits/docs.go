// Package circuits contains the zero-knowledge circuits of zkage and the
// handling of their setup data.
//
// The setup of a circuit (compiled constraint system, proving key and
// verification key) is produced by cmd/zkage-setup and published as
// content-addressed artifacts: every file is identified by the sha256 hash of
// its content. An Artifact is fetched lazily the first time it is needed and
// kept in a local cache directory (BaseDir), so later loads never touch the
// network.
//
//	+-----------------+   Load(ctx)   +-----------+  miss  +--------+
//	| backend/prover  | ------------> | BaseDir   | -----> | remote |
//	+-----------------+               | <sha256>  | <----- |  URL   |
//	                                  +-----------+        +--------+
//
// The circuits themselves live in subpackages (agecheck).
package circuits
