package config

import "time"

const (
	// ArtifactsDirEnv overrides the local cache directory of the circuit
	// artifacts. Defaults to $HOME/.cache/zkage-artifacts.
	ArtifactsDirEnv = "ZKAGE_ARTIFACTS_DIR"
	// CheckHashesEnv disables the sha256 check of the artifacts when set to
	// false or 0.
	CheckHashesEnv = "ZKAGE_CHECK_HASHES"
	// DefaultArtifactsDirName is the name of the cache directory created in
	// the user cache path.
	DefaultArtifactsDirName = "zkage-artifacts"

	// AgeCheckArtifactsBaseURL is the default location of the setup data
	// published by cmd/zkage-setup.
	AgeCheckArtifactsBaseURL = "https://circuits.ams3.cdn.digitaloceanspaces.com/zkage/dev"
	// File names written by cmd/zkage-setup and expected under the base URL.
	AgeCheckCircuitFile         = "agecheck.ccs"
	AgeCheckProvingKeyFile      = "agecheck.pk"
	AgeCheckVerificationKeyFile = "agecheck.vk"

	// DownloadTimeout bounds the prefetch of the setup data at startup.
	DownloadTimeout = 5 * time.Minute
)

const (
	DefaultAPIHost   = "0.0.0.0"
	DefaultAPIPort   = 9090
	DefaultLogLevel  = "info"
	DefaultLogOutput = "stdout"
)

const (
	// DefaultSessionMaxIdle is the time after which an untouched session is
	// dropped by the server.
	DefaultSessionMaxIdle = 30 * time.Minute
	// DefaultSessionSweepInterval is how often idle sessions are looked for.
	DefaultSessionSweepInterval = time.Minute
)
