package service

import (
	"context"
	"time"

	"github.com/vocdoni/zkage/circuits"
	"golang.org/x/sync/errgroup"
)

// DownloadArtifacts downloads all the circuit artifacts concurrently. Nil
// sets are skipped.
func DownloadArtifacts(timeout time.Duration, sets ...*circuits.CircuitArtifacts) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, set := range sets {
		if set == nil {
			continue
		}
		set := set // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			return set.DownloadAll(ctx)
		})
	}
	return g.Wait()
}
