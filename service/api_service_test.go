package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkage/api/client"
	"github.com/vocdoni/zkage/backend"
	"github.com/vocdoni/zkage/prover"
	"github.com/vocdoni/zkage/verifier"
)

func TestAPIService(t *testing.T) {
	c := qt.New(t)

	b, err := backend.New(backend.Config{})
	c.Assert(err, qt.IsNil)

	// Port 0 lets the OS choose an available port
	apiService := NewAPI(prover.New(b, nil), verifier.New(b), "127.0.0.1", 0)

	ctx := context.Background()
	err = apiService.Start(ctx)
	c.Assert(err, qt.IsNil)
	defer apiService.Stop()

	host, port := apiService.HostPort()
	c.Assert(port, qt.Not(qt.Equals), 0)
	cli, err := client.New(fmt.Sprintf("http://%s:%d", host, port))
	c.Assert(err, qt.IsNil)
	id, err := cli.NewSession()
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Not(qt.Equals), "")

	// Test stopping and restarting
	apiService.Stop()
	c.Assert(apiService.API(), qt.IsNil)
	err = apiService.Start(ctx)
	c.Assert(err, qt.IsNil)

	// Test starting an already running service
	err = apiService.Start(ctx)
	c.Assert(err, qt.ErrorMatches, "service already running")
}

type countingPruner struct {
	calls int32
}

func (p *countingPruner) PruneSessions(time.Duration) int {
	atomic.AddInt32(&p.calls, 1)
	return 1
}

func TestSessionSweeper(t *testing.T) {
	c := qt.New(t)
	pruner := &countingPruner{}
	sweeper := NewSessionSweeper(pruner, time.Minute, 10*time.Millisecond)
	c.Assert(sweeper.Start(context.Background()), qt.IsNil)
	c.Assert(sweeper.Start(context.Background()), qt.ErrorMatches, "service already running")

	time.Sleep(100 * time.Millisecond)
	sweeper.Stop()
	calls := atomic.LoadInt32(&pruner.calls)
	c.Assert(calls > 0, qt.IsTrue)
	time.Sleep(50 * time.Millisecond)
	c.Assert(atomic.LoadInt32(&pruner.calls), qt.Equals, calls)
	// stopping twice is a no-op
	sweeper.Stop()

	bad := NewSessionSweeper(pruner, time.Minute, 0)
	c.Assert(bad.Start(context.Background()), qt.IsNotNil)
}

func TestDownloadArtifactsNil(t *testing.T) {
	c := qt.New(t)
	c.Assert(DownloadArtifacts(time.Second, nil, nil), qt.IsNil)
}
