package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkage/backend"
	"github.com/vocdoni/zkage/circuits"
	"github.com/vocdoni/zkage/normalizer"
	"github.com/vocdoni/zkage/prover"
	"github.com/vocdoni/zkage/types"
	"github.com/vocdoni/zkage/verifier"
)

var testNormalizer = &normalizer.Normalizer{Clock: func() time.Time {
	return time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
}}

// fakeProver returns a fixed proof. If block is set, Execute waits on it.
type fakeProver struct {
	started chan struct{}
	block   chan struct{}
	err     error
}

func (f *fakeProver) Execute(_ context.Context, in types.CircuitInputs) (*backend.Witness, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return &backend.Witness{}, f.err
}

func (f *fakeProver) Prove(_ context.Context, _ *backend.Witness) (*types.Proof, error) {
	return &types.Proof{Data: types.HexBytes{1, 2, 3}}, nil
}

type fakeVerifier struct {
	valid bool
	err   error
	calls int
}

func (f *fakeVerifier) Verify(_ context.Context, _ *types.Proof) (bool, error) {
	f.calls++
	return f.valid, f.err
}

func TestSessionLifecycle(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	b, err := backend.New(backend.Config{})
	c.Assert(err, qt.IsNil)
	s := New(prover.New(b, nil), verifier.New(b), testNormalizer)
	c.Assert(s.Snapshot().State, qt.Equals, StateIdle)
	c.Assert(s.ID(), qt.Not(qt.Equals), "")

	c.Assert(s.Verify(ctx), qt.ErrorIs, ErrNoProof)

	c.Assert(s.Submit(ctx, "2000-01-01", "18"), qt.IsNil)
	snap := s.Snapshot()
	c.Assert(snap.State, qt.Equals, StateGenerated)
	c.Assert(snap.Proof, qt.IsNotNil)
	c.Assert(*snap.PublicInputs, qt.Equals, types.PublicInputs{
		CurrentYear: 2024, CurrentMonth: 6, CurrentDay: 1, MinAge: 18,
	})
	c.Assert(snap.LastError, qt.Equals, (*Error)(nil))

	c.Assert(s.Verify(ctx), qt.IsNil)
	c.Assert(s.Snapshot().State, qt.Equals, StateVerified)
	// verifying again gives the same verdict
	c.Assert(s.Verify(ctx), qt.IsNil)
	c.Assert(s.Snapshot().State, qt.Equals, StateVerified)

	// a failed submission drops the proof and the verdict
	err = s.Submit(ctx, "2010-01-01", "21")
	var sessionErr *Error
	c.Assert(errors.As(err, &sessionErr), qt.IsTrue)
	c.Assert(sessionErr.Kind, qt.Equals, AgeRequirementNotMet)
	snap = s.Snapshot()
	c.Assert(snap.State, qt.Equals, StateError)
	c.Assert(snap.Proof, qt.IsNil)
	c.Assert(snap.PublicInputs, qt.IsNil)
	c.Assert(snap.LastError.Kind, qt.Equals, AgeRequirementNotMet)
	c.Assert(snap.MinAge, qt.Equals, 21)
	c.Assert(s.Verify(ctx), qt.ErrorIs, ErrNoProof)

	// the session is usable after an error
	c.Assert(s.Submit(ctx, "2000-01-01", "18"), qt.IsNil)
	c.Assert(s.Snapshot().State, qt.Equals, StateGenerated)
}

func TestSessionNormalizationErrors(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tests := []struct {
		birth, minAge string
		kind          ErrorKind
	}{
		{"", "18", MissingInput},
		{"2023-02-30", "18", InvalidDate},
		{"2000-1-5", "18", InvalidDate},
		{"2000-01-01", "-3", InvalidMinAge},
	}
	for _, tc := range tests {
		s := New(&fakeProver{}, &fakeVerifier{}, testNormalizer)
		err := s.Submit(ctx, tc.birth, tc.minAge)
		var sessionErr *Error
		c.Assert(errors.As(err, &sessionErr), qt.IsTrue)
		c.Assert(sessionErr.Kind, qt.Equals, tc.kind)
		c.Assert(s.Snapshot().State, qt.Equals, StateError)
		if tc.birth != "" {
			// the error is logged and rendered, it must not carry the birth date
			c.Assert(strings.Contains(err.Error(), tc.birth), qt.IsFalse)
			c.Assert(strings.Contains(s.Snapshot().LastError.Error(), tc.birth), qt.IsFalse)
		}
	}
}

func TestSessionProverErrors(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	tests := []struct {
		err  error
		kind ErrorKind
	}{
		{prover.ErrWitnessGenerationFailed, AgeRequirementNotMet},
		{fmt.Errorf("%w: %w", prover.ErrSetupDownloadFailed, circuits.ErrArtifactDownload), SetupDownloadFailed},
		{prover.ErrProofGenerationFailed, ProofGenerationFailed},
	}
	for _, tc := range tests {
		s := New(&fakeProver{err: tc.err}, &fakeVerifier{}, testNormalizer)
		err := s.Submit(ctx, "2000-01-01", "18")
		c.Assert(err, qt.ErrorIs, tc.err)
		c.Assert(s.Snapshot().LastError.Kind, qt.Equals, tc.kind)
	}
}

func TestSessionVerdicts(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	v := &fakeVerifier{valid: false}
	s := New(&fakeProver{}, v, testNormalizer)
	c.Assert(s.Submit(ctx, "2000-01-01", "18"), qt.IsNil)
	c.Assert(s.Verify(ctx), qt.IsNil)
	c.Assert(s.Snapshot().State, qt.Equals, StateInvalid)

	// a verification fault keeps the proof so it can be retried
	v.err = fmt.Errorf("%w: truncated", verifier.ErrVerification)
	err := s.Verify(ctx)
	var sessionErr *Error
	c.Assert(errors.As(err, &sessionErr), qt.IsTrue)
	c.Assert(sessionErr.Kind, qt.Equals, VerificationError)
	snap := s.Snapshot()
	c.Assert(snap.State, qt.Equals, StateError)
	c.Assert(snap.Proof, qt.IsNotNil)

	v.err, v.valid = nil, true
	c.Assert(s.Verify(ctx), qt.IsNil)
	c.Assert(s.Snapshot().State, qt.Equals, StateVerified)
	c.Assert(v.calls, qt.Equals, 3)

	// a new proof clears the verdict
	c.Assert(s.Submit(ctx, "2000-01-01", "18"), qt.IsNil)
	c.Assert(s.Snapshot().State, qt.Equals, StateGenerated)

	c.Assert(s.Reset(), qt.IsNil)
	snap = s.Snapshot()
	c.Assert(snap.State, qt.Equals, StateIdle)
	c.Assert(snap.Proof, qt.IsNil)
}

func TestSessionBusy(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	p := &fakeProver{started: make(chan struct{}), block: make(chan struct{})}
	s := New(p, &fakeVerifier{valid: true}, testNormalizer)

	done := make(chan error, 1)
	go func() {
		done <- s.Submit(ctx, "2000-01-01", "18")
	}()
	<-p.started
	snap := s.Snapshot()
	c.Assert(snap.State, qt.Equals, StateGenerating)
	c.Assert(snap.InFlight, qt.IsTrue)
	c.Assert(s.Submit(ctx, "2000-01-01", "18"), qt.ErrorIs, ErrBusy)
	c.Assert(s.Verify(ctx), qt.ErrorIs, ErrBusy)
	c.Assert(s.Reset(), qt.ErrorIs, ErrBusy)

	close(p.block)
	c.Assert(<-done, qt.IsNil)
	c.Assert(s.Snapshot().State, qt.Equals, StateGenerated)
}

func TestKindsAndStatesNames(t *testing.T) {
	c := qt.New(t)
	c.Assert(AgeRequirementNotMet.String(), qt.Equals, "AgeRequirementNotMet")
	c.Assert(ErrorKind(99).String(), qt.Equals, "ErrorKind(99)")
	c.Assert(StateVerifying.String(), qt.Equals, "Verifying")
	c.Assert(State(42).String(), qt.Equals, "Unknown")
	e := &Error{Kind: InvalidDate, Err: normalizer.ErrInvalidDate}
	c.Assert(e.Error(), qt.Equals, "InvalidDate: invalid birth date")
}
