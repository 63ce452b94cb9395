// Package session drives the lifecycle of a proof for one user interaction:
// inputs are normalized, a proof is generated and it can later be verified.
// A session runs at most one operation at a time.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vocdoni/zkage/backend"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/types"
)

// State of a session.
type State int

const (
	StateIdle State = iota
	StateNormalizing
	StateGenerating
	StateGenerated
	StateVerifying
	StateVerified
	StateInvalid
	StateError
)

var stateNames = [...]string{"Idle", "Normalizing", "Generating", "Generated", "Verifying", "Verified", "Invalid", "Error"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// InFlight reports whether a backend operation is running.
func (s State) InFlight() bool {
	return s == StateNormalizing || s == StateGenerating || s == StateVerifying
}

// Normalizer builds circuit inputs from raw user values.
type Normalizer interface {
	Normalize(rawBirthDate, rawMinAge string) (types.CircuitInputs, error)
}

// Prover generates proofs.
type Prover interface {
	Execute(ctx context.Context, inputs types.CircuitInputs) (*backend.Witness, error)
	Prove(ctx context.Context, w *backend.Witness) (*types.Proof, error)
}

// Verifier checks proofs.
type Verifier interface {
	Verify(ctx context.Context, proof *types.Proof) (bool, error)
}

// Snapshot is a copy of the session state, safe to use after the session
// changes.
type Snapshot struct {
	ID           string
	State        State
	Proof        *types.Proof
	PublicInputs *types.PublicInputs
	LastError    *Error
	// MinAge is the minimum age of the last accepted submission.
	MinAge   int
	InFlight bool
	// GeneratedAt is the time the proof was generated, zero without proof.
	GeneratedAt time.Time
	UpdatedAt   time.Time
}

// Session holds a proof and its verdict. It is safe for concurrent use.
type Session struct {
	id         string
	prover     Prover
	verifier   Verifier
	normalizer Normalizer

	mu          sync.Mutex
	state       State
	proof       *types.Proof
	lastError   *Error
	minAge      int
	generatedAt time.Time
	updatedAt   time.Time
}

// New returns an idle session with a random id.
func New(p Prover, v Verifier, n Normalizer) *Session {
	return &Session{
		id:         uuid.New().String(),
		prover:     p,
		verifier:   v,
		normalizer: n,
		state:      StateIdle,
		updatedAt:  time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Submit normalizes the raw inputs and generates a proof. Any previous
// proof and verdict are discarded. Failures are returned as *Error and
// leave the session in the Error state without proof.
func (s *Session) Submit(ctx context.Context, rawBirthDate, rawMinAge string) error {
	s.mu.Lock()
	if s.state.InFlight() {
		s.mu.Unlock()
		return ErrBusy
	}
	s.proof = nil
	s.lastError = nil
	s.setState(StateNormalizing)
	inputs, err := s.normalizer.Normalize(rawBirthDate, rawMinAge)
	if err != nil {
		defer s.mu.Unlock()
		return s.fail(err)
	}
	s.minAge = inputs.Public.MinAge
	s.setState(StateGenerating)
	s.mu.Unlock()

	proof, err := s.generate(ctx, inputs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.fail(err)
	}
	s.proof = proof
	s.generatedAt = time.Now()
	s.setState(StateGenerated)
	return nil
}

func (s *Session) generate(ctx context.Context, inputs types.CircuitInputs) (*types.Proof, error) {
	w, err := s.prover.Execute(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return s.prover.Prove(ctx, w)
}

// Verify checks the proof held by the session. The proof is kept whatever
// the result, so it can be verified again.
func (s *Session) Verify(ctx context.Context) error {
	s.mu.Lock()
	if s.state.InFlight() {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.proof == nil {
		s.mu.Unlock()
		return ErrNoProof
	}
	proof := s.proof
	s.lastError = nil
	s.setState(StateVerifying)
	s.mu.Unlock()

	valid, err := s.verifier.Verify(ctx, proof)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.fail(err)
	}
	if valid {
		s.setState(StateVerified)
	} else {
		s.setState(StateInvalid)
	}
	return nil
}

// Reset drops the proof, verdict and error and returns to Idle.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.InFlight() {
		return ErrBusy
	}
	s.proof = nil
	s.lastError = nil
	s.minAge = 0
	s.generatedAt = time.Time{}
	s.setState(StateIdle)
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:        s.id,
		State:     s.state,
		MinAge:    s.minAge,
		InFlight:  s.state.InFlight(),
		UpdatedAt: s.updatedAt,
	}
	if s.proof != nil {
		snap.Proof = s.proof.Clone()
		snap.GeneratedAt = s.generatedAt
		public := s.proof.Public
		snap.PublicInputs = &public
	}
	if s.lastError != nil {
		e := *s.lastError
		snap.LastError = &e
	}
	return snap
}

// fail records the error and moves to the Error state. Only a verification
// error keeps the proof. Must be called with the lock held.
func (s *Session) fail(err error) *Error {
	sessionErr := &Error{Kind: classify(err), Err: err}
	if sessionErr.Kind != VerificationError {
		s.proof = nil
	}
	s.lastError = sessionErr
	s.setState(StateError)
	log.Debugw("session failed", "session", s.id, "kind", sessionErr.Kind.String(), "error", err.Error())
	return sessionErr
}

// setState must be called with the lock held.
func (s *Session) setState(state State) {
	log.Debugw("session state", "session", s.id, "from", s.state.String(), "to", state.String())
	s.state = state
	s.updatedAt = time.Now()
}
