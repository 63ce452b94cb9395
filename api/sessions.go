package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vocdoni/zkage/circuits/agecheck"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/metrics"
	"github.com/vocdoni/zkage/presentation"
	"github.com/vocdoni/zkage/session"
	"github.com/vocdoni/zkage/types"
)

// maxBundleSize bounds the body of a bundle verification request.
const maxBundleSize = 64 * 1024

// newSession creates a new proof session
// POST /sessions
func (a *API) newSession(w http.ResponseWriter, r *http.Request) {
	s := session.New(a.prover, a.verifier, a.normalizer)
	a.sessionsMu.Lock()
	if len(a.sessions) >= a.maxSessions {
		a.sessionsMu.Unlock()
		ErrTooManySessions.Write(w)
		return
	}
	a.sessions[s.ID()] = s
	a.sessionsMu.Unlock()
	metrics.Sessions.Inc()
	log.Infow("new session", "sessionId", s.ID())
	httpWriteJSON(w, &NewSession{SessionID: s.ID()})
}

// session returns the view of a session
// GET /sessions/{sessionId}
func (a *API) session(w http.ResponseWriter, r *http.Request) {
	s, apiErr := a.sessionFromRequest(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	httpWriteJSON(w, sessionResponse(s))
}

// deleteSession drops a session
// DELETE /sessions/{sessionId}
func (a *API) deleteSession(w http.ResponseWriter, r *http.Request) {
	s, apiErr := a.sessionFromRequest(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	if s.Snapshot().InFlight {
		ErrSessionBusy.Write(w)
		return
	}
	a.sessionsMu.Lock()
	if _, ok := a.sessions[s.ID()]; ok {
		delete(a.sessions, s.ID())
		metrics.Sessions.Dec()
	}
	a.sessionsMu.Unlock()
	log.Infow("session deleted", "sessionId", s.ID())
	httpWriteOK(w)
}

// generateProof submits the user inputs and generates the proof of the
// session. Input and proving failures are part of the returned view.
// POST /sessions/{sessionId}/proof
func (a *API) generateProof(w http.ResponseWriter, r *http.Request) {
	s, apiErr := a.sessionFromRequest(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	req := &ProofRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := s.Submit(r.Context(), req.BirthDate, string(req.MinAge)); err != nil {
		if errors.Is(err, session.ErrBusy) {
			ErrSessionBusy.Write(w)
			return
		}
		log.Infow("proof generation failed", "sessionId", s.ID(), "error", err.Error())
	}
	httpWriteJSON(w, sessionResponse(s))
}

// verifyProof verifies the proof held by the session
// POST /sessions/{sessionId}/verify
func (a *API) verifyProof(w http.ResponseWriter, r *http.Request) {
	s, apiErr := a.sessionFromRequest(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	if err := s.Verify(r.Context()); err != nil {
		switch {
		case errors.Is(err, session.ErrBusy):
			ErrSessionBusy.Write(w)
			return
		case errors.Is(err, session.ErrNoProof):
			ErrNoProof.Write(w)
			return
		}
		log.Infow("proof verification error", "sessionId", s.ID(), "error", err.Error())
	}
	httpWriteJSON(w, sessionResponse(s))
}

// proofBundle exports the proof of the session as CBOR
// GET /sessions/{sessionId}/bundle
func (a *API) proofBundle(w http.ResponseWriter, r *http.Request) {
	s, apiErr := a.sessionFromRequest(r)
	if apiErr != nil {
		apiErr.Write(w)
		return
	}
	snap := s.Snapshot()
	if snap.Proof == nil {
		ErrNoProof.Write(w)
		return
	}
	bundle := &types.ProofBundle{
		Circuit:   agecheck.CircuitID,
		Version:   agecheck.Version,
		Proof:     *snap.Proof,
		CreatedAt: snap.GeneratedAt,
	}
	data, err := bundle.Marshal()
	if err != nil {
		ErrMarshalingServerCBORFailed.WithErr(err).Write(w)
		return
	}
	httpWriteCBOR(w, data)
}

// verifyBundle verifies a CBOR proof bundle
// POST /bundles/verify
func (a *API) verifyBundle(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBundleSize+1))
	if err != nil {
		ErrMalformedBundle.WithErr(err).Write(w)
		return
	}
	if len(data) > maxBundleSize {
		ErrMalformedBundle.With("bundle too large").Write(w)
		return
	}
	valid, bundle, err := a.verifier.VerifyBundle(r.Context(), data)
	if err != nil {
		ErrMalformedBundle.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &BundleVerification{
		Valid:        valid,
		Circuit:      bundle.Circuit,
		Version:      bundle.Version,
		PublicInputs: bundle.Proof.Public,
	})
}

func (a *API) sessionFromRequest(r *http.Request) (*session.Session, *Error) {
	id := chi.URLParam(r, SessionURLParam)
	if _, err := uuid.Parse(id); err != nil {
		e := ErrMalformedSessionID.WithErr(err)
		return nil, &e
	}
	a.sessionsMu.RLock()
	s, ok := a.sessions[id]
	a.sessionsMu.RUnlock()
	if !ok {
		e := ErrSessionNotFound.With(id)
		return nil, &e
	}
	return s, nil
}

func sessionResponse(s *session.Session) *SessionResponse {
	return &SessionResponse{
		SessionID: s.ID(),
		ViewModel: presentation.Render(s.Snapshot()),
	}
}

// PruneSessions drops the sessions not updated for longer than maxIdle,
// skipping those with an operation in flight. It returns the number of
// sessions removed.
func (a *API) PruneSessions(maxIdle time.Duration) int {
	deadline := time.Now().Add(-maxIdle)
	a.sessionsMu.Lock()
	defer a.sessionsMu.Unlock()
	removed := 0
	for id, s := range a.sessions {
		snap := s.Snapshot()
		if snap.InFlight || snap.UpdatedAt.After(deadline) {
			continue
		}
		delete(a.sessions, id)
		removed++
	}
	metrics.Sessions.Sub(float64(removed))
	return removed
}

// SessionCount returns the number of open sessions.
func (a *API) SessionCount() int {
	a.sessionsMu.RLock()
	defer a.sessionsMu.RUnlock()
	return len(a.sessions)
}
