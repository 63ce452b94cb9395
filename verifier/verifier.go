// Package verifier checks zero-knowledge proofs of the age circuit.
package verifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/vocdoni/zkage/backend"
	"github.com/vocdoni/zkage/circuits/agecheck"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/metrics"
	"github.com/vocdoni/zkage/types"
)

// ErrVerification wraps every fault that prevents a verdict: malformed
// proofs, unavailable verification key or an unreadable bundle. The wrapped
// message is meant to reach the user.
var ErrVerification = errors.New("verification error")

// Service verifies proofs.
type Service struct {
	backend backend.Backend
}

// New returns a verification service over the backend provided.
func New(b backend.Backend) *Service {
	return &Service{backend: b}
}

// Verify returns whether the proof is valid for its public inputs. An
// invalid proof is not an error.
func (s *Service) Verify(ctx context.Context, proof *types.Proof) (bool, error) {
	if proof == nil || len(proof.Data) == 0 {
		return false, fmt.Errorf("%w: empty proof", ErrVerification)
	}
	valid, err := s.backend.VerifyProof(ctx, proof.Data, proof.Public)
	metrics.Verifications.WithLabelValues(metrics.VerificationResult(valid, err)).Inc()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	log.Debugw("proof verified", "valid", valid, "date", proof.Public.Date(), "minAge", proof.Public.MinAge)
	return valid, nil
}

// VerifyBundle decodes a CBOR encoded proof bundle and verifies it. The
// bundle must belong to the current version of the age circuit.
func (s *Service) VerifyBundle(ctx context.Context, data []byte) (bool, *types.ProofBundle, error) {
	bundle := &types.ProofBundle{}
	if err := bundle.Unmarshal(data); err != nil {
		return false, nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	if bundle.Circuit != agecheck.CircuitID || bundle.Version != agecheck.Version {
		return false, bundle, fmt.Errorf("%w: unsupported circuit %s version %s",
			ErrVerification, bundle.Circuit, bundle.Version)
	}
	valid, err := s.Verify(ctx, &bundle.Proof)
	return valid, bundle, err
}
