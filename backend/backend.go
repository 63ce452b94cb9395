// Package backend is the boundary between the proof orchestration and the
// zero-knowledge proving system. The Groth16 implementation uses gnark over
// the BN254 curve.
package backend

import (
	"context"
	"errors"

	"github.com/consensys/gnark/backend/witness"
	"github.com/vocdoni/zkage/types"
)

var (
	// ErrUnsatisfied is returned by ExecuteWitness when the inputs do not
	// satisfy the circuit constraints.
	ErrUnsatisfied = errors.New("circuit constraints not satisfied")
	// ErrMalformedProof is returned by VerifyProof when the proof bytes can
	// not be decoded because they are truncated or have trailing data.
	ErrMalformedProof = errors.New("malformed proof")
	// ErrNoWitness is returned when a proof is requested without witness.
	ErrNoWitness = errors.New("no witness provided")
)

// Backend executes the circuit and produces and checks proofs.
type Backend interface {
	// ExecuteWitness computes the witness of the circuit for the inputs.
	// It fails with ErrUnsatisfied if any constraint does not hold.
	ExecuteWitness(ctx context.Context, inputs types.CircuitInputs) (*Witness, error)
	// GenerateProof returns the serialized proof for the witness.
	GenerateProof(ctx context.Context, w *Witness) ([]byte, error)
	// VerifyProof checks a serialized proof against the public inputs. A
	// well formed but invalid proof returns false and no error.
	VerifyProof(ctx context.Context, proof []byte, public types.PublicInputs) (bool, error)
}

// Witness is the solved assignment of the circuit. It holds the private
// inputs and must not outlive the proof generation it was created for.
type Witness struct {
	full   witness.Witness
	public types.PublicInputs
}

// PublicInputs returns the public part of the witness inputs.
func (w *Witness) PublicInputs() types.PublicInputs {
	return w.public
}
