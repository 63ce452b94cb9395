package session

import (
	"errors"
	"fmt"

	"github.com/vocdoni/zkage/normalizer"
	"github.com/vocdoni/zkage/prover"
	"github.com/vocdoni/zkage/verifier"
)

var (
	// ErrBusy is returned when an operation is requested while a proof
	// generation or verification is in flight.
	ErrBusy = errors.New("session busy")
	// ErrNoProof is returned by Verify when the session holds no proof.
	ErrNoProof = errors.New("no proof to verify")
)

// ErrorKind is the user-facing classification of a session failure.
type ErrorKind int

const (
	MissingInput ErrorKind = iota + 1
	InvalidDate
	InvalidMinAge
	AgeRequirementNotMet
	ProofGenerationFailed
	SetupDownloadFailed
	VerificationError
)

var errorKindNames = map[ErrorKind]string{
	MissingInput:          "MissingInput",
	InvalidDate:           "InvalidDate",
	InvalidMinAge:         "InvalidMinAge",
	AgeRequirementNotMet:  "AgeRequirementNotMet",
	ProofGenerationFailed: "ProofGenerationFailed",
	SetupDownloadFailed:   "SetupDownloadFailed",
	VerificationError:     "VerificationError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is a classified session failure. Err is the underlying cause.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps a normalizer, prover or verifier error to its kind.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, normalizer.ErrMissingInput):
		return MissingInput
	case errors.Is(err, normalizer.ErrInvalidDate):
		return InvalidDate
	case errors.Is(err, normalizer.ErrInvalidMinAge):
		return InvalidMinAge
	case errors.Is(err, prover.ErrSetupDownloadFailed):
		return SetupDownloadFailed
	case errors.Is(err, prover.ErrWitnessGenerationFailed):
		return AgeRequirementNotMet
	case errors.Is(err, verifier.ErrVerification):
		return VerificationError
	default:
		return ProofGenerationFailed
	}
}
