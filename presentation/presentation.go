// Package presentation renders a session snapshot into the data a user
// interface displays. Render is pure: the same snapshot always produces the
// same view.
package presentation

import (
	"fmt"

	"github.com/vocdoni/zkage/session"
	"github.com/vocdoni/zkage/types"
)

const (
	LoadingGenerating = "Generating zero-knowledge proof... This may take a moment."
	LoadingVerifying  = "Verifying proof..."

	TitleSuccess = "Verification Successful"
	TitleFailure = "Verification Failed"

	msgMissingInput      = "Please enter your birth date."
	msgInvalidDate       = "Please enter a valid birth date (YYYY-MM-DD)."
	msgInvalidMinAge     = "Please enter a valid minimum age."
	msgSetupDownload     = "Network error: Unable to download cryptographic setup data. Please check your internet connection and try again."
	msgProofGeneration   = "Failed to generate proof. Please check your inputs and try again."
	msgVerified          = "Proof verified successfully! The proof is valid and confirms the age requirement."
	msgInvalid           = "Proof verification failed! The proof is invalid."
	msgVerificationError = "Verification error: "
)

// ViewModel is everything the interface needs to display a session. Nil
// panels are hidden.
type ViewModel struct {
	State           string             `json:"state"`
	GenerateEnabled bool               `json:"generateEnabled"`
	VerifyEnabled   bool               `json:"verifyEnabled"`
	Loading         bool               `json:"loading"`
	LoadingText     string             `json:"loadingText,omitempty"`
	Result          *ResultPanel       `json:"result,omitempty"`
	ProofDetails    *ProofDetailsPanel `json:"proofDetails,omitempty"`
	Verdict         *VerdictPanel      `json:"verdict,omitempty"`
}

// ResultPanel is the outcome of the last proof generation.
type ResultPanel struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Message string `json:"message"`
	// Kind is the error kind, empty on success.
	Kind string `json:"kind,omitempty"`
}

// ProofDetailsPanel shows the proof and the public inputs bound to it.
type ProofDetailsPanel struct {
	PublicInputs types.PublicInputs `json:"publicInputs"`
	Proof        string             `json:"proof"`
	Size         int                `json:"size"`
}

// VerdictPanel is the outcome of the last verification.
type VerdictPanel struct {
	Valid   bool   `json:"valid"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Render maps a session snapshot to its view.
func Render(snap session.Snapshot) ViewModel {
	vm := ViewModel{
		State:           snap.State.String(),
		GenerateEnabled: !snap.InFlight,
		VerifyEnabled:   snap.Proof != nil && !snap.InFlight,
	}
	switch snap.State {
	case session.StateNormalizing, session.StateGenerating:
		vm.Loading, vm.LoadingText = true, LoadingGenerating
	case session.StateVerifying:
		vm.Loading, vm.LoadingText = true, LoadingVerifying
	}

	// proof and public inputs are only shown together
	if snap.Proof != nil && snap.PublicInputs != nil {
		vm.ProofDetails = &ProofDetailsPanel{
			PublicInputs: *snap.PublicInputs,
			Proof:        snap.Proof.Data.String(),
			Size:         len(snap.Proof.Data),
		}
		vm.Result = &ResultPanel{
			Success: true,
			Title:   TitleSuccess,
			Message: fmt.Sprintf("Proof generated successfully! You have proven that you are at least %d years old.",
				snap.PublicInputs.MinAge),
		}
	}

	switch snap.State {
	case session.StateVerified:
		vm.Verdict = &VerdictPanel{Valid: true, Message: msgVerified}
	case session.StateInvalid:
		vm.Verdict = &VerdictPanel{Valid: false, Message: msgInvalid}
	case session.StateError:
		if snap.LastError == nil {
			break
		}
		if snap.LastError.Kind == session.VerificationError {
			vm.Verdict = &VerdictPanel{Error: true, Message: msgVerificationError + verificationCause(snap.LastError)}
			break
		}
		vm.Result = &ResultPanel{
			Title:   TitleFailure,
			Kind:    snap.LastError.Kind.String(),
			Message: errorMessage(snap.LastError.Kind, snap.MinAge),
		}
	}
	return vm
}

func errorMessage(kind session.ErrorKind, minAge int) string {
	switch kind {
	case session.MissingInput:
		return msgMissingInput
	case session.InvalidDate:
		return msgInvalidDate
	case session.InvalidMinAge:
		return msgInvalidMinAge
	case session.AgeRequirementNotMet:
		return fmt.Sprintf("Age verification failed. You must be at least %d years old.", minAge)
	case session.SetupDownloadFailed:
		return msgSetupDownload
	default:
		return msgProofGeneration
	}
}

// verificationCause returns the backend message of a verification error.
func verificationCause(e *session.Error) string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}
