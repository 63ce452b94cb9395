package presentation

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkage/session"
	"github.com/vocdoni/zkage/types"
)

var (
	testPublic = types.PublicInputs{CurrentYear: 2024, CurrentMonth: 6, CurrentDay: 1, MinAge: 18}
	testProof  = &types.Proof{Data: types.HexBytes{0xde, 0xad}, Public: testPublic}
)

func TestRenderGenerating(t *testing.T) {
	c := qt.New(t)
	vm := Render(session.Snapshot{State: session.StateGenerating, InFlight: true, MinAge: 18})
	c.Assert(vm.GenerateEnabled, qt.IsFalse)
	c.Assert(vm.VerifyEnabled, qt.IsFalse)
	c.Assert(vm.Loading, qt.IsTrue)
	c.Assert(vm.LoadingText, qt.Equals, LoadingGenerating)
	c.Assert(vm.Result, qt.IsNil)
	c.Assert(vm.ProofDetails, qt.IsNil)
	c.Assert(vm.Verdict, qt.IsNil)
}

func TestRenderVerifying(t *testing.T) {
	c := qt.New(t)
	public := testPublic
	vm := Render(session.Snapshot{State: session.StateVerifying, InFlight: true, Proof: testProof, PublicInputs: &public, MinAge: 18})
	// a new submission would be refused as busy
	c.Assert(vm.GenerateEnabled, qt.IsFalse)
	c.Assert(vm.VerifyEnabled, qt.IsFalse)
	c.Assert(vm.Loading, qt.IsTrue)
	c.Assert(vm.LoadingText, qt.Equals, LoadingVerifying)
	c.Assert(vm.ProofDetails, qt.IsNotNil)
	c.Assert(vm.Verdict, qt.IsNil)
}

func TestRenderGenerated(t *testing.T) {
	c := qt.New(t)
	public := testPublic
	vm := Render(session.Snapshot{State: session.StateGenerated, Proof: testProof, PublicInputs: &public, MinAge: 18})
	c.Assert(vm.GenerateEnabled, qt.IsTrue)
	c.Assert(vm.VerifyEnabled, qt.IsTrue)
	c.Assert(vm.Loading, qt.IsFalse)
	c.Assert(vm.Result.Success, qt.IsTrue)
	c.Assert(vm.Result.Message, qt.Equals,
		"Proof generated successfully! You have proven that you are at least 18 years old.")
	c.Assert(vm.ProofDetails.Proof, qt.Equals, "0xdead")
	c.Assert(vm.ProofDetails.PublicInputs, qt.Equals, testPublic)
	c.Assert(vm.Verdict, qt.IsNil)

	// a proof without public inputs is never shown
	vm = Render(session.Snapshot{State: session.StateGenerated, Proof: testProof})
	c.Assert(vm.ProofDetails, qt.IsNil)
}

func TestRenderVerdicts(t *testing.T) {
	c := qt.New(t)
	public := testPublic

	vm := Render(session.Snapshot{State: session.StateVerifying, Proof: testProof, PublicInputs: &public, InFlight: true})
	c.Assert(vm.LoadingText, qt.Equals, LoadingVerifying)
	c.Assert(vm.VerifyEnabled, qt.IsFalse)
	c.Assert(vm.Verdict, qt.IsNil)

	vm = Render(session.Snapshot{State: session.StateVerified, Proof: testProof, PublicInputs: &public})
	c.Assert(vm.Verdict, qt.DeepEquals, &VerdictPanel{Valid: true, Message: msgVerified})
	c.Assert(vm.VerifyEnabled, qt.IsTrue)

	vm = Render(session.Snapshot{State: session.StateInvalid, Proof: testProof, PublicInputs: &public})
	c.Assert(vm.Verdict, qt.DeepEquals, &VerdictPanel{Valid: false, Message: msgInvalid})

	vm = Render(session.Snapshot{
		State:        session.StateError,
		Proof:        testProof,
		PublicInputs: &public,
		LastError:    &session.Error{Kind: session.VerificationError, Err: errors.New("malformed proof: unexpected EOF")},
	})
	c.Assert(vm.Verdict.Error, qt.IsTrue)
	c.Assert(vm.Verdict.Message, qt.Equals, "Verification error: malformed proof: unexpected EOF")
	// the proof is still displayed and can be verified again
	c.Assert(vm.ProofDetails, qt.IsNotNil)
	c.Assert(vm.VerifyEnabled, qt.IsTrue)
	c.Assert(vm.Result.Success, qt.IsTrue)
}

func TestRenderErrors(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		kind session.ErrorKind
		msg  string
	}{
		{session.MissingInput, msgMissingInput},
		{session.InvalidDate, msgInvalidDate},
		{session.InvalidMinAge, msgInvalidMinAge},
		{session.AgeRequirementNotMet, "Age verification failed. You must be at least 21 years old."},
		{session.SetupDownloadFailed, msgSetupDownload},
		{session.ProofGenerationFailed, msgProofGeneration},
	}
	for _, tc := range tests {
		vm := Render(session.Snapshot{
			State:     session.StateError,
			MinAge:    21,
			LastError: &session.Error{Kind: tc.kind, Err: errors.New("backend detail")},
		})
		c.Assert(vm.Result.Success, qt.IsFalse)
		c.Assert(vm.Result.Title, qt.Equals, TitleFailure)
		c.Assert(vm.Result.Message, qt.Equals, tc.msg)
		c.Assert(vm.Result.Kind, qt.Equals, tc.kind.String())
		c.Assert(vm.ProofDetails, qt.IsNil)
		c.Assert(vm.VerifyEnabled, qt.IsFalse)
		c.Assert(vm.GenerateEnabled, qt.IsTrue)
	}
}
