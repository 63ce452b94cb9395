package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vocdoni/zkage/presentation"
	"github.com/vocdoni/zkage/types"
)

// NewSession is the response to a new session request.
type NewSession struct {
	SessionID string `json:"sessionId"`
}

// ProofRequest carries the raw values typed by the user. They are validated
// by the session, not by the API.
type ProofRequest struct {
	BirthDate string   `json:"birthDate"`
	MinAge    RawValue `json:"minAge"`
}

// RawValue accepts a json string or number and keeps its textual form.
type RawValue string

func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*v = RawValue(n.String())
	return nil
}

// SessionResponse is the view of a session.
type SessionResponse struct {
	SessionID string `json:"sessionId"`
	presentation.ViewModel
}

// BundleVerification is the response to a bundle verification request.
type BundleVerification struct {
	Valid        bool               `json:"valid"`
	Circuit      string             `json:"circuit"`
	Version      string             `json:"version"`
	PublicInputs types.PublicInputs `json:"publicInputs"`
}
