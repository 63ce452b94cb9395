package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vocdoni/zkage/api"
)

// NewSession opens a proof session and returns its id.
func (c *HTTPclient) NewSession() (string, error) {
	data, err := c.expectOK(c.Request(HTTPPOST, nil, nil, api.SessionsEndpoint))
	if err != nil {
		return "", err
	}
	resp := &api.NewSession{}
	if err := json.Unmarshal(data, resp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	return resp.SessionID, nil
}

// Session returns the view of a session.
func (c *HTTPclient) Session(id string) (*api.SessionResponse, error) {
	return c.sessionRequest(HTTPGET, nil, api.SessionEndpoint, id)
}

// GenerateProof submits the birth date (YYYY-MM-DD) and minimum age of the
// session and waits for the proof.
func (c *HTTPclient) GenerateProof(id, birthDate, minAge string) (*api.SessionResponse, error) {
	req := &api.ProofRequest{BirthDate: birthDate, MinAge: api.RawValue(minAge)}
	return c.sessionRequest(HTTPPOST, req, api.SessionProofEndpoint, id)
}

// VerifyProof verifies the proof held by the session.
func (c *HTTPclient) VerifyProof(id string) (*api.SessionResponse, error) {
	return c.sessionRequest(HTTPPOST, nil, api.SessionVerifyEndpoint, id)
}

// DeleteSession drops the session.
func (c *HTTPclient) DeleteSession(id string) error {
	_, err := c.expectOK(c.Request(HTTPDELETE, nil, nil,
		api.EndpointWithParam(api.SessionEndpoint, api.SessionURLParam, id)))
	return err
}

// ProofBundle returns the CBOR encoded bundle of the session proof.
func (c *HTTPclient) ProofBundle(id string) ([]byte, error) {
	return c.expectOK(c.Request(HTTPGET, nil, nil,
		api.EndpointWithParam(api.SessionBundleEndpoint, api.SessionURLParam, id)))
}

// VerifyBundle sends a CBOR encoded bundle to be verified.
func (c *HTTPclient) VerifyBundle(bundle []byte) (*api.BundleVerification, error) {
	data, err := c.expectOK(c.RequestRaw(HTTPPOST, "application/cbor", bundle, nil, api.BundlesVerifyEndpoint))
	if err != nil {
		return nil, err
	}
	resp := &api.BundleVerification{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	return resp, nil
}

func (c *HTTPclient) sessionRequest(method string, body any, endpoint, id string) (*api.SessionResponse, error) {
	data, err := c.expectOK(c.Request(method, body, nil,
		api.EndpointWithParam(endpoint, api.SessionURLParam, id)))
	if err != nil {
		return nil, err
	}
	resp := &api.SessionResponse{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	return resp, nil
}

// APIError is returned when the server answers with an error.
type APIError struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d (code %d: %s)", errCodeNot200, e.Status, e.Code, e.Message)
}

func (c *HTTPclient) expectOK(data []byte, status int, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		apiErr := &APIError{Status: status}
		if jerr := json.Unmarshal(data, apiErr); jerr != nil {
			apiErr.Message = string(data)
		}
		return nil, apiErr
	}
	return data, nil
}
