package api

import "strings"

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// CircuitEndpoint returns the schema of the age circuit
	CircuitEndpoint = "/circuit"
	// SessionsEndpoint is the endpoint for creating a new proof session
	SessionsEndpoint = "/sessions"
	// SessionEndpoint returns (GET) or deletes (DELETE) a session
	SessionURLParam = "sessionId"
	SessionEndpoint = SessionsEndpoint + "/{" + SessionURLParam + "}"
	// SessionProofEndpoint submits the birth date and minimum age of a
	// session and generates its proof
	SessionProofEndpoint = SessionEndpoint + "/proof"
	// SessionVerifyEndpoint verifies the proof held by a session
	SessionVerifyEndpoint = SessionEndpoint + "/verify"
	// SessionBundleEndpoint exports the proof of a session as a CBOR bundle
	SessionBundleEndpoint = SessionEndpoint + "/bundle"
	// BundlesVerifyEndpoint verifies a CBOR bundle sent in the request body
	BundlesVerifyEndpoint = "/bundles/verify"
	// MetricsEndpoint serves the prometheus metrics
	MetricsEndpoint = "/metrics"
)

// EndpointWithParam replaces the url parameter key of the path with value.
func EndpointWithParam(path, key, value string) string {
	return strings.Replace(path, "{"+key+"}", value, 1)
}
