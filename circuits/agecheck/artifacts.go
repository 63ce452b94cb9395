package agecheck

import (
	"fmt"
	"net/url"

	"github.com/vocdoni/zkage/circuits"
	"github.com/vocdoni/zkage/config"
)

// ArtifactHashes are the hex encoded sha256 hashes of the setup files, as
// printed by cmd/zkage-setup. An empty hash means the file is not used.
type ArtifactHashes struct {
	Circuit         string
	ProvingKey      string
	VerificationKey string
}

// Artifacts returns the setup files of the age circuit published under
// baseURL with the names written by cmd/zkage-setup.
func Artifacts(baseURL string, hashes ArtifactHashes) (*circuits.CircuitArtifacts, error) {
	if baseURL == "" {
		baseURL = config.AgeCheckArtifactsBaseURL
	}
	ccs, err := artifact(baseURL, config.AgeCheckCircuitFile, hashes.Circuit)
	if err != nil {
		return nil, fmt.Errorf("circuit definition: %w", err)
	}
	pk, err := artifact(baseURL, config.AgeCheckProvingKeyFile, hashes.ProvingKey)
	if err != nil {
		return nil, fmt.Errorf("proving key: %w", err)
	}
	vk, err := artifact(baseURL, config.AgeCheckVerificationKeyFile, hashes.VerificationKey)
	if err != nil {
		return nil, fmt.Errorf("verification key: %w", err)
	}
	return circuits.NewCircuitArtifacts(ccs, pk, vk), nil
}

func artifact(baseURL, file, hash string) (*circuits.Artifact, error) {
	if hash == "" {
		return nil, nil
	}
	remoteURL, err := url.JoinPath(baseURL, file)
	if err != nil {
		return nil, err
	}
	return circuits.NewArtifact(remoteURL, hash)
}
