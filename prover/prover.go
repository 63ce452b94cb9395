// Package prover turns circuit inputs into zero-knowledge proofs. It checks
// the inputs against the circuit schema, executes the witness and proves it,
// mapping every backend failure to one of a closed set of errors.
package prover

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vocdoni/zkage/backend"
	"github.com/vocdoni/zkage/circuits"
	"github.com/vocdoni/zkage/circuits/agecheck"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/metrics"
	"github.com/vocdoni/zkage/types"
)

var (
	// ErrWitnessGenerationFailed means the inputs can not produce a witness,
	// usually because the age requirement is not met.
	ErrWitnessGenerationFailed = errors.New("witness generation failed")
	// ErrProofGenerationFailed is any proving failure other than fetching
	// the setup data.
	ErrProofGenerationFailed = errors.New("proof generation failed")
	// ErrSetupDownloadFailed means the setup data could not be fetched.
	ErrSetupDownloadFailed = errors.New("setup data download failed")
	// ErrSchemaMismatch is wrapped by ErrWitnessGenerationFailed when the
	// inputs do not match the fields declared by the circuit.
	ErrSchemaMismatch = agecheck.ErrSchemaMismatch
)

// networkMarkers are substrings of backend error messages that denote a
// failure to reach the setup data host, used when the error does not carry
// circuits.ErrArtifactDownload.
var networkMarkers = []string{
	"failed to fetch",
	"network",
	"dial tcp",
	"no such host",
	"connection refused",
	"connection reset",
	"i/o timeout",
	"tls:",
}

// Service generates proofs for a circuit.
type Service struct {
	backend backend.Backend
	schema  *agecheck.Schema
}

// New returns a proving service over the backend provided. If schema is nil
// the age circuit schema is used.
func New(b backend.Backend, schema *agecheck.Schema) *Service {
	if schema == nil {
		schema = agecheck.DefaultSchema
	}
	return &Service{backend: b, schema: schema}
}

// Execute computes the witness for the inputs.
func (s *Service) Execute(ctx context.Context, inputs types.CircuitInputs) (*backend.Witness, error) {
	if err := s.schema.Match(inputs.Fields()); err != nil {
		metrics.Witnesses.WithLabelValues(metrics.ResultFailed).Inc()
		return nil, fmt.Errorf("%w: %w", ErrWitnessGenerationFailed, err)
	}
	log.Debugw("executing witness", "private", inputs.Private.String(), "public", inputs.Public.Date(), "minAge", inputs.Public.MinAge)
	w, err := s.backend.ExecuteWitness(ctx, inputs)
	if err != nil {
		if isSetupDownloadError(err) {
			metrics.Witnesses.WithLabelValues(metrics.ResultSetupDownload).Inc()
			return nil, fmt.Errorf("%w: %w", ErrSetupDownloadFailed, err)
		}
		if errors.Is(err, backend.ErrUnsatisfied) {
			metrics.Witnesses.WithLabelValues(metrics.ResultUnsatisfied).Inc()
		} else {
			metrics.Witnesses.WithLabelValues(metrics.ResultFailed).Inc()
		}
		return nil, fmt.Errorf("%w: %w", ErrWitnessGenerationFailed, err)
	}
	metrics.Witnesses.WithLabelValues(metrics.ResultOK).Inc()
	return w, nil
}

// Prove generates the proof of the witness. The setup data is fetched by
// the backend on the first call and reused afterwards.
func (s *Service) Prove(ctx context.Context, w *backend.Witness) (*types.Proof, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: %w", ErrProofGenerationFailed, backend.ErrNoWitness)
	}
	startTime := time.Now()
	data, err := s.backend.GenerateProof(ctx, w)
	if err != nil {
		if isSetupDownloadError(err) {
			metrics.ObserveProof(startTime, metrics.ResultSetupDownload)
			return nil, fmt.Errorf("%w: %w", ErrSetupDownloadFailed, err)
		}
		metrics.ObserveProof(startTime, metrics.ResultFailed)
		return nil, fmt.Errorf("%w: %w", ErrProofGenerationFailed, err)
	}
	metrics.ObserveProof(startTime, metrics.ResultOK)
	log.Infow("proof generated", "bytes", len(data), "took", time.Since(startTime).String())
	return &types.Proof{
		Data:   data,
		Public: w.PublicInputs(),
	}, nil
}

// Generate runs Execute and Prove.
func (s *Service) Generate(ctx context.Context, inputs types.CircuitInputs) (*types.Proof, error) {
	w, err := s.Execute(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return s.Prove(ctx, w)
}

func isSetupDownloadError(err error) bool {
	if errors.Is(err, circuits.ErrArtifactDownload) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range networkMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
