package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/vocdoni/zkage/circuits"
	"github.com/vocdoni/zkage/circuits/agecheck"
	"github.com/vocdoni/zkage/log"
	"github.com/vocdoni/zkage/types"
)

// Config of the Groth16 backend. The circuit definition is compiled in
// process unless an artifact is provided. Without proving and verification
// key artifacts an insecure in-process setup is run, only suitable for
// development and tests.
type Config struct {
	Artifacts *circuits.CircuitArtifacts
}

// Groth16 implements Backend for the age circuit. The setup data is decoded
// once, on first use, and shared by all callers.
type Groth16 struct {
	ccsArtifact *circuits.Artifact
	pkArtifact  *circuits.Artifact
	vkArtifact  *circuits.Artifact

	ccsMu sync.Mutex
	ccs   constraint.ConstraintSystem
	pkMu  sync.Mutex
	pk    groth16.ProvingKey
	vkMu  sync.Mutex
	vk    groth16.VerifyingKey
}

var _ Backend = (*Groth16)(nil)

// New initializes the backend.
func New(conf Config) (*Groth16, error) {
	if log.Level() == log.LogLevelDebug {
		gnarklogger.Set(log.Logger().With().Str("lib", "gnark").Logger())
	} else {
		gnarklogger.Disable()
	}
	g := &Groth16{}
	if conf.Artifacts != nil {
		g.ccsArtifact = conf.Artifacts.CircuitDefinition()
		g.pkArtifact = conf.Artifacts.ProvingKey()
		g.vkArtifact = conf.Artifacts.VerifyingKey()
	}
	if (g.pkArtifact == nil) != (g.vkArtifact == nil) {
		return nil, fmt.Errorf("proving and verification key artifacts must be provided together")
	}
	if g.ccsArtifact == nil {
		ccs, err := agecheck.Compile()
		if err != nil {
			return nil, err
		}
		g.ccs = ccs
	}
	if g.pkArtifact == nil {
		log.Warnw("no setup artifacts provided, running insecure in-process setup")
		ccs, err := g.constraintSystem(context.Background())
		if err != nil {
			return nil, err
		}
		startTime := time.Now()
		pk, vk, err := groth16.Setup(ccs)
		if err != nil {
			return nil, fmt.Errorf("failed to run groth16 setup: %w", err)
		}
		g.pk, g.vk = pk, vk
		log.Debugw("groth16 setup done", "constraints", ccs.GetNbConstraints(), "took", time.Since(startTime).String())
	}
	return g, nil
}

// ExecuteWitness solves the circuit with the inputs provided.
func (g *Groth16) ExecuteWitness(ctx context.Context, inputs types.CircuitInputs) (*Witness, error) {
	ccs, err := g.constraintSystem(ctx)
	if err != nil {
		return nil, err
	}
	full, err := frontend.NewWitness(agecheck.Assignment(inputs), circuits.AgeCheckCurve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to create witness: %w", err)
	}
	if err := ccs.IsSolved(full); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsatisfied, err)
	}
	return &Witness{full: full, public: inputs.Public}, nil
}

// GenerateProof proves the witness and returns the compressed proof bytes.
func (g *Groth16) GenerateProof(ctx context.Context, w *Witness) ([]byte, error) {
	if w == nil || w.full == nil {
		return nil, ErrNoWitness
	}
	ccs, err := g.constraintSystem(ctx)
	if err != nil {
		return nil, err
	}
	pk, err := g.provingKey(ctx)
	if err != nil {
		return nil, err
	}
	startTime := time.Now()
	proof, err := groth16.Prove(ccs, pk, w.full)
	if err != nil {
		return nil, fmt.Errorf("failed to prove: %w", err)
	}
	buf := bytes.Buffer{}
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode proof: %w", err)
	}
	log.Debugw("proof generated", "bytes", buf.Len(), "took", time.Since(startTime).String())
	return buf.Bytes(), nil
}

// VerifyProof checks the proof against the public inputs. Bytes that decode
// to invalid curve points or a proof that does not verify return false.
// Truncated input or trailing data is reported as ErrMalformedProof.
func (g *Groth16) VerifyProof(ctx context.Context, data []byte, public types.PublicInputs) (bool, error) {
	vk, err := g.verifyingKey(ctx)
	if err != nil {
		return false, err
	}
	proof := groth16.NewProof(circuits.AgeCheckCurve)
	n, err := proof.ReadFrom(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, fmt.Errorf("%w: %v", ErrMalformedProof, err)
		}
		log.Debugw("proof decoding failed", "error", err.Error())
		return false, nil
	}
	if n != int64(len(data)) {
		return false, fmt.Errorf("%w: %d trailing bytes", ErrMalformedProof, int64(len(data))-n)
	}
	publicWitness, err := frontend.NewWitness(agecheck.PublicAssignment(public),
		circuits.AgeCheckCurve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("failed to create public witness: %w", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		log.Debugw("proof verification failed", "error", err.Error())
		return false, nil
	}
	return true, nil
}

func (g *Groth16) constraintSystem(ctx context.Context) (constraint.ConstraintSystem, error) {
	g.ccsMu.Lock()
	defer g.ccsMu.Unlock()
	if g.ccs != nil {
		return g.ccs, nil
	}
	if err := g.ccsArtifact.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load circuit definition: %w", err)
	}
	ccs := groth16.NewCS(circuits.AgeCheckCurve)
	if _, err := ccs.ReadFrom(bytes.NewReader(g.ccsArtifact.Content)); err != nil {
		return nil, fmt.Errorf("failed to read circuit definition: %w", err)
	}
	g.ccs = ccs
	return ccs, nil
}

func (g *Groth16) provingKey(ctx context.Context) (groth16.ProvingKey, error) {
	g.pkMu.Lock()
	defer g.pkMu.Unlock()
	if g.pk != nil {
		return g.pk, nil
	}
	if err := g.pkArtifact.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load proving key: %w", err)
	}
	pk := groth16.NewProvingKey(circuits.AgeCheckCurve)
	if _, err := pk.ReadFrom(bytes.NewReader(g.pkArtifact.Content)); err != nil {
		return nil, fmt.Errorf("failed to read proving key: %w", err)
	}
	g.pk = pk
	return pk, nil
}

func (g *Groth16) verifyingKey(ctx context.Context) (groth16.VerifyingKey, error) {
	g.vkMu.Lock()
	defer g.vkMu.Unlock()
	if g.vk != nil {
		return g.vk, nil
	}
	if err := g.vkArtifact.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load verification key: %w", err)
	}
	vk := groth16.NewVerifyingKey(circuits.AgeCheckCurve)
	if _, err := vk.ReadFrom(bytes.NewReader(g.vkArtifact.Content)); err != nil {
		return nil, fmt.Errorf("failed to read verification key: %w", err)
	}
	g.vk = vk
	return vk, nil
}
