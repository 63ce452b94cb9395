package types

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Proof is a serialized zero-knowledge proof together with the public inputs
// it was generated for. A proof is only meaningful with its public inputs,
// they are never displayed nor verified apart.
type Proof struct {
	Data   HexBytes     `json:"data" cbor:"1,keyasint"`
	Public PublicInputs `json:"publicInputs" cbor:"2,keyasint"`
}

// Clone returns a deep copy of the proof.
func (p *Proof) Clone() *Proof {
	if p == nil {
		return nil
	}
	return &Proof{
		Data:   append(HexBytes(nil), p.Data...),
		Public: p.Public,
	}
}

// ProofBundle is the exportable form of a proof. It identifies the circuit
// the proof belongs to so a verifier outside of the session can check it.
type ProofBundle struct {
	Circuit   string    `json:"circuit" cbor:"1,keyasint"`
	Version   string    `json:"version" cbor:"2,keyasint"`
	Proof     Proof     `json:"proof" cbor:"3,keyasint"`
	CreatedAt time.Time `json:"createdAt" cbor:"4,keyasint"`
}

// Marshal encodes the bundle using deterministic CBOR, so the same bundle
// always produces the same bytes.
func (b *ProofBundle) Marshal() ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeUnix
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode proof bundle: %w", err)
	}
	return em.Marshal(b)
}

// Unmarshal decodes a bundle encoded with Marshal.
func (b *ProofBundle) Unmarshal(data []byte) error {
	if err := cbor.Unmarshal(data, b); err != nil {
		return fmt.Errorf("decode proof bundle: %w", err)
	}
	return nil
}
