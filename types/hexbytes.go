package types

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vocdoni/zkage/util"
)

// HexBytes is a []byte which encodes as hexadecimal in json, as opposed to
// the base64 default. The encoded string is 0x prefixed; decoding accepts it
// with or without the prefix.
type HexBytes []byte

// String returns the 0x prefixed hex representation of the bytes.
func (b HexBytes) String() string {
	return hexutil.Encode(b)
}

func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Encode(b))
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex bytes: %w", err)
	}
	decoded, err := HexStringToHexBytes(s)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes decodes a hex string with an optional 0x prefix. The
// prefix is optional because cmd/zkage-setup prints the artifact hashes
// without it.
func HexStringToHexBytes(s string) (HexBytes, error) {
	b, err := hexutil.Decode("0x" + util.TrimHex(s))
	if err != nil {
		return nil, fmt.Errorf("invalid hex string %q: %w", s, err)
	}
	return b, nil
}
