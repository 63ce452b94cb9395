package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

var testInputs = CircuitInputs{
	Private: PrivateInputs{BirthYear: 2000, BirthMonth: 1, BirthDay: 1},
	Public:  PublicInputs{CurrentYear: 2024, CurrentMonth: 6, CurrentDay: 1, MinAge: 18},
}

func TestPrivateInputsRedacted(t *testing.T) {
	c := qt.New(t)
	for _, s := range []string{
		fmt.Sprint(testInputs.Private),
		fmt.Sprintf("%v", testInputs),
		fmt.Sprintf("%+v", testInputs),
		fmt.Sprintf("%#v", testInputs.Private),
	} {
		c.Assert(strings.Contains(s, "2000"), qt.IsFalse, qt.Commentf("leaked in %q", s))
	}
	data, err := json.Marshal(testInputs)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(string(data), "2000"), qt.IsFalse)
	c.Assert(strings.Contains(string(data), `"min_age":18`), qt.IsTrue)
}

func TestCircuitInputsFields(t *testing.T) {
	c := qt.New(t)
	fields := testInputs.Fields()
	c.Assert(fields, qt.HasLen, 7)
	c.Assert(fields[InputBirthYear], qt.Equals, int64(2000))
	c.Assert(fields[InputCurrentMonth], qt.Equals, int64(6))
	c.Assert(fields[InputMinAge], qt.Equals, int64(18))
	c.Assert(testInputs.Public.Fields(), qt.HasLen, 4)
	c.Assert(testInputs.Public.Date(), qt.Equals, "2024-06-01")
}

func TestHexBytesJSON(t *testing.T) {
	c := qt.New(t)
	b := HexBytes{0xca, 0xfe}
	data, err := json.Marshal(b)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"0xcafe"`)

	var decoded HexBytes
	c.Assert(json.Unmarshal([]byte(`"cafe"`), &decoded), qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, b)
	c.Assert(json.Unmarshal([]byte(`"0xzz"`), &decoded), qt.IsNotNil)
	c.Assert(json.Unmarshal([]byte(`"0xcafe"`), &decoded), qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, b)
	c.Assert(json.Unmarshal([]byte(`"caf"`), &decoded), qt.IsNotNil)

	hash, err := HexStringToHexBytes("0XCAFE")
	c.Assert(err, qt.IsNil)
	c.Assert(hash, qt.DeepEquals, b)
	c.Assert(b.String(), qt.Equals, "0xcafe")
}

func TestProofBundleCBOR(t *testing.T) {
	c := qt.New(t)
	bundle := &ProofBundle{
		Circuit: "agecheck",
		Version: "1",
		Proof: Proof{
			Data:   HexBytes{1, 2, 3},
			Public: testInputs.Public,
		},
		CreatedAt: time.Unix(1717200000, 0),
	}
	data, err := bundle.Marshal()
	c.Assert(err, qt.IsNil)
	again, err := bundle.Marshal()
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, data)

	decoded := &ProofBundle{}
	c.Assert(decoded.Unmarshal(data), qt.IsNil)
	c.Assert(decoded.Circuit, qt.Equals, bundle.Circuit)
	c.Assert(decoded.Proof.Data, qt.DeepEquals, bundle.Proof.Data)
	c.Assert(decoded.Proof.Public, qt.Equals, bundle.Proof.Public)
	c.Assert(decoded.CreatedAt.Unix(), qt.Equals, bundle.CreatedAt.Unix())

	c.Assert(decoded.Unmarshal([]byte{0xff, 0x00}), qt.IsNotNil)
}

func TestProofClone(t *testing.T) {
	c := qt.New(t)
	p := &Proof{Data: HexBytes{1, 2}, Public: testInputs.Public}
	cp := p.Clone()
	cp.Data[0] = 9
	c.Assert(p.Data[0], qt.Equals, byte(1))
	c.Assert((*Proof)(nil).Clone(), qt.IsNil)
}
