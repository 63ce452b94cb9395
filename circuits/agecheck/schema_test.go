package agecheck

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkage/types"
)

func TestDefaultSchema(t *testing.T) {
	c := qt.New(t)
	c.Assert(DefaultSchema.ID, qt.Equals, CircuitID)
	c.Assert(DefaultSchema.Version, qt.Equals, Version)
	c.Assert(DefaultSchema.FieldNames(Secret), qt.DeepEquals,
		[]string{types.InputBirthYear, types.InputBirthMonth, types.InputBirthDay})
	c.Assert(DefaultSchema.FieldNames(Public), qt.DeepEquals,
		[]string{types.InputCurrentYear, types.InputCurrentMonth, types.InputCurrentDay, types.InputMinAge})
}

func TestSchemaMatch(t *testing.T) {
	c := qt.New(t)
	fields := inputs(2000, 1, 1, 18).Fields()
	c.Assert(DefaultSchema.Match(fields), qt.IsNil)

	delete(fields, types.InputMinAge)
	err := DefaultSchema.Match(fields)
	c.Assert(err, qt.ErrorIs, ErrSchemaMismatch)
	c.Assert(err, qt.ErrorMatches, ".*missing min_age.*")

	fields[types.InputMinAge] = 18
	fields["nationality"] = 1
	err = DefaultSchema.Match(fields)
	c.Assert(err, qt.ErrorIs, ErrSchemaMismatch)
	c.Assert(err, qt.ErrorMatches, ".*unknown nationality.*")
}

func TestParseSchema(t *testing.T) {
	c := qt.New(t)
	s, err := ParseSchema([]byte(`{"id":"x","fields":[{"name":"a"},{"name":"b","visibility":"public"}]}`))
	c.Assert(err, qt.IsNil)
	c.Assert(s.FieldNames(Secret), qt.DeepEquals, []string{"a"})
	c.Assert(s.FieldNames(Public), qt.DeepEquals, []string{"b"})

	for _, bad := range []string{
		`{`,
		`{"fields":[{"name":"a"}]}`,
		`{"id":"x","fields":[]}`,
		`{"id":"x","fields":[{"name":""}]}`,
		`{"id":"x","fields":[{"name":"a"},{"name":"a"}]}`,
		`{"id":"x","fields":[{"name":"a","visibility":"hidden"}]}`,
	} {
		_, err := ParseSchema([]byte(bad))
		c.Assert(err, qt.IsNotNil, qt.Commentf("%s", bad))
	}
}

func TestArtifacts(t *testing.T) {
	c := qt.New(t)
	hash := "0x" + "ab"
	_, err := Artifacts("", ArtifactHashes{ProvingKey: hash})
	c.Assert(err, qt.IsNotNil)

	full := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	set, err := Artifacts("https://example.org/setup", ArtifactHashes{ProvingKey: full, VerificationKey: full})
	c.Assert(err, qt.IsNil)
	c.Assert(set.CircuitDefinition(), qt.IsNil)
	c.Assert(set.ProvingKey().RemoteURL, qt.Equals, "https://example.org/setup/agecheck.pk")
	c.Assert(set.VerifyingKey().RemoteURL, qt.Equals, "https://example.org/setup/agecheck.vk")
}
