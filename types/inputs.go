package types

import "fmt"

// Names of the inputs declared by the age circuit. The circuit schema and the
// assignment builder use these same names.
const (
	InputBirthYear    = "birth_year"
	InputBirthMonth   = "birth_month"
	InputBirthDay     = "birth_day"
	InputCurrentYear  = "current_year"
	InputCurrentMonth = "current_month"
	InputCurrentDay   = "current_day"
	InputMinAge       = "min_age"
)

// PrivateInputs holds the birth date. These values only live as the argument
// of a witness generation: they are never stored, logged nor transmitted, so
// the formatting and json methods redact them.
type PrivateInputs struct {
	BirthYear  int
	BirthMonth int
	BirthDay   int
}

// String redacts the private inputs.
func (PrivateInputs) String() string {
	return "{birth_year:*** birth_month:*** birth_day:***}"
}

// GoString redacts the private inputs when formatted with %#v.
func (p PrivateInputs) GoString() string {
	return p.String()
}

// MarshalJSON redacts the private inputs.
func (PrivateInputs) MarshalJSON() ([]byte, error) {
	return []byte(`{"birth_year":"***","birth_month":"***","birth_day":"***"}`), nil
}

// PublicInputs are the inputs bound into the proof and the only ones that
// are safe to display or export alongside it.
type PublicInputs struct {
	CurrentYear  int `json:"current_year" cbor:"1,keyasint"`
	CurrentMonth int `json:"current_month" cbor:"2,keyasint"`
	CurrentDay   int `json:"current_day" cbor:"3,keyasint"`
	MinAge       int `json:"min_age" cbor:"4,keyasint"`
}

// Date returns the current date of the public inputs as YYYY-MM-DD.
func (p PublicInputs) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", p.CurrentYear, p.CurrentMonth, p.CurrentDay)
}

// Fields returns the public inputs keyed by circuit input name.
func (p PublicInputs) Fields() map[string]int64 {
	return map[string]int64{
		InputCurrentYear:  int64(p.CurrentYear),
		InputCurrentMonth: int64(p.CurrentMonth),
		InputCurrentDay:   int64(p.CurrentDay),
		InputMinAge:       int64(p.MinAge),
	}
}

// CircuitInputs is the full set of inputs of the age circuit.
type CircuitInputs struct {
	Private PrivateInputs
	Public  PublicInputs
}

// Fields returns the union of private and public inputs keyed by circuit
// input name.
func (ci CircuitInputs) Fields() map[string]int64 {
	fields := ci.Public.Fields()
	fields[InputBirthYear] = int64(ci.Private.BirthYear)
	fields[InputBirthMonth] = int64(ci.Private.BirthMonth)
	fields[InputBirthDay] = int64(ci.Private.BirthDay)
	return fields
}
