// Package agecheck defines the minimum age circuit: it proves that a secret
// birth date is at least MinAge years before a public current date, without
// disclosing the birth date.
package agecheck

import (
	"fmt"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/vocdoni/zkage/circuits"
	"github.com/vocdoni/zkage/types"
)

const (
	// CircuitID identifies the circuit in exported proof bundles.
	CircuitID = "agecheck"
	// Version changes every time the constraints change, which invalidates
	// the published setup data.
	Version = "1"
)

// AgeCircuit checks that (BirthYear, BirthMonth, BirthDay) is lexicographically
// lower or equal than (CurrentYear-MinAge, CurrentMonth, CurrentDay).
type AgeCircuit struct {
	BirthYear  frontend.Variable `gnark:"birth_year,secret"`
	BirthMonth frontend.Variable `gnark:"birth_month,secret"`
	BirthDay   frontend.Variable `gnark:"birth_day,secret"`

	CurrentYear  frontend.Variable `gnark:"current_year,public"`
	CurrentMonth frontend.Variable `gnark:"current_month,public"`
	CurrentDay   frontend.Variable `gnark:"current_day,public"`
	MinAge       frontend.Variable `gnark:"min_age,public"`
}

// Define declares the circuit constraints.
func (c *AgeCircuit) Define(api frontend.API) error {
	assertDate(api, c.BirthMonth, c.BirthDay)
	assertDate(api, c.CurrentMonth, c.CurrentDay)

	// the subtraction below must not wrap around the field
	api.AssertIsLessOrEqual(c.MinAge, c.CurrentYear)
	minValidYear := api.Sub(c.CurrentYear, c.MinAge)
	api.AssertIsLessOrEqual(c.BirthYear, minValidYear)

	// born in the limit year: the month can not be later than the current one
	yearIsMin := api.IsZero(api.Sub(c.BirthYear, minValidYear))
	maxMonth := api.Select(yearIsMin, c.CurrentMonth, 12)
	api.AssertIsLessOrEqual(c.BirthMonth, maxMonth)

	// and in the limit month: the day can not be later than the current one
	monthIsCurrent := api.IsZero(api.Sub(c.BirthMonth, c.CurrentMonth))
	maxDay := api.Select(api.And(yearIsMin, monthIsCurrent), c.CurrentDay, 31)
	api.AssertIsLessOrEqual(c.BirthDay, maxDay)
	return nil
}

func assertDate(api frontend.API, month, day frontend.Variable) {
	api.AssertIsLessOrEqual(1, month)
	api.AssertIsLessOrEqual(month, 12)
	api.AssertIsLessOrEqual(1, day)
	api.AssertIsLessOrEqual(day, 31)
}

// Placeholder returns an empty circuit to be compiled.
func Placeholder() *AgeCircuit {
	return &AgeCircuit{}
}

// Assignment returns the full assignment of the circuit for the inputs
// provided.
func Assignment(inputs types.CircuitInputs) *AgeCircuit {
	a := PublicAssignment(inputs.Public)
	a.BirthYear = inputs.Private.BirthYear
	a.BirthMonth = inputs.Private.BirthMonth
	a.BirthDay = inputs.Private.BirthDay
	return a
}

// PublicAssignment returns an assignment with only the public inputs set,
// enough to build the public witness used for verification.
func PublicAssignment(public types.PublicInputs) *AgeCircuit {
	return &AgeCircuit{
		BirthYear:    0,
		BirthMonth:   0,
		BirthDay:     0,
		CurrentYear:  public.CurrentYear,
		CurrentMonth: public.CurrentMonth,
		CurrentDay:   public.CurrentDay,
		MinAge:       public.MinAge,
	}
}

// Compile compiles the age circuit into an R1CS over the circuit curve.
func Compile() (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(circuits.AgeCheckCurve.ScalarField(), r1cs.NewBuilder, Placeholder())
	if err != nil {
		return nil, fmt.Errorf("failed to compile age circuit: %w", err)
	}
	return ccs, nil
}
