// Package normalizer turns the raw values typed by a user into the inputs of
// the age circuit.
package normalizer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vocdoni/zkage/types"
)

// DateLayout is the accepted format of the birth date.
const DateLayout = "2006-01-02"

var (
	// ErrMissingInput is returned when the birth date is empty.
	ErrMissingInput = errors.New("birth date is required")
	// ErrInvalidDate is returned when the birth date is not a calendar date.
	ErrInvalidDate = errors.New("invalid birth date")
	// ErrInvalidMinAge is returned when the minimum age is not a
	// non-negative integer.
	ErrInvalidMinAge = errors.New("invalid minimum age")
)

// Normalizer builds circuit inputs. The current date is read from Clock at
// every call, in the location of the returned time.
type Normalizer struct {
	Clock func() time.Time
}

// New returns a Normalizer that uses the wall clock.
func New() *Normalizer {
	return &Normalizer{Clock: time.Now}
}

// Normalize validates the birth date (YYYY-MM-DD) and minimum age and
// returns the circuit inputs, with the current date as public input. Birth
// dates in the future are not rejected here.
func (n *Normalizer) Normalize(rawBirthDate, rawMinAge string) (types.CircuitInputs, error) {
	rawBirthDate = strings.TrimSpace(rawBirthDate)
	if rawBirthDate == "" {
		return types.CircuitInputs{}, ErrMissingInput
	}
	birth, err := time.Parse(DateLayout, rawBirthDate)
	if err != nil {
		// the parse error quotes the birth date, which is private
		return types.CircuitInputs{}, ErrInvalidDate
	}
	minAge, err := strconv.Atoi(strings.TrimSpace(rawMinAge))
	if err != nil || minAge < 0 {
		return types.CircuitInputs{}, fmt.Errorf("%w: %q", ErrInvalidMinAge, rawMinAge)
	}
	clock := n.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	return types.CircuitInputs{
		Private: types.PrivateInputs{
			BirthYear:  birth.Year(),
			BirthMonth: int(birth.Month()),
			BirthDay:   birth.Day(),
		},
		Public: types.PublicInputs{
			CurrentYear:  now.Year(),
			CurrentMonth: int(now.Month()),
			CurrentDay:   now.Day(),
			MinAge:       minAge,
		},
	}, nil
}
