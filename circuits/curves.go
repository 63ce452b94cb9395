package circuits

import "github.com/consensys/gnark-crypto/ecc"

// AgeCheckCurve is the curve of the age circuit. Proofs are generated and
// verified natively over its scalar field, there is no recursion.
var AgeCheckCurve = ecc.BN254
