package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestVerificationResult(t *testing.T) {
	c := qt.New(t)
	c.Assert(VerificationResult(true, nil), qt.Equals, ResultValid)
	c.Assert(VerificationResult(false, nil), qt.Equals, ResultInvalid)
	c.Assert(VerificationResult(true, errors.New("boom")), qt.Equals, ResultError)
}

func TestObserveProof(t *testing.T) {
	c := qt.New(t)
	before := testutil.ToFloat64(Proofs.WithLabelValues(ResultOK))
	ObserveProof(time.Now().Add(-time.Second), ResultOK)
	c.Assert(testutil.ToFloat64(Proofs.WithLabelValues(ResultOK)), qt.Equals, before+1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(strings.Contains(rec.Body.String(), "zkage_prover_proof_duration_seconds_count"), qt.IsTrue)
}
