package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/api/loans/{loanID}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "loanID") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("OK"))
	})

	for _, path := range []string{"/api/loans/LOAN-1", "/api/loans/LOAN-2", "/api/loans/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
		# HELP loan_ledger_http_requests_total Total number of HTTP requests.
		# TYPE loan_ledger_http_requests_total counter
		loan_ledger_http_requests_total{method="GET",route="/api/loans/{loanID}",status_code="200"} 2
		loan_ledger_http_requests_total{method="GET",route="/api/loans/{loanID}",status_code="404"} 1
	`
	assert.NoError(t, testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expected)))
	assert.Equal(t, 2, testutil.CollectAndCount(httpRequestDuration))
}
