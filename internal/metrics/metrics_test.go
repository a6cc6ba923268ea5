package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/liquifier/internal/models"
)

func TestRunSucceeded(t *testing.T) {
	m := New()

	m.RunSucceeded(&models.Report{
		Plan:     models.PayoutPlan{TotalSettled: 2_500_000, PaymentCount: 3, AmountPerPayment: 833_333},
		Channels: make([]models.RankedChannel, 4),
		Warnings: []models.ShapeWarning{{Record: "invoice"}, {Record: "invoice"}, {Record: "channel"}},
	})
	m.RunFailed(OutcomeQueryError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(OutcomeQueryError)))
	assert.Equal(t, 2_500_000.0, testutil.ToFloat64(m.settledAmount))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.payments))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.eligible))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.shapeWarnings.WithLabelValues("invoice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shapeWarnings.WithLabelValues("channel")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveQuery("listinvoices", 120*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `liquifier_node_query_duration_seconds_count{operation="listinvoices"} 1`)
}
