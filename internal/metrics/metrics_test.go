package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/logger"
)

func TestRecordIngestion(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordIngestion("pdf", 12, time.Second, nil)
	m.RecordIngestion("pdf", 5, time.Second, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestionsTotal.WithLabelValues("pdf", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestionsTotal.WithLabelValues("pdf", "error")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.ChunksIndexed.WithLabelValues("pdf")))
}

func TestRecordQuestionAndProvider(t *testing.T) {
	m := New(nil)

	m.RecordQuestion("web", time.Millisecond, nil)
	m.RecordProviderCall("openai.chat", time.Millisecond, errors.New("x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuestionsTotal.WithLabelValues("web", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("openai.chat", "error")))
}

func TestServerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.FeedbackTotal.Inc()

	srv := httptest.NewServer(NewServer(":0", reg, logger.Nop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "grasp_feedback_total 1")

	health, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
