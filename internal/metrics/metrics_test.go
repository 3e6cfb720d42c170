package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStage(t *testing.T) {
	before := testutil.ToFloat64(StageFailures.WithLabelValues(StageSummarize))

	ObserveStage(StageSummarize, time.Now().Add(-time.Second), true)
	ObserveStage(StageSummarize, time.Now(), false)

	after := testutil.ToFloat64(StageFailures.WithLabelValues(StageSummarize))
	assert.Equal(t, before+1, after)
}

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("published"))
	ObserveRun("published")
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("published")))
}

func TestHandler(t *testing.T) {
	ObserveRun("failed")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "podcast_digest_runs_total"))
}
