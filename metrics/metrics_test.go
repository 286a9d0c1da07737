package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("test_run", "partial"))

	RecordRun("test_run", "partial", 150*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("test_run", "partial")))
}

func TestRecordOutcomes(t *testing.T) {
	okBefore := testutil.ToFloat64(LLMCalls.WithLabelValues("test", "ok"))
	errBefore := testutil.ToFloat64(LLMCalls.WithLabelValues("test", "error"))

	RecordLLMCall("test", nil)
	RecordLLMCall("test", errors.New("timeout"))
	RecordLLMCall("test", errors.New("timeout"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(LLMCalls.WithLabelValues("test", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(LLMCalls.WithLabelValues("test", "error")))

	alertsBefore := testutil.ToFloat64(AlertsTotal.WithLabelValues("critical", "error"))
	RecordAlert("critical", errors.New("insert refused"))
	assert.Equal(t, alertsBefore+1, testutil.ToFloat64(AlertsTotal.WithLabelValues("critical", "error")))
}
