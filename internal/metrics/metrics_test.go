package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSynthesis_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(SynthesisErrors.WithLabelValues("repair"))

	ObserveSynthesis("repair", 10*time.Millisecond, nil)
	ObserveSynthesis("repair", 20*time.Millisecond, errors.New("connection refused"))

	assert.Equal(t, before+1, testutil.ToFloat64(SynthesisErrors.WithLabelValues("repair")))
}

func TestRecordApplyAction(t *testing.T) {
	before := testutil.ToFloat64(ApplyObjectsTotal.WithLabelValues("applied"))

	RecordApplyAction("applied")
	RecordApplyAction("applied")

	assert.Equal(t, before+2, testutil.ToFloat64(ApplyObjectsTotal.WithLabelValues("applied")))
}

func TestRecordReconcileAndExhausted(t *testing.T) {
	before := testutil.ToFloat64(ReconcileTotal.WithLabelValues("generate", ResultSuccess))
	exhausted := testutil.ToFloat64(RepairExhaustedTotal)

	RecordReconcile("generate", ResultSuccess)
	RecordRepairExhausted()

	assert.Equal(t, before+1, testutil.ToFloat64(ReconcileTotal.WithLabelValues("generate", ResultSuccess)))
	assert.Equal(t, exhausted+1, testutil.ToFloat64(RepairExhaustedTotal))
}
