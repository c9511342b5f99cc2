package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTick(t *testing.T) {
	r := NewRegistry()

	r.RecordTick(3 * time.Millisecond)
	r.RecordTick(5 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.FramesTotal))
}

func TestRecordRebuildSetsGauges(t *testing.T) {
	r := NewRegistry()

	r.RecordRebuild(12, 18)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.RebuildsTotal))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.SceneNodes))
	assert.Equal(t, 18.0, testutil.ToFloat64(r.SceneEdges))
}

func TestRecordSelectionByKind(t *testing.T) {
	r := NewRegistry()

	r.RecordSelection(true)
	r.RecordSelection(true)
	r.RecordSelection(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.SelectionsTotal.WithLabelValues("select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SelectionsTotal.WithLabelValues("clear")))
}

func TestSetPaused(t *testing.T) {
	r := NewRegistry()

	r.SetPaused(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PausedState))
	r.SetPaused(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.PausedState))
}

func TestGatherExportsTickHistogram(t *testing.T) {
	r := NewRegistry()
	r.RecordTick(2 * time.Millisecond)

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	var hist *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "meshview_tick_duration_seconds" {
			hist = mf
		}
	}
	require.NotNil(t, hist, "tick histogram must be exported")
	require.Len(t, hist.GetMetric(), 1)
	assert.Equal(t, uint64(1), hist.GetMetric()[0].GetHistogram().GetSampleCount())
}
