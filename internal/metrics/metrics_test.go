package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gig-manager/backend/internal/importer"
)

func TestRecorder_CommitCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	var obs importer.Observer = r
	obs.RowCommitted("b1", importer.ImportTypeGigs, 2, "g1")
	obs.RowCommitted("b1", importer.ImportTypeGigs, 3, "g2")
	obs.RowFailed("b1", importer.ImportTypeGigs, 4, errors.New("boom"))
	obs.BatchCompleted("b1", importer.ImportTypeGigs, importer.CommitResult{SuccessCount: 2, Errors: []string{"Row 4: boom"}})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.rowsCommitted.WithLabelValues("gigs", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rowsCommitted.WithLabelValues("gigs", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.batches.WithLabelValues("gigs")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() == "import_batch_rows" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			assert.Equal(t, uint64(1), h.GetSampleCount())
			assert.Equal(t, 3.0, h.GetSampleSum())
		}
	}
	assert.True(t, found)
}

func TestRecorder_ObserveParsed(t *testing.T) {
	r := New(prometheus.NewRegistry())
	r.ObserveParsed(importer.ImportTypeAssets, importer.Summary{Total: 5, Valid: 3, Invalid: 2})
	r.ObserveParseError(importer.ImportTypeAssets)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.rowsParsed.WithLabelValues("assets", "valid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rowsParsed.WithLabelValues("assets", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.parseErrors.WithLabelValues("assets")))
}

func TestRecorder_TrackSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	n := 4
	require.NoError(t, r.TrackSessions(func() int { return n }))

	count, err := testutil.GatherAndCount(reg, "import_sessions_active")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "import_sessions_active" {
			assert.Equal(t, 4.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}

	assert.Error(t, r.TrackSessions(func() int { return 0 }))
}
