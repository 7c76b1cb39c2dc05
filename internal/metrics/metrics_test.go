package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordTemplatize(3*time.Millisecond, nil)
	m.RecordTemplatize(time.Millisecond, errors.New("boom"))
	m.RecordMatch("ne", "cell")
	m.RecordMatch("ne", "cell")
	m.RecordInflection("singular")
	m.RecordRender(nil)
	m.RecordStoreOp("save", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TemplatizeTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TemplatizeTotal.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchMatchesTotal.WithLabelValues("ne", "cell")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InflectionsTotal.WithLabelValues("singular")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues("ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestUnregistered(t *testing.T) {
	// collectors work without a registry, and a second set does not clash
	New(nil).RecordRender(nil)
	New(nil).RecordRender(nil)
}
