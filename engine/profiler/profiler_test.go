package profiler

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProfilerTick(t *testing.T) {
	p := NewProfiler(zaptest.NewLogger(t))
	p.Update()
	assert.False(t, p.Tick(), "stats are reported once per interval")

	p.lastTime = time.Now().Add(-2 * time.Second)
	assert.True(t, p.Tick())
	assert.Equal(t, 0, p.frameCount)
	assert.Equal(t, 0, p.updateCount)
}

func TestLatenciesSnapshotIsCopy(t *testing.T) {
	l := NewLatencies()
	l.Append(1.5)
	l.Append(2.5)

	snap := l.Snapshot()
	require.Equal(t, []float32{1.5, 2.5}, snap)
	snap[0] = 99
	assert.Equal(t, float32(1.5), l.Snapshot()[0])
	assert.Equal(t, 2, l.Len())
}

func TestLatenciesConcurrentAppend(t *testing.T) {
	l := NewLatencies()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Append(float32(j))
				_ = l.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, l.Len())
}

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Observe([]float32{0.5, 1.25})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.samples))
	assert.Equal(t, 1.25, testutil.ToFloat64(m.last))

	m.Observe(nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.samples))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestWriteChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, []float32{0.2, 0.4, 0.1, 0.8}, 320, 200))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestWriteChartTooSmall(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteChart(&buf, []float32{1}, 10, 10))
}

func TestCollectorCollect(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	l := NewLatencies()
	path := filepath.Join(t.TempDir(), "latency.png")

	c := NewCollector(l,
		WithChart(path, 200, 120),
		WithMetrics(m),
		WithLogger(zaptest.NewLogger(t)),
	)
	defer c.Stop()

	require.NoError(t, c.Collect(), "an empty sequence is a no-op")
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	l.Append(1)
	l.Append(2)
	require.NoError(t, c.Collect())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.samples))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	l.Append(3)
	require.NoError(t, c.Collect())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.samples), "only new samples are exported")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.last))
}

func TestCollectorChartFailureExportsOnce(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	l := NewLatencies()
	l.Append(4)

	c := NewCollector(l,
		WithChart(filepath.Join(t.TempDir(), "missing", "dir", "latency.png"), 200, 120),
		WithMetrics(m),
	)
	defer c.Stop()

	for range 3 {
		assert.Error(t, c.Collect(), "the chart directory does not exist")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.samples), "each sample is exported once")
	assert.Equal(t, 1, c.cursor)

	l.Append(5)
	assert.Error(t, c.Collect())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.samples))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.last))
}

func TestCollectorStopWithoutStart(t *testing.T) {
	c := NewCollector(NewLatencies())

	stopped := make(chan struct{})
	go func() {
		c.Stop()
		c.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a collector that was never started")
	}
}

func TestCollectorStartStop(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	l := NewLatencies()
	l.Append(0.75)

	c := NewCollector(l, WithInterval(5*time.Millisecond), WithMetrics(m))
	c.Start()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.last) == 0.75
	}, time.Second, 5*time.Millisecond)

	c.Stop()
	c.Stop()
}
