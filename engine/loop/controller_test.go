package loop

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock struct {
	start time.Time
	now   time.Time
}

func newFakeClock() *fakeClock {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &fakeClock{start: t0, now: t0}
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }
func (f *fakeClock) elapsed() time.Duration  { return f.now.Sub(f.start) }

type fakeStage struct {
	clock *fakeClock

	configured []common.Size
	rebuilt    []common.Size
	rebuiltAt  []time.Duration
	written    []common.Size
	updates    int
	renders    int

	busy       bool
	updateErr  error
	renderErrs []error
}

func (s *fakeStage) Configure(size common.Size) error {
	s.configured = append(s.configured, size)
	return nil
}

func (s *fakeStage) Rebuild(size common.Size) error {
	s.rebuilt = append(s.rebuilt, size)
	s.rebuiltAt = append(s.rebuiltAt, s.clock.elapsed())
	return nil
}

func (s *fakeStage) WriteSize(size common.Size) error {
	s.written = append(s.written, size)
	return nil
}

func (s *fakeStage) Update() (bool, error) {
	if s.updateErr != nil {
		return false, s.updateErr
	}
	if s.busy {
		return false, nil
	}
	s.updates++
	return true, nil
}

func (s *fakeStage) Render() error {
	s.renders++
	if len(s.renderErrs) == 0 {
		return nil
	}
	err := s.renderErrs[0]
	s.renderErrs = s.renderErrs[1:]
	return err
}

type fakeCanvas struct {
	viewport common.Size
	applied  []common.Size
	applyErr error
}

func (f *fakeCanvas) Bind(uint32) error              { return nil }
func (f *fakeCanvas) Viewport() (common.Size, error) { return f.viewport, nil }
func (f *fakeCanvas) Polling() bool                  { return true }
func (f *fakeCanvas) Apply(size common.Size) error {
	f.applied = append(f.applied, size)
	return f.applyErr
}

var initial = common.Size{Width: 800, Height: 600}

func newTestController(t *testing.T, res config.Resolution, options ...ControllerBuilderOption) (*Controller, *fakeStage, *fakeClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Resolution = res
	require.NoError(t, cfg.Validate())

	clock := newFakeClock()
	stage := &fakeStage{clock: clock}
	opts := append([]ControllerBuilderOption{WithClock(clock.Now), WithLogger(zaptest.NewLogger(t))}, options...)
	return NewController(stage, cfg, initial, opts...), stage, clock
}

// burst sends ten distinct resize events 5ms apart, then keeps painting every millisecond until 200ms.
func burst(c *Controller, clock *fakeClock) common.Size {
	var last common.Size
	for ms := 0; ms <= 200; ms++ {
		if ms%5 == 0 && ms < 50 {
			last = common.Size{Width: uint32(900 + ms), Height: 700}
			c.Resized(last)
		}
		c.Frame()
		clock.advance(time.Millisecond)
	}
	return last
}

func TestResizeBurstRebuildsOnceAfterQuietPeriod(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))

	last := burst(c, clock)

	require.Len(t, stage.rebuilt, 1)
	assert.Equal(t, last, stage.rebuilt[0])
	assert.Equal(t, 112*time.Millisecond, stage.rebuiltAt[0], "first frame strictly more than one period after the last event")
	assert.Equal(t, []common.Size{last}, stage.configured)
	assert.Equal(t, []common.Size{last}, stage.written)
	assert.Equal(t, last, c.Size())
	assert.False(t, c.Done())
}

func TestFixedResolutionNeverRebuilds(t *testing.T) {
	c, stage, clock := newTestController(t, config.Fixed(256, 256))

	last := burst(c, clock)

	assert.Empty(t, stage.rebuilt)
	assert.Equal(t, []common.Size{last}, stage.configured, "the surface still follows the window")
	assert.Equal(t, []common.Size{{Width: 256, Height: 256}}, stage.written)
}

func TestZeroAreaResizeIgnored(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))

	c.Resized(common.Size{Width: 0, Height: 480})
	c.Resized(common.Size{Width: 640, Height: 0})
	assert.Nil(t, c.pending)

	for i := 0; i < 10; i++ {
		clock.advance(50 * time.Millisecond)
		c.Frame()
	}
	assert.Empty(t, stage.configured)
	assert.Empty(t, stage.rebuilt)
	assert.Equal(t, initial, c.Size())
}

func TestRepeatedPendingSizeKeepsDebounceWindow(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))
	size := common.Size{Width: 1024, Height: 768}

	c.Resized(size)
	for ms := 1; ms <= 100; ms++ {
		clock.advance(time.Millisecond)
		if ms == 50 {
			c.Resized(size)
		}
		c.Frame()
	}

	require.Len(t, stage.rebuilt, 1)
	assert.Equal(t, 67*time.Millisecond, stage.rebuiltAt[0])
}

func TestAccumulatorIssuesOneUpdatePerFrame(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))
	period := config.Default().Period()

	clock.advance(2 * period)
	c.Frame()
	assert.Equal(t, 1, stage.updates)
	assert.Equal(t, period, c.accum, "one period is still owed")

	c.Frame()
	assert.Equal(t, 2, stage.updates)
	assert.Zero(t, c.accum)

	c.Frame()
	assert.Equal(t, 2, stage.updates)
	assert.Equal(t, 3, stage.renders, "render runs every frame")
}

func TestAccumulatorBelowPeriod(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))

	clock.advance(10 * time.Millisecond)
	c.Frame()
	assert.Zero(t, stage.updates)
	assert.Equal(t, 10*time.Millisecond, c.accum)
}

func TestBusyStageSkipsUpdate(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))
	stage.busy = true

	clock.advance(time.Second)
	c.Frame()
	assert.Zero(t, stage.updates)
	assert.False(t, c.Done(), "an in-flight round trip is not an error")
}

func TestSurfaceLostReconfigures(t *testing.T) {
	c, stage, _ := newTestController(t, config.WorkgroupTile(16))
	stage.renderErrs = []error{fmt.Errorf("acquire: %w", ErrSurfaceLost)}

	c.Frame()

	assert.Equal(t, []common.Size{initial}, stage.configured)
	assert.Equal(t, []common.Size{initial}, stage.rebuilt)
	assert.False(t, c.Done())
	assert.NoError(t, c.Err())
}

func TestFatalErrorEndsLoopAfterFrame(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))
	boom := errors.New("device lost")
	stage.renderErrs = []error{boom}

	clock.advance(time.Second)
	c.Frame()

	assert.Equal(t, 1, stage.updates, "the rest of the frame still runs")
	assert.True(t, c.Done())
	require.Error(t, c.Err())
	assert.ErrorIs(t, c.Err(), boom)

	var se *StepError
	require.ErrorAs(t, c.Err(), &se)
	assert.Equal(t, StepRender, se.Step)

	c.Frame()
	assert.Equal(t, 1, stage.renders, "no frames after exit")
}

func TestUpdateErrorIsDeferred(t *testing.T) {
	c, stage, clock := newTestController(t, config.WorkgroupTile(16))
	stage.updateErr = errors.New("submit failed")

	clock.advance(time.Second)
	c.Frame()

	assert.Equal(t, 1, stage.renders)
	assert.True(t, c.Done())
	var se *StepError
	require.ErrorAs(t, c.Err(), &se)
	assert.Equal(t, StepUpdate, se.Step)
}

func TestPollingCanvas(t *testing.T) {
	cv := &fakeCanvas{viewport: initial}
	c, stage, clock := newTestController(t, config.WorkgroupTile(16), WithCanvas(cv))

	for ms := 0; ms < 100; ms++ {
		c.Frame()
		clock.advance(time.Millisecond)
	}
	assert.Empty(t, stage.configured, "an unchanged viewport records nothing")

	cv.viewport = common.Size{Width: 1920, Height: 1080}
	for ms := 0; ms < 100; ms++ {
		c.Frame()
		clock.advance(time.Millisecond)
	}
	assert.Equal(t, []common.Size{cv.viewport}, cv.applied)
	assert.Equal(t, []common.Size{cv.viewport}, stage.rebuilt)
}

func TestCanvasApplyErrorIsDeferred(t *testing.T) {
	cv := &fakeCanvas{viewport: common.Size{Width: 320, Height: 240}, applyErr: errors.New("no element")}
	c, stage, clock := newTestController(t, config.WorkgroupTile(16), WithCanvas(cv))

	c.Frame()
	assert.Empty(t, stage.rebuilt)
	clock.advance(100 * time.Millisecond)
	c.Frame()

	assert.Len(t, stage.rebuilt, 1)
	assert.True(t, c.Done())
	var se *StepError
	require.ErrorAs(t, c.Err(), &se)
	assert.Equal(t, StepCanvas, se.Step)
}

func TestClose(t *testing.T) {
	c, stage, _ := newTestController(t, config.WorkgroupTile(16))
	c.Close()
	assert.True(t, c.Done())
	assert.NoError(t, c.Err())

	c.Frame()
	assert.Zero(t, stage.renders)
}
