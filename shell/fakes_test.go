package shell_test

import (
	"fmt"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/shell"
)

// recorder collects calls from every fake in the order they happen
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// fakeBackend resolves CurrentExtent to windowSize and, like the Vulkan
// backend, skips recreating a swapchain whose extent did not change
type fakeBackend struct {
	rec        *recorder
	windowSize core.Extent
	extent     core.Extent

	createErr  error
	resizeErr  error
	acquireErr error
	presentErr error

	resizeRequests int
	live           bool
}

func (b *fakeBackend) CreateContext(window core.NativeWindow) error {
	if b.createErr != nil {
		return b.createErr
	}
	if b.live {
		panic("context created twice")
	}
	b.live = true
	b.rec.add("create")
	return nil
}

func (b *fakeBackend) ResizeSwapchain(extent core.Extent) (core.Extent, error) {
	if !b.live {
		panic("resize without context")
	}
	b.resizeRequests++
	if b.resizeErr != nil {
		b.extent = core.Extent{}
		return b.extent, b.resizeErr
	}

	requested := extent
	if extent.IsCurrent() {
		extent = b.windowSize
	}
	if extent == b.extent {
		return b.extent, nil
	}
	b.extent = extent
	if requested.IsCurrent() {
		b.rec.add("resize current")
	} else {
		b.rec.add("resize %dx%d", extent.Width, extent.Height)
	}
	return extent, nil
}

func (b *fakeBackend) Extent() core.Extent {
	return b.extent
}

// outOfDate drops the swapchain the way the Vulkan backend does
// when an out-of-date surface resolves to zero area
func (b *fakeBackend) outOfDate() {
	b.extent = core.Extent{}
}

func (b *fakeBackend) AcquireBackBuffer() error {
	if !b.live {
		panic("acquire without context")
	}
	b.rec.add("acquire")
	return b.acquireErr
}

func (b *fakeBackend) PresentBackBuffer() error {
	if !b.live {
		panic("present without context")
	}
	b.rec.add("present")
	return b.presentErr
}

func (b *fakeBackend) DestroyContext() {
	if !b.live {
		panic("context destroyed twice")
	}
	b.live = false
	b.extent = core.Extent{}
	b.rec.add("destroy")
}

func (b *fakeBackend) Destroy() {
	b.rec.add("destroy instance")
}

type fakeGame struct {
	rec    *recorder
	ticks  int
	frames []float32
}

func (g *fakeGame) OnKey(k core.Key) {
	g.rec.add("key %s", k)
}

func (g *fakeGame) OnTick() {
	g.ticks++
}

func (g *fakeGame) OnFrame(framePred float32) {
	g.frames = append(g.frames, framePred)
	g.rec.add("frame")
}

// scriptedSource plays back events in order. Once the script runs
// out, a blocking poll delivers idle, or reports a closed source
// when idle is nil.
type scriptedSource struct {
	rec    *recorder
	events []shell.Event
	idle   *shell.Event
	polls  []bool

	finished int
}

func (s *scriptedSource) Poll(block bool) (shell.Event, bool) {
	s.polls = append(s.polls, block)
	if len(s.events) > 0 {
		ev := s.events[0]
		s.events = s.events[1:]
		return ev, true
	}
	if block && s.idle != nil {
		return *s.idle, true
	}
	return shell.Event{}, false
}

func (s *scriptedSource) Finish() {
	s.finished++
	s.rec.add("finish")
}

type fakeDriver struct {
	rec *recorder
}

func (d *fakeDriver) Close() error {
	d.rec.add("unload driver")
	return nil
}

type manualClock struct {
	now core.Timespec
}

func (c *manualClock) Now() core.Timespec {
	return c.now
}

func (c *manualClock) advance(nsec int64) {
	c.now.Nsec += nsec
	for c.now.Nsec >= 1000000000 {
		c.now.Sec++
		c.now.Nsec -= 1000000000
	}
}

func pointerUp() shell.Event {
	return shell.Event{Input: &shell.InputEvent{Type: shell.InputMotion, Action: shell.MotionActionUp}}
}
