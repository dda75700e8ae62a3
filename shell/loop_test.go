package shell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/shell"
)

type loopFixture struct {
	rec        *recorder
	backend    *fakeBackend
	game       *fakeGame
	source     *scriptedSource
	clock      *manualClock
	controller *shell.Controller
	loop       *shell.Loop
}

func newLoop(settings core.Settings, events ...shell.Event) *loopFixture {
	rec := &recorder{}
	f := &loopFixture{
		rec:     rec,
		backend: &fakeBackend{rec: rec, windowSize: core.Extent{Width: 1080, Height: 1920}},
		game:    &fakeGame{rec: rec},
		source:  &scriptedSource{rec: rec, events: events},
		clock:   &manualClock{now: core.Timespec{Sec: 100}},
	}
	f.controller = shell.NewController(f.backend, f.game, f.source, quietLogger())
	f.loop = shell.NewLoop(
		settings,
		f.source,
		f.controller,
		f.backend,
		f.game,
		core.NewGameClock(core.TimeConfiguration{TicksPerSecond: 10}, f.game),
		core.NewTimer(f.clock),
		quietLogger(),
	)
	return f
}

func TestLoopEventSequence(t *testing.T) {
	f := newLoop(core.Settings{Animate: false},
		shell.WindowEvent(testWindow),
		shell.CommandEvent(shell.CommandWindowResized),
		pointerUp(),
		shell.CommandEvent(shell.CommandTermWindow),
		shell.CommandEvent(shell.CommandDestroy),
	)

	require.NoError(t, f.loop.Run())

	// the resize event finds the window at the size the create
	// path already applied, so the swapchain is left alone
	require.Equal(t, []string{
		"create",
		"resize current",
		"key space",
		"destroy",
	}, f.rec.calls)
	require.Equal(t, 2, f.backend.resizeRequests)
}

func TestLoopIdleNeverRenders(t *testing.T) {
	idle := shell.CommandEvent(shell.CommandPause)
	f := newLoop(core.Settings{Animate: false})
	f.source.idle = &idle

	const iterations = 100
	for i := 0; i < iterations; i++ {
		done, err := f.loop.Step()
		require.NoError(t, err)
		require.False(t, done)
	}

	require.Zero(t, f.rec.count("acquire"))
	require.Zero(t, f.rec.count("present"))

	// each iteration blocks once, wakes for the idle event,
	// then drains the empty queue without blocking
	require.Len(t, f.source.polls, 2*iterations)
	for i, block := range f.source.polls {
		require.Equal(t, i%2 == 0, block, "poll %d", i)
	}
}

func TestLoopAnimatedWithoutWindowBlocks(t *testing.T) {
	idle := shell.CommandEvent(shell.CommandLowMemory)
	f := newLoop(core.Settings{Animate: true})
	f.source.idle = &idle

	for i := 0; i < 10; i++ {
		_, err := f.loop.Step()
		require.NoError(t, err)
	}
	require.Zero(t, f.rec.count("acquire"))
	require.True(t, f.source.polls[0], "no window must mean a blocking poll")
}

func TestLoopAnimatedFrames(t *testing.T) {
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))

	// first iteration blocks for the window and renders one frame
	done, err := f.loop.Step()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, []bool{true, false}, f.source.polls)

	f.source.polls = nil
	for i := 0; i < 5; i++ {
		f.clock.advance(70000000)
		_, err := f.loop.Step()
		require.NoError(t, err)
	}

	for _, block := range f.source.polls {
		require.False(t, block, "animating with a window must never block")
	}
	require.Equal(t, 6, f.rec.count("acquire"))
	require.Equal(t, 6, f.rec.count("present"))

	// 0.35s at 10 ticks per second
	require.Equal(t, 3, f.game.ticks)
	require.InDelta(t, 0.5, f.game.frames[len(f.game.frames)-1], 1e-3)
}

func TestLoopFrameOrder(t *testing.T) {
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))

	_, err := f.loop.Step()
	require.NoError(t, err)
	require.Equal(t, []string{"create", "resize current", "acquire", "frame", "present"}, f.rec.calls)
}

func TestLoopStaticRendersAfterEvents(t *testing.T) {
	idle := shell.CommandEvent(shell.CommandRedrawNeeded)
	f := newLoop(core.Settings{Animate: false}, shell.WindowEvent(testWindow))
	f.source.idle = &idle

	for i := 0; i < 3; i++ {
		_, err := f.loop.Step()
		require.NoError(t, err)
	}
	require.Equal(t, 3, f.rec.count("present"))
	for i, block := range f.source.polls {
		require.Equal(t, i%2 == 0, block, "poll %d", i)
	}
}

func TestLoopElapsedIsSincePreviousFrame(t *testing.T) {
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))

	// time spent before the first window counts towards the first frame
	f.clock.advance(20000000)
	_, err := f.loop.Step()
	require.NoError(t, err)
	require.InDelta(t, 0.2, f.game.frames[0], 1e-3)

	f.clock.advance(30000000)
	_, err = f.loop.Step()
	require.NoError(t, err)
	require.InDelta(t, 0.5, f.game.frames[1], 1e-3)
	require.Zero(t, f.game.ticks)
}

func TestLoopContextCreationIsFatal(t *testing.T) {
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))
	f.backend.createErr = errors.New("vk.CreateDevice(): VK_ERROR_INITIALIZATION_FAILED")

	err := f.loop.Run()
	require.ErrorIs(t, err, shell.ErrContextCreation)
	require.Equal(t, 1, f.source.finished)
	require.Zero(t, f.rec.count("acquire"))
}

func TestLoopAcquireFailureIsFatal(t *testing.T) {
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))
	f.backend.acquireErr = errors.New("VK_ERROR_DEVICE_LOST")

	err := f.loop.Run()
	require.ErrorIs(t, err, f.backend.acquireErr)
	require.Equal(t, 1, f.source.finished)
	require.Zero(t, f.rec.count("present"))
	require.Empty(t, f.game.frames)
}

func TestLoopPresentFailureIsFatal(t *testing.T) {
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))
	f.backend.presentErr = errors.New("VK_ERROR_SURFACE_LOST_KHR")

	err := f.loop.Run()
	require.ErrorIs(t, err, f.backend.presentErr)
	require.Equal(t, 1, f.source.finished)
}

func TestLoopDestroyWhileLive(t *testing.T) {
	f := newLoop(core.Settings{Animate: true},
		shell.WindowEvent(testWindow),
		shell.CommandEvent(shell.CommandDestroy),
	)

	require.NoError(t, f.loop.Run())
	require.Equal(t, shell.NoWindow, f.controller.State())
	require.Equal(t, 1, f.rec.count("destroy"))
	require.Zero(t, f.rec.count("acquire"))
	require.Zero(t, f.source.finished)
}

func TestLoopClosedSourceEndsLoop(t *testing.T) {
	f := newLoop(core.Settings{Animate: false}, shell.WindowEvent(testWindow))

	// window event is drained, one frame, then the closed source ends the loop
	require.NoError(t, f.loop.Run())
	require.True(t, f.controller.DestroyRequested())
	require.Equal(t, 1, f.rec.count("present"))
	require.Equal(t, 1, f.rec.count("destroy"))
}

func TestLoopInputReply(t *testing.T) {
	var replies []bool
	reply := func(handled bool) { replies = append(replies, handled) }
	f := newLoop(core.Settings{},
		shell.Event{Input: &shell.InputEvent{Type: shell.InputMotion, Action: shell.MotionActionUp}, Reply: reply},
		shell.Event{Input: &shell.InputEvent{Type: shell.InputMotion, Action: shell.MotionActionMove}, Reply: reply},
		shell.Event{Input: &shell.InputEvent{Type: shell.InputKey}, Reply: reply},
		shell.CommandEvent(shell.CommandDestroy),
	)

	require.NoError(t, f.loop.Run())
	require.Equal(t, []bool{true, false, false}, replies)
	require.Equal(t, []string{"key space"}, f.rec.calls)
}

func TestShellCloseOrder(t *testing.T) {
	rec := &recorder{}
	backend := &fakeBackend{rec: rec, windowSize: core.Extent{Width: 640, Height: 480}}
	game := &fakeGame{rec: rec}
	source := &scriptedSource{rec: rec}
	s := shell.New(core.Configuration{Settings: core.Settings{Name: "test"}}, source, backend, game, &fakeDriver{rec: rec}, quietLogger())

	require.NoError(t, s.Controller().HandleCommand(shell.CommandInitWindow, testWindow))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	require.Equal(t, []string{
		"create",
		"resize current",
		"destroy",
		"destroy instance",
		"unload driver",
	}, rec.calls)
}

func TestShellQuit(t *testing.T) {
	rec := &recorder{}
	source := &scriptedSource{rec: rec}
	s := shell.New(core.Configuration{}, source, &fakeBackend{rec: rec}, &fakeGame{rec: rec}, nil, quietLogger())

	s.Quit()
	require.Equal(t, 1, source.finished)
	require.NoError(t, s.Close())
	require.Equal(t, []string{"finish", "destroy instance"}, rec.calls)
}

func TestLoopZeroAreaWindowBlocks(t *testing.T) {
	idle := shell.CommandEvent(shell.CommandLostFocus)
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))
	f.backend.windowSize = core.Extent{}
	f.source.idle = &idle

	const iterations = 100
	for i := 0; i < iterations; i++ {
		_, err := f.loop.Step()
		require.NoError(t, err)
	}

	require.Equal(t, shell.WindowLive, f.controller.State())
	require.False(t, f.controller.Presentable())
	require.Zero(t, f.rec.count("acquire"))

	// a live window with nothing to present into sleeps like no window
	require.Len(t, f.source.polls, 2*iterations)
	for i, block := range f.source.polls {
		require.Equal(t, i%2 == 0, block, "poll %d", i)
	}

	// growing again brings frames back without blocking
	f.backend.windowSize = core.Extent{Width: 640, Height: 480}
	f.source.events = []shell.Event{shell.CommandEvent(shell.CommandWindowResized)}
	f.source.polls = nil
	_, err := f.loop.Step()
	require.NoError(t, err)
	require.Equal(t, 1, f.rec.count("present"))
	_, err = f.loop.Step()
	require.NoError(t, err)
	require.False(t, f.source.polls[len(f.source.polls)-1])
}

func TestLoopFollowsBackendDroppingSwapchain(t *testing.T) {
	idle := shell.CommandEvent(shell.CommandLostFocus)
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))
	f.source.idle = &idle

	_, err := f.loop.Step()
	require.NoError(t, err)
	require.Equal(t, 1, f.rec.count("present"))

	f.backend.outOfDate()
	require.False(t, f.controller.Presentable())
	require.True(t, f.controller.Extent().Empty())

	f.source.polls = nil
	_, err = f.loop.Step()
	require.NoError(t, err)
	require.Equal(t, 1, f.rec.count("present"))
	require.True(t, f.source.polls[0], "nothing to present into must block")
}

func TestLoopFailedResizeStopsFrames(t *testing.T) {
	idle := shell.CommandEvent(shell.CommandLostFocus)
	f := newLoop(core.Settings{Animate: true}, shell.WindowEvent(testWindow))
	f.source.idle = &idle

	_, err := f.loop.Step()
	require.NoError(t, err)

	f.backend.resizeErr = errors.New("vk.CreateImageView()[1]: VK_ERROR_OUT_OF_DEVICE_MEMORY")
	f.backend.windowSize = core.Extent{Width: 640, Height: 480}
	f.source.events = []shell.Event{shell.CommandEvent(shell.CommandWindowResized)}
	_, err = f.loop.Step()
	require.NoError(t, err)
	require.Equal(t, shell.WindowLive, f.controller.State())
	require.False(t, f.controller.Presentable())
	require.Equal(t, 1, f.rec.count("present"))

	// the next resize rebuilds from scratch
	f.backend.resizeErr = nil
	f.source.events = []shell.Event{shell.CommandEvent(shell.CommandWindowResized)}
	_, err = f.loop.Step()
	require.NoError(t, err)
	require.True(t, f.controller.Presentable())
	require.Equal(t, core.Extent{Width: 640, Height: 480}, f.controller.Extent())
	require.Equal(t, 2, f.rec.count("present"))
}
