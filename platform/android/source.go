//go:build android

// Package android hosts the shell in a NativeActivity. Activity
// callbacks arrive on the activity's own thread; they are turned into
// shell events here and handed to whichever goroutine polls the Source.
package android

import (
	"unsafe"

	ndk "github.com/xlab/android-go/android"
	"github.com/xlab/android-go/app"

	"github.com/devblok/korushell/core"
	"github.com/devblok/korushell/shell"
)

// NewSource subscribes to the activity's callbacks and signals the
// activity that the application is ready to receive them
func NewSource(a app.NativeActivity) *Source {
	s := &Source{
		activity:      a,
		lifecycle:     a.LifecycleEvents(),
		windowEvents:  make(chan app.NativeWindowEvent),
		contentEvents: make(chan app.ContentRectEvent),
		focusEvents:   make(chan app.WindowFocusEvent),
		activityEvent: make(chan app.ActivityEvent),
		queueEvents:   make(chan app.InputQueueEvent),
		input:         make(chan shell.Event),
	}

	a.HandleNativeWindowEvents(s.windowEvents)
	a.HandleContentRectEvents(s.contentEvents)
	a.HandleWindowFocusEvents(s.focusEvents)
	a.HandleActivityEvents(s.activityEvent)
	a.HandleInputQueueEvents(s.queueEvents)
	a.InitDone()
	return s
}

// Source implements shell.Source on top of a NativeActivity
type Source struct {
	activity app.NativeActivity

	lifecycle     <-chan app.LifecycleEvent
	windowEvents  chan app.NativeWindowEvent
	contentEvents chan app.ContentRectEvent
	focusEvents   chan app.WindowFocusEvent
	activityEvent chan app.ActivityEvent
	queueEvents   chan app.InputQueueEvent
	input         chan shell.Event

	queues chan *ndk.InputQueue
}

// Poll implements interface
func (s *Source) Poll(block bool) (shell.Event, bool) {
	for {
		raw, ok := s.receive(block)
		if !ok {
			return shell.Event{}, false
		}

		switch e := raw.(type) {
		case app.LifecycleEvent:
			return lifecycleEvent(e), true
		case app.NativeWindowEvent:
			return s.windowEvent(e), true
		case app.ContentRectEvent:
			return contentEvent(e), true
		case app.WindowFocusEvent:
			return focusEvent(e), true
		case app.ActivityEvent:
			return activityEvent(e), true
		case app.InputQueueEvent:
			// nothing for the shell, keep polling
			s.queueEvent(e)
		case shell.Event:
			return e, true
		}
	}
}

// receive takes one callback off any of the channels. It reports
// false when nothing is pending and block is unset, or when the
// activity has closed its lifecycle channel.
func (s *Source) receive(block bool) (interface{}, bool) {
	if !block {
		select {
		case e, open := <-s.lifecycle:
			return e, open
		case e := <-s.windowEvents:
			return e, true
		case e := <-s.contentEvents:
			return e, true
		case e := <-s.focusEvents:
			return e, true
		case e := <-s.activityEvent:
			return e, true
		case e := <-s.queueEvents:
			return e, true
		case e := <-s.input:
			return e, true
		default:
			return nil, false
		}
	}

	select {
	case e, open := <-s.lifecycle:
		return e, open
	case e := <-s.windowEvents:
		return e, true
	case e := <-s.contentEvents:
		return e, true
	case e := <-s.focusEvents:
		return e, true
	case e := <-s.activityEvent:
		return e, true
	case e := <-s.queueEvents:
		return e, true
	case e := <-s.input:
		return e, true
	}
}

func lifecycleEvent(e app.LifecycleEvent) shell.Event {
	switch e.Kind {
	case app.OnStart:
		return shell.CommandEvent(shell.CommandStart)
	case app.OnResume:
		return shell.CommandEvent(shell.CommandResume)
	case app.OnPause:
		return shell.CommandEvent(shell.CommandPause)
	case app.OnStop:
		return shell.CommandEvent(shell.CommandStop)
	case app.OnDestroy:
		return shell.CommandEvent(shell.CommandDestroy)
	default:
		return shell.CommandEvent(shell.CommandUnknown)
	}
}

func (s *Source) windowEvent(e app.NativeWindowEvent) shell.Event {
	switch e.Kind {
	case app.NativeWindowCreated:
		return shell.WindowEvent(core.NativeWindow(unsafe.Pointer(e.Window)))
	case app.NativeWindowDestroyed:
		return shell.CommandEvent(shell.CommandTermWindow)
	case app.NativeWindowRedrawNeeded:
		// the activity thread waits for this before it carries on
		s.activity.NativeWindowRedrawDone()
		return shell.CommandEvent(shell.CommandRedrawNeeded)
	default:
		return shell.CommandEvent(shell.CommandUnknown)
	}
}

// contentEvent reports a changed content rect as a resize, the
// NativeActivity glue has no separate window-resized callback path
func contentEvent(e app.ContentRectEvent) shell.Event {
	return shell.CommandEvent(shell.CommandWindowResized)
}

func focusEvent(e app.WindowFocusEvent) shell.Event {
	if e.HasFocus {
		return shell.CommandEvent(shell.CommandGainedFocus)
	}
	return shell.CommandEvent(shell.CommandLostFocus)
}

func activityEvent(e app.ActivityEvent) shell.Event {
	switch e.Kind {
	case app.OnConfigurationChanged:
		return shell.CommandEvent(shell.CommandConfigChanged)
	case app.OnLowMemory:
		return shell.CommandEvent(shell.CommandLowMemory)
	default:
		return shell.CommandEvent(shell.CommandUnknown)
	}
}

func (s *Source) queueEvent(e app.InputQueueEvent) {
	switch e.Kind {
	case app.QueueCreated:
		s.queues = make(chan *ndk.InputQueue, 1)
		go app.HandleInputQueues(s.queues, func() {
			s.activity.InputQueueHandled()
		}, s.forwardInput)
		s.queues <- e.Queue
	case app.QueueDestroyed:
		if s.queues != nil {
			s.queues <- nil
			s.queues = nil
		}
	}
}

// forwardInput runs on the input queue's goroutine and
// waits until the shell has looked at the event
func (s *Source) forwardInput(ev *ndk.InputEvent) {
	input := &shell.InputEvent{}
	switch ndk.InputEventGetType(ev) {
	case int32(ndk.InputEventTypeMotion):
		input.Type = shell.InputMotion
		input.Action = ndk.MotionEventGetAction(ev)
	case int32(ndk.InputEventTypeKey):
		input.Type = shell.InputKey
		input.Action = ndk.KeyEventGetAction(ev)
	default:
		return
	}

	done := make(chan bool, 1)
	s.input <- shell.Event{
		Input: input,
		Reply: func(handled bool) { done <- handled },
	}
	<-done
}

// Finish implements interface
func (s *Source) Finish() {
	ndk.NativeActivityFinish(s.activity.NativeActivity())
}
