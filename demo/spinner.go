// Package demo has a small game that proves frames are flowing: it
// turns the clear colour around the colour wheel and stops on a tap.
package demo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korushell/core"
)

// ClearColorSetter is whatever paints the back buffer
type ClearColorSetter interface {
	SetClearColor(r, g, b, a float32)
}

// DefaultStep is the hue rotation per tick, in radians
const DefaultStep = math.Pi / 60

var grayAxis = mgl32.Vec3{1, 1, 1}.Normalize()

// NewSpinner creates a Spinner starting from a saturated red
func NewSpinner(target ClearColorSetter) *Spinner {
	return &Spinner{
		target: target,
		base:   mgl32.Vec3{0.8, 0.2, 0.2},
		step:   DefaultStep,
	}
}

// Spinner rotates the hue of the clear colour once per tick
type Spinner struct {
	target ClearColorSetter
	base   mgl32.Vec3
	step   float32

	angle  float32
	paused bool
}

// OnKey implements interface
func (s *Spinner) OnKey(key core.Key) {
	if key == core.KeySpace {
		s.paused = !s.paused
	}
}

// OnTick implements interface
func (s *Spinner) OnTick() {
	if s.paused {
		return
	}
	s.angle = float32(math.Mod(float64(s.angle+s.step), 2*math.Pi))
}

// OnFrame implements interface
func (s *Spinner) OnFrame(framePred float32) {
	c := s.Color(framePred)
	s.target.SetClearColor(c[0], c[1], c[2], 1)
}

// Color returns the colour for a frame that is framePred of
// the way towards the next tick
func (s *Spinner) Color(framePred float32) mgl32.Vec3 {
	angle := s.angle
	if !s.paused {
		angle += s.step * mgl32.Clamp(framePred, 0, 1)
	}

	c := mgl32.QuatRotate(angle, grayAxis).Rotate(s.base)
	return mgl32.Vec3{
		mgl32.Clamp(c[0], 0, 1),
		mgl32.Clamp(c[1], 0, 1),
		mgl32.Clamp(c[2], 0, 1),
	}
}

// Paused reports whether the spinner is stopped
func (s *Spinner) Paused() bool {
	return s.paused
}
