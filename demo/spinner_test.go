package demo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/devblok/korushell/core"
)

type colorRecorder struct {
	colors [][4]float32
}

func (r *colorRecorder) SetClearColor(red, green, blue, alpha float32) {
	r.colors = append(r.colors, [4]float32{red, green, blue, alpha})
}

func TestSpinnerStartsAtBase(t *testing.T) {
	rec := &colorRecorder{}
	s := NewSpinner(rec)

	s.OnFrame(0)
	require.Len(t, rec.colors, 1)
	require.InDelta(t, 0.8, rec.colors[0][0], 1e-4)
	require.InDelta(t, 0.2, rec.colors[0][1], 1e-4)
	require.InDelta(t, 0.2, rec.colors[0][2], 1e-4)
	require.Equal(t, float32(1), rec.colors[0][3])
}

func TestSpinnerRotationKeepsBrightness(t *testing.T) {
	s := NewSpinner(&colorRecorder{})
	for i := 0; i < 40; i++ {
		s.OnTick()
	}

	// rotating around the gray axis does not change the channel sum
	c := s.Color(0.5)
	require.InDelta(t, 1.2, c[0]+c[1]+c[2], 1e-3)
	require.False(t, c.ApproxEqualThreshold(mgl32.Vec3{0.8, 0.2, 0.2}, 1e-3))
}

func TestSpinnerPausesOnSpace(t *testing.T) {
	s := NewSpinner(&colorRecorder{})
	s.OnTick()

	s.OnKey(core.KeySpace)
	require.True(t, s.Paused())

	before := s.Color(0)
	s.OnTick()
	s.OnTick()
	require.True(t, before.ApproxEqualThreshold(s.Color(0.9), 1e-6))

	s.OnKey(core.KeyEsc)
	require.True(t, s.Paused())

	s.OnKey(core.KeySpace)
	require.False(t, s.Paused())
}

func TestSpinnerFramePrediction(t *testing.T) {
	s := NewSpinner(&colorRecorder{})

	// halfway to the next tick lands between the two tick colours
	s.OnTick()
	full := s.Color(0)
	s2 := NewSpinner(&colorRecorder{})
	half := s2.Color(0.5)
	start := s2.Color(0)

	require.False(t, half.ApproxEqualThreshold(start, 1e-4))
	require.False(t, half.ApproxEqualThreshold(full, 1e-4))
	require.True(t, s2.Color(1).ApproxEqualThreshold(full, 1e-4))
}
