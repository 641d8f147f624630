package vehicle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/racer-engine/internal/geom"
	"github.com/cxd309/racer-engine/internal/kinematics"
	"github.com/cxd309/racer-engine/internal/track"
)

// straightCurve is a 1000-long straight whose normals are all parallel.
type straightCurve struct{}

func (straightCurve) Length() float64 { return 1000 }
func (straightCurve) PointAt(o float64) geom.Point { return geom.Pt(o, 0) }
func (straightCurve) TangentAt(float64) geom.Point { return geom.Pt(1, 0) }
func (straightCurve) NormalAt(float64) geom.Point { return geom.Pt(0, -1) }
func (straightCurve) OffsetOf(p geom.Point) float64 { return p.X }

// pinchCurve runs along the X axis but every normal aims at focus.
type pinchCurve struct{ focus geom.Point }

func (pinchCurve) Length() float64 { return 1000 }
func (pinchCurve) PointAt(o float64) geom.Point { return geom.Pt(o, 0) }
func (pinchCurve) TangentAt(o float64) geom.Point { return geom.FromAngle(-o, 1) }
func (c pinchCurve) NormalAt(o float64) geom.Point { return c.focus.Sub(geom.Pt(o, 0)).Unit() }
func (pinchCurve) OffsetOf(p geom.Point) float64 { return p.X }

func newSampler(t *testing.T, c track.Curve) *track.Sampler {
	t.Helper()
	s, err := track.NewSampler(c)
	require.NoError(t, err)
	return s
}

func squareSampler(t *testing.T) *track.Sampler {
	t.Helper()
	p, err := track.NewPolyline([]geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100)})
	require.NoError(t, err)
	return newSampler(t, p)
}

func newCar(t *testing.T, v Vehicle, s *track.Sampler) *Car {
	t.Helper()
	c, err := NewCar(v, s, 0)
	require.NoError(t, err)
	return c
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestStraightTrackThrottleScenario(t *testing.T) {
	c := newCar(t, Default(), newSampler(t, straightCurve{}))
	c.Accelerate()

	total := 0.0
	for frame := 1; frame <= 30; frame++ {
		events := c.Step()
		require.Equal(t, PhaseDriving, c.Phase())
		require.Len(t, events, 1)
		assert.Equal(t, EventRunning, events[0].Kind)
		assert.Equal(t, frame, events[0].Frame)
		assert.Equal(t, Score(c.Speed()), events[0].ScoreDelta)
		total += c.Speed()
		if frame == 25 {
			assert.InDelta(t, 20, c.Speed(), 1e-9)
		}
	}
	assert.Equal(t, MaxSpeed, c.Speed())
	assert.InDelta(t, total, c.State().Offset, 1e-9)
	assert.InDelta(t, 360, c.State().Offset, 1e-6)
	assert.InDelta(t, 360, c.Position().X, 1e-6)
}

func TestStraightTrackNeverExits(t *testing.T) {
	c := newCar(t, Default(), newSampler(t, straightCurve{}))
	c.Accelerate()
	for i := 0; i < 2000; i++ {
		for _, e := range c.Step() {
			require.NotEqual(t, EventExited, e.Kind, "frame %d", c.Frame())
		}
	}
	assert.Equal(t, PhaseDriving, c.Phase())
}

func TestSpeedBoundedForAnyThrottleSequence(t *testing.T) {
	c := newCar(t, Default(), squareSampler(t))
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 3000; i++ {
		c.SetThrottle(rng.Intn(2) == 0)
		c.Step()
		require.GreaterOrEqual(t, c.Speed(), 0.0)
		require.LessOrEqual(t, c.Speed(), MaxSpeed)
		if c.Phase() == PhaseCrashEnded {
			require.NoError(t, c.Resume(true))
		}
	}
}

func TestConvergingNormalsExitOnFirstFrame(t *testing.T) {
	v := Vehicle{
		Name:            "pinch",
		Kinem:           kinematics.ConstantAcceleration{AAcc: 5, ADcc: 1, VMaxVal: 5},
		SlidingFriction: 4.1,
		ExitRotation:    ExitRotation,
	}
	c := newCar(t, v, newSampler(t, pinchCurve{focus: geom.Pt(2.5, 0.05)}))
	c.Accelerate()

	events := c.Step()
	require.Equal(t, []EventKind{EventExited}, kinds(events))
	assert.Equal(t, PhaseExiting, c.Phase())
	assert.InDelta(t, math.Sqrt(0.205), c.LastProbe().MaxSpeed, 1e-9)

	exit := c.Exit()
	require.NotNil(t, exit)
	assert.Equal(t, geom.Pt(5, 0), exit.Line.A)
	assert.Equal(t, ExitRotation, exit.Rotation)
	assert.False(t, c.State().Throttle)
}

func TestCrashCycleOnSquareCorner(t *testing.T) {
	c := newCar(t, Default(), squareSampler(t))
	c.Accelerate()

	exitFrame := 0
	for i := 0; i < 100 && exitFrame == 0; i++ {
		for _, e := range c.Step() {
			if e.Kind == EventExited {
				exitFrame = e.Frame
			}
		}
	}
	require.Equal(t, 16, exitFrame, "first frame past the corner at 12.8")
	assert.Equal(t, geom.Pt(100, 8.8), roundPt(c.Position()))
	preExit := geom.Pt(96, 0)

	// Input is suspended while sliding.
	assert.False(t, c.Accelerate())

	crashEnded := 0
	prevSpeed := c.Speed()
	prevHeading := c.HeadingDegrees()
	for i := 0; i < 200; i++ {
		wasExiting := c.Phase() == PhaseExiting
		for _, e := range c.Step() {
			require.Equal(t, EventCrashEnded, e.Kind)
			crashEnded++
		}
		if wasExiting {
			require.Less(t, c.Speed(), prevSpeed)
			prevSpeed = c.Speed()
		}
		if c.Phase() == PhaseExiting {
			require.Greater(t, c.HeadingDegrees(), prevHeading)
			prevHeading = c.HeadingDegrees()
		}
	}
	require.Equal(t, 1, crashEnded)
	assert.Equal(t, PhaseCrashEnded, c.Phase())
	assert.Less(t, c.Speed(), StoppedSpeed)
	assert.Nil(t, c.Exit())

	// No position updates until resumed.
	parked := c.Position()
	c.Step()
	assert.Equal(t, parked, c.Position())

	require.NoError(t, c.Resume(true))
	assert.Equal(t, PhaseDriving, c.Phase())
	assert.Equal(t, preExit, roundPt(c.Position()))
	assert.InDelta(t, 0, c.HeadingDegrees(), 1e-9)
	assert.InDelta(t, 96, c.State().Offset, 1e-9)
	assert.True(t, c.Accelerate())
}

func TestExitLineFollowsVelocity(t *testing.T) {
	c := newCar(t, Default(), squareSampler(t))
	c.Accelerate()
	for c.Phase() == PhaseDriving {
		c.Step()
	}
	exit := c.Exit()
	require.NotNil(t, exit)
	assert.InDelta(t, 90, exit.Line.Dir().Angle(), 1e-9)
	assert.InDelta(t, c.Speed()*ExitLineScale, exit.Line.Len(), 1e-9)

	start := c.Position()
	c.Step()
	moved := c.Position().Sub(start)
	assert.InDelta(t, 0, moved.X, 1e-9)
	assert.InDelta(t, c.Speed(), moved.Y, 1e-9)
	assert.InDelta(t, 90+ExitRotation*Friction, c.HeadingDegrees(), 1e-9)
}

func TestResumeOutsideCrashEndedIsNoOp(t *testing.T) {
	c := newCar(t, Default(), squareSampler(t))
	before := c.State()
	assert.ErrorIs(t, c.Resume(true), ErrNotCrashEnded)
	assert.ErrorIs(t, c.Resume(false), ErrNotCrashEnded)
	assert.Equal(t, before, c.State())
	assert.Equal(t, PhaseDriving, c.Phase())
}

func TestResumeWithoutRecoveryRetires(t *testing.T) {
	c := crashedCar(t)
	require.NoError(t, c.Resume(false))
	assert.Equal(t, PhaseRetired, c.Phase())
	assert.False(t, c.Accelerate())

	parked := c.Position()
	assert.Empty(t, c.Step())
	assert.Equal(t, parked, c.Position())

	c.Reset()
	assert.Equal(t, PhaseDriving, c.Phase())
	assert.Equal(t, geom.Pt(0, 0), c.Position())
}

func TestResetIsIdempotent(t *testing.T) {
	c := newCar(t, Default(), squareSampler(t))
	c.Accelerate()
	for i := 0; i < 10; i++ {
		c.Step()
	}

	c.Reset()
	once := c.State()
	c.Reset()
	assert.Equal(t, once, c.State())
	assert.Equal(t, State{Heading: 0, Position: geom.Pt(0, 0)}, once)
}

func TestResetWhileSlidingIsDeferred(t *testing.T) {
	c := newCar(t, Default(), squareSampler(t))
	c.Accelerate()
	for c.Phase() == PhaseDriving {
		c.Step()
	}
	sliding := c.State()
	c.Reset()
	assert.Equal(t, PhaseExiting, c.Phase())
	assert.Equal(t, sliding, c.State())

	var got []EventKind
	for c.Phase() == PhaseExiting {
		got = append(got, kinds(c.Step())...)
	}
	assert.Equal(t, []EventKind{EventCrashEnded}, got)
	assert.Equal(t, PhaseDriving, c.Phase())
	assert.Equal(t, geom.Pt(0, 0), c.Position())
	assert.Zero(t, c.Speed())
}

func TestStoppedCarCommitsNothing(t *testing.T) {
	c := newCar(t, Default(), squareSampler(t))
	for i := 0; i < 5; i++ {
		assert.Empty(t, c.Step())
	}
	assert.Equal(t, geom.Pt(0, 0), c.Position())
}

func TestScore(t *testing.T) {
	assert.Equal(t, -1, Score(0))
	assert.Equal(t, -1, Score(0.05), "near-stopped frames cost a point")
	assert.Equal(t, 0, Score(0.1))
	assert.Equal(t, 99, Score(20))
}

func TestNewCarValidation(t *testing.T) {
	_, err := NewCar(Default(), nil, 0)
	assert.ErrorIs(t, err, track.ErrUninitializedCurve)

	_, err = NewCar(Vehicle{Name: "bare"}, squareSampler(t), 0)
	assert.Error(t, err)

	bad := Default()
	bad.Kinem = kinematics.Arcade{Accel: 1, Friction: 1.5, VMaxVal: 10}
	_, err = NewCar(bad, squareSampler(t), 0)
	assert.ErrorIs(t, err, kinematics.ErrInvalidModel)

	_, err = NewCar(Default(), squareSampler(t), math.NaN())
	assert.Error(t, err)

	c, err := NewCar(Default(), squareSampler(t), 450)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(50, 0), c.Position())
}

func crashedCar(t *testing.T) *Car {
	t.Helper()
	c := newCar(t, Default(), squareSampler(t))
	c.Accelerate()
	for i := 0; i < 500 && c.Phase() != PhaseCrashEnded; i++ {
		c.Step()
	}
	require.Equal(t, PhaseCrashEnded, c.Phase())
	return c
}

func roundPt(p geom.Point) geom.Point {
	r := func(v float64) float64 { return math.Round(v*1e6) / 1e6 }
	return geom.Pt(r(p.X), r(p.Y))
}

// driveUntilExit holds the throttle and returns the frame of the first
// EventExited, or 0 if none happens within limit frames.
func driveUntilExit(c *Car, limit int) int {
	c.Accelerate()
	for i := 0; i < limit; i++ {
		for _, e := range c.Step() {
			if e.Kind == EventExited {
				return e.Frame
			}
		}
	}
	return 0
}

func TestFirstCornerExitForBothWindings(t *testing.T) {
	cases := []struct {
		name string
		pts  []geom.Point
		exit geom.Point
	}{
		{"right turns", []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100)}, geom.Pt(100, 8.8)},
		{"left turns", []geom.Point{geom.Pt(0, 0), geom.Pt(0, 100), geom.Pt(100, 100), geom.Pt(100, 0)}, geom.Pt(8.8, 100)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := track.NewPolyline(tc.pts)
			require.NoError(t, err)
			c := newCar(t, Default(), newSampler(t, p))

			require.Equal(t, 16, driveUntilExit(c, 100))
			assert.Equal(t, PhaseExiting, c.Phase())
			assert.Equal(t, tc.exit, roundPt(c.Position()))
			assert.Greater(t, c.Speed(), c.LastProbe().MaxSpeed)
		})
	}
}

func TestExitAcrossStartOfTrack(t *testing.T) {
	// A square standing on a corner. The heading is 135° along A->B and
	// -135° along B->C, so the turn at B crosses the ±180° seam.
	pa, pb, pc, pd := geom.Pt(0, 0), geom.Pt(-100, 100), geom.Pt(-200, 0), geom.Pt(-100, -100)
	side := pa.Dist(pb)

	fromA, err := track.NewPolyline([]geom.Point{pa, pb, pc, pd})
	require.NoError(t, err)
	// The same shape with the start of the track moved onto B.
	fromB, err := track.NewPolyline([]geom.Point{pb, pc, pd, pa})
	require.NoError(t, err)

	// Both cars start 100 before B.
	mid, err := NewCar(Default(), newSampler(t, fromA), side-100)
	require.NoError(t, err)
	seam, err := NewCar(Default(), newSampler(t, fromB), 4*side-100)
	require.NoError(t, err)

	assert.InDelta(t, 135, seam.HeadingDegrees(), 1e-9)
	require.Equal(t, 16, driveUntilExit(mid, 100))
	require.Equal(t, 16, driveUntilExit(seam, 100), "exit on the corner at the start of the track")

	want := pb.Add(geom.FromAngle(-135, 8.8))
	for _, c := range []*Car{mid, seam} {
		assert.InDelta(t, want.X, c.Position().X, 1e-6)
		assert.InDelta(t, want.Y, c.Position().Y, 1e-6)
		assert.InDelta(t, -135, c.Exit().Line.Dir().Angle(), 1e-9)
		assert.Equal(t, -1, c.LastProbe().Direction)
	}
	assert.InDelta(t, mid.LastProbe().MaxSpeed, seam.LastProbe().MaxSpeed, 1e-6)
}
