package track

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/cxd309/racer-engine/internal/geom"
)

// DefaultSubdivisions is the number of points inserted per span when a
// track is smoothed and TrackData.Subdivisions is unset.
const DefaultSubdivisions = 8

//go:embed default_track.json
var defaultTrackJSON []byte

// TrackData is the serialisable description of a circuit.
type TrackData struct {
	Name      string       `json:"name,omitempty"`
	Waypoints []geom.Point `json:"waypoints"`
	// Smooth rounds the corners with a closed Catmull-Rom spline through
	// the waypoints before the polyline is built.
	Smooth       bool `json:"smooth,omitempty"`
	Subdivisions int  `json:"subdivisions,omitempty"`
}

// Build turns the description into a Polyline curve.
func (d TrackData) Build() (*Polyline, error) {
	pts := d.Waypoints
	if d.Smooth && len(pts) >= 3 {
		n := d.Subdivisions
		if n <= 0 {
			n = DefaultSubdivisions
		}
		pts = catmullRom(pts, n)
	}
	p, err := NewPolyline(pts)
	if err != nil {
		return nil, fmt.Errorf("track %q: %w", d.Name, err)
	}
	return p, nil
}

// Default returns the circuit shipped with the engine.
func Default() TrackData {
	var d TrackData
	if err := json.Unmarshal(defaultTrackJSON, &d); err != nil {
		panic(fmt.Sprintf("embedded default track: %v", err))
	}
	return d
}

// LoadFile reads a TrackData from a JSON file.
func LoadFile(path string) (TrackData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TrackData{}, fmt.Errorf("reading track file: %w", err)
	}
	var d TrackData
	if err := json.Unmarshal(raw, &d); err != nil {
		return TrackData{}, fmt.Errorf("parsing track file %s: %w", path, err)
	}
	return d, nil
}

// Circle returns a regular polygon with the given number of sides
// approximating a circle. Points are placed clockwise on screen (y down).
func Circle(center geom.Point, radius float64, segments int) TrackData {
	if segments < 3 {
		segments = 3
	}
	pts := make([]geom.Point, segments)
	for i := range pts {
		pts[i] = center.Add(geom.FromAngle(360*float64(i)/float64(segments), radius))
	}
	return TrackData{Name: "circle", Waypoints: pts}
}

// catmullRom samples a closed uniform Catmull-Rom spline through pts,
// emitting each control point followed by n-1 interpolated points.
func catmullRom(pts []geom.Point, n int) []geom.Point {
	m := len(pts)
	out := make([]geom.Point, 0, m*n)
	for i := 0; i < m; i++ {
		p0 := pts[(i-1+m)%m]
		p1 := pts[i]
		p2 := pts[(i+1)%m]
		p3 := pts[(i+2)%m]
		for k := 0; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, geom.Point{
				X: catmullRom1(p0.X, p1.X, p2.X, p3.X, t),
				Y: catmullRom1(p0.Y, p1.Y, p2.Y, p3.Y, t),
			})
		}
	}
	return out
}

func catmullRom1(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	v := 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
	if math.IsNaN(v) {
		return p1
	}
	return v
}
