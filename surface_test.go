package photoheart

import (
	"math"
	"testing"
)

const surfaceEpsilon = 1e-9

func TestSurfacePointReferenceScenario(t *testing.T) {
	shape := DefaultShape()
	got := shape.SurfacePoint(0, 150, 0, false)
	want := [3]float64{0, 4.0, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > surfaceEpsilon {
			t.Fatalf("SurfacePoint(0, 150, 0, false) = %v, want %v", got, want)
		}
	}
}

func TestAngles(t *testing.T) {
	tests := []struct {
		index, count int
		wantT, wantP float64
	}{
		{0, 150, 0, 0},
		{75, 150, math.Pi, 75 * 137.5 * math.Pi / 180},
		{1, 4, math.Pi / 2, 137.5 * math.Pi / 180},
	}
	for _, tt := range tests {
		gotT, gotP := Angles(tt.index, tt.count)
		if math.Abs(gotT-tt.wantT) > surfaceEpsilon || math.Abs(gotP-tt.wantP) > surfaceEpsilon {
			t.Errorf("Angles(%d, %d) = (%v, %v), want (%v, %v)",
				tt.index, tt.count, gotT, gotP, tt.wantT, tt.wantP)
		}
	}
}

func TestHeartCurveKnownPoints(t *testing.T) {
	tests := []struct {
		name   string
		t      float64
		wx, wy float64
	}{
		{"top notch", 0, 0, 5},
		{"right lobe", math.Pi / 2, 16, 4},
		{"bottom tip", math.Pi, 0, -17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := HeartCurve(tt.t)
			if math.Abs(x-tt.wx) > 1e-9 || math.Abs(y-tt.wy) > 1e-9 {
				t.Errorf("HeartCurve(%v) = (%v, %v), want (%v, %v)", tt.t, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestBeat(t *testing.T) {
	shape := DefaultShape()
	if got := shape.Beat(0); math.Abs(got-0.8) > surfaceEpsilon {
		t.Errorf("Beat(0) = %v, want 0.8", got)
	}
	peak := math.Pi / 6 // sin(3*t) = 1
	if got := shape.Beat(peak); math.Abs(got-0.85) > surfaceEpsilon {
		t.Errorf("Beat(π/6) = %v, want 0.85", got)
	}
}

func TestSurfacePointDeterministic(t *testing.T) {
	shape := DefaultShape()
	shape.JitterAmplitude = 0.3
	for _, expanding := range []bool{false, true} {
		for i := 0; i < 200; i++ {
			a := shape.SurfacePoint(i, 200, 1.234, expanding)
			b := shape.SurfacePoint(i, 200, 1.234, expanding)
			if a != b {
				t.Fatalf("index %d expanding=%v: %v != %v", i, expanding, a, b)
			}
		}
	}
}

func TestSurfacePointZeroCount(t *testing.T) {
	got := DefaultShape().SurfacePoint(3, 0, 1, true)
	if got.Len() != 0 {
		t.Errorf("SurfacePoint with count 0 = %v, want zero vector", got)
	}
}

func TestSurfacePointRestingBounds(t *testing.T) {
	shape := DefaultShape()
	const n = 2000
	beat := shape.Beat(0)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	maxDepth := 16 * shape.Depth * beat
	for i := 0; i < n; i++ {
		p := shape.SurfacePoint(i, n, 0, false)
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
		if math.Abs(p.Z()) > maxDepth+surfaceEpsilon {
			t.Fatalf("index %d: |z| = %v exceeds depth band %v", i, math.Abs(p.Z()), maxDepth)
		}
		if math.Abs(p.X()) > 16*beat+surfaceEpsilon {
			t.Fatalf("index %d: |x| = %v exceeds %v", i, math.Abs(p.X()), 16*beat)
		}
	}

	// The tip of the heart sits at index n/2 exactly.
	if math.Abs(minY-(-17*beat)) > 1e-6 {
		t.Errorf("minY = %v, want %v", minY, -17*beat)
	}
	aspect := (maxY - minY) / (maxX - minX)
	if aspect < 0.85 || aspect > 0.95 {
		t.Errorf("bounding box aspect = %v, want ~0.9", aspect)
	}
	// Width is nearly symmetric about the vertical axis.
	if math.Abs(maxX+minX) > 0.5 {
		t.Errorf("x extent not centered: [%v, %v]", minX, maxX)
	}
}

func TestSurfacePointExpansionIncreasesDistance(t *testing.T) {
	shape := DefaultShape()
	const n = 500
	for _, tm := range []float64{0, 0.37, 2.5} {
		for i := 0; i < n; i++ {
			rest := shape.SurfacePoint(i, n, tm, false).Len()
			exp := shape.SurfacePoint(i, n, tm, true).Len()
			if exp <= rest {
				t.Fatalf("index %d time %v: expanded %v <= resting %v", i, tm, exp, rest)
			}
			if math.Abs(exp/rest-shape.ExpansionFactor) > 1e-9 {
				t.Fatalf("index %d: ratio %v, want %v", i, exp/rest, shape.ExpansionFactor)
			}
		}
	}
}

func TestSurfacePointJitterSmooth(t *testing.T) {
	shape := DefaultShape()
	shape.JitterAmplitude = 0.5
	const dt = 0.005
	prev := shape.SurfacePoint(10, 150, 1, true)
	for k := 1; k <= 100; k++ {
		cur := shape.SurfacePoint(10, 150, 1+float64(k)*dt, true)
		// One frame of jitter moves at most amplitude*freq*dt per axis plus the beat drift.
		if cur.Sub(prev).Len() > 0.5*20*dt*math.Sqrt(3)+0.1 {
			t.Fatalf("frame %d jumped %v", k, cur.Sub(prev).Len())
		}
		prev = cur
	}
}

func TestGoldenAngleNoCollisions(t *testing.T) {
	const n = 2000
	const tol = 1e-9
	type pair struct{ t, p float64 }
	pairs := make([]pair, n)
	for i := range pairs {
		tt, pp := Angles(i, n)
		pairs[i] = pair{math.Mod(tt, 2*math.Pi), math.Mod(pp, 2*math.Pi)}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dt := angularDistance(pairs[i].t, pairs[j].t)
			dp := angularDistance(pairs[i].p, pairs[j].p)
			if dt < tol && dp < tol {
				t.Fatalf("indices %d and %d share angles (%v, %v)", i, j, pairs[i].t, pairs[i].p)
			}
		}
	}
}

func TestGoldenAngleConsecutivePhasesSpread(t *testing.T) {
	// Consecutive indices never land within 10 degrees of each other.
	for i := 0; i < 2000; i++ {
		_, p0 := Angles(i, 2000)
		_, p1 := Angles(i+1, 2000)
		if d := angularDistance(math.Mod(p0, 2*math.Pi), math.Mod(p1, 2*math.Pi)); d < 10*math.Pi/180 {
			t.Fatalf("indices %d,%d phase distance %v rad", i, i+1, d)
		}
	}
}

func angularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

func BenchmarkSurfacePoint(b *testing.B) {
	shape := DefaultShape()
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		_ = shape.SurfacePoint(i%1000, 1000, 1.5, i%2 == 0)
		i++
	}
}
