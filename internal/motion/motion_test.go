package motion

import (
	"math"
	"testing"

	"github.com/claude/rowsight/internal/geom"
)

func fp(v float64) *float64 { return &v }

// frameAll builds a frame with all five landmarks present.
func frameAll(shoulder, elbow, wrist, hip, knee geom.Point) LandmarkFrame {
	return LandmarkFrame{
		JointShoulder: &shoulder,
		JointElbow:    &elbow,
		JointWrist:    &wrist,
		JointHip:      &hip,
		JointKnee:     &knee,
	}
}

// TestMovingAverage_WindowOneIsIdentity verifies that window <= 1 copies the
// input, including nil entries.
func TestMovingAverage_WindowOneIsIdentity(t *testing.T) {
	in := []*float64{fp(1), nil, fp(3), fp(4), nil}
	out := MovingAverage(in, 1)

	if len(out) != len(in) {
		t.Fatalf("length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		switch {
		case in[i] == nil && out[i] != nil:
			t.Errorf("index %d: got %v, want nil", i, *out[i])
		case in[i] != nil && (out[i] == nil || *out[i] != *in[i]):
			t.Errorf("index %d: got %v, want %v", i, out[i], *in[i])
		}
	}

	// Must be a copy, not an alias.
	out[0] = fp(99)
	if *in[0] != 1 {
		t.Error("MovingAverage aliased its input")
	}
}

// TestMovingAverage_SkipsMissing verifies that a single nil sample does not
// blank out its smoothed neighborhood: the window averages whatever is
// present.
func TestMovingAverage_SkipsMissing(t *testing.T) {
	in := []*float64{fp(10), nil, fp(20)}
	out := MovingAverage(in, 3)

	want := []float64{10, 15, 20}
	for i, w := range want {
		if out[i] == nil {
			t.Fatalf("index %d: got nil, want %v", i, w)
		}
		if math.Abs(*out[i]-w) > 1e-12 {
			t.Errorf("index %d: got %v, want %v", i, *out[i], w)
		}
	}
}

// TestMovingAverage_AllMissingWindow verifies a position stays nil exactly
// when its entire clipped window is absent.
func TestMovingAverage_AllMissingWindow(t *testing.T) {
	in := []*float64{nil, nil, nil, nil, fp(8)}
	out := MovingAverage(in, 3)

	for i := 0; i < 3; i++ {
		if out[i] != nil {
			t.Errorf("index %d: got %v, want nil (window fully absent)", i, *out[i])
		}
	}
	// Index 3 sees the defined value at 4.
	if out[3] == nil || *out[3] != 8 {
		t.Errorf("index 3: got %v, want 8", out[3])
	}
	if out[4] == nil || *out[4] != 8 {
		t.Errorf("index 4: got %v, want 8", out[4])
	}
}

// TestMovingAverage_EvenWindowSpan pins the floor-division half-width: an
// even window of 4 has half-width 2, so index 0 of a ramp averages indices
// 0..2.
func TestMovingAverage_EvenWindowSpan(t *testing.T) {
	in := []*float64{fp(0), fp(1), fp(2), fp(3), fp(4)}
	out := MovingAverage(in, 4)

	if out[0] == nil || math.Abs(*out[0]-1) > 1e-12 {
		t.Errorf("index 0: got %v, want 1 (mean of 0,1,2)", out[0])
	}
	// Index 2 spans 0..4.
	if out[2] == nil || math.Abs(*out[2]-2) > 1e-12 {
		t.Errorf("index 2: got %v, want 2", out[2])
	}
}

// TestMinMaxAmplitude covers the empty and single-element contracts.
func TestMinMaxAmplitude(t *testing.T) {
	mn, mx, amp := MinMaxAmplitude(nil)
	if mn != nil || mx != nil || amp != nil {
		t.Error("MinMaxAmplitude(nil) should be all nil")
	}

	mn, mx, amp = MinMaxAmplitude([]float64{7})
	if mn == nil || mx == nil || amp == nil {
		t.Fatal("MinMaxAmplitude([x]) returned nil")
	}
	if *mn != 7 || *mx != 7 || *amp != 0 {
		t.Errorf("MinMaxAmplitude([7]) = (%v, %v, %v), want (7, 7, 0)", *mn, *mx, *amp)
	}

	mn, mx, amp = MinMaxAmplitude([]float64{3, 9, 5})
	if *mn != 3 || *mx != 9 || *amp != 6 {
		t.Errorf("MinMaxAmplitude = (%v, %v, %v), want (3, 9, 6)", *mn, *mx, *amp)
	}
}

// TestDetectReps_Inconclusive verifies that fewer than two qualifying minima
// yields no segments.
func TestDetectReps_Inconclusive(t *testing.T) {
	// Single valley.
	series := []*float64{fp(0.5), fp(0.3), fp(0.1), fp(0.3), fp(0.5)}
	if reps := DetectReps(series, 1, 0.05); len(reps) != 0 {
		t.Errorf("single valley: got %d segments, want 0", len(reps))
	}

	// Flat series.
	flat := []*float64{fp(0.4), fp(0.4), fp(0.4), fp(0.4)}
	if reps := DetectReps(flat, 1, 0.01); len(reps) != 0 {
		t.Errorf("flat series: got %d segments, want 0", len(reps))
	}
}

// TestDetectReps_TwoValleys verifies that two clean V-shaped dips produce
// exactly one segment spanning the two minima.
func TestDetectReps_TwoValleys(t *testing.T) {
	series := []*float64{
		fp(0.50), fp(0.40), fp(0.30), fp(0.20), fp(0.10), // valley at 4
		fp(0.20), fp(0.30), fp(0.40), fp(0.50), fp(0.40),
		fp(0.30), fp(0.20), fp(0.10), // valley at 12
		fp(0.20), fp(0.30),
	}

	reps := DetectReps(series, 5, 0.05)
	if len(reps) != 1 {
		t.Fatalf("got %d segments, want 1", len(reps))
	}
	if reps[0].Start != 4 || reps[0].End != 12 {
		t.Errorf("segment = [%d,%d], want [4,12]", reps[0].Start, reps[0].End)
	}
}

// TestDetectReps_ProminenceFilter verifies that shallow dips below the
// prominence threshold are rejected.
func TestDetectReps_ProminenceFilter(t *testing.T) {
	series := []*float64{
		fp(0.300), fp(0.299), fp(0.300), // dip depth 0.001
		fp(0.300), fp(0.299), fp(0.300),
	}
	if reps := DetectReps(series, 1, 0.02); len(reps) != 0 {
		t.Errorf("shallow dips: got %d segments, want 0", len(reps))
	}
}

// TestDetectReps_MinLengthFilter verifies that a segment shorter than
// minFramesPerRep is dropped.
func TestDetectReps_MinLengthFilter(t *testing.T) {
	series := []*float64{
		fp(0.5), fp(0.1), fp(0.5), fp(0.1), fp(0.5),
	}
	// Minima at 1 and 3, segment length 2.
	if reps := DetectReps(series, 10, 0.05); len(reps) != 0 {
		t.Errorf("short segment: got %d, want 0", len(reps))
	}
	if reps := DetectReps(series, 2, 0.05); len(reps) != 1 {
		t.Errorf("allowed segment: got %d, want 1", len(reps))
	}
}

// TestDetectReps_SkipsUndefinedTriples verifies that minima with a nil
// neighbor are not candidates.
func TestDetectReps_SkipsUndefinedTriples(t *testing.T) {
	series := []*float64{fp(0.5), fp(0.1), nil, fp(0.5), fp(0.1), fp(0.5)}
	if reps := DetectReps(series, 1, 0.05); len(reps) != 0 {
		t.Errorf("got %d segments, want 0", len(reps))
	}
}

// TestComputeSeries_MissingLandmarks verifies that an absent landmark blanks
// exactly the metrics that depend on it.
func TestComputeSeries_MissingLandmarks(t *testing.T) {
	full := frameAll(
		geom.Point{X: 0.50, Y: 0.30},
		geom.Point{X: 0.55, Y: 0.45},
		geom.Point{X: 0.70, Y: 0.40},
		geom.Point{X: 0.50, Y: 0.55},
		geom.Point{X: 0.50, Y: 0.80},
	)

	noWrist := LandmarkFrame{}
	for j, p := range full {
		if j != JointWrist {
			noWrist[j] = p
		}
	}
	noKnee := LandmarkFrame{}
	for j, p := range full {
		if j != JointKnee {
			noKnee[j] = p
		}
	}

	s := ComputeSeries([]LandmarkFrame{full, noWrist, noKnee}, 1)

	if s.Len() != 3 {
		t.Fatalf("series length = %d, want 3", s.Len())
	}
	if s.ElbowAngleDeg[0] == nil || s.TrunkAngleDeg[0] == nil || s.WristShoulderDst[0] == nil {
		t.Error("full frame: all metrics should be defined")
	}
	if s.ElbowAngleDeg[1] != nil || s.WristShoulderDst[1] != nil {
		t.Error("missing wrist: elbow angle and wrist-shoulder distance should be nil")
	}
	if s.TrunkAngleDeg[1] == nil {
		t.Error("missing wrist: trunk angle should still be defined")
	}
	if s.TrunkAngleDeg[2] != nil {
		t.Error("missing knee: trunk angle should be nil")
	}
	if s.ElbowAngleDeg[2] == nil {
		t.Error("missing knee: elbow angle should still be defined")
	}
}

// TestComputeSeries_UnsmoothedRoundTrip verifies that with window 1 the
// reductions see exactly the raw computed values: a constant trunk geometry
// yields zero trunk variation and zero std.
func TestComputeSeries_UnsmoothedRoundTrip(t *testing.T) {
	hip := geom.Point{X: 0.50, Y: 0.55}
	knee := geom.Point{X: 0.50, Y: 0.80}
	shoulder := geom.Point{X: 0.50, Y: 0.30}
	elbow := geom.Point{X: 0.55, Y: 0.45}

	wrists := []geom.Point{
		{X: 0.7273, Y: 0.4187},
		{X: 0.6116, Y: 0.2809},
		{X: 0.5500, Y: 0.2700},
		{X: 0.6116, Y: 0.2809},
		{X: 0.7273, Y: 0.4187},
	}

	frames := make([]LandmarkFrame, len(wrists))
	for i, w := range wrists {
		frames[i] = frameAll(shoulder, elbow, w, hip, knee)
	}

	s := ComputeSeries(frames, 1)
	m := GlobalMetrics(s)

	if m["trunk_variation"] == nil || math.Abs(*m["trunk_variation"]) > 1e-9 {
		t.Errorf("trunk_variation = %v, want 0", m["trunk_variation"])
	}
	if m["trunk_std"] == nil || math.Abs(*m["trunk_std"]) > 1e-9 {
		t.Errorf("trunk_std = %v, want 0", m["trunk_std"])
	}
	if m["trunk_mean"] == nil {
		t.Fatal("trunk_mean is nil")
	}

	// Symmetric wrist path: the distance range must match the reduction of
	// the first and middle frames directly.
	d0 := geom.Distance(wrists[0], shoulder)
	d2 := geom.Distance(wrists[2], shoulder)
	if m["wrist_shoulder_max_dist"] == nil || math.Abs(*m["wrist_shoulder_max_dist"]-d0) > 1e-12 {
		t.Errorf("wrist_shoulder_max_dist = %v, want %v", m["wrist_shoulder_max_dist"], d0)
	}
	if m["wrist_shoulder_min_dist"] == nil || math.Abs(*m["wrist_shoulder_min_dist"]-d2) > 1e-12 {
		t.Errorf("wrist_shoulder_min_dist = %v, want %v", m["wrist_shoulder_min_dist"], d2)
	}
}

// TestGlobalMetrics_AllAbsent verifies absence propagation from an all-nil
// series.
func TestGlobalMetrics_AllAbsent(t *testing.T) {
	frames := []LandmarkFrame{{}, {}, {}}
	s := ComputeSeries(frames, 3)
	m := GlobalMetrics(s)

	for name, v := range m {
		if v != nil {
			t.Errorf("%s = %v, want nil", name, *v)
		}
	}
}

// TestComputeRepMetrics verifies per-segment reduction and index tagging.
func TestComputeRepMetrics(t *testing.T) {
	s := Series{
		ElbowAngleDeg:    []*float64{fp(100), fp(60), fp(120), fp(80), fp(110), fp(70)},
		TrunkAngleDeg:    []*float64{fp(170), fp(168), nil, fp(172), fp(169), fp(171)},
		WristShoulderDst: []*float64{fp(0.5), fp(0.2), fp(0.5), fp(0.5), fp(0.2), fp(0.5)},
	}
	reps := []RepSegment{{Start: 0, End: 2}, {Start: 3, End: 5}}

	rm := ComputeRepMetrics(s, reps)
	if len(rm) != 2 {
		t.Fatalf("got %d rep metrics, want 2", len(rm))
	}

	first := rm[0]
	if first.RepIndex != 0 || first.Frames != reps[0] {
		t.Errorf("first segment tagging wrong: %+v", first)
	}
	if *first.ElbowMin != 60 || *first.ElbowMax != 120 || *first.ElbowAmplitude != 60 {
		t.Errorf("first elbow = (%v,%v,%v), want (60,120,60)",
			*first.ElbowMin, *first.ElbowMax, *first.ElbowAmplitude)
	}
	// Trunk has a nil at index 2; reduction uses defined values only.
	if *first.TrunkMin != 168 || *first.TrunkMax != 170 {
		t.Errorf("first trunk = (%v,%v), want (168,170)", *first.TrunkMin, *first.TrunkMax)
	}

	second := rm[1]
	if second.RepIndex != 1 {
		t.Errorf("second RepIndex = %d, want 1", second.RepIndex)
	}
	if *second.ElbowAmplitude != 40 {
		t.Errorf("second elbow amplitude = %v, want 40", *second.ElbowAmplitude)
	}
}
