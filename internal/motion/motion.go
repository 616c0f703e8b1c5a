// Package motion turns per-frame pose landmarks into smoothed joint-angle
// time series, repetition segments, and summary metrics.
//
// Missing data is pervasive here: the pose extractor drops landmarks it is
// not confident about, and an angle can be geometrically undefined. Both are
// modeled as nil entries and flow through every computation; nothing in this
// package turns a data gap into an error.
package motion

import (
	"math"

	"github.com/claude/rowsight/internal/geom"
)

// Joint names the landmarks the analysis consumes. The extractor emits one
// side (left or right); the side choice is resolved upstream.
type Joint string

const (
	JointShoulder Joint = "shoulder"
	JointElbow    Joint = "elbow"
	JointWrist    Joint = "wrist"
	JointHip      Joint = "hip"
	JointKnee     Joint = "knee"
)

// Joints lists all landmarks in the extractor's column order.
var Joints = []Joint{JointShoulder, JointElbow, JointWrist, JointHip, JointKnee}

// LandmarkFrame holds the landmarks of one video frame. A missing entry (or
// nil value) means the landmark was not confidently detected in that frame.
type LandmarkFrame map[Joint]*geom.Point

// Series holds the per-frame metric series. All three slices have exactly
// the same length as the input frame sequence and are index-aligned with it;
// nil marks frames where the metric could not be computed.
type Series struct {
	ElbowAngleDeg    []*float64 `json:"elbow_angle_deg"`
	TrunkAngleDeg    []*float64 `json:"trunk_angle_deg"`
	WristShoulderDst []*float64 `json:"wrist_shoulder_dist"`
}

// Len returns the number of frames in the series.
func (s Series) Len() int { return len(s.ElbowAngleDeg) }

// RepSegment is a closed frame interval [Start, End] covering one detected
// repetition.
type RepSegment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// RepMetrics reduces the three series over a single repetition segment.
type RepMetrics struct {
	RepIndex int        `json:"rep_index"`
	Frames   RepSegment `json:"frames"`

	ElbowMin       *float64 `json:"elbow_min"`
	ElbowMax       *float64 `json:"elbow_max"`
	ElbowAmplitude *float64 `json:"elbow_amplitude"`

	TrunkMin       *float64 `json:"trunk_min"`
	TrunkMax       *float64 `json:"trunk_max"`
	TrunkVariation *float64 `json:"trunk_variation"`

	WristShoulderMin   *float64 `json:"wrist_shoulder_min_dist"`
	WristShoulderMax   *float64 `json:"wrist_shoulder_max_dist"`
	WristShoulderRange *float64 `json:"wrist_shoulder_range"`
}

// ComputeSeries computes the raw per-frame series and smooths each one
// independently with a centered moving average of the given window.
//
// The elbow angle is the angle at the elbow between shoulder and wrist; the
// trunk angle is the angle at the hip between shoulder and knee. The
// wrist-to-shoulder distance drives repetition detection: pulling brings the
// wrist toward the shoulder, so each rep forms a valley in that curve.
func ComputeSeries(frames []LandmarkFrame, smoothWindow int) Series {
	n := len(frames)
	elbow := make([]*float64, n)
	trunk := make([]*float64, n)
	wristShoulder := make([]*float64, n)

	for i, f := range frames {
		shoulder := f[JointShoulder]
		elbowPt := f[JointElbow]
		wrist := f[JointWrist]
		hip := f[JointHip]
		knee := f[JointKnee]

		if shoulder != nil && elbowPt != nil && wrist != nil {
			elbow[i] = geom.AngleAtVertex(*shoulder, *elbowPt, *wrist)
			d := geom.Distance(*wrist, *shoulder)
			wristShoulder[i] = &d
		}

		if shoulder != nil && hip != nil && knee != nil {
			trunk[i] = geom.AngleAtVertex(*shoulder, *hip, *knee)
		}
	}

	return Series{
		ElbowAngleDeg:    MovingAverage(elbow, smoothWindow),
		TrunkAngleDeg:    MovingAverage(trunk, smoothWindow),
		WristShoulderDst: MovingAverage(wristShoulder, smoothWindow),
	}
}

// MovingAverage smooths a series with a simple centered moving average that
// skips nil samples. For window <= 1 it returns a copy of the input.
//
// The half-width is window/2 with integer division, so an even window yields
// an even total span. This asymmetry is deliberate and load-bearing: it sets
// the phase alignment of every smoothed series.
//
// An output position is nil only when no sample in its (bounds-clipped)
// window is present, so an isolated missing frame does not blank out its
// smoothed neighborhood.
func MovingAverage(values []*float64, window int) []*float64 {
	if window <= 1 {
		out := make([]*float64, len(values))
		copy(out, values)
		return out
	}

	half := window / 2
	out := make([]*float64, len(values))

	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(values)-1 {
			hi = len(values) - 1
		}

		sum := 0.0
		count := 0
		for j := lo; j <= hi; j++ {
			if values[j] != nil {
				sum += *values[j]
				count++
			}
		}
		if count > 0 {
			avg := sum / float64(count)
			out[i] = &avg
		}
	}

	return out
}

// DetectReps segments the wrist-to-shoulder distance series into repetitions.
//
// It scans interior indices for strict local minima whose triple
// (i-1, i, i+1) is fully defined, keeps those at least prominence deeper
// than the average of their two neighbors, and pairs consecutive qualifying
// minima into segments. Segments shorter than minFramesPerRep are dropped.
//
// Fewer than two qualifying minima means detection is inconclusive and an
// empty slice is returned; that is a normal outcome, not an error.
func DetectReps(distance []*float64, minFramesPerRep int, prominence float64) []RepSegment {
	var minima []int
	for i := 1; i < len(distance)-1; i++ {
		prev, cur, next := distance[i-1], distance[i], distance[i+1]
		if prev == nil || cur == nil || next == nil {
			continue
		}
		if *cur < *prev && *cur < *next {
			neighborAvg := (*prev + *next) / 2
			if neighborAvg-*cur >= prominence {
				minima = append(minima, i)
			}
		}
	}

	if len(minima) < 2 {
		return nil
	}

	var reps []RepSegment
	for k := 0; k < len(minima)-1; k++ {
		start, end := minima[k], minima[k+1]
		if end-start >= minFramesPerRep {
			reps = append(reps, RepSegment{Start: start, End: end})
		}
	}
	return reps
}

// sliceDefined collects the non-nil values in the closed index range
// [start, end], clipped to the slice bounds.
func sliceDefined(values []*float64, start, end int) []float64 {
	if start < 0 {
		start = 0
	}
	if end > len(values)-1 {
		end = len(values) - 1
	}
	var out []float64
	for i := start; i <= end; i++ {
		if values[i] != nil {
			out = append(out, *values[i])
		}
	}
	return out
}

// defined collects all non-nil values of a series.
func defined(values []*float64) []float64 {
	return sliceDefined(values, 0, len(values)-1)
}

// MinMaxAmplitude reduces a sequence of defined values to (min, max,
// max-min). An empty input yields three nils: insufficient data, not an
// error.
func MinMaxAmplitude(values []float64) (mn, mx, amp *float64) {
	if len(values) == 0 {
		return nil, nil, nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	a := hi - lo
	return &lo, &hi, &a
}

// meanStd returns the arithmetic mean and population standard deviation
// (no Bessel correction) of values, or nils for an empty input.
func meanStd(values []float64) (mean, std *float64) {
	if len(values) == 0 {
		return nil, nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))

	sq := 0.0
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	s := math.Sqrt(sq / float64(len(values)))
	return &m, &s
}

// GlobalMetrics reduces a whole series (no repetition split) to the named
// summary statistics the scoring engine consumes. Metrics whose underlying
// series has no defined values are nil.
func GlobalMetrics(s Series) map[string]*float64 {
	elbowMin, elbowMax, elbowAmp := MinMaxAmplitude(defined(s.ElbowAngleDeg))
	trunkVals := defined(s.TrunkAngleDeg)
	trunkMin, trunkMax, trunkVar := MinMaxAmplitude(trunkVals)
	trunkMean, trunkStd := meanStd(trunkVals)
	wsMin, wsMax, wsRange := MinMaxAmplitude(defined(s.WristShoulderDst))

	return map[string]*float64{
		"elbow_min":       elbowMin,
		"elbow_max":       elbowMax,
		"elbow_amplitude": elbowAmp,

		"trunk_min":       trunkMin,
		"trunk_max":       trunkMax,
		"trunk_variation": trunkVar,
		"trunk_mean":      trunkMean,
		"trunk_std":       trunkStd,

		"wrist_shoulder_min_dist": wsMin,
		"wrist_shoulder_max_dist": wsMax,
		"wrist_shoulder_range":    wsRange,
	}
}

// ComputeRepMetrics reduces each detected repetition segment independently.
// The result is index-aligned with reps.
func ComputeRepMetrics(s Series, reps []RepSegment) []RepMetrics {
	out := make([]RepMetrics, 0, len(reps))
	for idx, seg := range reps {
		eMin, eMax, eAmp := MinMaxAmplitude(sliceDefined(s.ElbowAngleDeg, seg.Start, seg.End))
		tMin, tMax, tVar := MinMaxAmplitude(sliceDefined(s.TrunkAngleDeg, seg.Start, seg.End))
		wMin, wMax, wRng := MinMaxAmplitude(sliceDefined(s.WristShoulderDst, seg.Start, seg.End))

		out = append(out, RepMetrics{
			RepIndex: idx,
			Frames:   seg,

			ElbowMin:       eMin,
			ElbowMax:       eMax,
			ElbowAmplitude: eAmp,

			TrunkMin:       tMin,
			TrunkMax:       tMax,
			TrunkVariation: tVar,

			WristShoulderMin:   wMin,
			WristShoulderMax:   wMax,
			WristShoulderRange: wRng,
		})
	}
	return out
}
