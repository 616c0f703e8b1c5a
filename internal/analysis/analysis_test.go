package analysis

import (
	"encoding/json"
	"testing"

	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/geom"
	"github.com/claude/rowsight/internal/motion"
)

// pullFrames synthesizes a clip of n repetitions: the wrist sweeps toward
// the shoulder and back while hip, knee, and elbow stay fixed.
func pullFrames(nReps, framesPerPhase int) []motion.LandmarkFrame {
	shoulder := geom.Point{X: 0.50, Y: 0.30}
	elbow := geom.Point{X: 0.55, Y: 0.45}
	hip := geom.Point{X: 0.50, Y: 0.55}
	knee := geom.Point{X: 0.50, Y: 0.80}

	far := geom.Point{X: 0.75, Y: 0.42}
	near := geom.Point{X: 0.55, Y: 0.27}

	var frames []motion.LandmarkFrame
	appendFrame := func(w geom.Point) {
		wc, sc, ec, hc, kc := w, shoulder, elbow, hip, knee
		frames = append(frames, motion.LandmarkFrame{
			motion.JointShoulder: &sc,
			motion.JointElbow:    &ec,
			motion.JointWrist:    &wc,
			motion.JointHip:      &hc,
			motion.JointKnee:     &kc,
		})
	}

	for r := 0; r < nReps; r++ {
		for i := 0; i < framesPerPhase; i++ {
			t := float64(i) / float64(framesPerPhase)
			appendFrame(geom.Point{
				X: far.X + (near.X-far.X)*t,
				Y: far.Y + (near.Y-far.Y)*t,
			})
		}
		for i := 0; i < framesPerPhase; i++ {
			t := float64(i) / float64(framesPerPhase)
			appendFrame(geom.Point{
				X: near.X + (far.X-near.X)*t,
				Y: near.Y + (far.Y-near.Y)*t,
			})
		}
	}
	return frames
}

// TestRun_EndToEnd verifies the pipeline wires the stages together: the
// series is frame-aligned, reps come out of a multi-rep clip, and both
// notes carry valid scores and labels.
func TestRun_EndToEnd(t *testing.T) {
	cfg := config.DefaultAnalysis()
	cfg.SmoothWindow = 3
	cfg.MinFramesPerRep = 5
	cfg.Prominence = 0.001

	frames := pullFrames(3, 10)
	res := Run(frames, cfg)

	if res.Series.Len() != len(frames) {
		t.Fatalf("series length = %d, want %d", res.Series.Len(), len(frames))
	}
	if len(res.Reps) == 0 {
		t.Fatal("expected repetitions on a clean multi-rep clip")
	}
	if len(res.RepMetrics) != len(res.Reps) {
		t.Errorf("rep metrics count %d != reps %d", len(res.RepMetrics), len(res.Reps))
	}
	for _, seg := range res.Reps {
		if seg.End-seg.Start < cfg.MinFramesPerRep {
			t.Errorf("segment [%d,%d] shorter than minimum %d", seg.Start, seg.End, cfg.MinFramesPerRep)
		}
	}

	if res.Metrics["elbow_amplitude"] == nil {
		t.Error("elbow_amplitude missing on a fully-detected clip")
	}
	for _, note := range []struct {
		name  string
		score float64
		label string
	}{
		{"elbow", res.Scores.Elbow.Score, res.Scores.Elbow.Label},
		{"trunk", res.Scores.Trunk.Score, res.Scores.Trunk.Label},
	} {
		if note.score < 0 || note.score > 100 {
			t.Errorf("%s score %v out of range", note.name, note.score)
		}
		if note.label == "" {
			t.Errorf("%s label empty", note.name)
		}
	}
}

// TestRun_Deterministic verifies repeated runs over identical input are
// bit-identical, which the JSON encoding makes easy to compare.
func TestRun_Deterministic(t *testing.T) {
	cfg := config.DefaultAnalysis()
	frames := pullFrames(2, 12)

	a, err := json.Marshal(Run(frames, cfg))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(Run(frames, cfg))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("pipeline output differs across identical runs")
	}
}

// TestRun_EmptyInput verifies the degenerate clip flows through as
// not-measurable rather than failing.
func TestRun_EmptyInput(t *testing.T) {
	res := Run(nil, config.DefaultAnalysis())

	if res.Series.Len() != 0 {
		t.Errorf("series length = %d, want 0", res.Series.Len())
	}
	if len(res.Reps) != 0 {
		t.Errorf("reps = %d, want 0", len(res.Reps))
	}
	if res.Scores.Elbow.Score != 0 {
		t.Errorf("elbow score = %v, want 0 for unmeasurable clip", res.Scores.Elbow.Score)
	}
	if len(res.Scores.Elbow.Warnings) == 0 {
		t.Error("expected could-not-measure warnings on empty input")
	}
}
