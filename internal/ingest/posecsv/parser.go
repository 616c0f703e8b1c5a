// Package posecsv parses the pose extractor's CSV export into landmark
// frames. The extractor (out of process) runs pose detection over a lateral
// exercise video and writes one row per retained frame with normalized
// coordinates for shoulder, elbow, wrist, hip, and knee of the configured
// body side; a landmark it was not confident about is left blank.
package posecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/claude/rowsight/internal/geom"
	"github.com/claude/rowsight/internal/motion"
)

// ErrUnknownSide reports a body side outside the extractor contract. This
// is a configuration bug, not a data-quality gap, and must reach the
// caller.
var ErrUnknownSide = errors.New("posecsv: side must be \"right\" or \"left\"")

// Side selects which body side's landmarks the extractor tracked.
type Side string

const (
	SideRight Side = "right"
	SideLeft  Side = "left"
)

// ParseSide normalizes and validates a side string.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right":
		return SideRight, nil
	case "left":
		return SideLeft, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrUnknownSide, s)
	}
}

// header is the extractor's column layout. The frame index and detection
// flag come first, then x/y pairs in joint order.
var header = []string{
	"frame", "pose_detected",
	"shoulder_x", "shoulder_y",
	"elbow_x", "elbow_y",
	"wrist_x", "wrist_y",
	"hip_x", "hip_y",
	"knee_x", "knee_y",
}

// Parse reads an extractor CSV export and returns the frame sequence in
// file order. Blank coordinate pairs become absent landmarks; a partially
// blank pair is malformed and rejected.
func Parse(r io.Reader) ([]motion.LandmarkFrame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, want := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), want) {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i, first[i], want)
		}
	}

	var frames []motion.LandmarkFrame
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(frames)+1, err)
		}

		frame := motion.LandmarkFrame{}
		for j, joint := range motion.Joints {
			col := 2 + j*2
			p, err := parsePoint(record[col], record[col+1])
			if err != nil {
				return nil, fmt.Errorf("row %d, %s: %w", len(frames)+1, joint, err)
			}
			if p != nil {
				frame[joint] = p
			}
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func parsePoint(xs, ys string) (*geom.Point, error) {
	xs = strings.TrimSpace(xs)
	ys = strings.TrimSpace(ys)

	if xs == "" && ys == "" {
		return nil, nil
	}
	if xs == "" || ys == "" {
		return nil, fmt.Errorf("half-blank coordinate pair (%q, %q)", xs, ys)
	}

	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing y %q: %w", ys, err)
	}
	return &geom.Point{X: x, Y: y}, nil
}
