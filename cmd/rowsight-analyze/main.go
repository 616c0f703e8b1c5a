package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/rowsight/internal/analysis"
	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/ingest/posecsv"
	"github.com/claude/rowsight/internal/report"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	csvPath := flag.String("csv", "", "path to pose-extractor CSV (required)")
	side := flag.String("side", "right", "body side filmed: right or left")
	seriesOut := flag.String("series-out", "", "write the smoothed angle series CSV to this path")
	repsOut := flag.String("reps-out", "", "write the per-repetition metrics CSV to this path")
	smooth := flag.Int("smooth", 0, "moving-average window override (0 = default)")
	minFrames := flag.Int("min-frames", 0, "minimum frames per repetition override (0 = default)")
	prominence := flag.Float64("prominence", -1, "valley prominence override (-1 = default)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("rowsight-analyze", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: rowsight-analyze -csv clip.csv [-side right|left] [-series-out s.csv] [-reps-out r.csv]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.DefaultAnalysis()
	if *smooth > 0 {
		cfg.SmoothWindow = *smooth
	}
	if *minFrames > 0 {
		cfg.MinFramesPerRep = *minFrames
	}
	if *prominence >= 0 {
		cfg.Prominence = *prominence
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid analysis parameters", "error", err)
		os.Exit(1)
	}

	parsedSide, err := posecsv.ParseSide(*side)
	if err != nil {
		log.Error("invalid side", "side", *side, "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open CSV", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	frames, err := posecsv.Parse(f)
	f.Close()
	if err != nil {
		log.Error("failed to parse CSV", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	log.Info("parsed clip", "path", *csvPath, "frames", len(frames), "side", parsedSide)

	res := analysis.Run(frames, cfg)

	if *seriesOut != "" {
		if err := writeFile(*seriesOut, func(f *os.File) error {
			return report.WriteSeriesCSV(f, res)
		}); err != nil {
			log.Error("failed to write series CSV", "path", *seriesOut, "error", err)
			os.Exit(1)
		}
		log.Info("series written", "path", *seriesOut)
	}

	if *repsOut != "" {
		if err := writeFile(*repsOut, func(f *os.File) error {
			return report.WriteRepsCSV(f, res)
		}); err != nil {
			log.Error("failed to write reps CSV", "path", *repsOut, "error", err)
			os.Exit(1)
		}
		log.Info("rep metrics written", "path", *repsOut)
	}

	if err := report.WriteText(os.Stdout, *csvPath, res); err != nil {
		log.Error("failed to write report", "error", err)
		os.Exit(1)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
