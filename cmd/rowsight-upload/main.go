package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/rowsight/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RowSight server URL (e.g. https://rowsight.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("ROWSIGHT_API_KEY"), "API key for submissions (defaults to ROWSIGHT_API_KEY)")
	dir := flag.String("path", "", "directory containing extractor CSVs")
	side := flag.String("side", "right", "default body side for files without a _left/_right suffix")
	dryRun := flag.Bool("dry-run", false, "list what would be submitted without sending")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("rowsight-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: rowsight-upload -server <URL> -path <csv dir> [-side right|left] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("CSV directory not found", "path", *dir)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".rowsight-upload")

	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode — files will be listed but not sent")
	}

	client := upload.NewClient(*serverURL, *apiKey)
	uploader := upload.New(client, state, *dir, *side, *dryRun, log)
	stats, err := uploader.Run()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files analyzed:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already analyzed)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Reps detected:    %d\n", stats.RepsDetected)
	printLabels("Elbow labels", stats.ElbowLabels)
	printLabels("Trunk labels", stats.TrunkLabels)
	fmt.Println()
}

func printLabels(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	fmt.Printf("  %s:\n", title)
	for _, l := range labels {
		fmt.Printf("    %-8s %d\n", l, counts[l])
	}
}
