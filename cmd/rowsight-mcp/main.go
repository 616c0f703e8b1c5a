// rowsight-mcp exposes stored analyses and the CSV pipeline to MCP clients
// over stdio. In remote mode it proxies a running RowSight server's REST
// API; in local mode it talks to the database directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/rowsight/internal/config"
	"github.com/claude/rowsight/internal/ingest/posecsv"
	rsmcp "github.com/claude/rowsight/internal/mcp"
	"github.com/claude/rowsight/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	remote := flag.String("remote", "", "RowSight server URL; when set, tools proxy the REST API")
	apiKey := flag.String("api-key", os.Getenv("ROWSIGHT_API_KEY"), "API key for analyze_csv in remote mode")
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("rowsight-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds rsmcp.DataSource

	if *remote != "" {
		ds = rsmcp.NewHTTPClient(*remote, *apiKey)
		log.Info("remote mode", "server", *remote)
	} else {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), fileCfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ds = &rsmcp.LocalSource{
			DB:     db,
			Ingest: posecsv.NewProvider(db, fileCfg.Analysis, log),
			Cfg:    fileCfg.Analysis,
		}
		log.Info("local mode", "database", fileCfg.Database.Host)
	}

	s := rsmcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
