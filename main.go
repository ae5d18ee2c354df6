package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/soocke/pixel-track-go/app"
	"github.com/soocke/pixel-track-go/assets"
	"github.com/soocke/pixel-track-go/config"
	"github.com/soocke/pixel-track-go/domain/source"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pixeltrack", flag.ContinueOnError)
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	poll := fs.Duration("poll", 10*time.Millisecond, "delay between session ticks")
	title := fs.String("title", "Pixel Track", "window title")
	dark := fs.Bool("dark", false, "dark window theme")
	statsEvery := fs.Int("stats-every", 100, "log frame source statistics every n frames (0 disables)")
	writeConfig := fs.String("write-config", "", "write the effective configuration to this path and exit")
	fs.Usage = func() { assets.PrintUsage(fs.Output(), fs) }
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 2 && (*writeConfig == "" || fs.NArg() < 1) {
		assets.PrintUsage(os.Stderr, fs)
		return 1
	}
	cfgPath := fs.Arg(0)

	logger := NewLogger(parseLevel(*logLevel))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		logger.Error("config load failed", "path", cfgPath, "error", err)
		return 1
	}
	if cfg.DebugEnabled() {
		logger = NewLogger(slog.LevelDebug)
	}
	logConfig(logger, cfgPath, cfg)

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			logger.Error("config save failed", "path", *writeConfig, "error", err)
			return 1
		}
		logger.Info("config written", "path", *writeConfig)
		return 0
	}

	ref := fs.Arg(1)
	src, err := source.Open(ref, source.Options{
		Width:      cfg.FrameWidth,
		Height:     cfg.FrameHeight,
		StatsEvery: *statsEvery,
	}, logger)
	if err != nil {
		assets.PrintUsage(os.Stderr, nil)
		fmt.Fprintln(os.Stderr, "***Could not initialize capturing...***")
		fmt.Fprintln(os.Stderr, "Current parameter's value:", ref)
		logger.Error("open frame source failed", "ref", ref, "error", err)
		return 1
	}
	defer src.Close()

	err = app.Run(cfg, src, logger, app.Options{Title: *title, Poll: *poll, Dark: *dark})
	if err != nil {
		logger.Error("session ended with error", "error", err)
		return 1
	}
	return 0
}

// logConfig echoes the effective configuration.
func logConfig(logger *slog.Logger, path string, cfg *config.Config) {
	feats := make([]string, 0, len(cfg.Features))
	for _, f := range cfg.Features {
		feats = append(feats, f.Type+"/"+f.Kernel)
	}
	logger.Info("config loaded",
		"path", path,
		"quietMode", cfg.QuietMode,
		"debugMode", cfg.DebugMode,
		"frameWidth", cfg.FrameWidth,
		"frameHeight", cfg.FrameHeight,
		"searchRadius", cfg.SearchRadius,
		"searchStride", cfg.SearchStride,
		"learningRate", cfg.LearningRate,
		"features", feats,
	)
}
