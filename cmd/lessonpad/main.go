// Copyright 2025 The lessonpad Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the lessonpad writing-assistant core as an IPC server or as
a CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

lessonpad watches a text buffer as it is edited. Edits are throttled into
requests to a remote prediction service, whose suggestions are merged with
completions of the word being typed. On demand it mines the buffer for
repeated phrases ("chunks") and colors each one with a stable hue.

# Usage

Start the server with default settings:

	lessonpad

Point it at a different prediction service and enable debug logs:

	lessonpad -url http://127.0.0.1:9000/predict -d

Run in CLI mode for interactive testing:

	lessonpad -c

# Configuration

Settings live in a TOML file, created with defaults on first run:

	[settings]
	context_window = 20
	top_k = 5
	ngram_order = 5
	hotkey = "Tab"

	[chunks]
	min_len = 2
	max_len = 3
	min_count = 2
	top_n = 15

	[scheduler]
	cooldown_ms = 200
	trailing_delay_ms = 220

	[predictor]
	url = "http://127.0.0.1:8000/predict"

The file is looked up at -config, then [UserConfigDir]/lessonpad/config.toml.
Config changes sent over IPC are written back to it.

# IPC Protocol

The server reads MessagePack requests from stdin and writes replies and pushes
to stdout. Logs go to stderr. See package server for the message shapes.

	{"id": "1", "action": "edit", "text": "the cat sat the ca"}
	{"k": "s", "s": [{"w": "cat", "r": 1, "h": "Tab"}, ...], "c": 5}

# Command Line Flags

	-config string
	    Path to a custom config file
	-url string
	    Prediction endpoint (overrides the config file)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-rebuild
	    Overwrite the default config file with defaults and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/lessonpad/internal/cli"
	"github.com/bastiangx/lessonpad/internal/logger"
	"github.com/bastiangx/lessonpad/pkg/config"
	"github.com/bastiangx/lessonpad/pkg/engine"
	"github.com/bastiangx/lessonpad/pkg/predict"
	"github.com/bastiangx/lessonpad/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "lessonpad"
	gh      = "https://github.com/bastiangx/lessonpad"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, predictor and the chosen front end. It does not
// implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to custom config file")
	predictorURL := flag.String("url", "", "Prediction endpoint (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	rebuild := flag.Bool("rebuild", false, "Overwrite the default config file with defaults")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	var opts []engine.Option
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		// caller info helps trace events through the session loop
		opts = append(opts, engine.WithLogger(logger.NewWithConfig("engine", log.DebugLevel, true, true, log.TextFormatter)))
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *rebuild {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config rebuilt at %s\n", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *predictorURL != "" {
		appConfig.Predictor.URL = *predictorURL
	}
	log.Debug("Config", "path", activePath, "predictor", appConfig.Predictor.URL)

	var store config.Store = config.NewMemoryStore(appConfig)
	if activePath != "" {
		store = config.NewFileStore(activePath)
	}

	predictor := predict.NewHTTPClient(appConfig.Predictor.URL, &http.Client{})
	ctx := context.Background()

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		term := cli.NewTerminal(appConfig.Settings.Hotkey)
		session := engine.New(appConfig, predictor, term, opts...)

		ctx, cancel := context.WithCancel(ctx)
		go session.Run(ctx)

		if err := cli.NewInputHandler(session, term).Start(ctx); err != nil {
			cancel()
			log.Fatalf("CLI error: %v", err)
		}
		cancel()
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(appConfig, store, predictor, opts...)

	showStartupInfo(activePath, appConfig.Predictor.URL)

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ lessonpad ] Suggestions and repeated phrases while you write")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
// It writes to stderr since stdout carries IPC.
func showStartupInfo(configPath, url string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	if configPath == "" {
		configPath = "(builtin defaults)"
	} else {
		configPath = config.GetActiveConfigPath(configPath)
	}
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " lessonpad ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("config: ( %s )", configPath)
	log.Infof("predictor: ( %s )", url)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
