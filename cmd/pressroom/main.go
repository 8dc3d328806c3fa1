package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/eringen/pressroom"
	"github.com/eringen/pressroom/analytics"
	"github.com/eringen/pressroom/auth"
	"github.com/eringen/pressroom/content"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "hash-password":
		err = runHashPassword(os.Args[2:])
	case "version":
		fmt.Printf("pressroom %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(args []string) error {
	opts, err := loadOptions("serve", args)
	if err != nil {
		return err
	}
	logger, err := newLogger(opts.LogLevel, opts.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	app := pressroom.New(opts.Site, pressroom.ViewFuncs{},
		pressroom.WithLogger(logger),
		pressroom.WithStaticDir(opts.StaticDir),
	)
	app.Echo.HideBanner = true
	app.Echo.HidePort = true
	defer app.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type statsReport struct {
	content.Stats
	TotalPages     int `json:"totalPages"`
	PublishedPages int `json:"publishedPages"`
}

// runStats prints the dashboard counters as JSON.
func runStats(args []string) error {
	opts, err := loadOptions("stats", args)
	if err != nil {
		return err
	}
	backend, err := pressroom.OpenBackend(opts.Site)
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx := context.Background()
	posts := content.NewStore(backend, content.Posts,
		content.WithViewerCounter(analytics.NewCounter(backend, analytics.StatsKey)))
	stats, err := posts.Stats(ctx)
	if err != nil {
		return err
	}
	pages, err := content.NewStore(backend, content.Pages).All(ctx)
	if err != nil {
		return err
	}

	report := statsReport{Stats: stats, TotalPages: len(pages)}
	for _, p := range pages {
		if p.IsPublished() {
			report.PublishedPages++
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// runHashPassword prints a bcrypt hash for PRESSROOM_ADMIN_PASSWORD_HASH.
// The password is read from the first argument or from stdin.
func runHashPassword(args []string) error {
	var password string
	if len(args) > 0 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("empty password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}

func printUsage() {
	fmt.Println(`pressroom - a small blog content manager

Usage:
  pressroom <command> [flags]

Commands:
  serve              Run the web server
  stats              Print post, page and visitor counts as JSON
  hash-password [p]  Print a bcrypt hash for PRESSROOM_ADMIN_PASSWORD_HASH
  version            Print the pressroom version
  help               Show this help message

Flags (serve, stats):
  --config <file>    Read settings from a yaml, toml or json file
  --addr <addr>      Listen address
  --storage <kind>   sqlite, redis or memory
  --database_path    SQLite database path
  --log_level        debug, info, warn or error

Settings can also be given as PRESSROOM_* environment variables, e.g.
PRESSROOM_ADMIN_PASSWORD, PRESSROOM_ADMIN_PASSCODE, PRESSROOM_SESSION_SECRET.`)
}
