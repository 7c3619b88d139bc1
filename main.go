package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"factory/pkg/config"
	"factory/pkg/core"
	"factory/pkg/output"
	"factory/pkg/progress"
)

const usageText = `factory [options] <archive.factory> [-d]

Options go before the archive path. An archive named like a command
(list, pack, help) must be given as a path, e.g. ./list`

var compressionFlag = &cli.StringFlag{
	Name:  "compression",
	Usage: "Outer compression of the archive: auto, none, lz4, xz",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command-line application
func newApp() *cli.App {
	return &cli.App{
		Name:      "factory",
		Usage:     "Extract the files stored in a .factory archive",
		UsageText: usageText,
		Version:   "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n", "d"},
				Usage:   "Report records without writing files",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"C"},
				Usage:   "Directory to extract into (default: working directory)",
			},
			&cli.BoolFlag{
				Name:  "confine",
				Usage: "Reject record paths that walk out of the extraction root",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Print extraction progress to stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			compressionFlag,
		},
		Action: extractAction,
		Commands: []*cli.Command{
			listCommand(),
			packCommand(),
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the records of an archive without extracting",
		ArgsUsage: "<archive.factory>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format: table, json",
			},
			compressionFlag,
		},
		Action: listAction,
	}
}

func packCommand() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Build an archive from files, for fixtures and tests",
		ArgsUsage: "<out.factory> <path>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "compress",
				Value: "none",
				Usage: "Wrap the archive in lz4 or xz",
			},
		},
		Action: packAction,
	}
}

// loadConfig reads the config file and applies explicitly set flags on top
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("dry-run") {
		cfg.DryRun = c.Bool("dry-run")
	}
	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("confine") {
		cfg.Confine = c.Bool("confine")
	}
	if c.IsSet("progress") {
		cfg.Progress = c.Bool("progress")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("compression") {
		cfg.Compression = c.String("compression")
	}
	return cfg, nil
}

// newLogger installs a stderr text logger at the configured level
func newLogger(level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, nil
}

// extractAction handles the default extraction operation
func extractAction(c *cli.Context) error {
	archive := c.Args().First()
	if archive == "" {
		return fmt.Errorf("%w: no .factory file path given (see --help)", core.ErrUsage)
	}
	if c.NArg() > 2 {
		return fmt.Errorf("%w: unexpected arguments %q", core.ErrUsage, c.Args().Slice()[2:])
	}
	if second := c.Args().Get(1); second != core.DryRunArg && strings.HasPrefix(second, "-") {
		return fmt.Errorf("%w: option %q must come before the archive path", core.ErrUsage, second)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Args().Get(1) == core.DryRunArg {
		cfg.DryRun = true
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	compression, err := core.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}
	if cfg.Progress {
		progress.SetOutput(os.Stderr)
	}

	logger.Info("extracting archive", "archive", archive, "root", cfg.Root, "dry_run", cfg.DryRun)
	summary, err := core.ExtractFile(archive, compression, core.Options{
		Root:    cfg.Root,
		DryRun:  cfg.DryRun,
		Confine: cfg.Confine,
		Out:     c.App.Writer,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	logger.Info("extraction finished",
		"blocks", summary.Blocks,
		"written", summary.Written,
		"bytes", summary.Bytes,
		"dry_run", summary.DryRun,
	)
	return nil
}

// listAction prints the records of an archive
func listAction(c *cli.Context) error {
	archive := c.Args().First()
	if archive == "" {
		return fmt.Errorf("%w: no .factory file path given", core.ErrUsage)
	}

	format := c.String("format")
	if format != "table" && format != "json" {
		return fmt.Errorf("invalid format %q: must be 'table' or 'json'", format)
	}
	compression, err := core.ParseCompression(c.String("compression"))
	if err != nil {
		return err
	}

	data, compression, err := core.Load(archive, compression)
	if err != nil {
		return err
	}
	records, err := core.Parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", archive, err)
	}

	listing := output.NewListing(archive, compression, records)
	return output.NewFormatter(output.Format(format)).WriteListing(c.App.Writer, listing)
}

// packAction writes an archive built from files on disk
func packAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("%w: pack <out.factory> <path>...", core.ErrUsage)
	}
	out := c.Args().First()

	compression, err := core.ParseCompression(c.String("compress"))
	if err != nil {
		return err
	}
	records, err := core.CollectRecords(c.Args().Tail())
	if err != nil {
		return err
	}
	data, err := core.Encode(records)
	if err != nil {
		return err
	}
	if data, err = core.Compress(data, compression); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Fprintf(c.App.Writer, "Packed %d records into %s\n", len(records), out)
	return nil
}
