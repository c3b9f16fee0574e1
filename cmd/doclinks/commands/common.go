package commands

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doclinks/internal/config"
)

// ErrProblemsFound is returned when a check reports diagnostics or file
// errors. The binary exits with status 1 without printing it.
var ErrProblemsFound = stderrors.New("link problems found")

// Global is shared state bound into every command.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stdin  io.Reader
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: .doclinks.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check CheckCmd `cmd:"" default:"withargs" help:"Check links in Markdown files (default command)"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads the configuration named by --config, or the default file
// in the working directory when it exists.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.Config == "" {
		return config.Load(config.DefaultFile, false)
	}
	return config.Load(c.Config, true)
}
