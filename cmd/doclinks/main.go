package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doclinks/cmd/doclinks/commands"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Stdout: os.Stdout, Stdin: os.Stdin}
	parser := kong.Parse(cli,
		kong.Name("doclinks"),
		kong.Description("Validate local links and heading anchors in Markdown documentation."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, cli),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	parser.BindTo(ctx, (*context.Context)(nil))
	err := parser.Run()
	if stderrors.Is(err, commands.ErrProblemsFound) {
		cancel()
		os.Exit(errors.ExitFailure)
	}
	if err != nil {
		cancel()
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
