// Command citescan finds Bible citations in theological manuscripts and
// stores each one with the passage of the manuscript around it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperCitations/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for citescan.
type CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"CITESCAN_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" enum:"json,text" env:"CITESCAN_LOG_FORMAT" help:"Log format (json, text)"`

	Parse   ParseCmd   `cmd:"" help:"Parse manuscripts and store their citations"`
	Scan    ScanCmd    `cmd:"" help:"Print the citations of one document without storing them"`
	Resolve ResolveCmd `cmd:"" help:"Show how book names resolve"`
	Stats   StatsCmd   `cmd:"" help:"Summarize the citation database"`
	Watch   WatchCmd   `cmd:"" help:"Re-parse manuscripts as they change"`
	Bundle  BundleCmd  `cmd:"" help:"Pack a manuscript directory into a .tar.gz or .tar.xz bundle"`
	Catalog CatalogCmd `cmd:"" help:"Print the manuscript catalog as YAML"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AfterApply configures logging once flags and environment are applied.
func (c *CLI) AfterApply() error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

func newParser(ctx context.Context, cli *CLI, stdout, stderr io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("citescan"),
		kong.Description("Bible citation extraction for theological manuscripts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	parser, err := newParser(ctx, &cli, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = kctx.Run()
	kctx.FatalIfErrorf(err)
}
