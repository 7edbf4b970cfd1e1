package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readthis"
	"github.com/fwojciec/readthis/goquery"
	"github.com/fwojciec/readthis/htmltomarkdown"
	rthttp "github.com/fwojciec/readthis/http"
	"github.com/fwojciec/readthis/manual"
	"github.com/fwojciec/readthis/reader"
	"github.com/fwojciec/readthis/readability"
	"github.com/fwojciec/readthis/rod"
	rtslog "github.com/fwojciec/readthis/slog"
	"github.com/fwojciec/readthis/trafilatura"
	"github.com/fwojciec/readthis/yaml"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Transport carries the MCP stream for the serve command.
	// Defaults to stdio.
	Transport mcp.Transport

	// Fetcher replaces the configured fetcher, for end-to-end testing.
	Fetcher readthis.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Version: version,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("readthis"),
		kong.Description("Fetch documentation pages and return their main content."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'readthis --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel)
	deps.Registry = manual.NewRegistry(yaml.NewSource(), cli.Manuals, manual.WithLogger(deps.Logger))

	if kongCtx.Command() == "check" {
		return kongCtx.Run(deps)
	}

	// A broken or missing manual file must not keep the server from
	// starting; URLs still work and a later reload can install it.
	if result := deps.Registry.Reload(ctx); !result.Success {
		deps.Logger.Warn("starting with no documents", "message", result.Message)
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher, err = newFetcher(cli, stderr)
		if err != nil {
			return err
		}
	}
	defer fetcher.Close()

	var converter readthis.Converter
	if readthis.Format(cli.Format) == readthis.FormatMarkdown {
		converter = htmltomarkdown.NewConverter()
	}

	deps.Reader = &reader.Reader{
		Registry:  rtslog.NewLoggingRegistry(deps.Registry, deps.Logger),
		Fetcher:   rtslog.NewLoggingFetcher(fetcher, deps.Logger),
		Extractor: rtslog.NewLoggingExtractor(newExtractor(cli.Extractor), deps.Logger),
		Converter: converter,
		Format:    readthis.Format(cli.Format),
		MaxLength: cli.MaxLength,
	}
	deps.Service = rtslog.NewLoggingService(deps.Reader, deps.Logger)

	deps.Transport = m.Transport
	if deps.Transport == nil {
		deps.Transport = &mcp.StdioTransport{}
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func newFetcher(cli *CLI, stderr io.Writer) (readthis.Fetcher, error) {
	if cli.Fetcher == "browser" {
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return fetcher, nil
	}

	opts := []rthttp.Option{rthttp.WithTimeout(cli.Timeout)}
	if cli.RateLimit > 0 {
		opts = append(opts, rthttp.WithHostLimiter(rthttp.NewHostLimiter(cli.RateLimit, 1)))
	}
	if ua := strings.TrimSpace(cli.UserAgent); ua != "" {
		opts = append(opts, rthttp.WithUserAgent(ua))
	}
	return rthttp.NewFetcher(opts...), nil
}

func newExtractor(name string) readthis.Extractor {
	switch name {
	case "trafilatura":
		return trafilatura.NewExtractor()
	case "readability":
		return readability.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}
