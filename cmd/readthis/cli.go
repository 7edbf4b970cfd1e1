package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/readthis"
	"github.com/fwojciec/readthis/manual"
	"github.com/fwojciec/readthis/reader"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Version   string
	Registry  *manual.Registry
	Reader    *reader.Reader
	Service   readthis.Service
	Transport mcp.Transport
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Manuals   string        `short:"m" env:"READTHIS_MANUALS" default:"manuals.json" help:"Manual file mapping ids to URLs (JSON or YAML)"`
	Timeout   time.Duration `env:"READTHIS_TIMEOUT" default:"30s" help:"Fetch timeout"`
	Extractor string        `env:"READTHIS_EXTRACTOR" enum:"density,trafilatura,readability" default:"density" help:"Content extractor (${enum})"`
	Fetcher   string        `env:"READTHIS_FETCHER" enum:"http,browser" default:"http" help:"Fetcher; browser renders JavaScript with Chrome (${enum})"`
	Format    string        `env:"READTHIS_FORMAT" enum:"text,markdown" default:"text" help:"Output format (${enum})"`
	MaxLength int           `env:"READTHIS_MAX_LENGTH" default:"0" help:"Maximum characters returned per document, 0 for no limit"`
	RateLimit float64       `env:"READTHIS_RATE_LIMIT" default:"0" help:"Requests per second per host, 0 for no limit"`
	UserAgent string        `env:"READTHIS_USER_AGENT" help:"User-Agent header for the http fetcher"`
	LogLevel  string        `env:"READTHIS_LOG_LEVEL" enum:"debug,info,warn,error" default:"info" help:"Log level (${enum})"`

	Serve ServeCmd `cmd:"" help:"Serve the readthis tools over MCP on stdio"`
	Read  ReadCmd  `cmd:"" help:"Print the main content of documents"`
	Check CheckCmd `cmd:"" help:"Validate the manual file and list its documents"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Watch bool `env:"READTHIS_WATCH" help:"Reload the manual file when it changes"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	Tokens      []string `arg:"" name:"id-or-url" help:"Manual ids or URLs"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	Retries     int      `default:"0" help:"Retries for timeouts and connection failures"`
	JSON        bool     `help:"Print articles as JSON lines"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct{}
