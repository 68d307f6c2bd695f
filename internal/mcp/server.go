// Package mcp provides an MCP (Model Context Protocol) server that answers
// questions about a loaded spiking dataset: its topology, its timeline and
// the encoded visual state of any frame.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/neurovis/internal/encoder"
	"github.com/nvandessel/neurovis/internal/ratelimit"
	"github.com/nvandessel/neurovis/internal/render"
	"github.com/nvandessel/neurovis/internal/topology"
)

// Server wraps the MCP SDK server over one read-only dataset.
type Server struct {
	server       *sdk.Server
	dataset      *topology.Dataset
	top          render.Topology
	params       encoder.Params
	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "neurovis")
	Version string // Server version
	Root    string // Dataset root directory
	Params  encoder.Params

	// AuditDir receives mcp-audit.jsonl. Empty disables auditing.
	AuditDir string

	Logger *slog.Logger
}

// NewServer loads the dataset under cfg.Root and registers the query tools.
func NewServer(cfg *Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ds, top, err := render.Prepare(cfg.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:       mcpServer,
		dataset:      ds,
		top:          top,
		params:       cfg.Params,
		toolLimiters: ratelimit.NewToolLimiters(),
		logger:       logger,
	}
	if cfg.AuditDir != "" {
		s.auditLogger = NewAuditLogger(cfg.AuditDir)
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	s.logger.Info("mcp server ready",
		"root", s.dataset.Root,
		"neurons", len(s.top.Neurons),
		"frames", s.top.Timeline.Len())

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.Close()

	return err
}

// Close releases the audit log.
func (s *Server) Close() error {
	err := s.auditLogger.Close()
	s.auditLogger = nil
	return err
}
