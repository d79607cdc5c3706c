package toolserver

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"memograph/app/config"
	"memograph/app/service/fetch"
	"memograph/app/service/graph"

	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

const (
	serverName    = "memograph"
	serverVersion = "1.0.0"
)

// Service exposes the graph and fetch operations as MCP tools over stdio.
type Service struct {
	cfg      *config.Config
	graphSvc *graph.Service
	fetchSvc *fetch.Service
	srv      *server.MCPServer
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		graphSvc: do.MustInvoke[*graph.Service](di),
		fetchSvc: do.MustInvoke[*fetch.Service](di),
	}

	s.srv = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	s.registerTools()

	return s, nil
}

// Run serves the MCP protocol on stdin/stdout until the context is
// cancelled or stdin closes.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	stdio := server.NewStdioServer(s.srv)

	g.Go(func() error {
		return stdio.Listen(ctx, os.Stdin, os.Stdout)
	})

	slog.Info("MCP server listening on stdio")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return oops.Errorf("stdio server error: %w", err)
	}

	return nil
}
