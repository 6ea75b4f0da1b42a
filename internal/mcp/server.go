package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/share"
	"github.com/rpggio/revtrack/internal/transport"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, p account.Principal, req project.CreateRequest) (*project.Project, error)
	List(ctx context.Context, p account.Principal) ([]project.ProjectSummary, error)
}

// RevisionService defines revision operations needed by MCP.
type RevisionService interface {
	Record(ctx context.Context, p account.Principal, req revision.RecordRequest) (*revision.RecordResult, error)
	Timeline(ctx context.Context, p account.Principal, projectID string) (*revision.Timeline, error)
}

// EntitlementService reports plan status.
type EntitlementService interface {
	Status(ctx context.Context, accountID string) (entitlement.Status, error)
}

// ShareResolver resolves share tokens.
type ShareResolver interface {
	Resolve(ctx context.Context, token string) (*share.View, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects     ProjectService
	Revisions    RevisionService
	Entitlements EntitlementService
	Share        ShareResolver
}

// Config contains server configuration.
type Config struct {
	Services Services
	Resolver transport.PrincipalResolver
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "revtrack",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Middleware added later wraps earlier middleware, so auth runs before logging.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
