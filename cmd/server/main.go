package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rpggio/revtrack/internal/billing"
	"github.com/rpggio/revtrack/internal/config"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/share"
	"github.com/rpggio/revtrack/internal/domain/waitlist"
	"github.com/rpggio/revtrack/internal/identity"
	"github.com/rpggio/revtrack/internal/mcp"
	"github.com/rpggio/revtrack/internal/sqlite"
	"github.com/rpggio/revtrack/internal/transport"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "revtrack",
		Short:         "revtrack - revision tracking for freelance projects",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, webhook receiver and MCP endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "revtrack %s\n", Version)
			if GitCommit != "unknown" {
				fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", GitCommit)
			}
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (REVTRACK_JWT_SECRET) is required")
	}

	logger, closeLog := newLogger(cfg.Log.Level)
	defer closeLog()

	db, err := openDB(ctx, cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer db.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           newHandler(cfg, db, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", httpServer.Addr, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
			return err
		}
		return nil
	})
	return g.Wait()
}

func newHandler(cfg config.Config, db *sqlite.DB, logger *slog.Logger) http.Handler {
	accountRepo := sqlite.NewAccountRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	revisionRepo := sqlite.NewRevisionRepository(db)
	entitlementRepo := sqlite.NewEntitlementRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	waitlistRepo := sqlite.NewWaitlistRepository(db)

	recorder := activity.NewRecorder(activityRepo, logger)
	accountSvc := account.NewService(accountRepo, logger)
	entitlementSvc := entitlement.NewService(entitlementRepo, recorder, logger)
	projectSvc := project.NewService(projectRepo, accountRepo, entitlementRepo, logger,
		project.WithFreeProjectLimit(cfg.Quota.FreeProjectLimit),
		project.WithActivity(recorder))
	revisionSvc := revision.NewService(revisionRepo, projectSvc, recorder, logger)
	resolver := share.NewResolver(sqlite.NewShareStore(db), logger)
	verifier := identity.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)

	checkout := billing.NewCheckout(billing.Config{
		APIKey:     cfg.Billing.StripeAPIKey,
		PriceID:    cfg.Billing.PriceID,
		SuccessURL: cfg.Billing.SuccessURL,
		CancelURL:  cfg.Billing.CancelURL,
	}, recorder, logger)
	if !checkout.Configured() {
		logger.Warn("stripe checkout not configured; upgrades are disabled")
	}

	var mcpHandler http.Handler
	if cfg.MCP.Enabled {
		mcpHandler = mcp.NewHTTPHandler(mcp.NewServer(mcp.Config{
			Services: mcp.Services{
				Projects:     projectSvc,
				Revisions:    revisionSvc,
				Entitlements: entitlementSvc,
				Share:        resolver,
			},
			Resolver: verifier,
			Version:  Version,
			Logger:   logger,
		}))
	}

	return transport.NewServer(transport.Config{
		Services: transport.Services{
			Accounts:     accountSvc,
			Projects:     projectSvc,
			Revisions:    revisionSvc,
			Entitlements: entitlementSvc,
			Share:        resolver,
			Waitlist:     waitlist.NewService(waitlistRepo, logger),
			Activity:     activity.NewService(activityRepo, logger),
			Checkout:     checkout,
		},
		Resolver: verifier,
		Webhook:  billing.NewWebhookHandler(cfg.Billing.WebhookSecret, entitlementSvc, accountSvc, logger),
		MCP:      mcpHandler,
		Logger:   logger,
	})
}

func openDB(ctx context.Context, path string) (*sqlite.DB, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrationsContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
