package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/scope"
	"github.com/rpggio/revtrack/internal/domain/share"
	"github.com/rpggio/revtrack/internal/domain/waitlist"
	"github.com/rpggio/revtrack/internal/metrics"
)

// AccountService mirrors principals into the store.
type AccountService interface {
	Ensure(ctx context.Context, p account.Principal) (*account.Account, error)
}

// ProjectService defines project operations needed by the API.
type ProjectService interface {
	Create(ctx context.Context, p account.Principal, req project.CreateRequest) (*project.Project, error)
	CanCreate(ctx context.Context, p account.Principal) (bool, error)
	List(ctx context.Context, p account.Principal) ([]project.ProjectSummary, error)
	FreeProjectLimit() int
}

// RevisionService defines revision operations needed by the API.
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

// WaitlistService handles sign-ups.
type WaitlistService interface {
	Join(ctx context.Context, email string) (*waitlist.Entry, error)
}

// ActivityService lists the audit log.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, accountID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// CheckoutService starts paid upgrades.
type CheckoutService interface {
	Start(ctx context.Context, p account.Principal) (string, error)
}

// Services contains the domain services the API calls.
type Services struct {
	Accounts     AccountService
	Projects     ProjectService
	Revisions    RevisionService
	Entitlements EntitlementService
	Share        ShareResolver
	Waitlist     WaitlistService
	Activity     ActivityService
	Checkout     CheckoutService
}

// Config wires the HTTP server.
type Config struct {
	Services Services
	Resolver PrincipalResolver
	// Webhook receives signed payment-provider events. Nil disables the route.
	Webhook http.Handler
	// MCP serves the tool surface at /mcp. Nil disables the route.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server holds handler dependencies.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(requestLogger(cfg.Logger))

	srv := &Server{svc: cfg.Services, logger: cfg.Logger}

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Post("/api/waitlist", srv.handleJoinWaitlist)
	r.Get("/api/share/{token}", srv.handleShare)
	if cfg.Webhook != nil {
		r.Method(http.MethodPost, "/webhooks/stripe", cfg.Webhook)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Resolver))
		r.Get("/api/me", srv.handleMe)
		r.Get("/api/projects", srv.handleListProjects)
		r.Post("/api/projects", srv.handleCreateProject)
		r.Get("/api/projects/{id}", srv.handleGetProject)
		r.Post("/api/projects/{id}/revisions", srv.handleRecordRevision)
		r.Get("/api/activity", srv.handleActivity)
		r.Post("/api/billing/checkout", srv.handleCheckout)
	})

	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil || !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start))
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type meResponse struct {
	Account          *account.Account   `json:"account"`
	Entitlement      entitlement.Status `json:"entitlement"`
	CanCreateProject bool               `json:"can_create_project"`
	FreeProjectLimit int                `json:"free_project_limit"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	acct, err := s.svc.Accounts.Ensure(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := s.svc.Entitlements.Status(r.Context(), p.AccountID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	canCreate, err := s.svc.Projects.CanCreate(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, meResponse{
		Account:          acct,
		Entitlement:      status,
		CanCreateProject: canCreate,
		FreeProjectLimit: s.svc.Projects.FreeProjectLimit(),
	})
}

type createProjectRequest struct {
	Name              string  `json:"name"`
	ClientName        string  `json:"client_name"`
	Scope             string  `json:"scope"`
	RevisionLimit     int     `json:"revision_limit"`
	ExtraRevisionCost float64 `json:"extra_revision_cost"`
}

// ProjectResponse adds the formatted overage price to a project.
type ProjectResponse struct {
	*project.Project
	ExtraRevisionCost string `json:"extra_revision_cost"`
}

// NewProjectResponse builds a ProjectResponse.
func NewProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{Project: p, ExtraRevisionCost: p.ExtraRevisionCost()}
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	var req createProjectRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	proj, err := s.svc.Projects.Create(r.Context(), p, project.CreateRequest{
		Name:              req.Name,
		ClientName:        req.ClientName,
		Scope:             req.Scope,
		RevisionLimit:     req.RevisionLimit,
		ExtraRevisionCost: req.ExtraRevisionCost,
	})
	metrics.ObserveGate(metrics.GateProject, Outcome(err))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, NewProjectResponse(proj))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	list, err := s.svc.Projects.List(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []project.ProjectSummary{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"projects": list})
}

// TimelineResponse is a project with its revisions and scope summary.
type TimelineResponse struct {
	Project   ProjectResponse     `json:"project"`
	Revisions []revision.Revision `json:"revisions"`
	Scope     scope.Summary       `json:"scope"`
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	tl, err := s.svc.Revisions.Timeline(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, TimelineResponse{
		Project:   NewProjectResponse(&tl.Project),
		Revisions: tl.Revisions,
		Scope:     tl.Scope,
	})
}

type recordRevisionRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleRecordRevision(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	var req recordRevisionRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.svc.Revisions.Record(r.Context(), p, revision.RecordRequest{
		ProjectID: chi.URLParam(r, "id"),
		Note:      req.Note,
	})
	metrics.ObserveGate(metrics.GateRevision, Outcome(err))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())

	opts := activity.ListActivityOptions{}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, badRequest("limit must be a non-negative integer"))
			return
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, badRequest("offset must be a non-negative integer"))
			return
		}
		opts.Offset = n
	}
	if v := strings.TrimSpace(q.Get("project_id")); v != "" {
		opts.ProjectID = &v
	}

	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), p.AccountID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	url, err := s.svc.Checkout.Start(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

type waitlistRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleJoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req waitlistRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	entry, err := s.svc.Waitlist.Join(r.Context(), req.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"joined": true, "email": entry.Email})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Share.Resolve(r.Context(), chi.URLParam(r, "token"))
	metrics.ObserveGate(metrics.GateShare, Outcome(err))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	c := Classify(err)
	if s.logger != nil && c.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", c.Code, "error", err)
	}
	WriteError(w, err)
}

// Outcome labels a gate decision for metrics: "ok" or the error code.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return Classify(err).Code
}
