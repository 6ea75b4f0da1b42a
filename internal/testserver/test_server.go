// Package testserver runs the full HTTP stack against an in-memory SQLite store
// for end-to-end tests.
package testserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/revtrack/internal/billing"
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
	"github.com/stretchr/testify/require"
	stripewebhook "github.com/stripe/stripe-go/v82/webhook"
)

const (
	jwtSecret     = "test-jwt-secret"
	jwtAudience   = "authenticated"
	WebhookSecret = "whsec_test"
)

// Options tunes the stack under test.
type Options struct {
	FreeProjectLimit int
}

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Issuer *identity.Issuer
}

// New starts a server with the default free-tier limit.
func New(t *testing.T) *TestServer {
	return NewWithOptions(t, Options{FreeProjectLimit: project.DefaultFreeProjectLimit})
}

func NewWithOptions(t *testing.T, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	accountRepo := sqlite.NewAccountRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	revisionRepo := sqlite.NewRevisionRepository(db)
	entitlementRepo := sqlite.NewEntitlementRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	waitlistRepo := sqlite.NewWaitlistRepository(db)

	recorder := activity.NewRecorder(activityRepo, nil)
	accountSvc := account.NewService(accountRepo, nil)
	entitlementSvc := entitlement.NewService(entitlementRepo, recorder, nil)
	projectSvc := project.NewService(projectRepo, accountRepo, entitlementRepo, nil,
		project.WithFreeProjectLimit(opts.FreeProjectLimit),
		project.WithActivity(recorder))
	revisionSvc := revision.NewService(revisionRepo, projectSvc, recorder, nil)
	resolver := share.NewResolver(sqlite.NewShareStore(db), nil)
	verifier := identity.NewVerifier(jwtSecret, jwtAudience)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:     projectSvc,
			Revisions:    revisionSvc,
			Entitlements: entitlementSvc,
			Share:        resolver,
		},
		Resolver: verifier,
	})

	handler := transport.NewServer(transport.Config{
		Services: transport.Services{
			Accounts:     accountSvc,
			Projects:     projectSvc,
			Revisions:    revisionSvc,
			Entitlements: entitlementSvc,
			Share:        resolver,
			Waitlist:     waitlist.NewService(waitlistRepo, nil),
			Activity:     activity.NewService(activityRepo, nil),
			Checkout:     billing.NewCheckout(billing.Config{}, recorder, nil),
		},
		Resolver: verifier,
		Webhook:  billing.NewWebhookHandler(WebhookSecret, entitlementSvc, accountSvc, nil),
		MCP:      mcp.NewHTTPHandler(mcpServer),
	})
	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server: server,
		DB:     db,
		Issuer: identity.NewIssuer(jwtSecret, jwtAudience),
	}
}

// Token issues a bearer token for accountID valid for an hour.
func (ts *TestServer) Token(t *testing.T, accountID string) string {
	t.Helper()
	token, err := ts.Issuer.Issue(accountID, accountID+"@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

// Do sends a JSON request and decodes a JSON object response.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

// SendWebhook posts a Stripe event signed with secret.
func (ts *TestServer) SendWebhook(t *testing.T, secret string, event map[string]any) int {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)
	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   data,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/webhooks/stripe", bytes.NewReader(signed.Payload))
	require.NoError(t, err)
	req.Header.Set("Stripe-Signature", signed.Header)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

// CheckoutCompleted builds a paid checkout.session.completed event for accountID.
func CheckoutCompleted(eventID, sessionID, accountID string) map[string]any {
	return map[string]any{
		"id":     eventID,
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":                  sessionID,
				"object":              "checkout.session",
				"mode":                "subscription",
				"payment_status":      "paid",
				"client_reference_id": accountID,
				"subscription":        "sub_" + sessionID,
			},
		},
	}
}
