package transport

import (
	"context"
	"errors"
	"net/http"

	"github.com/rpggio/revtrack/internal/billing"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/activity"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/share"
	"github.com/rpggio/revtrack/internal/domain/waitlist"
	"github.com/rpggio/revtrack/internal/identity"
	"github.com/rpggio/revtrack/internal/repository"
)

// Error codes shared by the HTTP API and the MCP tools.
const (
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidInput       = "invalid_input"
	CodeQuotaExceeded      = "quota_exceeded"
	CodeScopeExceeded      = "scope_exceeded"
	CodeNotFound           = "not_found"
	CodeStoreUnavailable   = "store_unavailable"
	CodeBillingUnavailable = "billing_unavailable"
	CodeInternal           = "internal"
)

// Classified is an error kind with its HTTP status and public message.
type Classified struct {
	Status  int
	Code    string
	Message string
}

// Classify maps domain errors to their API representation. Messages never
// carry the underlying error text.
func Classify(err error) Classified {
	switch {
	case errors.Is(err, account.ErrUnauthenticated), errors.Is(err, identity.ErrInvalidToken):
		return Classified{http.StatusUnauthorized, CodeUnauthenticated, "authentication required"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, revision.ErrInvalidInput),
		errors.Is(err, waitlist.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, entitlement.ErrInvalidInput),
		errors.Is(err, errBadRequest):
		return Classified{http.StatusBadRequest, CodeInvalidInput, invalidMessage(err)}
	case errors.Is(err, repository.ErrConstraint):
		return Classified{http.StatusBadRequest, CodeInvalidInput, "a field is outside its allowed range"}
	case errors.Is(err, project.ErrQuotaExceeded):
		return Classified{http.StatusPaymentRequired, CodeQuotaExceeded, "free plan project limit reached; upgrade to create more projects"}
	case errors.Is(err, revision.ErrScopeExceeded):
		return Classified{http.StatusConflict, CodeScopeExceeded, "project revision limit reached"}
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, share.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		return Classified{http.StatusNotFound, CodeNotFound, "not found"}
	case errors.Is(err, repository.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return Classified{http.StatusServiceUnavailable, CodeStoreUnavailable, "store unavailable; try again"}
	case errors.Is(err, billing.ErrNotConfigured):
		return Classified{http.StatusServiceUnavailable, CodeBillingUnavailable, "billing is not configured"}
	default:
		return Classified{http.StatusInternalServerError, CodeInternal, "internal error"}
	}
}

func invalidMessage(err error) string {
	var bad *badRequestError
	if errors.As(err, &bad) {
		return bad.msg
	}
	return err.Error()
}

var errBadRequest = errors.New("bad request")

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func (e *badRequestError) Is(target error) bool { return target == errBadRequest }

func badRequest(msg string) error {
	return &badRequestError{msg: msg}
}
