package transport

import (
	"net/http"
	"strings"

	"github.com/rpggio/revtrack/internal/domain/account"
)

// PrincipalResolver turns a bearer token into a principal.
type PrincipalResolver interface {
	Verify(token string) (account.Principal, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				WriteError(w, account.ErrUnauthenticated)
				return
			}

			p, err := resolver.Verify(token)
			if err != nil || !p.Authenticated() {
				WriteError(w, account.ErrUnauthenticated)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
