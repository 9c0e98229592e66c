package auth

import (
	"net/http"
	"strings"
)

// Middleware attaches operator identity from a bearer token when one is
// presented. It never rejects a request: the logbook is a shared terminal on
// the boiler room floor, so every endpoint stays reachable and attribution is
// recorded only when a token is available.
type Middleware struct {
	Secret []byte
}

// NewMiddleware constructs an attribution middleware.
func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{Secret: secret}
}

// Wrap applies attribution to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil || len(m.Secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := ParseJWT(token, m.Secret)
		if err != nil {
			// Invalid token means anonymous, not rejected.
			next.ServeHTTP(w, r)
			return
		}
		ctx := WithOperator(r.Context(), claims.OperatorID, claims.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearer(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
