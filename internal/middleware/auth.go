package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// EditSessionKey is the context key for the session ID an edit token grants access to.
	EditSessionKey contextKey = "edit_session_id"
	// TokenErrorKey is the context key for why a presented token was rejected.
	TokenErrorKey contextKey = "token_error"
)

// GetEditSessionID extracts the session ID granted by the request's edit token.
// Returns empty string if no valid token was presented.
func GetEditSessionID(ctx context.Context) string {
	id, _ := ctx.Value(EditSessionKey).(string)
	return id
}

// GetTokenError returns the reason a presented token was rejected:
// auth.ErrMissingToken when none was sent, nil when it was valid.
func GetTokenError(ctx context.Context) error {
	if err, ok := ctx.Value(TokenErrorKey).(error); ok {
		return err
	}
	if GetEditSessionID(ctx) == "" {
		return auth.ErrMissingToken
	}
	return nil
}

// EditToken returns an interceptor that validates an edit token if present,
// but lets every request through. Handlers that modify a session decide
// whether the granted session matches (see GetEditSessionID).
func EditToken(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return next(ctx, req)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return next(context.WithValue(ctx, TokenErrorKey, auth.ErrInvalidToken), req)
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return next(context.WithValue(ctx, TokenErrorKey, err), req)
			}

			return next(context.WithValue(ctx, EditSessionKey, claims.SessionID), req)
		}
	}
}
