package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const userIDKey contextKey = "user_id"

const bearerPrefix = "Bearer "

var (
	errMissingToken   = errors.New("missing bearer token")
	errInvalidToken   = errors.New("invalid access token")
	errAuthDisabled   = errors.New("authentication is not configured")
	errMissingSubject = errors.New("token has no subject")
)

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// Auth accepts HS256 bearer tokens signed with secret and stores the token
// subject as the user id. With an empty secret every request is rejected.
func Auth(secret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				unauthorized(w, errAuthDisabled)
				return
			}

			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(header, bearerPrefix) {
				unauthorized(w, errMissingToken)
				return
			}
			tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if tokenString == "" {
				unauthorized(w, errMissingToken)
				return
			}

			userID, err := ParseToken(tokenString, key)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected access token")
				unauthorized(w, errInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

// ParseToken validates tokenString and returns its subject.
func ParseToken(tokenString string, key []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errMissingSubject
	}
	return claims.Subject, nil
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="gamehub"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "Unauthorized",
		"message": err.Error(),
	})
}
