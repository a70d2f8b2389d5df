package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tasklink/apierr"
	"tasklink/models"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// Claims is the token payload minted by the external identity service.
// The subject is the user id; this service only verifies, never issues.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth verifies the access_token cookie and attaches the caller's identity
// to the request context. Everything downstream trusts that identity.
func Auth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("access_token")
			if err != nil {
				apierr.Write(w, apierr.Auth())
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				apierr.Write(w, apierr.Auth())
				return
			}

			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				apierr.Write(w, apierr.Auth())
				return
			}

			user := &models.AuthUser{ID: id, Email: claims.Email}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthUser retrieves the verified identity from the request context, or
// nil if the request never went through Auth.
func GetAuthUser(r *http.Request) *models.AuthUser {
	user, ok := r.Context().Value(userContextKey).(*models.AuthUser)
	if !ok {
		return nil
	}
	return user
}
