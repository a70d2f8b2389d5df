package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklink/models"
)

const testSecret = "test-secret"

func protected(t *testing.T, captured **models.AuthUser) http.Handler {
	t.Helper()

	return Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetAuthUser(r)
		w.WriteHeader(http.StatusOK)
	}))
}

func sign(t *testing.T, claims *Claims, secret string) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuth_ValidToken(t *testing.T) {
	var got *models.AuthUser
	handler := protected(t, &got)

	userID := uuid.New()
	token := sign(t, &Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, userID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestAuth_MissingCookie(t *testing.T) {
	var got *models.AuthUser
	handler := protected(t, &got)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, got)
}

func TestAuth_WrongSignature(t *testing.T) {
	var got *models.AuthUser
	handler := protected(t, &got)

	token := sign(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}, "some-other-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, got)
}

func TestAuth_GarbageSubject(t *testing.T) {
	var got *models.AuthUser
	handler := protected(t, &got)

	token := sign(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, got)
}
