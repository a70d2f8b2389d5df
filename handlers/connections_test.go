package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklink/connections"
	"tasklink/database"
	"tasklink/middleware"
	"tasklink/models"
)

const testSecret = "test-secret"

type testAPI struct {
	router http.Handler
	store  *database.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	store := database.NewStore(db, 10)
	engine := connections.NewEngine(store)
	hub := NewHub()
	go hub.Run()

	handler := NewHandler(store, engine, hub)
	return &testAPI{router: NewRouter(handler, testSecret), store: store}
}

func (a *testAPI) seedUser(t *testing.T, username string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := a.store.CreateUser(context.Background(), models.User{
		ID:        id,
		Username:  username,
		Name:      username + " example",
		Email:     username + "@example.com",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

// mintToken signs an access token the way the external identity service
// would.
func mintToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &middleware.Claims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (a *testAPI) do(t *testing.T, as uuid.UUID, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: mintToken(t, as)})
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestAPI_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/listers/page/1", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_ConnectionFlow(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice")
	bob := api.seedUser(t, "bob")

	// Alice requests Bob.
	rec := api.do(t, alice, http.MethodPost, "/api/user/"+bob.String()+"/request", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Again: rejected.
	rec = api.do(t, alice, http.MethodPost, "/api/user/"+bob.String()+"/request", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))

	// Bob sees the incoming request.
	rec = api.do(t, bob, http.MethodGet, "/api/user/listers/requests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var incoming []models.IncomingRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incoming))
	require.Len(t, incoming, 1)
	assert.Equal(t, alice, incoming[0].From.ID)

	// Bob's view of Alice shows a received request.
	rec = api.do(t, bob, http.MethodGet, "/api/user/"+alice.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.ViewUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.ReceivedConnection)
	assert.False(t, view.Connected)

	// Bob accepts.
	rec = api.do(t, bob, http.MethodPut, "/api/user/"+alice.String()+"/accept", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Both sides list each other.
	rec = api.do(t, alice, http.MethodGet, "/api/user/listers/page/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.UserSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, bob, listed[0].ID)

	rec = api.do(t, bob, http.MethodGet, "/api/user/listers/page/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, alice, listed[0].ID)

	// Bob disconnects.
	rec = api.do(t, bob, http.MethodPut, "/api/user/listers/"+alice.String()+"/disconnect", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, alice, http.MethodGet, "/api/user/listers/page/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestAPI_CancelAndReject(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice")
	bob := api.seedUser(t, "bob")

	// Cancel with nothing pending.
	rec := api.do(t, alice, http.MethodDelete, "/api/user/"+bob.String()+"/request", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Request then cancel.
	rec = api.do(t, alice, http.MethodPost, "/api/user/"+bob.String()+"/request", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(t, alice, http.MethodDelete, "/api/user/"+bob.String()+"/request", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Request then reject.
	rec = api.do(t, alice, http.MethodPost, "/api/user/"+bob.String()+"/request", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(t, bob, http.MethodPut, "/api/user/"+alice.String()+"/reject", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Rejected means Alice can try again.
	rec = api.do(t, alice, http.MethodPost, "/api/user/"+bob.String()+"/request", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPI_SelfRequestRejected(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice")

	rec := api.do(t, alice, http.MethodPost, "/api/user/"+alice.String()+"/request", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_SearchValidation(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice")
	api.seedUser(t, "bob")
	api.seedUser(t, "bobby")

	// Missing q.
	rec := api.do(t, alice, http.MethodGet, "/api/user/search", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Bad page.
	rec = api.do(t, alice, http.MethodGet, "/api/user/search?q=bob&p=0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, alice, http.MethodGet, "/api/user/search?q=bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []models.UserSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 2)
}

func TestAPI_ListPageValidation(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice")

	rec := api.do(t, alice, http.MethodGet, "/api/user/listers/page/0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, alice, http.MethodGet, "/api/user/listers/page/notanumber", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_InvalidUserID(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice")

	rec := api.do(t, alice, http.MethodPost, "/api/user/not-a-uuid/request", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ViewUnknownUser(t *testing.T) {
	api := newTestAPI(t)
	alice := api.seedUser(t, "alice")

	rec := api.do(t, alice, http.MethodGet, "/api/user/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
