package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newEchoContext builds an echo context around the given request and
// returns it plus the response recorder.
func newEchoContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestHandlerRegister_Created(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			user.ID = primitive.NewObjectID()
			return nil
		},
	}
	svc, _ := newTestService(t, repo)
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"email":"alice@x.com","password":"pw1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newEchoContext(req)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "alice@x.com", body.Email)
	require.NotEmpty(t, body.ID)
	// The password hash must never appear in the response.
	require.NotContains(t, rec.Body.String(), "password")
}

func TestHandlerConnect_BasicAuth(t *testing.T) {
	repo, _ := fixtureRepo("alice@x.com", "pw1")
	svc, _ := newTestService(t, repo)
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.SetBasicAuth("alice@x.com", "pw1")
	c, rec := newEchoContext(req)

	require.NoError(t, h.Connect(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["token"])
}

func TestHandlerConnect_MissingHeader(t *testing.T) {
	svc, _ := newTestService(t, &mockUserRepo{})
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	c, _ := newEchoContext(req)

	err := h.Connect(c)
	assertAppError(t, err, 401)
}

func TestHandlerDisconnect_NoContent(t *testing.T) {
	repo, _ := fixtureRepo("alice@x.com", "pw1")
	svc, _ := newTestService(t, repo)
	h := NewHandler(svc)

	token, err := svc.Connect(context.Background(), "alice@x.com", "pw1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/disconnect", nil)
	req.Header.Set(tokenHeader, string(token))
	c, rec := newEchoContext(req)

	require.NoError(t, h.Disconnect(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestRequireToken(t *testing.T) {
	repo, user := fixtureRepo("alice@x.com", "pw1")
	svc, _ := newTestService(t, repo)

	token, err := svc.Connect(context.Background(), "alice@x.com", "pw1")
	require.NoError(t, err)

	next := func(c echo.Context) error {
		require.Equal(t, user.ID, GetUserID(c))
		require.Equal(t, user.Email, GetUser(c).Email)
		return c.NoContent(http.StatusOK)
	}
	mw := RequireToken(svc)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set(tokenHeader, string(token))
		c, rec := newEchoContext(req)

		require.NoError(t, mw(next)(c))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		c, _ := newEchoContext(req)

		assertAppError(t, mw(next)(c), 401)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set(tokenHeader, "bogus")
		c, _ := newEchoContext(req)

		assertAppError(t, mw(next)(c), 401)
	})
}

func TestHandlerMe(t *testing.T) {
	repo, user := fixtureRepo("alice@x.com", "pw1")
	svc, _ := newTestService(t, repo)
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	c, rec := newEchoContext(req)
	c.Set(contextKeyUser, user)

	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, user.ID.Hex(), body.ID)
	require.Equal(t, user.Email, body.Email)
}
