package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-convo/internal/infrastructure/logger"
	"go-convo/internal/pkg/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	codec, err := identity.NewCodec("test-secret")
	require.NoError(t, err)
	a, err := NewAuthenticator("jwt-secret", codec)
	require.NoError(t, err)
	return a
}

func TestIssueAndAuthenticate(t *testing.T) {
	a := newAuthenticator(t)
	userID := uuid.NewString()

	token, err := a.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	got, err := a.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	a := newAuthenticator(t)
	token, err := a.IssueToken(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	a.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = a.Authenticate(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	other, err := NewAuthenticator("another-secret", a.codec)
	require.NoError(t, err)
	foreign, err := other.IssueToken(uuid.NewString(), time.Hour)
	require.NoError(t, err)
	_, err = newAuthenticator(t).Authenticate(foreign)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = a.Authenticate("")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := newAuthenticator(t)
	userID := uuid.NewString()
	token, err := a.IssueToken(userID, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequireAuth(a, logger.Nop()), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
