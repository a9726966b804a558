package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtsvc "dispocam/internal/pkg/jwt"
)

func guestRouter(j *jwtsvc.Service, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := GuestAuth(j)
	if optional {
		mw = GuestAuthOptional(j)
	}
	r.Use(mw)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"owner_id":  c.GetString("owner_id"),
			"camera_id": c.GetString("camera_id"),
		})
	})
	return r
}

func TestGuestAuth_ValidToken(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)
	token, err := j.GenerateGuestToken("guest-1", "Dana", "cam-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	guestRouter(j, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "guest-1")
	assert.Contains(t, w.Body.String(), "cam-1")
}

func TestGuestAuth_MissingHeader(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	guestRouter(j, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestAuth_BadToken(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	guestRouter(j, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestAuth_WrongSecret(t *testing.T) {
	issuer := jwtsvc.New("secret-a", time.Hour)
	verifier := jwtsvc.New("secret-b", time.Hour)
	token, err := issuer.GenerateGuestToken("guest-1", "Dana", "cam-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	guestRouter(verifier, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestAuthOptional_AnonymousPasses(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	guestRouter(j, true).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"camera_id":""`)
}

func TestGuestAuthOptional_TokenPicked(t *testing.T) {
	j := jwtsvc.New("test-secret-123", time.Hour)
	token, err := j.GenerateGuestToken("guest-2", "Eli", "cam-9")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	guestRouter(j, true).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cam-9")
}
