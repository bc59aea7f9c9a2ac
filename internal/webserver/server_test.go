package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/3dcreationshub/creationshub/config"
	"github.com/3dcreationshub/creationshub/internal/app"
)

type stubApp struct {
	app.AppContext
	cfg *config.AppConfig
}

func (s stubApp) Config() *config.AppConfig { return s.cfg }

func newTestServer(secret string) *WebServer {
	return NewWebServer(stubApp{cfg: &config.AppConfig{
		Web: config.WebConfig{Secret: secret},
	}})
}

func mintToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestBearerTokenSetsUsername(t *testing.T) {
	s := newTestServer("test-secret")
	s.api.GET("/whoami", func(c echo.Context) error {
		username, _ := c.Get(ContextUserKey).(string)
		return c.String(http.StatusOK, username)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+mintToken(t, "test-secret", "apiclient"))
	rec := httptest.NewRecorder()
	s.root.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "apiclient", rec.Body.String())
}

func TestBearerTokenWrongSecretRejected(t *testing.T) {
	s := newTestServer("test-secret")
	s.api.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, "reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+mintToken(t, "other-secret", "apiclient"))
	rec := httptest.NewRecorder()
	s.root.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "reached")
}
