// Package webserver owns the Echo instance: middleware, session and token
// auth, and the route registration helpers the api packages use.
package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"

	"github.com/3dcreationshub/creationshub/internal/app"
)

const (
	// SessionName is the cookie session all admin logins share.
	SessionName = "creationshub_session"
	// SessionUserKey holds the operator username inside the session.
	SessionUserKey = "username"
	// ContextAppKey holds the application container inside echo context.
	ContextAppKey = "app"
	// ContextUserKey holds the authenticated username inside echo context.
	ContextUserKey = "username"
)

var server *WebServer

type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	pub  *echo.Group
	app  app.AppContext
}

// Init builds the global web server around the application container.
func Init(application app.AppContext) {
	server = NewWebServer(application)
}

func NewWebServer(application app.AppContext) *WebServer {
	cfg := application.Config()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = NewJsonSerializer()
	e.Validator = NewWebValidator()

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Web.Secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextAppKey, application)
			return next(c)
		}
	})
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Status >= http.StatusBadRequest {
				zap.L().Warn("request failed",
					zap.String("namespace", "web"),
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status))
			}
			return nil
		},
	}))

	if cfg.Web.AssetsDir != "" {
		e.Static("/", cfg.Web.AssetsDir)
	}

	s := &WebServer{
		root: e,
		pub:  e.Group("/api"),
		app:  application,
	}
	s.api = e.Group("/admin/api", s.authMiddleware(cfg.Web.Secret))
	return s
}

// authMiddleware accepts either a logged-in cookie session or a Bearer
// token signed with the web secret. Both paths leave the operator name in
// ContextUserKey for the audit log.
func (s *WebServer) authMiddleware(secret string) echo.MiddlewareFunc {
	tokenAuth := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if subject, err := token.Claims.GetSubject(); err == nil && subject != "" {
				c.Set(ContextUserKey, subject)
			}
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		tokenNext := tokenAuth(next)
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err == nil && sess != nil {
				if username, ok := sess.Values[SessionUserKey].(string); ok && username != "" {
					c.Set(ContextUserKey, username)
					return next(c)
				}
			}
			return tokenNext(c)
		}
	}
}

// Listen starts the server and blocks.
func Listen() error {
	cfg := server.app.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	server.root.Server.ReadTimeout = 60 * time.Second
	server.root.Server.WriteTimeout = 0
	return server.root.Start(addr)
}

// Instance exposes the echo engine (used in tests).
func Instance() *echo.Echo {
	return server.root
}

// ApiGET registers an authenticated admin route.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// PubGET registers an unauthenticated public route under /api.
func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// RootPOST registers an unauthenticated route at the server root, used for
// the login endpoint.
func RootPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}
