package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/webserver"
	"github.com/3dcreationshub/creationshub/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.RootPOST("/admin/login", login)
	webserver.RootPOST("/admin/token", issueToken)
	webserver.ApiGET("/session", whoami)
	webserver.ApiPOST("/logout", logout)
}

func authenticate(c echo.Context, payload *loginPayload) (*domain.SysOpr, error) {
	payload.Username = strings.TrimSpace(payload.Username)
	var opr domain.SysOpr
	err := GetDB(c).Where("username = ? and status = ?", payload.Username, common.ENABLED).
		First(&opr).Error
	if err != nil {
		return nil, err
	}
	if !common.CheckPassword(opr.Password, payload.Password) {
		return nil, echo.ErrUnauthorized
	}
	return &opr, nil
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	opr, err := authenticate(c, &payload)
	if err != nil {
		zap.L().Warn("login rejected",
			zap.String("namespace", "adminapi"),
			zap.String("username", payload.Username),
			zap.String("ip", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
	}

	sess, _ := session.Get(webserver.SessionName, c)
	sess.Options.MaxAge = GetApp(c).Config().Web.SessionMaxAge
	sess.Options.HttpOnly = true
	sess.Values[webserver.SessionUserKey] = opr.Username
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session", err.Error())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).
		Update("last_login", time.Now())
	addOprLog(c, opr.Username, "login", "operator logged in")

	return ok(c, map[string]interface{}{"username": opr.Username, "level": opr.Level})
}

// issueToken exchanges credentials for a short-lived Bearer token, used by
// scripted clients that do not keep cookies.
func issueToken(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	opr, err := authenticate(c, &payload)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
	}

	expiry := time.Now().Add(8 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   opr.Username,
		ExpiresAt: jwt.NewNumericDate(expiry),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(GetApp(c).Config().Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}
	addOprLog(c, opr.Username, "token", "issued api token")
	return ok(c, map[string]interface{}{"token": signed, "expires_at": expiry})
}

func whoami(c echo.Context) error {
	return ok(c, map[string]interface{}{"username": currentUsername(c)})
}

func logout(c echo.Context) error {
	sess, _ := session.Get(webserver.SessionName, c)
	sess.Options.MaxAge = -1
	delete(sess.Values, webserver.SessionUserKey)
	_ = sess.Save(c.Request(), c.Response())
	addOprLog(c, currentUsername(c), "logout", "operator logged out")
	return ok(c, nil)
}

// addOprLog records an audit entry, best-effort.
func addOprLog(c echo.Context, username, action, desc string) {
	if username == "" {
		return
	}
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   username,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
