// Package adminapi implements the authenticated back-office API: catalog
// management, inquiry workflow, settings and the assistant flows.
package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/3dcreationshub/creationshub/internal/app"
	"github.com/3dcreationshub/creationshub/internal/webserver"
)

// Init registers every admin route. Call after webserver.Init.
func Init() {
	registerAuthRoutes()
	registerCategoryRoutes()
	registerProductRoutes()
	registerInquiryRoutes()
	registerSettingsRoutes()
	registerAiRoutes()
}

// GetApp returns the application container injected by the web server.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextAppKey).(app.AppContext)
}

// GetDB returns a request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB().WithContext(c.Request().Context())
}

// currentUsername returns the authenticated operator name, empty for token
// logins without a subject.
func currentUsername(c echo.Context) string {
	if v, ok := c.Get(webserver.ContextUserKey).(string); ok {
		return v
	}
	return ""
}

type apiResponse struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

type apiError struct {
	Code      int         `json:"code"`
	ErrorCode string      `json:"error_code"`
	Msg       string      `json:"msg"`
	Detail    interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Code: 0, Msg: "success", Data: data})
}

func fail(c echo.Context, status int, errorCode, msg string, detail interface{}) error {
	return c.JSON(status, apiError{Code: 1, ErrorCode: errorCode, Msg: msg, Detail: detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return ok(c, map[string]interface{}{
		"items":    rows,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

// parsePagination reads page/pageSize query params with sane bounds.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
}
