package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPOST("/settings", saveSettings)
	webserver.ApiGET("/team", listTeam)
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("sort asc").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	// never hand the smtp password back to the browser
	for i := range rows {
		if rows[i].Type == "smtp" && rows[i].Name == "password" && rows[i].Value != "" {
			rows[i].Value = "******"
		}
	}
	return ok(c, rows)
}

func saveSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	if len(payload) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No settings given", nil)
	}
	if err := GetApp(c).SaveSettings(payload); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}
	addOprLog(c, currentUsername(c), "settings:save", "updated system settings")
	return ok(c, nil)
}

func listTeam(c echo.Context) error {
	return ok(c, GetApp(c).GetTeamMembers())
}
