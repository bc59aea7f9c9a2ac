package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/media"
	"github.com/3dcreationshub/creationshub/internal/webserver"
)

type categoryPayload struct {
	Name        string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" form:"description" validate:"max=500"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	var rows []domain.ProductCategory
	if err := GetDB(c).Order("name asc").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Description = strings.TrimSpace(payload.Description)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category name must be at least 2 characters", nil)
	}

	cat := domain.ProductCategory{
		Name:        payload.Name,
		Description: payload.Description,
	}
	err := GetApp(c).MediaManager().CreateCategory(c.Request().Context(), &cat)
	switch {
	case errors.Is(err, media.ErrCategoryExists):
		return fail(c, http.StatusConflict, "DUPLICATE_NAME", "A category with this name already exists", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	addOprLog(c, currentUsername(c), "category:create", "created category "+cat.Name)
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	err = GetApp(c).MediaManager().DeleteCategory(c.Request().Context(), id)
	switch {
	case errors.Is(err, media.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	case errors.Is(err, media.ErrCategoryNotEmpty):
		return fail(c, http.StatusConflict, "CATEGORY_NOT_EMPTY", "Remove the category's products first", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	addOprLog(c, currentUsername(c), "category:delete", "deleted category")
	return ok(c, map[string]interface{}{"id": id})
}
