package adminapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/media"
	"github.com/3dcreationshub/creationshub/internal/webserver"
)

type productPayload struct {
	CategoryID int64  `json:"category_id,string" form:"category_id" validate:"required"`
	Name       string `json:"name" form:"name" validate:"required,min=3,max=200"`
	Hint       string `json:"hint" form:"hint" validate:"omitempty,min=2,max=100"`
	// Description is optional on create; the AI flow can fill it later.
	Description string `json:"description" form:"description" validate:"omitempty,min=10"`
	Price       string `json:"price" form:"price" validate:"max=100"`
	Size        string `json:"size" form:"size" validate:"max=100"`
	Featured    bool   `json:"featured" form:"featured"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.TrimSpace(c.QueryParam("q"))

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, ok2 := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !ok2 {
		sortCol = "created_at"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if cid, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 64); err == nil && cid > 0 {
		db = db.Where("category_id = ?", cid)
	}
	if featured := c.QueryParam("featured"); featured != "" {
		db = db.Where("featured = ?", featured == "true" || featured == "1")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	var rows []domain.Product
	err := db.Preload("Media").
		Order(sortCol + " " + order).
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetApp(c).MediaManager().GetProduct(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

// bindProductPayload parses and validates the multipart form fields shared
// by create and update. Validation happens before any upload starts.
func bindProductPayload(c echo.Context) (*productPayload, error) {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Hint = strings.TrimSpace(payload.Hint)
	payload.Description = strings.TrimSpace(payload.Description)
	payload.Price = strings.TrimSpace(payload.Price)
	payload.Size = strings.TrimSpace(payload.Size)
	if err := c.Validate(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product fields failed validation", err.Error())
	}
	if payload.Price == "" {
		payload.Price = domain.PriceOnEnquiry
	}
	var count int64
	GetDB(c).Model(&domain.ProductCategory{}).Where("id = ?", payload.CategoryID).Count(&count)
	if count == 0 {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown category", nil)
	}
	return &payload, nil
}

// formUploads converts the "media" multipart files into upload descriptors.
func formUploads(c echo.Context) ([]media.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File["media"]
	uploads := make([]media.Upload, 0, len(files))
	for _, fh := range files {
		fh := fh
		uploads = append(uploads, media.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads, nil
}

func mediaError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, media.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	case errors.Is(err, media.ErrFeaturedLimit):
		return fail(c, http.StatusConflict, "CAPACITY_EXCEEDED",
			"Featured product limit reached, unfeature another product first", nil)
	case err != nil:
		return fail(c, http.StatusBadGateway, "STORAGE_ERROR", "Failed to "+action+" product", err.Error())
	}
	return nil
}

func createProduct(c echo.Context) error {
	payload, errResp := bindProductPayload(c)
	if payload == nil {
		return errResp
	}
	uploads, _ := formUploads(c)

	p := domain.Product{
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Hint:        payload.Hint,
		Description: payload.Description,
		Price:       payload.Price,
		Size:        payload.Size,
		Featured:    payload.Featured,
	}
	if err := GetApp(c).MediaManager().CreateProduct(c.Request().Context(), &p, uploads); err != nil {
		return mediaError(c, err, "create")
	}
	addOprLog(c, currentUsername(c), "product:create", "created product "+p.Name)
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	payload, errResp := bindProductPayload(c)
	if payload == nil {
		return errResp
	}
	uploads, _ := formUploads(c)
	retain := parseRetainedMedia(c.FormValue("retain_media"))

	p := domain.Product{
		ID:          id,
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Hint:        payload.Hint,
		Description: payload.Description,
		Price:       payload.Price,
		Size:        payload.Size,
		Featured:    payload.Featured,
	}
	updated, err := GetApp(c).MediaManager().UpdateProduct(c.Request().Context(), &p, retain, uploads)
	if err != nil {
		return mediaError(c, err, "update")
	}
	addOprLog(c, currentUsername(c), "product:update", "updated product "+updated.Name)
	return ok(c, updated)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetApp(c).MediaManager().DeleteProduct(c.Request().Context(), id); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	addOprLog(c, currentUsername(c), "product:delete", "deleted product")
	return ok(c, map[string]interface{}{"id": id})
}

// parseRetainedMedia parses the comma separated media ids an update keeps.
func parseRetainedMedia(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
