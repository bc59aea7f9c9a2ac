// Package webapi implements the unauthenticated endpoints behind the
// marketing site: the catalog view, category list and the contact form.
package webapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/3dcreationshub/creationshub/internal/app"
	"github.com/3dcreationshub/creationshub/internal/catalog"
	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/storage"
	"github.com/3dcreationshub/creationshub/internal/webserver"
	"github.com/3dcreationshub/creationshub/pkg/common"
)

// Init registers the public routes. Call after webserver.Init.
func Init() {
	webserver.PubGET("/catalog", catalogView)
	webserver.PubGET("/categories", listCategories)
	webserver.PubGET("/site", siteInfo)
	webserver.PubPOST("/inquiries", createInquiry)
}

func getApp(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextAppKey).(app.AppContext)
}

// catalogView loads the catalog snapshot and runs the query pipeline over
// it. Everything after the two reads is in-memory.
func catalogView(c echo.Context) error {
	db := getApp(c).DB().WithContext(c.Request().Context())

	var categories []domain.ProductCategory
	if err := db.Order("name asc").Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load catalog")
	}
	var products []domain.Product
	if err := db.Preload("Media").Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load catalog")
	}

	byCategory := make(map[int64][]domain.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}
	views := make([]catalog.CategoryView, 0, len(categories))
	for _, cat := range categories {
		views = append(views, catalog.CategoryView{
			Category: cat,
			Products: byCategory[cat.ID],
		})
	}

	opts := catalog.Options{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Sort:   catalog.ParseSort(c.QueryParam("sort")),
	}
	if cid, err := strconv.ParseInt(c.QueryParam("category"), 10, 64); err == nil && cid > 0 {
		opts.CategoryID = cid
	}
	return c.JSON(http.StatusOK, catalog.Query(views, opts))
}

func listCategories(c echo.Context) error {
	var rows []domain.ProductCategory
	db := getApp(c).DB().WithContext(c.Request().Context())
	if err := db.Order("name asc").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load categories")
	}
	return c.JSON(http.StatusOK, rows)
}

// siteInfo exposes the public site settings the frontend renders.
func siteInfo(c echo.Context) error {
	a := getApp(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"title":         a.GetSettingsStringValue("site", "title"),
		"description":   a.GetSettingsStringValue("site", "description"),
		"keywords":      a.GetSettingsStringValue("site", "keywords"),
		"contact_email": a.GetSettingsStringValue("site", "contact_email"),
	})
}

type inquiryPayload struct {
	Name            string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Company         string `json:"company" form:"company" validate:"max=200"`
	Phone           string `json:"phone" form:"phone" validate:"max=32"`
	Location        string `json:"location" form:"location" validate:"max=200"`
	ProductInterest string `json:"product_interest" form:"product_interest" validate:"required,min=2,max=200"`
	Message         string `json:"message" form:"message" validate:"required,min=10"`
}

func createInquiry(c echo.Context) error {
	var payload inquiryPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to parse inquiry")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.Company = strings.TrimSpace(payload.Company)
	payload.Phone = strings.TrimSpace(payload.Phone)
	payload.Location = strings.TrimSpace(payload.Location)
	payload.ProductInterest = strings.TrimSpace(payload.ProductInterest)
	payload.Message = strings.TrimSpace(payload.Message)
	if err := c.Validate(&payload); err != nil {
		return err
	}

	a := getApp(c)
	inquiry := domain.Inquiry{
		ID:              common.UUIDint64(),
		Name:            payload.Name,
		Email:           payload.Email,
		Company:         payload.Company,
		Phone:           payload.Phone,
		Location:        payload.Location,
		ProductInterest: payload.ProductInterest,
		Message:         payload.Message,
		Status:          domain.InquiryStatusNew,
	}

	// Optional single attachment, stored before the row is written. An
	// upload failure aborts the whole submission so no inquiry ever points
	// at a blob that does not exist.
	if fh, err := c.FormFile("attachment"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unable to read attachment")
		}
		key := storage.UploadKey("inquiries", fh.Filename)
		blob, uerr := a.MediaManager().UploadBlob(
			c.Request().Context(), f, key, fh.Header.Get("Content-Type"))
		_ = f.Close()
		if uerr != nil {
			zap.L().Error("attachment upload failed",
				zap.String("namespace", "webapi"),
				zap.Error(uerr))
			return echo.NewHTTPError(http.StatusBadGateway, "attachment upload failed")
		}
		inquiry.AttachmentURL = blob.URL
	}

	db := a.DB().WithContext(c.Request().Context())
	if err := db.Create(&inquiry).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save inquiry")
	}

	a.Bus().Publish(domain.TopicInquiriesChanged)
	go notifyInquiry(a, inquiry)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     strconv.FormatInt(inquiry.ID, 10),
		"status": inquiry.Status,
	})
}
