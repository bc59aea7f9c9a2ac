package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/webserver"
	"github.com/3dcreationshub/creationshub/pkg/common"
)

type inquiryUpdatePayload struct {
	Status     string `json:"status" form:"status" validate:"required"`
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
}

func registerInquiryRoutes() {
	webserver.ApiGET("/inquiries", listInquiries)
	webserver.ApiGET("/inquiries/stats", inquiryStats)
	webserver.ApiGET("/inquiries/export", exportInquiries)
	webserver.ApiGET("/inquiries/feed", inquiryFeed)
	webserver.ApiGET("/inquiries/:id", getInquiry)
	webserver.ApiPUT("/inquiries/:id", updateInquiry)
}

// inquiryFilter applies the shared list/export filters to a query.
func inquiryFilter(c echo.Context, db *gorm.DB) (*gorm.DB, error) {
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		if !domain.ValidInquiryStatus(status) {
			return nil, fmt.Errorf("unknown status %q", status)
		}
		db = db.Where("status = ?", status)
	}
	if assignee := strings.TrimSpace(c.QueryParam("assigned_to")); assignee != "" {
		db = db.Where("assigned_to = ?", assignee)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		db = db.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ? OR LOWER(product_interest) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if since := strings.TrimSpace(c.QueryParam("since")); since != "" {
		t, err := dateparse.ParseLocal(since)
		if err != nil {
			return nil, fmt.Errorf("unparseable since value %q", since)
		}
		db = db.Where("created_at >= ?", t)
	}
	return db, nil
}

func listInquiries(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db, err := inquiryFilter(c, GetDB(c).Model(&domain.Inquiry{}))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiries", err.Error())
	}
	var rows []domain.Inquiry
	err = db.Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiries", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getInquiry(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid inquiry ID", nil)
	}
	var row domain.Inquiry
	if err := GetDB(c).First(&row, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Inquiry not found", nil)
	}
	return ok(c, row)
}

func updateInquiry(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid inquiry ID", nil)
	}
	var payload inquiryUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inquiry update", err.Error())
	}
	payload.Status = strings.TrimSpace(payload.Status)
	payload.AssignedTo = strings.TrimSpace(payload.AssignedTo)
	if !domain.ValidInquiryStatus(payload.Status) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Status must be one of: "+strings.Join(domain.InquiryStatuses, ", "), nil)
	}
	if payload.AssignedTo != "" && !common.InSlice(payload.AssignedTo, GetApp(c).GetTeamMembers()) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Assignee is not a team member", nil)
	}

	var row domain.Inquiry
	if err := GetDB(c).First(&row, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Inquiry not found", nil)
	}
	updates := map[string]interface{}{
		"status":      payload.Status,
		"assigned_to": payload.AssignedTo,
		"updated_at":  time.Now(),
	}
	if err := GetDB(c).Model(&row).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update inquiry", err.Error())
	}
	GetApp(c).Bus().Publish(domain.TopicInquiriesChanged)
	addOprLog(c, currentUsername(c), "inquiry:update",
		fmt.Sprintf("inquiry %d -> %s / %s", id, payload.Status, payload.AssignedTo))

	row.Status = payload.Status
	row.AssignedTo = payload.AssignedTo
	return ok(c, row)
}

func inquiryStats(c echo.Context) error {
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var counts []statusCount
	err := GetDB(c).Model(&domain.Inquiry{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiry stats", err.Error())
	}
	return ok(c, counts)
}

func exportInquiries(c echo.Context) error {
	db, err := inquiryFilter(c, GetDB(c).Model(&domain.Inquiry{}))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	var rows []domain.Inquiry
	if err := db.Order("created_at desc").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiries", err.Error())
	}

	filename := "inquiries-" + time.Now().Format("20060102")
	switch strings.ToLower(c.QueryParam("format")) {
	case "csv":
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
		c.Response().WriteHeader(http.StatusOK)
		return gocsv.Marshal(rows, c.Response())
	default:
		return exportInquiriesXlsx(c, rows, filename)
	}
}

var inquiryExportColumns = []string{
	"Name", "Email", "Company", "Phone", "Location",
	"Product Interest", "Message", "Status", "Assigned To", "Created At",
}

func exportInquiriesXlsx(c echo.Context, rows []domain.Inquiry, filename string) error {
	xlsx := excelize.NewFile()
	sheet := "Sheet1"
	for i, col := range inquiryExportColumns {
		xlsx.SetCellValue(sheet, fmt.Sprintf("%s1", excelize.ToAlphaString(i)), col)
	}
	for r, row := range rows {
		values := []interface{}{
			row.Name, row.Email, row.Company, row.Phone, row.Location,
			row.ProductInterest, row.Message, row.Status, row.AssignedTo,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for i, v := range values {
			xlsx.SetCellValue(sheet, fmt.Sprintf("%s%d", excelize.ToAlphaString(i), r+2), v)
		}
	}
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
	c.Response().WriteHeader(http.StatusOK)
	return xlsx.Write(c.Response())
}

// inquiryFeed streams a server-sent event whenever the inquiry table
// changes, so the back-office list refreshes without polling.
func inquiryFeed(c echo.Context) error {
	changed := make(chan struct{}, 8)
	notify := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	// Subscribe before the stream headers go out so a failure can still
	// produce a JSON error response.
	bus := GetApp(c).Bus()
	if err := bus.Subscribe(domain.TopicInquiriesChanged, notify); err != nil {
		return fail(c, http.StatusInternalServerError, "BUS_ERROR", "Failed to subscribe", err.Error())
	}
	defer func() { _ = bus.Unsubscribe(domain.TopicInquiriesChanged, notify) }()

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-changed:
			if _, err := fmt.Fprint(c.Response(), "event: changed\ndata: {}\n\n"); err != nil {
				return nil
			}
			c.Response().Flush()
		case <-keepalive.C:
			if _, err := fmt.Fprint(c.Response(), ": keepalive\n\n"); err != nil {
				return nil
			}
			c.Response().Flush()
		}
	}
}
