package adminapi

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestParsePaginationDefaults(t *testing.T) {
	page, pageSize := parsePagination(testContext("/admin/api/products"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}

func TestParsePaginationBounds(t *testing.T) {
	page, pageSize := parsePagination(testContext("/x?page=3&pageSize=50"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, pageSize)

	page, pageSize = parsePagination(testContext("/x?page=-1&pageSize=10000"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}

func TestParseIDParam(t *testing.T) {
	c := testContext("/x")
	c.SetParamNames("id")
	c.SetParamValues(" 42 ")
	id, err := parseIDParam(c)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	c.SetParamValues("abc")
	_, err = parseIDParam(c)
	assert.Error(t, err)
}

func TestParseRetainedMedia(t *testing.T) {
	assert.Nil(t, parseRetainedMedia(""))
	assert.Equal(t, []int64{1, 2, 3}, parseRetainedMedia("1, 2,3"))
	assert.Equal(t, []int64{7}, parseRetainedMedia("7,abc,-1,0"))
}
