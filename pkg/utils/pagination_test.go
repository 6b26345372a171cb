package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) PaginationParams {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return GetPaginationParams(e.NewContext(req, httptest.NewRecorder()))
}

func TestGetPaginationParams(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset)

	p = paramsFor("page=3&limit=10")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 20, p.Offset)

	p = paramsFor("page=-1&limit=500")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
}
