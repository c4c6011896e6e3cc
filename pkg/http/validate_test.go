package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screenLike struct {
	Limit  int    `json:"limit" default:"20" validate:"gte=1,lte=100"`
	SortBy string `json:"sortBy" default:"total" validate:"oneof=total quality valuation"`
}

func bindJSON(t *testing.T, body string, dst interface{}) ValidationErrors {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	return ReadAndValidateRequest(c, dst)
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	var req screenLike
	require.Nil(t, bindJSON(t, `{}`, &req))
	assert.Equal(t, 20, req.Limit)
	assert.Equal(t, "total", req.SortBy)
}

func TestReadAndValidateRequestErrors(t *testing.T) {
	var req screenLike
	res := bindJSON(t, `{"limit":500,"sortBy":"hype"}`, &req)

	errs := res
	require.Len(t, errs, 2)
	assert.Equal(t, "ERR_LTE", errs[0].Code)
	assert.Equal(t, "limit", errs[0].Field)
	assert.Equal(t, "ERR_ONEOF", errs[1].Code)
	assert.Equal(t, []string{"total", "quality", "valuation"}, errs[1].Params["options"])
}

func TestReadAndValidateRequestMalformedBody(t *testing.T) {
	var req screenLike
	errs := bindJSON(t, `{"limit":`, &req)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_MALFORMED", errs[0].Code)
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(&screenLike{Limit: 0, SortBy: "total"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "limit", verrs[0].Field)
	assert.Equal(t, "limit must be at least 1", verrs[0].Message)
	assert.NoError(t, ValidateStruct(&screenLike{Limit: 5, SortBy: "quality"}))
}
