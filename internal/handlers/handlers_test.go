package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"condoparcel/internal/common"
	"condoparcel/internal/middleware"
	"condoparcel/internal/models"
	"condoparcel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var (
	testCondominiumID = uuid.MustParse("5f0c6a3e-8f4b-4a55-9a57-3a1f7d0c2b11")
	testAdminID       = uuid.MustParse("a1a1a1a1-0000-4000-8000-000000000001")
	testDoorstaffID   = uuid.MustParse("d0d0d0d0-0000-4000-8000-000000000002")
	testResidentID    = uuid.MustParse("e5e5e5e5-0000-4000-8000-000000000003")
	testUnitID        = uuid.MustParse("0a0a0a0a-0000-4000-8000-000000000004")
	testPackageID     = uuid.MustParse("9b9b9b9b-0000-4000-8000-000000000005")
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = RequestValidator{}
	return e
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func newRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

func tenantAs(role models.Role, userID uuid.UUID) *services.TenantContext {
	return &services.TenantContext{
		Condominium: &models.Condominium{ID: testCondominiumID, Name: "Residencial Aurora", Active: true},
		User:        &models.User{ID: userID, CondominiumID: testCondominiumID, Role: role, Active: true},
	}
}

// newContext builds a context as it looks behind TenancyGuard; a nil tenant models a
// public route.
func newContext(e *echo.Echo, req *http.Request, tc *services.TenantContext) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if tc != nil {
		middleware.SetTenant(c, tc)
	}
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
