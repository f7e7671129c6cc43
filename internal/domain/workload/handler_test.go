package workload

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caretriage/caretriage/internal/domain/identity"
)

func newWorkloadContext(t *testing.T, method, body string, caller *identity.User, specialistID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(specialistID.String())
	if caller != nil {
		c.Set("current_user", caller)
	}
	return c, rec
}

func TestHandler_GetWorkload_Default(t *testing.T) {
	h := NewHandler(NewService(newMockSettingRepo()))
	id := uuid.New()
	c, rec := newWorkloadContext(t, http.MethodGet, "", specialist(id), id)

	if err := h.GetWorkload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp workloadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.MaxQueries != DefaultMaxQueries {
		t.Errorf("expected default %d, got %d", DefaultMaxQueries, resp.MaxQueries)
	}
}

func TestHandler_SetWorkload(t *testing.T) {
	h := NewHandler(NewService(newMockSettingRepo()))
	id := uuid.New()
	c, rec := newWorkloadContext(t, http.MethodPost, `{"max_queries":8}`, specialist(id), id)

	if err := h.SetWorkload(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_SetWorkload_OutOfRange(t *testing.T) {
	h := NewHandler(NewService(newMockSettingRepo()))
	id := uuid.New()
	c, _ := newWorkloadContext(t, http.MethodPost, `{"max_queries":21}`, specialist(id), id)

	err := h.SetWorkload(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_SetWorkload_CrossUser(t *testing.T) {
	h := NewHandler(NewService(newMockSettingRepo()))
	c, _ := newWorkloadContext(t, http.MethodPost, `{"max_queries":8}`, specialist(uuid.New()), uuid.New())

	err := h.SetWorkload(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestHandler_GetWorkload_BadID(t *testing.T) {
	h := NewHandler(NewService(newMockSettingRepo()))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetWorkload(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
