package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/pkg/pagination"
)

func newNotificationContext(method, target string, caller *identity.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set("current_user", caller)
	}
	return c, rec
}

func TestHandler_List(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	h := NewHandler(svc)
	u := recipient()

	_ = svc.Append(context.Background(), u.ID, "your query is ready")
	_ = svc.Append(context.Background(), u.ID, "your query was approved")

	c, rec := newNotificationContext(http.MethodGet, "/notifications", u)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp pagination.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
}

func TestHandler_List_Unauthenticated(t *testing.T) {
	h := NewHandler(NewService(newMockNotificationRepo()))
	c, _ := newNotificationContext(http.MethodGet, "/notifications", nil)

	err := h.List(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestHandler_MarkRead(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	h := NewHandler(svc)
	u := recipient()

	_ = svc.Append(context.Background(), u.ID, "hello")
	id := repo.items[0].ID

	c, rec := newNotificationContext(http.MethodPut, "/", u)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.MarkRead(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_MarkRead_WrongRecipient(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	h := NewHandler(svc)
	owner := recipient()

	_ = svc.Append(context.Background(), owner.ID, "private")
	id := repo.items[0].ID

	c, _ := newNotificationContext(http.MethodPut, "/", recipient())
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	err := h.MarkRead(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestHandler_MarkRead_BadID(t *testing.T) {
	h := NewHandler(NewService(newMockNotificationRepo()))
	c, _ := newNotificationContext(http.MethodPut, "/", recipient())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.MarkRead(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
