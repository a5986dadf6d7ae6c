package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/adapter/http/fiber/middleware"
	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/mocks"
	"github.com/citypulse/citypulse/internal/ports"
)

func newNotificationApp(service ports.NotificationService, caller *domain.User) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(zap.NewNop()),
	})

	auth := &mocks.MockAuthService{User: caller}
	handler := NewNotificationHandler(service, zap.NewNop())

	api := app.Group("/api", middleware.AuthRequired(auth))
	api.Get("/notifications/user/", handler.ListMine)
	api.Get("/notifications/unread/", handler.ListUnread)
	api.Get("/notifications/time/:days/", handler.ListByTime)
	api.Post("/notifications/mark-read/", handler.MarkRead)
	api.Post("/notifications/mark-read/:id/", handler.MarkRead)
	return app
}

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestNotificationRoutes_RequireAuth(t *testing.T) {
	app := newNotificationApp(mocks.NewMockNotificationService(), &domain.User{ID: 1})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notifications/user/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without a bearer token, got %d", resp.StatusCode)
	}
}

func TestListMine_ReturnsCallersNotifications(t *testing.T) {
	service := mocks.NewMockNotificationService()
	service.ListByUserFunc = func(ctx context.Context, userID uint) ([]domain.Notification, error) {
		if userID != 7 {
			t.Errorf("expected lookup for user 7, got %d", userID)
		}
		return []domain.Notification{{ID: 1, UserID: 7, Message: "hello"}}, nil
	}
	app := newNotificationApp(service, &domain.User{ID: 7})

	resp, err := app.Test(authedRequest(http.MethodGet, "/api/notifications/user/"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got []domain.Notification
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(got) != 1 || got[0].Message != "hello" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestListByTime_RejectsNegativeWindow(t *testing.T) {
	app := newNotificationApp(mocks.NewMockNotificationService(), &domain.User{ID: 1})

	resp, err := app.Test(authedRequest(http.MethodGet, "/api/notifications/time/-1/"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a negative window, got %d", resp.StatusCode)
	}
}

func TestMarkRead_ForeignNotification(t *testing.T) {
	service := mocks.NewMockNotificationService()
	service.MarkReadFunc = func(ctx context.Context, userID uint, id *uint) error {
		return ports.ErrNotFound
	}
	app := newNotificationApp(service, &domain.User{ID: 1})

	resp, err := app.Test(authedRequest(http.MethodPost, "/api/notifications/mark-read/42/"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var body map[string]string
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body["status"] != "error" || body["message"] != "Notification not found" {
		t.Errorf("unexpected body: %s", raw)
	}
}

func TestMarkRead_AllAndSingleResponses(t *testing.T) {
	var lastID *uint
	service := mocks.NewMockNotificationService()
	service.MarkReadFunc = func(ctx context.Context, userID uint, id *uint) error {
		lastID = id
		return nil
	}
	app := newNotificationApp(service, &domain.User{ID: 1})

	resp, err := app.Test(authedRequest(http.MethodPost, "/api/notifications/mark-read/"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if lastID != nil {
		t.Error("the bulk form must pass a nil id")
	}

	resp, err = app.Test(authedRequest(http.MethodPost, "/api/notifications/mark-read/5/"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if lastID == nil || *lastID != 5 {
		t.Error("the single form must pass the parsed id")
	}
}

func TestRoleGate_ForbidsByRole(t *testing.T) {
	citizen := &domain.User{ID: 1, Profile: &domain.Profile{Role: domain.RoleCitizen}}
	app := fiber.New()
	auth := &mocks.MockAuthService{User: citizen}
	app.Post("/api/admin-only", middleware.AuthRequired(auth), middleware.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(authedRequest(http.MethodPost, "/api/admin-only"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for a citizen on an admin route, got %d", resp.StatusCode)
	}
}
