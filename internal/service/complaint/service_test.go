package complaint

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/mocks"
	"github.com/citypulse/citypulse/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func validComplaint() *domain.Complaint {
	return &domain.Complaint{
		UserID:      1,
		Title:       "Broken streetlight",
		Description: "The light on 5th avenue is out.",
		Latitude:    40.7128,
		Longitude:   -74.0060,
		Category:    domain.CategoryLights,
		Severity:    domain.SeverityMedium,
	}
}

func newService(t *testing.T) (*mocks.MockComplaintRepository, *mocks.MockUserRepository, *mocks.MockNotificationService, ports.ComplaintService) {
	t.Helper()
	repo := mocks.NewMockComplaintRepository()
	users := mocks.NewMockUserRepository()
	users.Users[1] = &domain.User{ID: 1, Username: "alice"}
	dispatcher := mocks.NewMockNotificationService()
	return repo, users, dispatcher, NewService(repo, users, dispatcher, newTestLogger())
}

func TestCreate_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo, _, dispatcher, service := newService(t)

	// Act
	c := validComplaint()
	err := service.Create(ctx, c)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.ID == 0 {
		t.Error("complaint should be persisted with an ID")
	}
	if len(repo.Statuses) != 1 || repo.Statuses[0].Status != domain.StatusPending {
		t.Errorf("expected an initial pending status row, got %+v", repo.Statuses)
	}
	if len(dispatcher.CreatedEvents) != 1 {
		t.Errorf("expected exactly one fan-out, got %d", len(dispatcher.CreatedEvents))
	}
}

func TestCreate_BoundaryCoordinatesAccepted(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"north pole", 90, 0},
		{"south pole", -90, 0},
		{"date line east", 0, 180},
		{"date line west", 0, -180},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, service := newService(t)
			c := validComplaint()
			c.Latitude = tc.lat
			c.Longitude = tc.lng

			if err := service.Create(ctx, c); err != nil {
				t.Fatalf("boundary coordinates must validate, got %v", err)
			}
		})
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.Complaint)
		field  string
	}{
		{"missing title", func(c *domain.Complaint) { c.Title = "" }, "title"},
		{"missing description", func(c *domain.Complaint) { c.Description = "" }, "description"},
		{"latitude too high", func(c *domain.Complaint) { c.Latitude = 90.5 }, "location_lat"},
		{"latitude too low", func(c *domain.Complaint) { c.Latitude = -91 }, "location_lat"},
		{"longitude too high", func(c *domain.Complaint) { c.Longitude = 180.1 }, "location_lng"},
		{"longitude too low", func(c *domain.Complaint) { c.Longitude = -181 }, "location_lng"},
		{"unknown category", func(c *domain.Complaint) { c.Category = "noise" }, "category"},
		{"unknown severity", func(c *domain.Complaint) { c.Severity = "critical" }, "severity"},
		{"image not a data URI", func(c *domain.Complaint) { c.Image = "not-base64" }, "image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, _, dispatcher, service := newService(t)
			c := validComplaint()
			tc.mutate(c)

			err := service.Create(ctx, c)

			var verrs domain.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs[tc.field]; !ok {
				t.Errorf("expected error on field %q, got %v", tc.field, verrs)
			}
			// no partial writes
			if len(repo.Complaints) != 0 || len(repo.Statuses) != 0 {
				t.Error("validation failure must not write anything")
			}
			if len(dispatcher.CreatedEvents) != 0 {
				t.Error("validation failure must not trigger the fan-out")
			}
		})
	}
}

func TestCreate_ImageDataURIAccepted(t *testing.T) {
	ctx := context.Background()
	repo, _, _, service := newService(t)

	c := validComplaint()
	c.Image = "data:image/png;base64,aGVsbG8="

	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("expected data URI to be accepted, got %v", err)
	}
	if repo.Complaints[c.ID].Image != c.Image {
		t.Error("image must be stored verbatim")
	}
}

func TestCreate_UnknownCreator(t *testing.T) {
	ctx := context.Background()
	repo, _, _, service := newService(t)

	c := validComplaint()
	c.UserID = 42

	if err := service.Create(ctx, c); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.Complaints) != 0 {
		t.Error("no row should be written for an unknown creator")
	}
}

func TestCreate_FanOutFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	repo, users, dispatcher, _ := newService(t)
	dispatcher.ComplaintCreatedFunc = func(ctx context.Context, complaint *domain.Complaint, creator *domain.User) error {
		return errors.New("broker down")
	}
	service := NewService(repo, users, dispatcher, newTestLogger())

	c := validComplaint()
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("fan-out failure must not fail the create, got %v", err)
	}
	if len(repo.Complaints) != 1 {
		t.Error("complaint row must survive a fan-out failure")
	}
}

func TestStatusHistory_UnknownComplaint(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newService(t)

	if _, err := service.StatusHistory(ctx, 99); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_AppendsAndNotifies(t *testing.T) {
	ctx := context.Background()
	_, _, dispatcher, service := newService(t)

	c := validComplaint()
	if err := service.Create(ctx, c); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	row, err := service.UpdateStatus(ctx, c.ID, domain.StatusResolved)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if row.Status != domain.StatusResolved {
		t.Errorf("unexpected status row: %+v", row)
	}
	// pending + resolved: history is append-only
	history, _ := service.StatusHistory(ctx, c.ID)
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if len(dispatcher.StatusEvents) != 1 || dispatcher.StatusEvents[0] != domain.StatusResolved {
		t.Errorf("expected one status-changed event, got %v", dispatcher.StatusEvents)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newService(t)

	_, err := service.UpdateStatus(ctx, 1, "escalated")

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}

func TestUpdateStatus_UnknownComplaint(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newService(t)

	if _, err := service.UpdateStatus(ctx, 99, domain.StatusResolved); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
