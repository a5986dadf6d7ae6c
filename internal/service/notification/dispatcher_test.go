package notification

import (
	"context"
	"encoding/json"
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

func seedUsers(repo *mocks.MockUserRepository) {
	repo.Users[1] = &domain.User{ID: 1, Username: "alice", Profile: &domain.Profile{UserID: 1, Role: domain.RoleCitizen}}
	repo.Users[2] = &domain.User{ID: 2, Username: "bob", Profile: &domain.Profile{UserID: 2, Role: domain.RoleAdmin}}
	repo.Users[3] = &domain.User{ID: 3, Username: "carol", Profile: &domain.Profile{UserID: 3, Role: domain.RoleAdmin}}
}

func seedComplaint(repo *mocks.MockComplaintRepository, complaint *domain.Complaint) {
	repo.Complaints[complaint.ID] = complaint
}

func TestNotify_PersistsAndPublishes(t *testing.T) {
	// Arrange
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	repo := mocks.NewMockNotificationRepository()
	publisher := mocks.NewMockPublisher()
	dispatcher := NewDispatcher(repo, users, mocks.NewMockComplaintRepository(), publisher, newTestLogger())

	// Act
	n, err := dispatcher.Notify(ctx, 1, "hello", nil)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.Notifications) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(repo.Notifications))
	}
	payloads := publisher.Payloads("notifications:1")
	if len(payloads) != 1 {
		t.Fatalf("expected 1 publish to notifications:1, got %d", len(payloads))
	}
	var decoded domain.Notification
	if err := json.Unmarshal(payloads[0], &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded.Message != "hello" || decoded.ID != n.ID {
		t.Errorf("published payload does not match the persisted row: %+v", decoded)
	}
}

func TestNotify_UnknownUser(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, mocks.NewMockComplaintRepository(), mocks.NewMockPublisher(), newTestLogger())

	_, err := dispatcher.Notify(ctx, 99, "hello", nil)

	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.Notifications) != 0 {
		t.Error("no row should be written for an unknown target")
	}
}

func TestNotify_UnknownComplaintRef(t *testing.T) {
	// A linked complaint must exist; a dangling ref writes nothing.
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, mocks.NewMockComplaintRepository(), mocks.NewMockPublisher(), newTestLogger())

	missing := uint(424242)
	_, err := dispatcher.Notify(ctx, 1, "hello", &missing)

	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a dangling complaint ref, got %v", err)
	}
	if len(repo.Notifications) != 0 {
		t.Error("no row should be written for a dangling complaint ref")
	}
}

func TestNotify_ExistingComplaintRef(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	complaints := mocks.NewMockComplaintRepository()
	seedComplaint(complaints, &domain.Complaint{ID: 10, UserID: 1, Title: "Pothole"})
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, complaints, mocks.NewMockPublisher(), newTestLogger())

	ref := uint(10)
	n, err := dispatcher.Notify(ctx, 1, "hello", &ref)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n.ComplaintID == nil || *n.ComplaintID != 10 {
		t.Errorf("expected the row linked to complaint 10, got %+v", n.ComplaintID)
	}
}

func TestNotify_EmptyMessage(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	dispatcher := NewDispatcher(mocks.NewMockNotificationRepository(), users, mocks.NewMockComplaintRepository(), nil, newTestLogger())

	if _, err := dispatcher.Notify(ctx, 1, "", nil); err == nil {
		t.Fatal("expected error for empty message, got nil")
	}
}

func TestNotify_NilPublisher(t *testing.T) {
	// A deployment without a realtime channel still persists rows.
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, mocks.NewMockComplaintRepository(), nil, newTestLogger())

	if _, err := dispatcher.Notify(ctx, 1, "hello", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.Notifications) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(repo.Notifications))
	}
}

func TestComplaintCreated_FanOut(t *testing.T) {
	// Arrange: alice submits, bob and carol are admins.
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	complaints := mocks.NewMockComplaintRepository()
	repo := mocks.NewMockNotificationRepository()
	publisher := mocks.NewMockPublisher()
	dispatcher := NewDispatcher(repo, users, complaints, publisher, newTestLogger())

	complaint := &domain.Complaint{ID: 10, UserID: 1, Title: "Broken streetlight"}
	seedComplaint(complaints, complaint)
	creator := users.Users[1]

	// Act
	if err := dispatcher.ComplaintCreated(ctx, complaint, creator); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert: one row for the creator, one per admin.
	if len(repo.Notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(repo.Notifications))
	}

	byUser := make(map[uint]string)
	for _, n := range repo.Notifications {
		byUser[n.UserID] = n.Message
		if n.ComplaintID == nil || *n.ComplaintID != complaint.ID {
			t.Errorf("notification for user %d is not linked to the complaint", n.UserID)
		}
	}
	if byUser[1] != "Your complaint 'Broken streetlight' has been submitted." {
		t.Errorf("unexpected creator message: %q", byUser[1])
	}
	adminMsg := "New complaint 'Broken streetlight' created by alice."
	if byUser[2] != adminMsg || byUser[3] != adminMsg {
		t.Errorf("unexpected admin messages: %q / %q", byUser[2], byUser[3])
	}

	for _, userID := range []uint{1, 2, 3} {
		if got := len(publisher.Payloads(domain.NotificationGroup(userID))); got != 1 {
			t.Errorf("expected 1 publish for user %d, got %d", userID, got)
		}
	}
}

func TestComplaintCreated_AdminFailureDoesNotStopFanOut(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	complaints := mocks.NewMockComplaintRepository()
	repo := mocks.NewMockNotificationRepository()
	saveErr := errors.New("insert failed")
	repo.SaveFunc = func(ctx context.Context, n *domain.Notification) error {
		return saveOrFail(repo, n, saveErr)
	}

	dispatcher := NewDispatcher(repo, users, complaints, mocks.NewMockPublisher(), newTestLogger())
	complaint := &domain.Complaint{ID: 10, UserID: 1, Title: "Pothole"}
	seedComplaint(complaints, complaint)

	err := dispatcher.ComplaintCreated(ctx, complaint, users.Users[1])

	if !errors.Is(err, saveErr) {
		t.Fatalf("expected the first save error to be reported, got %v", err)
	}
	// creator and carol still got rows
	var got []uint
	for _, n := range repo.Notifications {
		got = append(got, n.UserID)
	}
	if len(got) != 2 {
		t.Fatalf("expected rows for the two healthy targets, got %v", got)
	}
}

// saveOrFail appends to the mock store, failing only for user 2.
func saveOrFail(repo *mocks.MockNotificationRepository, n *domain.Notification, failErr error) error {
	if n.UserID == 2 {
		return failErr
	}
	n.ID = uint(len(repo.Notifications) + 1)
	repo.Notifications = append(repo.Notifications, n)
	return nil
}

func TestStatusChanged_NotifiesOwner(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	complaints := mocks.NewMockComplaintRepository()
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, complaints, mocks.NewMockPublisher(), newTestLogger())

	complaint := &domain.Complaint{ID: 10, UserID: 1, Title: "Pothole"}
	seedComplaint(complaints, complaint)
	if err := dispatcher.StatusChanged(ctx, complaint, domain.StatusInProgress); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(repo.Notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.Notifications))
	}
	n := repo.Notifications[0]
	if n.UserID != 1 {
		t.Errorf("expected owner to be notified, got user %d", n.UserID)
	}
	if n.Message != "Your complaint 'Pothole' is now in_progress." {
		t.Errorf("unexpected message: %q", n.Message)
	}
}

func TestTaskAssigned_NotifiesLinkedUser(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	complaints := mocks.NewMockComplaintRepository()
	seedComplaint(complaints, &domain.Complaint{ID: 10, UserID: 1, Title: "Pothole"})
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, complaints, mocks.NewMockPublisher(), newTestLogger())

	userID := uint(1)
	task := &domain.AssignedTask{
		WorkerID:    5,
		ComplaintID: 10,
		Worker:      domain.Worker{ID: 5, UserID: &userID},
	}

	if err := dispatcher.TaskAssigned(ctx, task); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.Notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(repo.Notifications))
	}
	if got := repo.Notifications[0].Message; got != "You have been assigned complaint #10." {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestTaskAssigned_WorkerWithoutAccount(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, mocks.NewMockUserRepository(), mocks.NewMockComplaintRepository(), mocks.NewMockPublisher(), newTestLogger())

	task := &domain.AssignedTask{WorkerID: 5, ComplaintID: 10, Worker: domain.Worker{ID: 5}}

	if err := dispatcher.TaskAssigned(ctx, task); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
	if len(repo.Notifications) != 0 {
		t.Error("no notification should be written for an unlinked worker")
	}
}

func TestMarkRead_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, mocks.NewMockComplaintRepository(), nil, newTestLogger())

	n, err := dispatcher.Notify(ctx, 1, "hello", nil)
	if err != nil {
		t.Fatalf("seed notify failed: %v", err)
	}

	// Another user cannot mark it.
	if err := dispatcher.MarkRead(ctx, 2, &n.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}

	// The owner can, twice.
	if err := dispatcher.MarkRead(ctx, 1, &n.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := dispatcher.MarkRead(ctx, 1, &n.ID); err != nil {
		t.Fatalf("expected mark-read to be idempotent, got %v", err)
	}
	if !repo.Notifications[0].IsRead {
		t.Error("notification should be read")
	}
}

func TestMarkRead_AllForUser(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	seedUsers(users)
	repo := mocks.NewMockNotificationRepository()
	dispatcher := NewDispatcher(repo, users, mocks.NewMockComplaintRepository(), nil, newTestLogger())

	dispatcher.Notify(ctx, 1, "one", nil)
	dispatcher.Notify(ctx, 1, "two", nil)
	dispatcher.Notify(ctx, 2, "other", nil)

	if err := dispatcher.MarkRead(ctx, 1, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, n := range repo.Notifications {
		if n.UserID == 1 && !n.IsRead {
			t.Errorf("notification %d of user 1 should be read", n.ID)
		}
		if n.UserID == 2 && n.IsRead {
			t.Error("other users' notifications must not be touched")
		}
	}
}

func TestListSince_RejectsNegativeWindow(t *testing.T) {
	ctx := context.Background()
	dispatcher := NewDispatcher(mocks.NewMockNotificationRepository(), mocks.NewMockUserRepository(), mocks.NewMockComplaintRepository(), nil, newTestLogger())

	if _, err := dispatcher.ListSince(ctx, 1, -1); err == nil {
		t.Fatal("expected error for negative day window, got nil")
	}
}
