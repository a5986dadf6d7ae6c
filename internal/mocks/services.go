package mocks

import (
	"context"

	"github.com/citypulse/citypulse/internal/domain"
)

// MockAuthService resolves any bearer token to a fixed user unless
// overridden, which keeps handler tests independent of JWT plumbing.
type MockAuthService struct {
	User *domain.User

	LoginFunc         func(ctx context.Context, username, password string) (string, string, error)
	RegisterFunc      func(ctx context.Context, user *domain.User, role domain.Role) error
	RefreshTokenFunc  func(ctx context.Context, refreshToken string) (string, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return "access-token", "refresh-token", nil
}

func (m *MockAuthService) Register(ctx context.Context, user *domain.User, role domain.Role) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, user, role)
	}
	return nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return "access-token", nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return m.User, nil
}

// MockNotificationService records dispatched events so callers can assert
// the fan-out happened without a real dispatcher.
type MockNotificationService struct {
	Notified      []domain.Notification
	CreatedEvents []*domain.Complaint
	StatusEvents  []domain.Status
	TaskEvents    []*domain.AssignedTask

	NotifyFunc           func(ctx context.Context, userID uint, message string, complaintID *uint) (*domain.Notification, error)
	ComplaintCreatedFunc func(ctx context.Context, complaint *domain.Complaint, creator *domain.User) error
	StatusChangedFunc    func(ctx context.Context, complaint *domain.Complaint, status domain.Status) error
	TaskAssignedFunc     func(ctx context.Context, task *domain.AssignedTask) error
	MarkReadFunc         func(ctx context.Context, userID uint, id *uint) error
	ListByUserFunc       func(ctx context.Context, userID uint) ([]domain.Notification, error)
	ListUnreadFunc       func(ctx context.Context, userID uint) ([]domain.Notification, error)
	ListSinceFunc        func(ctx context.Context, userID uint, days int) ([]domain.Notification, error)
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) Notify(ctx context.Context, userID uint, message string, complaintID *uint) (*domain.Notification, error) {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, userID, message, complaintID)
	}
	n := domain.Notification{UserID: userID, Message: message, ComplaintID: complaintID}
	m.Notified = append(m.Notified, n)
	return &n, nil
}

func (m *MockNotificationService) ComplaintCreated(ctx context.Context, complaint *domain.Complaint, creator *domain.User) error {
	if m.ComplaintCreatedFunc != nil {
		return m.ComplaintCreatedFunc(ctx, complaint, creator)
	}
	m.CreatedEvents = append(m.CreatedEvents, complaint)
	return nil
}

func (m *MockNotificationService) StatusChanged(ctx context.Context, complaint *domain.Complaint, status domain.Status) error {
	if m.StatusChangedFunc != nil {
		return m.StatusChangedFunc(ctx, complaint, status)
	}
	m.StatusEvents = append(m.StatusEvents, status)
	return nil
}

func (m *MockNotificationService) TaskAssigned(ctx context.Context, task *domain.AssignedTask) error {
	if m.TaskAssignedFunc != nil {
		return m.TaskAssignedFunc(ctx, task)
	}
	m.TaskEvents = append(m.TaskEvents, task)
	return nil
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID uint, id *uint) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockNotificationService) ListByUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockNotificationService) ListUnread(ctx context.Context, userID uint) ([]domain.Notification, error) {
	if m.ListUnreadFunc != nil {
		return m.ListUnreadFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockNotificationService) ListSince(ctx context.Context, userID uint, days int) ([]domain.Notification, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, userID, days)
	}
	return nil, nil
}
