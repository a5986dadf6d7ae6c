package ports

import (
	"context"
	"time"

	"github.com/citypulse/citypulse/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, string, error) // access, refresh, err
	Register(ctx context.Context, user *domain.User, role domain.Role) error
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

type ComplaintService interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	List(ctx context.Context) ([]domain.Complaint, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Complaint, error)
	StatusHistory(ctx context.Context, complaintID uint) ([]domain.ComplaintStatus, error)
	UpdateStatus(ctx context.Context, complaintID uint, status domain.Status) (*domain.ComplaintStatus, error)
}

// NotificationService is the dispatcher: it turns domain events into
// persisted notification rows and best-effort real-time publishes.
type NotificationService interface {
	Notify(ctx context.Context, userID uint, message string, complaintID *uint) (*domain.Notification, error)
	ComplaintCreated(ctx context.Context, complaint *domain.Complaint, creator *domain.User) error
	StatusChanged(ctx context.Context, complaint *domain.Complaint, status domain.Status) error
	TaskAssigned(ctx context.Context, task *domain.AssignedTask) error
	MarkRead(ctx context.Context, userID uint, id *uint) error
	ListByUser(ctx context.Context, userID uint) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID uint) ([]domain.Notification, error)
	ListSince(ctx context.Context, userID uint, days int) ([]domain.Notification, error)
}

type WorkerService interface {
	Create(ctx context.Context, worker *domain.Worker) error
	List(ctx context.Context) ([]domain.Worker, error)
	ListTasks(ctx context.Context) ([]domain.AssignedTask, error)
	ListTasksByWorker(ctx context.Context, workerID uint) ([]domain.AssignedTask, error)
	AssignTask(ctx context.Context, workerID, complaintID uint) (*domain.AssignedTask, error)
}

type UserService interface {
	// CreateWithProfile creates a user and its profile; specialization is
	// only consulted when the role is worker.
	CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile, specialization domain.Category) error
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// RealtimePublisher decouples the dispatcher from the delivery channel.
// Publishing to a group with no members is a silent no-op; the call never
// blocks on slow sessions.
type RealtimePublisher interface {
	Publish(group string, payload []byte)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
