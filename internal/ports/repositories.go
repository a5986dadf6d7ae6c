package ports

import (
	"context"
	"time"

	"github.com/citypulse/citypulse/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	SaveProfile(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type ComplaintRepository interface {
	Save(ctx context.Context, complaint *domain.Complaint) error
	FindByID(ctx context.Context, id uint) (*domain.Complaint, error)
	FindAll(ctx context.Context) ([]domain.Complaint, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Complaint, error)
	AppendStatus(ctx context.Context, status *domain.ComplaintStatus) error
	StatusHistory(ctx context.Context, complaintID uint) ([]domain.ComplaintStatus, error)
}

type WorkerRepository interface {
	Save(ctx context.Context, worker *domain.Worker) error
	FindByID(ctx context.Context, id uint) (*domain.Worker, error)
	FindAll(ctx context.Context) ([]domain.Worker, error)
	SaveTask(ctx context.Context, task *domain.AssignedTask) error
	FindAllTasks(ctx context.Context) ([]domain.AssignedTask, error)
	FindTasksByWorkerID(ctx context.Context, workerID uint) ([]domain.AssignedTask, error)
}

type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error
	FindByUserID(ctx context.Context, userID uint) ([]domain.Notification, error)
	FindUnreadByUserID(ctx context.Context, userID uint) ([]domain.Notification, error)
	FindByUserIDSince(ctx context.Context, userID uint, since time.Time) ([]domain.Notification, error)
	// MarkRead flips is_read on a single notification, only when it belongs
	// to userID. Returns ErrNotFound otherwise; already-read rows succeed.
	MarkRead(ctx context.Context, userID, id uint) error
	// MarkAllRead flips is_read on every unread notification of the user.
	MarkAllRead(ctx context.Context, userID uint) error
}
