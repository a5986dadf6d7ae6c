package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/observability/telemetry"
	"github.com/citypulse/citypulse/internal/ports"
)

// Dispatcher converts domain events into persisted notification rows and
// best-effort real-time publishes. The row is the source of truth: a publish
// that reaches nobody is dropped, never retried, and the row stays queryable.
type Dispatcher struct {
	repo       ports.NotificationRepository
	users      ports.UserRepository
	complaints ports.ComplaintRepository
	publisher  ports.RealtimePublisher
	log        *zap.Logger
}

func NewDispatcher(repo ports.NotificationRepository, users ports.UserRepository, complaints ports.ComplaintRepository, publisher ports.RealtimePublisher, log *zap.Logger) ports.NotificationService {
	return &Dispatcher{
		repo:       repo,
		users:      users,
		complaints: complaints,
		publisher:  publisher,
		log:        log,
	}
}

// Notify persists a notification row and publishes its JSON form to the
// target user's delivery group. The target user and, when linked, the
// referenced complaint must exist. Publish failure never rolls back the
// insert.
func (d *Dispatcher) Notify(ctx context.Context, userID uint, message string, complaintID *uint) (*domain.Notification, error) {
	if message == "" {
		return nil, fmt.Errorf("notification: empty message")
	}

	target, err := d.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ports.ErrNotFound
	}

	if complaintID != nil {
		complaint, err := d.complaints.FindByID(ctx, *complaintID)
		if err != nil {
			return nil, err
		}
		if complaint == nil {
			return nil, ports.ErrNotFound
		}
	}

	n := &domain.Notification{
		UserID:      userID,
		Message:     message,
		ComplaintID: complaintID,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	if err := d.repo.Save(ctx, n); err != nil {
		return nil, err
	}

	d.deliver(n)
	return n, nil
}

// deliver is best effort. A missing publisher or a marshal failure only
// means no live push, the durable row already exists.
func (d *Dispatcher) deliver(n *domain.Notification) {
	if d.publisher == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		d.log.Error("Failed to marshal notification payload",
			zap.Uint("notification_id", n.ID), zap.Error(err))
		return
	}
	d.publisher.Publish(domain.NotificationGroup(n.UserID), payload)
}

// ComplaintCreated notifies the submitter and every admin. The admin fan-out
// is unbounded, one row per admin. A failure on one target does not stop the
// rest; the first error is reported.
func (d *Dispatcher) ComplaintCreated(ctx context.Context, complaint *domain.Complaint, creator *domain.User) error {
	var firstErr error

	msg := fmt.Sprintf("Your complaint '%s' has been submitted.", complaint.Title)
	if _, err := d.Notify(ctx, creator.ID, msg, &complaint.ID); err != nil {
		firstErr = err
	} else {
		telemetry.NotificationsCreated.WithLabelValues("complaint_created").Inc()
	}

	admins, err := d.users.FindByRole(ctx, domain.RoleAdmin)
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		return firstErr
	}

	adminMsg := fmt.Sprintf("New complaint '%s' created by %s.", complaint.Title, creator.Username)
	for _, admin := range admins {
		if _, err := d.Notify(ctx, admin.ID, adminMsg, &complaint.ID); err != nil {
			d.log.Error("Failed to notify admin",
				zap.Uint("admin_id", admin.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		telemetry.NotificationsCreated.WithLabelValues("complaint_created").Inc()
	}

	return firstErr
}

// StatusChanged notifies the complaint owner.
func (d *Dispatcher) StatusChanged(ctx context.Context, complaint *domain.Complaint, status domain.Status) error {
	msg := fmt.Sprintf("Your complaint '%s' is now %s.", complaint.Title, status)
	if _, err := d.Notify(ctx, complaint.UserID, msg, &complaint.ID); err != nil {
		return err
	}
	telemetry.NotificationsCreated.WithLabelValues("status_changed").Inc()
	return nil
}

// TaskAssigned notifies the worker's linked user account. Workers without an
// account get no notification, which is logged, not an error.
func (d *Dispatcher) TaskAssigned(ctx context.Context, task *domain.AssignedTask) error {
	if task.Worker.UserID == nil {
		d.log.Info("Assigned worker has no user account, skipping notification",
			zap.Uint("worker_id", task.WorkerID))
		return nil
	}

	msg := fmt.Sprintf("You have been assigned complaint #%d.", task.ComplaintID)
	if _, err := d.Notify(ctx, *task.Worker.UserID, msg, &task.ComplaintID); err != nil {
		return err
	}
	telemetry.NotificationsCreated.WithLabelValues("task_assigned").Inc()
	return nil
}

// MarkRead flips is_read on one notification (ownership enforced) or, with a
// nil id, on all of the user's unread notifications. Both forms are
// idempotent.
func (d *Dispatcher) MarkRead(ctx context.Context, userID uint, id *uint) error {
	if id != nil {
		return d.repo.MarkRead(ctx, userID, *id)
	}
	return d.repo.MarkAllRead(ctx, userID)
}

func (d *Dispatcher) ListByUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	return d.repo.FindByUserID(ctx, userID)
}

func (d *Dispatcher) ListUnread(ctx context.Context, userID uint) ([]domain.Notification, error) {
	return d.repo.FindUnreadByUserID(ctx, userID)
}

func (d *Dispatcher) ListSince(ctx context.Context, userID uint, days int) ([]domain.Notification, error) {
	if days < 0 {
		return nil, fmt.Errorf("notification: negative day window")
	}
	since := time.Now().AddDate(0, 0, -days)
	return d.repo.FindByUserIDSince(ctx, userID, since)
}
