package complaint

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/observability/telemetry"
	"github.com/citypulse/citypulse/internal/ports"
)

type Service struct {
	repo       ports.ComplaintRepository
	users      ports.UserRepository
	dispatcher ports.NotificationService
	log        *zap.Logger
}

func NewService(repo ports.ComplaintRepository, users ports.UserRepository, dispatcher ports.NotificationService, log *zap.Logger) ports.ComplaintService {
	return &Service{
		repo:       repo,
		users:      users,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Create validates, persists the complaint with an initial pending status,
// and triggers the notification fan-out. Validation failure leaves no partial
// writes.
func (s *Service) Create(ctx context.Context, complaint *domain.Complaint) error {
	if errs := validate(complaint); len(errs) > 0 {
		return errs
	}

	creator, err := s.users.FindByID(ctx, complaint.UserID)
	if err != nil {
		return err
	}
	if creator == nil {
		return ports.ErrNotFound
	}

	complaint.CreatedAt = time.Now()
	if err := s.repo.Save(ctx, complaint); err != nil {
		return err
	}
	telemetry.ComplaintsCreated.WithLabelValues(string(complaint.Category)).Inc()

	if err := s.repo.AppendStatus(ctx, &domain.ComplaintStatus{
		ComplaintID: complaint.ID,
		Status:      domain.StatusPending,
		UpdatedAt:   time.Now(),
	}); err != nil {
		// The complaint row exists; a missing initial status row is not
		// worth failing the request over.
		s.log.Error("Failed to append initial status",
			zap.Uint("complaint_id", complaint.ID), zap.Error(err))
	}

	if err := s.dispatcher.ComplaintCreated(ctx, complaint, creator); err != nil {
		s.log.Error("Notification fan-out incomplete",
			zap.Uint("complaint_id", complaint.ID), zap.Error(err))
	}

	return nil
}

func validate(c *domain.Complaint) domain.ValidationErrors {
	errs := domain.ValidationErrors{}

	if c.Title == "" {
		errs["title"] = "title is required"
	}
	if c.Description == "" {
		errs["description"] = "description is required"
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		errs["location_lat"] = "latitude must be between -90 and 90"
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		errs["location_lng"] = "longitude must be between -180 and 180"
	}
	if !c.Category.Valid() {
		errs["category"] = "category must be one of garbage, road, water, lights"
	}
	if !c.Severity.Valid() {
		errs["severity"] = "severity must be one of low, medium, high"
	}
	if c.Image != "" && !domain.ValidDataURI(c.Image) {
		errs["image"] = "image must be a base64 data URI"
	}

	return errs
}

func (s *Service) List(ctx context.Context) ([]domain.Complaint, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]domain.Complaint, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *Service) StatusHistory(ctx context.Context, complaintID uint) ([]domain.ComplaintStatus, error) {
	c, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ports.ErrNotFound
	}
	return s.repo.StatusHistory(ctx, complaintID)
}

// UpdateStatus appends a history row and notifies the complaint owner. No
// transition rules: any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, complaintID uint, status domain.Status) (*domain.ComplaintStatus, error) {
	if !status.Valid() {
		return nil, domain.ValidationErrors{"status": "unknown status"}
	}

	c, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ports.ErrNotFound
	}

	row := &domain.ComplaintStatus{
		ComplaintID: complaintID,
		Status:      status,
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.AppendStatus(ctx, row); err != nil {
		return nil, err
	}

	if err := s.dispatcher.StatusChanged(ctx, c, status); err != nil {
		s.log.Error("Failed to notify status change",
			zap.Uint("complaint_id", complaintID), zap.Error(err))
	}

	return row, nil
}
