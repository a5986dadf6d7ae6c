package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

type Service struct {
	repo       ports.WorkerRepository
	complaints ports.ComplaintRepository
	dispatcher ports.NotificationService
	log        *zap.Logger
}

func NewService(repo ports.WorkerRepository, complaints ports.ComplaintRepository, dispatcher ports.NotificationService, log *zap.Logger) ports.WorkerService {
	return &Service{
		repo:       repo,
		complaints: complaints,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (s *Service) Create(ctx context.Context, w *domain.Worker) error {
	errs := domain.ValidationErrors{}
	if w.Name == "" {
		errs["name"] = "name is required"
	}
	if !w.Specialization.Valid() {
		errs["specialization"] = "specialization must be one of garbage, road, water, lights"
	}
	if len(errs) > 0 {
		return errs
	}
	return s.repo.Save(ctx, w)
}

func (s *Service) List(ctx context.Context) ([]domain.Worker, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) ListTasks(ctx context.Context) ([]domain.AssignedTask, error) {
	return s.repo.FindAllTasks(ctx)
}

func (s *Service) ListTasksByWorker(ctx context.Context, workerID uint) ([]domain.AssignedTask, error) {
	return s.repo.FindTasksByWorkerID(ctx, workerID)
}

// AssignTask records the assignment, appends an 'assigned' status row and
// notifies the worker. Multiple tasks may reference the same worker or the
// same complaint, no uniqueness is enforced.
func (s *Service) AssignTask(ctx context.Context, workerID, complaintID uint) (*domain.AssignedTask, error) {
	w, err := s.repo.FindByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ports.ErrNotFound
	}

	c, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ports.ErrNotFound
	}

	task := &domain.AssignedTask{
		WorkerID:    workerID,
		ComplaintID: complaintID,
		AssignedAt:  time.Now(),
		Worker:      *w,
	}
	if err := s.repo.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	if err := s.complaints.AppendStatus(ctx, &domain.ComplaintStatus{
		ComplaintID: complaintID,
		Status:      domain.StatusAssigned,
		UpdatedAt:   time.Now(),
	}); err != nil {
		s.log.Error("Failed to append assigned status",
			zap.Uint("complaint_id", complaintID), zap.Error(err))
	}

	if err := s.dispatcher.TaskAssigned(ctx, task); err != nil {
		s.log.Error("Failed to notify assigned worker",
			zap.Uint("worker_id", workerID), zap.Error(err))
	}
	if err := s.dispatcher.StatusChanged(ctx, c, domain.StatusAssigned); err != nil {
		s.log.Error("Failed to notify status change",
			zap.Uint("complaint_id", complaintID), zap.Error(err))
	}

	return task, nil
}
