package user

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

// Service covers administrative user management: the public-facing
// registration path lives in the auth service.
type Service struct {
	repo    ports.UserRepository
	workers ports.WorkerRepository
	log     *zap.Logger
}

func NewService(repo ports.UserRepository, workers ports.WorkerRepository, log *zap.Logger) ports.UserService {
	return &Service{repo: repo, workers: workers, log: log}
}

// CreateWithProfile creates a user and its profile in one call. When the
// role is worker a Worker row is created too, linked back to the account so
// task assignments can reach it.
func (s *Service) CreateWithProfile(ctx context.Context, u *domain.User, profile *domain.Profile, specialization domain.Category) error {
	errs := domain.ValidationErrors{}
	if u.Username == "" {
		errs["username"] = "username is required"
	}
	if u.Password == "" {
		errs["password"] = "password is required"
	}
	if !profile.Role.Valid() {
		errs["role"] = "role must be one of citizen, admin, worker"
	}
	if profile.Role == domain.RoleWorker && !specialization.Valid() {
		errs["specialization"] = "specialization must be one of garbage, road, water, lights"
	}
	if len(errs) > 0 {
		return errs
	}

	existing, err := s.repo.FindByUsername(ctx, u.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user: username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	u.CreatedAt = time.Now()
	u.Profile = profile

	if err := s.repo.Save(ctx, u); err != nil {
		return err
	}

	if profile.Role == domain.RoleWorker {
		w := &domain.Worker{
			Name:           u.Username,
			Phone:          profile.Phone,
			Email:          u.Email,
			Specialization: specialization,
			Active:         true,
			UserID:         &u.ID,
		}
		if err := s.workers.Save(ctx, w); err != nil {
			return fmt.Errorf("user: create worker record: %w", err)
		}
	}

	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ports.ErrNotFound
	}
	return u, nil
}
