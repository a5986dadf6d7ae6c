package user

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/mocks"
	"github.com/citypulse/citypulse/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestCreateWithProfile_Citizen(t *testing.T) {
	// Arrange
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	workers := mocks.NewMockWorkerRepository()
	service := NewService(users, workers, newTestLogger())

	u := &domain.User{Username: "alice", Email: "alice@example.com", Password: "secret"}
	profile := &domain.Profile{Role: domain.RoleCitizen, Phone: "555-0100"}

	// Act
	err := service.CreateWithProfile(ctx, u, profile, "")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")); err != nil {
		t.Error("password must be stored hashed")
	}
	if u.Profile != profile {
		t.Error("profile must be attached to the user")
	}
	if len(workers.Workers) != 0 {
		t.Error("citizens must not get a worker record")
	}
}

func TestCreateWithProfile_WorkerGetsLinkedRecord(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	workers := mocks.NewMockWorkerRepository()
	service := NewService(users, workers, newTestLogger())

	u := &domain.User{Username: "dave", Email: "dave@example.com", Password: "secret"}
	profile := &domain.Profile{Role: domain.RoleWorker, Phone: "555-0101"}

	if err := service.CreateWithProfile(ctx, u, profile, domain.CategoryRoad); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(workers.Workers) != 1 {
		t.Fatalf("expected a worker record, got %d", len(workers.Workers))
	}
	var w *domain.Worker
	for _, stored := range workers.Workers {
		w = stored
	}
	if w.Name != "dave" || w.Specialization != domain.CategoryRoad || !w.Active {
		t.Errorf("unexpected worker record: %+v", w)
	}
	if w.UserID == nil || *w.UserID != u.ID {
		t.Error("worker record must link back to the user account")
	}
}

func TestCreateWithProfile_WorkerRequiresSpecialization(t *testing.T) {
	ctx := context.Background()
	service := NewService(mocks.NewMockUserRepository(), mocks.NewMockWorkerRepository(), newTestLogger())

	u := &domain.User{Username: "dave", Password: "secret"}
	profile := &domain.Profile{Role: domain.RoleWorker}

	err := service.CreateWithProfile(ctx, u, profile, "")

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if _, ok := verrs["specialization"]; !ok {
		t.Errorf("expected specialization error, got %v", verrs)
	}
}

func TestCreateWithProfile_InvalidRole(t *testing.T) {
	ctx := context.Background()
	service := NewService(mocks.NewMockUserRepository(), mocks.NewMockWorkerRepository(), newTestLogger())

	u := &domain.User{Username: "eve", Password: "secret"}
	err := service.CreateWithProfile(ctx, u, &domain.Profile{Role: "root"}, "")

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}

func TestCreateWithProfile_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	users.Users[1] = &domain.User{ID: 1, Username: "alice"}
	service := NewService(users, mocks.NewMockWorkerRepository(), newTestLogger())

	u := &domain.User{Username: "alice", Password: "secret"}
	if err := service.CreateWithProfile(ctx, u, &domain.Profile{Role: domain.RoleCitizen}, ""); err == nil {
		t.Fatal("expected error for duplicate username, got nil")
	}
}

func TestGet_UnknownUser(t *testing.T) {
	ctx := context.Background()
	service := NewService(mocks.NewMockUserRepository(), mocks.NewMockWorkerRepository(), newTestLogger())

	if _, err := service.Get(ctx, 42); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
