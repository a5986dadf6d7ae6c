package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

type WorkerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewWorkerRepository(db *gorm.DB, log *zap.Logger) ports.WorkerRepository {
	return &WorkerRepository{db: db, log: log}
}

func (r *WorkerRepository) Save(ctx context.Context, worker *domain.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

func (r *WorkerRepository) FindByID(ctx context.Context, id uint) (*domain.Worker, error) {
	var worker domain.Worker
	err := r.db.WithContext(ctx).First(&worker, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepository) FindAll(ctx context.Context) ([]domain.Worker, error) {
	var workers []domain.Worker
	err := r.db.WithContext(ctx).Find(&workers).Error
	return workers, err
}

func (r *WorkerRepository) SaveTask(ctx context.Context, task *domain.AssignedTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *WorkerRepository) FindAllTasks(ctx context.Context) ([]domain.AssignedTask, error) {
	var tasks []domain.AssignedTask
	err := r.db.WithContext(ctx).Preload("Worker").Find(&tasks).Error
	return tasks, err
}

func (r *WorkerRepository) FindTasksByWorkerID(ctx context.Context, workerID uint) ([]domain.AssignedTask, error) {
	var tasks []domain.AssignedTask
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("worker_id = ?", workerID).
		Find(&tasks).Error
	return tasks, err
}
