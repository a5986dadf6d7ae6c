package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

type ComplaintRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewComplaintRepository(db *gorm.DB, log *zap.Logger) ports.ComplaintRepository {
	return &ComplaintRepository{db: db, log: log}
}

func (r *ComplaintRepository) Save(ctx context.Context, complaint *domain.Complaint) error {
	return r.db.WithContext(ctx).Save(complaint).Error
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id uint) (*domain.Complaint, error) {
	var complaint domain.Complaint
	err := r.db.WithContext(ctx).First(&complaint, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepository) FindAll(ctx context.Context) ([]domain.Complaint, error) {
	var complaints []domain.Complaint
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

func (r *ComplaintRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Complaint, error) {
	var complaints []domain.Complaint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

// AppendStatus inserts a history row. Rows are never updated or deleted.
func (r *ComplaintRepository) AppendStatus(ctx context.Context, status *domain.ComplaintStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

func (r *ComplaintRepository) StatusHistory(ctx context.Context, complaintID uint) ([]domain.ComplaintStatus, error) {
	var statuses []domain.ComplaintStatus
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("updated_at ASC").
		Find(&statuses).Error
	return statuses, err
}
