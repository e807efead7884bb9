package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/campusplace/backend/internal/models"
	"github.com/campusplace/backend/internal/utils"
	"gorm.io/gorm"
)

type StudentProfileRepository interface {
	Create(ctx context.Context, p *models.StudentProfile) error
	GetByID(ctx context.Context, id string) (*models.StudentProfile, error)
	Delete(ctx context.Context, id string) error
}

type studentProfileRepo struct {
	db *gorm.DB
}

func NewStudentProfileRepo(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepo{db: db}
}

func (r *studentProfileRepo) Create(ctx context.Context, p *models.StudentProfile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *studentProfileRepo) GetByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *studentProfileRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.StudentProfile{}).Error
}
