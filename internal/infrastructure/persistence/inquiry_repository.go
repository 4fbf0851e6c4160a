package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/webgarden/platform/internal/domain/inquiry"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInquiryRepository implements InquiryRepository using GORM
type GormInquiryRepository struct {
	db *gorm.DB
}

// NewGormInquiryRepository creates a new GormInquiryRepository
func NewGormInquiryRepository(db *gorm.DB) *GormInquiryRepository {
	return &GormInquiryRepository{db: db}
}

// Create creates a new inquiry
func (r *GormInquiryRepository) Create(ctx context.Context, inq *inquiry.Inquiry) error {
	model := models.InquiryModelFromDomain(inq)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing inquiry
func (r *GormInquiryRepository) Update(ctx context.Context, inq *inquiry.Inquiry) error {
	model := models.InquiryModelFromDomain(inq)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an inquiry by ID
func (r *GormInquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InquiryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an inquiry by ID
func (r *GormInquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inquiry.Inquiry, error) {
	var model models.InquiryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns inquiries matching the filter with pagination
func (r *GormInquiryRepository) FindAll(ctx context.Context, filter inquiry.InquiryFilter) ([]*inquiry.Inquiry, int64, error) {
	var inquiryModels []*models.InquiryModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InquiryModel{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "submitted_at"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&inquiryModels).Error; err != nil {
		return nil, 0, err
	}

	inquiries := make([]*inquiry.Inquiry, len(inquiryModels))
	for i, m := range inquiryModels {
		inquiries[i] = m.ToDomain()
	}
	return inquiries, total, nil
}

// CountByStatus returns the number of inquiries with the given status
func (r *GormInquiryRepository) CountByStatus(ctx context.Context, status inquiry.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InquiryModel{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// Count returns the total number of inquiries
func (r *GormInquiryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InquiryModel{}).Count(&count).Error
	return count, err
}

func (r *GormInquiryRepository) applyFilter(query *gorm.DB, filter inquiry.InquiryFilter) *gorm.DB {
	if filter.Keyword != "" {
		keyword := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(message) LIKE ?",
			keyword, keyword, keyword)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
