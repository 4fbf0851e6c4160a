package inquiry

import (
	"context"

	"github.com/google/uuid"
)

// InquiryRepository defines the interface for inquiry persistence
type InquiryRepository interface {
	// Create creates a new inquiry
	Create(ctx context.Context, inquiry *Inquiry) error

	// Update updates an existing inquiry
	Update(ctx context.Context, inquiry *Inquiry) error

	// Delete deletes an inquiry by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an inquiry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Inquiry, error)

	// FindAll returns inquiries matching the filter with pagination
	FindAll(ctx context.Context, filter InquiryFilter) ([]*Inquiry, int64, error)

	// CountByStatus returns the number of inquiries with the given status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// Count returns the total number of inquiries
	Count(ctx context.Context) (int64, error)
}

// InquiryFilter contains filter options for querying inquiries
type InquiryFilter struct {
	// Search keyword for name, email, or message
	Keyword string

	// Filter by status
	Status *Status

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewInquiryFilter creates a new InquiryFilter with default values
func NewInquiryFilter() InquiryFilter {
	return InquiryFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "submitted_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f InquiryFilter) WithKeyword(keyword string) InquiryFilter {
	f.Keyword = keyword
	return f
}

// WithStatus sets the status filter
func (f InquiryFilter) WithStatus(status Status) InquiryFilter {
	f.Status = &status
	return f
}

// WithPagination sets pagination parameters
func (f InquiryFilter) WithPagination(page, pageSize int) InquiryFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f InquiryFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f InquiryFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
