// Package inquiry implements contact form submission handling: visitor
// input is stripped of markup, stored, and the configured inboxes are
// notified without ever failing the submission.
package inquiry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/inquiry"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/sanitize"
)

// Notifier sends inquiry emails. Delivery failures are reported by the
// bool return and never abort the submission.
type Notifier interface {
	SendInquiryNotification(inq *inquiry.Inquiry) bool
	SendInquiryConfirmation(inq *inquiry.Inquiry) bool
}

// InquiryService handles contact form submissions and their triage
type InquiryService struct {
	inquiryRepo inquiry.InquiryRepository
	sanitizer   *sanitize.Sanitizer
	notifier    Notifier
	logger      *zap.Logger
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(
	inquiryRepo inquiry.InquiryRepository,
	sanitizer *sanitize.Sanitizer,
	notifier Notifier,
	logger *zap.Logger,
) *InquiryService {
	return &InquiryService{
		inquiryRepo: inquiryRepo,
		sanitizer:   sanitizer,
		notifier:    notifier,
		logger:      logger,
	}
}

// SubmitInput contains a visitor's contact form submission
type SubmitInput struct {
	Name     string
	Email    string
	Phone    string
	Message  string
	SourceIP string
}

// UpdateInput contains admin changes to an inquiry
type UpdateInput struct {
	ID     uuid.UUID
	Status *string
	Notes  *string
}

// InquiryDTO represents inquiry data returned to callers
type InquiryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	SourceIP    string    `json:"source_ip,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InquiryListResult represents a paginated inquiry list
type InquiryListResult struct {
	Inquiries  []InquiryDTO `json:"inquiries"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Submit stores a new inquiry and sends notification emails. Email
// delivery is best effort; the record is kept either way.
func (s *InquiryService) Submit(ctx context.Context, input SubmitInput) (*InquiryDTO, error) {
	inq, err := inquiry.NewInquiry(
		s.sanitizer.Strip(input.Name),
		input.Email,
		input.Phone,
		s.sanitizer.Strip(input.Message),
		input.SourceIP,
	)
	if err != nil {
		return nil, err
	}

	if err := s.inquiryRepo.Create(ctx, inq); err != nil {
		s.logger.Error("Failed to store inquiry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save your message. Please try again")
	}

	s.logger.Info("Inquiry submitted",
		zap.String("inquiry_id", inq.ID.String()),
		zap.String("source_ip", input.SourceIP))

	if s.notifier != nil {
		if !s.notifier.SendInquiryNotification(inq) {
			s.logger.Warn("Inquiry notification email not delivered",
				zap.String("inquiry_id", inq.ID.String()))
		}
		if !s.notifier.SendInquiryConfirmation(inq) {
			s.logger.Warn("Inquiry confirmation email not delivered",
				zap.String("inquiry_id", inq.ID.String()))
		}
	}

	return toInquiryDTO(inq), nil
}

// GetByID retrieves an inquiry and marks a new one as read
func (s *InquiryService) GetByID(ctx context.Context, id uuid.UUID) (*InquiryDTO, error) {
	inq, err := s.inquiryRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INQUIRY_NOT_FOUND", "Inquiry not found")
		}
		s.logger.Error("Failed to find inquiry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find inquiry")
	}

	if inq.IsNew() {
		inq.MarkRead()
		if err := s.inquiryRepo.Update(ctx, inq); err != nil {
			// viewing still succeeds, the status stays new
			s.logger.Error("Failed to mark inquiry as read", zap.Error(err))
		}
	}

	return toInquiryDTO(inq), nil
}

// List retrieves a paginated list of inquiries
func (s *InquiryService) List(ctx context.Context, filter inquiry.InquiryFilter) (*InquiryListResult, error) {
	inquiries, total, err := s.inquiryRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list inquiries", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list inquiries")
	}

	pageSize := filter.Limit()
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	dtos := make([]InquiryDTO, len(inquiries))
	for i, inq := range inquiries {
		dtos[i] = *toInquiryDTO(inq)
	}

	return &InquiryListResult{
		Inquiries:  dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update changes an inquiry's status or triage notes
func (s *InquiryService) Update(ctx context.Context, input UpdateInput) (*InquiryDTO, error) {
	inq, err := s.inquiryRepo.FindByID(ctx, input.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INQUIRY_NOT_FOUND", "Inquiry not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find inquiry")
	}

	if input.Status != nil {
		if err := inq.SetStatus(inquiry.Status(*input.Status)); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		inq.SetNotes(s.sanitizer.Strip(*input.Notes))
	}

	if err := s.inquiryRepo.Update(ctx, inq); err != nil {
		s.logger.Error("Failed to update inquiry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update inquiry")
	}

	s.logger.Info("Inquiry updated", zap.String("inquiry_id", input.ID.String()))
	return toInquiryDTO(inq), nil
}

// MarkResponded records that the inquiry has been answered
func (s *InquiryService) MarkResponded(ctx context.Context, id uuid.UUID) (*InquiryDTO, error) {
	inq, err := s.inquiryRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INQUIRY_NOT_FOUND", "Inquiry not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find inquiry")
	}

	inq.MarkResponded()
	if err := s.inquiryRepo.Update(ctx, inq); err != nil {
		s.logger.Error("Failed to mark inquiry responded", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update inquiry")
	}

	return toInquiryDTO(inq), nil
}

// Delete removes an inquiry
func (s *InquiryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.inquiryRepo.Delete(ctx, id); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("INQUIRY_NOT_FOUND", "Inquiry not found")
		}
		s.logger.Error("Failed to delete inquiry", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete inquiry")
	}

	s.logger.Info("Inquiry deleted", zap.String("inquiry_id", id.String()))
	return nil
}

// CountNew returns the number of unread inquiries
func (s *InquiryService) CountNew(ctx context.Context) (int64, error) {
	return s.inquiryRepo.CountByStatus(ctx, inquiry.StatusNew)
}

// Count returns the total number of inquiries
func (s *InquiryService) Count(ctx context.Context) (int64, error) {
	return s.inquiryRepo.Count(ctx)
}

func toInquiryDTO(inq *inquiry.Inquiry) *InquiryDTO {
	return &InquiryDTO{
		ID:          inq.ID,
		Name:        inq.Name,
		Email:       inq.Email,
		Phone:       inq.Phone,
		Message:     inq.Message,
		Status:      string(inq.Status),
		Notes:       inq.Notes,
		SubmittedAt: inq.SubmittedAt,
		SourceIP:    inq.SourceIP,
		CreatedAt:   inq.CreatedAt,
		UpdatedAt:   inq.UpdatedAt,
	}
}
