package inquiry

import (
	"regexp"
	"strings"
	"time"

	"github.com/webgarden/platform/internal/domain/shared"
)

// Status represents the handling state of an inquiry
type Status string

const (
	StatusNew       Status = "new"       // Not yet looked at
	StatusRead      Status = "read"      // Opened by staff
	StatusResponded Status = "responded" // Staff replied to the visitor
)

// Inquiry represents a contact-form submission from a site visitor
type Inquiry struct {
	shared.BaseEntity
	Name        string
	Email       string
	Phone       string
	Message     string
	Status      Status
	Notes       string
	SubmittedAt time.Time
	SourceIP    string
}

// NewInquiry creates a new inquiry with status "new"
func NewInquiry(name, email, phone, message, sourceIP string) (*Inquiry, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	message = strings.TrimSpace(message)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if err := validateMessage(message); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Inquiry{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Email:       email,
		Phone:       phone,
		Message:     message,
		Status:      StatusNew,
		SubmittedAt: now,
		SourceIP:    sourceIP,
	}, nil
}

// MarkRead promotes a new inquiry to read
// Inquiries already read or responded keep their status
func (i *Inquiry) MarkRead() {
	if i.Status == StatusNew {
		i.Status = StatusRead
		i.UpdatedAt = time.Now()
	}
}

// MarkResponded marks the inquiry as responded regardless of prior status
func (i *Inquiry) MarkResponded() {
	i.Status = StatusResponded
	i.UpdatedAt = time.Now()
}

// SetStatus sets the status directly from admin input
func (i *Inquiry) SetStatus(status Status) error {
	switch status {
	case StatusNew, StatusRead, StatusResponded:
		i.Status = status
		i.UpdatedAt = time.Now()
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Status must be new, read, or responded")
	}
}

// SetNotes replaces the staff notes
func (i *Inquiry) SetNotes(notes string) {
	i.Notes = notes
	i.UpdatedAt = time.Now()
}

// IsNew returns true if the inquiry has not been looked at
func (i *Inquiry) IsNew() bool {
	return i.Status == StatusNew
}

// Validation functions

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 120 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 120 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}

	phoneRegex := regexp.MustCompile(`^[0-9+\-().\s]+$`)
	if !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone may only contain digits, spaces, and punctuation")
	}

	return nil
}

func validateMessage(message string) error {
	if message == "" {
		return shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}
	if len(message) < 10 {
		return shared.NewDomainError("INVALID_MESSAGE", "Message must be at least 10 characters")
	}
	if len(message) > 5000 {
		return shared.NewDomainError("INVALID_MESSAGE", "Message cannot exceed 5000 characters")
	}
	return nil
}
