package models

import (
	"time"

	"github.com/webgarden/platform/internal/domain/inquiry"
)

// InquiryModel is the persistence model for the Inquiry domain entity.
type InquiryModel struct {
	BaseModel
	Name        string         `gorm:"type:varchar(100);not null"`
	Email       string         `gorm:"type:varchar(120);not null"`
	Phone       string         `gorm:"type:varchar(20)"`
	Message     string         `gorm:"type:text;not null"`
	Status      inquiry.Status `gorm:"type:varchar(20);not null;default:'new';index"`
	Notes       string         `gorm:"type:text"`
	SubmittedAt time.Time      `gorm:"not null;index"`
	SourceIP    string         `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (InquiryModel) TableName() string {
	return "inquiries"
}

// ToDomain converts the persistence model to a domain Inquiry entity.
func (m *InquiryModel) ToDomain() *inquiry.Inquiry {
	return &inquiry.Inquiry{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Message:     m.Message,
		Status:      m.Status,
		Notes:       m.Notes,
		SubmittedAt: m.SubmittedAt,
		SourceIP:    m.SourceIP,
	}
}

// FromDomain populates the persistence model from a domain Inquiry entity.
func (m *InquiryModel) FromDomain(i *inquiry.Inquiry) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.Name = i.Name
	m.Email = i.Email
	m.Phone = i.Phone
	m.Message = i.Message
	m.Status = i.Status
	m.Notes = i.Notes
	m.SubmittedAt = i.SubmittedAt
	m.SourceIP = i.SourceIP
}

// InquiryModelFromDomain creates a new persistence model from a domain Inquiry entity.
func InquiryModelFromDomain(i *inquiry.Inquiry) *InquiryModel {
	m := &InquiryModel{}
	m.FromDomain(i)
	return m
}
