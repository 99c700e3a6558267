package domain

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// Lead is a marketing-site enquiry. The booking core only creates and exports
// these; qualification lives in the CRM side of the back office.
type Lead struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(150);not null" json:"name"`
	Phone       string      `gorm:"type:varchar(32);not null" json:"phone"`
	Email       string      `gorm:"type:varchar(200)" json:"email,omitempty"`
	City        string      `gorm:"type:varchar(120)" json:"city,omitempty"`
	Message     string      `gorm:"type:text" json:"message,omitempty"`
	Status      LeadStatus  `gorm:"type:varchar(20);default:'new';index" json:"status"`
	Attribution Attribution `gorm:"embedded;embeddedPrefix:attr_" json:"attribution"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }
