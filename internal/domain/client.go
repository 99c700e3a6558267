package domain

import "time"

// Client is a gym member referenced by appointments and attendance logs.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(32);index" json:"phone"`
	Email     string    `gorm:"type:varchar(200)" json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string { return "clients" }
