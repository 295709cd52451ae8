package models

import "time"

// Project is an investment project. Yield is the nominal annual rate in
// percent; monthly distributions derive from it.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Yield     float64   `gorm:"type:decimal(5,2);not null" json:"yield"` // % per year
	Status    string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
