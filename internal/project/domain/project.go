package domain

import "time"

// ProjectStatus distinguishes live projects from archived ones. Imports may
// only attach to live projects.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Project is a customer project tasks attach to
type Project struct {
	ID           string        `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"not null"`
	Code         string        `json:"code,omitempty" gorm:"index"`
	CustomerName string        `json:"customer_name,omitempty"`
	Status       ProjectStatus `json:"status" gorm:"default:active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
