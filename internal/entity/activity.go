package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    uuid.UUID `gorm:"type:uuid;index;not null" json:"student_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Technologies *string   `gorm:"type:text" json:"technologies"`
	ProjectURL   *string   `gorm:"type:text" json:"project_url"`
	ImageURL     *string   `gorm:"type:text" json:"image_url"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string {
	return "student_projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type MoocCertificate struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"student_profile_id"`
	Semester         string    `gorm:"size:20;not null" json:"semester"`
	Platform         string    `gorm:"size:100;not null" json:"platform"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	StartDate        time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate          time.Time `gorm:"type:date;not null" json:"end_date"`
	HoursPerWeek     float64   `gorm:"not null" json:"hours_per_week"`
	CertificateURL   string    `gorm:"type:text;not null" json:"certificate_url"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *MoocCertificate) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
