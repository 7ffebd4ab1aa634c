package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FileTypeProfilePicture  = "profile_picture"
	FileTypeMoocCertificate = "mooc_certificate"
)

// UserFile is the metadata row for one stored upload. There is at most one
// row per (user, type, semester); the semester is empty for profile pictures.
type UserFile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_files_slot" json:"user_id"`
	FileType     string    `gorm:"size:30;not null;uniqueIndex:idx_user_files_slot" json:"file_type"`
	Semester     string    `gorm:"size:20;not null;default:'';uniqueIndex:idx_user_files_slot" json:"semester,omitempty"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	FileURL      string    `gorm:"type:text;not null" json:"file_url"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *UserFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
