package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AddressPermanent = "permanent"
	AddressTemporary = "temporary"
)

type StudentProfile struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"student_id"`
	FirstName         string     `gorm:"size:100" json:"first_name"`
	LastName          string     `gorm:"size:100" json:"last_name"`
	USN               *string    `gorm:"column:usn;size:50;uniqueIndex" json:"usn"`
	DOB               *time.Time `gorm:"column:dob;type:date" json:"dob"`
	Phone             *string    `gorm:"size:30" json:"phone"`
	ProfilePictureURL *string    `gorm:"type:text" json:"profile_picture_url"`
	ProfileCompleted  bool       `gorm:"not null;default:false" json:"profile_completed"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *StudentProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ParentInfo struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	StudentProfileID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	FatherName       *string   `gorm:"size:100" json:"father_name"`
	MotherName       *string   `gorm:"size:100" json:"mother_name"`
	Contact          *string   `gorm:"size:30" json:"contact"`
	Email            *string   `gorm:"size:255" json:"email"`
}

func (ParentInfo) TableName() string {
	return "parent_info"
}

type Address struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	StudentProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	AddressType      string    `gorm:"size:20;not null" json:"address_type"`
	Street           string    `gorm:"size:255" json:"street"`
	City             string    `gorm:"size:100" json:"city"`
	State            string    `gorm:"size:100" json:"state"`
	ZipCode          string    `gorm:"size:20" json:"zip_code"`
	Country          string    `gorm:"size:100" json:"country"`
}

type AcademicRecord struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	StudentProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Degree           string    `gorm:"size:100;not null" json:"degree"`
	Institution      string    `gorm:"size:255;not null" json:"institution"`
	Year             int       `gorm:"not null" json:"year"`
	Grade            string    `gorm:"size:20;not null" json:"grade"`
}

type SiblingInfo struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	StudentProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	SiblingName      string    `gorm:"size:100;not null" json:"sibling_name"`
	Relationship     string    `gorm:"size:50;not null" json:"relationship"`
}

func (SiblingInfo) TableName() string {
	return "sibling_info"
}

type Hobby struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	StudentProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	HobbyName        string    `gorm:"size:100;not null" json:"hobby_name"`
}
