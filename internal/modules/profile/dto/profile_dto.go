package dto

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	moocDto "anoa.com/studentprofile/internal/modules/mooc/dto"
	projectDto "anoa.com/studentprofile/internal/modules/project/dto"
)

// Year accepts both 2021 and "2021".
type Year int

func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*y = 0
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("year must be a number: %w", err)
	}
	*y = Year(v)
	return nil
}

type AddressInput struct {
	AddressType string `json:"address_type" binding:"omitempty,oneof=permanent temporary"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Country     string `json:"country"`
}

type AcademicRecordInput struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        Year   `json:"year"`
	Grade       string `json:"grade"`
}

type SiblingInput struct {
	SiblingName  string `json:"sibling_name"`
	Relationship string `json:"relationship"`
}

type HobbyInput struct {
	HobbyName string `json:"hobby_name"`
}

type ParentInfoInput struct {
	FatherName *string `json:"father_name"`
	MotherName *string `json:"mother_name"`
	Contact    *string `json:"contact"`
	Email      *string `json:"email"`
}

// UpsertProfileRequest is the full-form submission. Scalars replace what is
// stored; every list replaces the stored list.
type UpsertProfileRequest struct {
	StudentID         string  `json:"studentId" binding:"required"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	USN               *string `json:"usn"`
	DOB               *string `json:"dob"`
	Phone             *string `json:"phone"`
	ProfilePictureURL *string `json:"profile_picture_url"`

	FatherName    *string `json:"father_name"`
	MotherName    *string `json:"mother_name"`
	ParentContact *string `json:"parent_contact"`
	ParentEmail   *string `json:"parent_email"`

	PermanentAddress *AddressInput `json:"permanent_address"`
	TemporaryAddress *AddressInput `json:"temporary_address"`

	AcademicRecords []AcademicRecordInput `json:"academic_records"`
	Siblings        []SiblingInput        `json:"siblings"`
	Hobbies         []HobbyInput          `json:"hobbies"`
}

// PatchProfileRequest only touches what it carries. A list key that is
// absent (or null) leaves the stored list alone.
type PatchProfileRequest struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	USN               *string `json:"usn"`
	DOB               *string `json:"dob"`
	Phone             *string `json:"phone"`
	ProfilePictureURL *string `json:"profile_picture_url"`

	ParentInfo *ParentInfoInput `json:"parent_info"`

	Addresses       *[]AddressInput        `json:"addresses" binding:"omitempty,dive"`
	AcademicRecords *[]AcademicRecordInput `json:"academic_records"`
	Siblings        *[]SiblingInput        `json:"siblings"`
	Hobbies         *[]HobbyInput          `json:"hobbies"`
}

type StudentIDParam struct {
	StudentID string `uri:"studentId" binding:"required,uuid"`
}

type UpsertProfileResponse struct {
	Message   string    `json:"message"`
	ProfileID uuid.UUID `json:"profileId"`
	Created   bool      `json:"-"`
}

type ParentInfoResponse struct {
	FatherName *string `json:"father_name"`
	MotherName *string `json:"mother_name"`
	Contact    *string `json:"contact"`
	Email      *string `json:"email"`
}

type AddressResponse struct {
	AddressType string `json:"address_type"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Country     string `json:"country"`
}

type AcademicRecordResponse struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
	Grade       string `json:"grade"`
}

type SiblingResponse struct {
	SiblingName  string `json:"sibling_name"`
	Relationship string `json:"relationship"`
}

type HobbyResponse struct {
	HobbyName string `json:"hobby_name"`
}

// ProfileResponse is the composed profile document. Details is nil when the
// student has not created a profile yet, which drops those keys from the JSON.
type ProfileResponse struct {
	StudentID        uuid.UUID `json:"student_id"`
	Email            string    `json:"email"`
	IsFirstLogin     bool      `json:"is_first_login"`
	ProfileCompleted bool      `json:"profile_completed"`
	*ProfileDetails
}

type ProfileDetails struct {
	ProfileID         uuid.UUID                     `json:"profile_id"`
	FirstName         string                        `json:"first_name"`
	LastName          string                        `json:"last_name"`
	USN               *string                       `json:"usn"`
	DOB               *string                       `json:"dob"`
	Phone             *string                       `json:"phone"`
	ProfilePictureURL *string                       `json:"profile_picture_url"`
	ParentInfo        *ParentInfoResponse           `json:"parent_info"`
	Addresses         []AddressResponse             `json:"addresses"`
	AcademicRecords   []AcademicRecordResponse      `json:"academic_records"`
	Siblings          []SiblingResponse             `json:"siblings"`
	Hobbies           []HobbyResponse               `json:"hobbies"`
	Projects          []projectDto.ProjectResponse  `json:"projects"`
	MoocCertificates  []moocDto.CertificateResponse `json:"mooc_certificates"`
}
