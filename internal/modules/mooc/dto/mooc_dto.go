package dto

import (
	"time"

	"anoa.com/studentprofile/internal/entity"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type CreateCertificateRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	CertificateRequest
}

type CertificateRequest struct {
	Semester       string  `json:"semester" binding:"required,max=20"`
	Platform       string  `json:"platform" binding:"required,max=100"`
	Title          string  `json:"title" binding:"required,max=255"`
	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        string  `json:"end_date" binding:"required"`
	HoursPerWeek   float64 `json:"hours_per_week" binding:"required,gt=0"`
	CertificateURL string  `json:"certificate_url" binding:"required"`
}

type StudentIDParam struct {
	StudentID string `uri:"studentId" binding:"required,uuid"`
}

type CertificateIDParam struct {
	CertificateID string `uri:"certificateId" binding:"required,uuid"`
}

type CertificateResponse struct {
	ID             uuid.UUID `json:"id"`
	Semester       string    `json:"semester"`
	Platform       string    `json:"platform"`
	Title          string    `json:"title"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	HoursPerWeek   float64   `json:"hours_per_week"`
	CertificateURL string    `json:"certificate_url"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewCertificateResponse(m *entity.MoocCertificate) CertificateResponse {
	return CertificateResponse{
		ID:             m.ID,
		Semester:       m.Semester,
		Platform:       m.Platform,
		Title:          m.Title,
		StartDate:      m.StartDate.Format(DateLayout),
		EndDate:        m.EndDate.Format(DateLayout),
		HoursPerWeek:   m.HoursPerWeek,
		CertificateURL: m.CertificateURL,
		CreatedAt:      m.CreatedAt,
	}
}

func NewCertificateResponses(certs []entity.MoocCertificate) []CertificateResponse {
	out := make([]CertificateResponse, 0, len(certs))
	for i := range certs {
		out = append(out, NewCertificateResponse(&certs[i]))
	}
	return out
}
