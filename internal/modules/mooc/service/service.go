package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/internal/modules/mooc/dto"
	"anoa.com/studentprofile/internal/modules/mooc/repository"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/token"
	"github.com/google/uuid"
)

type MoocService interface {
	ListCertificates(ctx context.Context, claims *token.Claims, studentID uuid.UUID) ([]dto.CertificateResponse, error)
	CreateCertificate(ctx context.Context, claims *token.Claims, req dto.CreateCertificateRequest) (*dto.CertificateResponse, error)
	UpdateCertificate(ctx context.Context, claims *token.Claims, certificateID uuid.UUID, req dto.CertificateRequest) (*dto.CertificateResponse, error)
	DeleteCertificate(ctx context.Context, claims *token.Claims, certificateID uuid.UUID) error
}

type moocService struct {
	repo repository.MoocRepository
}

func NewMoocService(repo repository.MoocRepository) MoocService {
	return &moocService{repo: repo}
}

func (s *moocService) ListCertificates(ctx context.Context, claims *token.Claims, studentID uuid.UUID) ([]dto.CertificateResponse, error) {
	if claims.Role != token.RoleTeacher && claims.Subject != studentID.String() {
		return nil, apperror.ErrForbidden
	}

	certs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewCertificateResponses(certs), nil
}

func (s *moocService) CreateCertificate(ctx context.Context, claims *token.Claims, req dto.CreateCertificateRequest) (*dto.CertificateResponse, error) {
	if claims.Role != token.RoleStudent || !strings.EqualFold(claims.Subject, req.StudentID) {
		return nil, apperror.ErrOwnershipMismatch
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, apperror.Validation("student_id must be a valid id")
	}

	cert := &entity.MoocCertificate{}
	if err := applyRequest(cert, req.CertificateRequest); err != nil {
		return nil, err
	}

	profileID, err := s.repo.FindProfileID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("student profile not found, complete your profile first")
		}
		return nil, err
	}
	cert.StudentProfileID = profileID

	if err := s.repo.Create(ctx, cert); err != nil {
		return nil, err
	}

	resp := dto.NewCertificateResponse(cert)
	return &resp, nil
}

func (s *moocService) UpdateCertificate(ctx context.Context, claims *token.Claims, certificateID uuid.UUID, req dto.CertificateRequest) (*dto.CertificateResponse, error) {
	cert, err := s.findOwned(ctx, claims, certificateID)
	if err != nil {
		return nil, err
	}

	if err := applyRequest(cert, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, cert); err != nil {
		return nil, err
	}

	resp := dto.NewCertificateResponse(cert)
	return &resp, nil
}

func (s *moocService) DeleteCertificate(ctx context.Context, claims *token.Claims, certificateID uuid.UUID) error {
	cert, err := s.findOwned(ctx, claims, certificateID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, cert.ID)
}

func (s *moocService) findOwned(ctx context.Context, claims *token.Claims, certificateID uuid.UUID) (*entity.MoocCertificate, error) {
	if claims.Role != token.RoleStudent {
		return nil, apperror.ErrForbidden
	}
	studentID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	cert, err := s.repo.FindOwned(ctx, certificateID, studentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("certificate not found")
		}
		return nil, err
	}
	return cert, nil
}

func applyRequest(cert *entity.MoocCertificate, req dto.CertificateRequest) error {
	start, err := time.Parse(dto.DateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return apperror.Validation("start_date must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(dto.DateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return apperror.Validation("end_date must be a date in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return apperror.Validation("end_date cannot be before start_date")
	}
	if req.HoursPerWeek <= 0 {
		return apperror.Validation("hours_per_week must be a positive number")
	}

	cert.Semester = strings.TrimSpace(req.Semester)
	cert.Platform = strings.TrimSpace(req.Platform)
	cert.Title = strings.TrimSpace(req.Title)
	cert.StartDate = start
	cert.EndDate = end
	cert.HoursPerWeek = req.HoursPerWeek
	cert.CertificateURL = strings.TrimSpace(req.CertificateURL)
	return nil
}
