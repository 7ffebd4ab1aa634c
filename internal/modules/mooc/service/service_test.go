package service

import (
	"context"
	"testing"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/internal/modules/mooc/dto"
	"anoa.com/studentprofile/internal/modules/mooc/repository"
	"anoa.com/studentprofile/internal/testutil"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func claimsFor(id uuid.UUID, role string) *token.Claims {
	c := &token.Claims{Role: role}
	c.Subject = id.String()
	return c
}

func certificate(semester, start, end string) dto.CertificateRequest {
	return dto.CertificateRequest{
		Semester:       semester,
		Platform:       "Coursera",
		Title:          "Distributed Systems",
		StartDate:      start,
		EndDate:        end,
		HoursPerWeek:   4.5,
		CertificateURL: "https://example.com/cert.pdf",
	}
}

func studentWithProfile(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	student := testutil.CreateStudent(t, db, email)
	require.NoError(t, db.Create(&entity.StudentProfile{StudentID: student.ID, FirstName: "A", LastName: "B"}).Error)
	return student.ID
}

func TestCreateCertificateNeedsProfile(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMoocService(repository.NewMoocRepository(db))
	student := testutil.CreateStudent(t, db, "bare@example.com")

	_, err := svc.CreateCertificate(context.Background(), claimsFor(student.ID, token.RoleStudent), dto.CreateCertificateRequest{
		StudentID:          student.ID.String(),
		CertificateRequest: certificate("1", "2024-01-01", "2024-02-01"),
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCertificateLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMoocService(repository.NewMoocRepository(db))
	ctx := context.Background()
	studentID := studentWithProfile(t, db, "s@example.com")
	student := claimsFor(studentID, token.RoleStudent)

	created, err := svc.CreateCertificate(ctx, student, dto.CreateCertificateRequest{
		StudentID:          studentID.String(),
		CertificateRequest: certificate("3", "2024-01-01", "2024-03-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", created.StartDate)
	assert.Equal(t, 4.5, created.HoursPerWeek)

	updated, err := svc.UpdateCertificate(ctx, student, created.ID, certificate("4", "2024-05-01", "2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, "4", updated.Semester)
	assert.Equal(t, "2024-06-01", updated.EndDate)

	teacher := claimsFor(uuid.New(), token.RoleTeacher)
	list, err := svc.ListCertificates(ctx, teacher, studentID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "4", list[0].Semester)

	require.NoError(t, svc.DeleteCertificate(ctx, student, created.ID))
	list, err = svc.ListCertificates(ctx, student, studentID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCertificateValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMoocService(repository.NewMoocRepository(db))
	studentID := studentWithProfile(t, db, "s@example.com")
	student := claimsFor(studentID, token.RoleStudent)

	noHours := certificate("1", "2024-01-01", "2024-02-01")
	noHours.HoursPerWeek = 0

	cases := map[string]dto.CertificateRequest{
		"bad start": certificate("1", "01/02/2024", "2024-02-01"),
		"end first": certificate("1", "2024-02-01", "2024-01-01"),
		"no hours":  noHours,
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateCertificate(context.Background(), student, dto.CreateCertificateRequest{
				StudentID:          studentID.String(),
				CertificateRequest: req,
			})
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}

	var count int64
	require.NoError(t, db.Model(&entity.MoocCertificate{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCertificateOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMoocService(repository.NewMoocRepository(db))
	ctx := context.Background()
	ownerID := studentWithProfile(t, db, "owner@example.com")
	otherID := studentWithProfile(t, db, "other@example.com")
	owner := claimsFor(ownerID, token.RoleStudent)
	other := claimsFor(otherID, token.RoleStudent)

	_, err := svc.CreateCertificate(ctx, other, dto.CreateCertificateRequest{
		StudentID:          ownerID.String(),
		CertificateRequest: certificate("1", "2024-01-01", "2024-02-01"),
	})
	assert.ErrorIs(t, err, apperror.ErrOwnershipMismatch)

	created, err := svc.CreateCertificate(ctx, owner, dto.CreateCertificateRequest{
		StudentID:          ownerID.String(),
		CertificateRequest: certificate("1", "2024-01-01", "2024-02-01"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateCertificate(ctx, other, created.ID, certificate("2", "2024-01-01", "2024-02-01"))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCertificate(ctx, other, created.ID), apperror.ErrNotFound)

	_, err = svc.ListCertificates(ctx, other, ownerID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	teacher := claimsFor(uuid.New(), token.RoleTeacher)
	assert.ErrorIs(t, svc.DeleteCertificate(ctx, teacher, created.ID), apperror.ErrForbidden)
}
