package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/studentprofile/internal/entity"
	searchService "anoa.com/studentprofile/internal/modules/search/service"
	"anoa.com/studentprofile/internal/modules/teacher/dto"
	"anoa.com/studentprofile/internal/modules/teacher/repository"
	"anoa.com/studentprofile/internal/testutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSearch struct {
	ids   []uuid.UUID
	err   error
	terms []string
}

func (f *fakeSearch) IndexStudent(searchService.StudentDocument) error { return nil }
func (f *fakeSearch) IndexStudents([]searchService.StudentDocument) error { return nil }

func (f *fakeSearch) SearchStudents(query string, _ int64) ([]uuid.UUID, error) {
	f.terms = append(f.terms, query)
	return f.ids, f.err
}

func addStudent(t *testing.T, db *gorm.DB, email, first, last string, usn *string) uuid.UUID {
	t.Helper()
	student := testutil.CreateStudent(t, db, email)
	require.NoError(t, db.Create(&entity.StudentProfile{
		StudentID: student.ID,
		FirstName: first,
		LastName:  last,
		USN:       usn,
	}).Error)
	return student.ID
}

func emails(students []dto.StudentSummary) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Email)
	}
	return out
}

func TestListStudentsOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	addStudent(t, db, "zed@example.com", "Zed", "Adams", testutil.Ptr("1XX21CS001"))
	addStudent(t, db, "amy@example.com", "Amy", "Brown", nil)
	addStudent(t, db, "bob@example.com", "Bob", "Adams", nil)
	testutil.CreateStudent(t, db, "new@example.com")

	svc := NewTeacherService(repository.NewStudentDirectoryRepository(db), nil, zerolog.Nop())
	students, err := svc.ListStudents(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"new@example.com", "bob@example.com", "zed@example.com", "amy@example.com"}, emails(students))
	assert.Empty(t, students[0].FirstName, "students without a profile are still listed")
	require.NotNil(t, students[2].USN)
	assert.Equal(t, "1XX21CS001", *students[2].USN)
}

func TestListStudentsDatabaseSearch(t *testing.T) {
	db := testutil.NewDB(t)
	addStudent(t, db, "zed@example.com", "Zed", "Adams", testutil.Ptr("1XX21CS001"))
	addStudent(t, db, "amy@example.com", "Amy", "Brown", nil)

	svc := NewTeacherService(repository.NewStudentDirectoryRepository(db), nil, zerolog.Nop())

	byName, err := svc.ListStudents(context.Background(), "  BROWN ")
	require.NoError(t, err)
	assert.Equal(t, []string{"amy@example.com"}, emails(byName))

	byUSN, err := svc.ListStudents(context.Background(), "cs001")
	require.NoError(t, err)
	assert.Equal(t, []string{"zed@example.com"}, emails(byUSN))

	none, err := svc.ListStudents(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListStudentsUsesSearchIndex(t *testing.T) {
	db := testutil.NewDB(t)
	zed := addStudent(t, db, "zed@example.com", "Zed", "Adams", nil)
	addStudent(t, db, "amy@example.com", "Amy", "Brown", nil)

	search := &fakeSearch{ids: []uuid.UUID{zed}}
	svc := NewTeacherService(repository.NewStudentDirectoryRepository(db), search, zerolog.Nop())

	students, err := svc.ListStudents(context.Background(), "zd")
	require.NoError(t, err)
	assert.Equal(t, []string{"zed@example.com"}, emails(students))
	assert.Equal(t, []string{"zd"}, search.terms)
}

func TestListStudentsKeepsSearchRelevanceOrder(t *testing.T) {
	db := testutil.NewDB(t)
	zed := addStudent(t, db, "zed@example.com", "Zed", "Adams", nil)
	amy := addStudent(t, db, "amy@example.com", "Amy", "Brown", nil)

	search := &fakeSearch{ids: []uuid.UUID{amy, uuid.New(), zed}}
	svc := NewTeacherService(repository.NewStudentDirectoryRepository(db), search, zerolog.Nop())

	students, err := svc.ListStudents(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"amy@example.com", "zed@example.com"}, emails(students))
}

func TestListStudentsFallsBackWhenSearchFails(t *testing.T) {
	db := testutil.NewDB(t)
	addStudent(t, db, "amy@example.com", "Amy", "Brown", nil)

	search := &fakeSearch{err: errors.New("meilisearch down")}
	svc := NewTeacherService(repository.NewStudentDirectoryRepository(db), search, zerolog.Nop())

	students, err := svc.ListStudents(context.Background(), "amy")
	require.NoError(t, err)
	assert.Equal(t, []string{"amy@example.com"}, emails(students))
}
