package service

import (
	"context"
	"testing"

	"anoa.com/studentprofile/internal/modules/project/dto"
	"anoa.com/studentprofile/internal/modules/project/repository"
	"anoa.com/studentprofile/internal/testutil"
	"anoa.com/studentprofile/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (ProjectService, uuid.UUID, uuid.UUID) {
	t.Helper()
	db := testutil.NewDB(t)
	owner := testutil.CreateStudent(t, db, "owner@example.com")
	other := testutil.CreateStudent(t, db, "other@example.com")
	return NewProjectService(repository.NewProjectRepository(db)), owner.ID, other.ID
}

func TestProjectLifecycle(t *testing.T) {
	svc, owner, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, owner, dto.ProjectRequest{
		Title:        "  <b>Campus</b> Map ",
		Description:  "<script>alert(1)</script>Indoor navigation",
		Technologies: testutil.Ptr("Go, <i>Postgres</i>"),
		ProjectURL:   testutil.Ptr("https://example.com/map"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Campus Map", created.Title)
	assert.Equal(t, "Indoor navigation", created.Description)
	require.NotNil(t, created.Technologies)
	assert.Equal(t, "Go, Postgres", *created.Technologies)
	assert.Equal(t, owner, created.StudentID)

	updated, err := svc.UpdateProject(ctx, owner, created.ID, dto.ProjectRequest{
		Title:       "Campus Map v2",
		Description: "Indoor navigation",
	})
	require.NoError(t, err)
	assert.Equal(t, "Campus Map v2", updated.Title)
	assert.Nil(t, updated.Technologies, "update replaces optional fields")

	list, err := svc.ListProjects(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Campus Map v2", list[0].Title)

	require.NoError(t, svc.DeleteProject(ctx, owner, created.ID))
	list, err = svc.ListProjects(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestProjectRequiresContentAfterSanitizing(t *testing.T) {
	svc, owner, _ := newService(t)

	_, err := svc.CreateProject(context.Background(), owner, dto.ProjectRequest{
		Title:       "<img src=x>",
		Description: "something",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestProjectsAreScopedToOwner(t *testing.T) {
	svc, owner, other := newService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, owner, dto.ProjectRequest{Title: "Mine", Description: "Mine"})
	require.NoError(t, err)

	_, err = svc.UpdateProject(ctx, other, created.ID, dto.ProjectRequest{Title: "Theirs", Description: "Theirs"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = svc.DeleteProject(ctx, other, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	theirs, err := svc.ListProjects(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	mine, err := svc.ListProjects(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)
}
