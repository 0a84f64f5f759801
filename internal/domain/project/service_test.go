package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/specmaker/internal/domain/project"
	"github.com/rpggio/specmaker/internal/repository"
	"github.com/rpggio/specmaker/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	industry := "education"

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.Name == "Todo" && p.Status == project.InitialStatus && p.Industry == &industry
	})).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{
		Name:        "Todo",
		Description: "A todo app",
		Industry:    &industry,
	})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, project.InitialStatus, proj.Status)
	require.Equal(t, proj.CreatedAt, proj.UpdatedAt)
	require.Nil(t, proj.TargetAudience)
	repo.AssertExpectations(t)
}

func TestProjectService_CreateBlankName(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.Name == "" && p.Description == ""
	})).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{})
	require.NoError(t, err)
	require.Equal(t, "", proj.Name)
	require.Equal(t, project.InitialStatus, proj.Status)
	repo.AssertExpectations(t)
}

func TestProjectService_CreateStoreError(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConstraint)

	svc := project.NewService(repo, nil)
	_, err := svc.Create(ctx, project.CreateRequest{Name: "Todo"})
	require.ErrorIs(t, err, repository.ErrConstraint)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "missing").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_GetOtherError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "p1").Return((*project.Project)(nil), boom)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, "p1")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_ListAndDelete(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return([]project.Project{{ID: "p2"}, {ID: "p1"}}, nil)
	repo.On("Delete", ctx, "p1").Return(nil)

	svc := project.NewService(repo, nil)
	projects, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	require.NoError(t, svc.Delete(ctx, "p1"))
	repo.AssertExpectations(t)
}
