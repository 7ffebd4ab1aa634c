package service

import (
	"context"

	"anoa.com/studentprofile/internal/modules/stat/dto"
	"anoa.com/studentprofile/internal/modules/stat/repository"
	"golang.org/x/sync/errgroup"
)

type StatService interface {
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
}

type statService struct {
	repo repository.StatRepository
}

func NewStatService(repo repository.StatRepository) StatService {
	return &statService{repo: repo}
}

func (s *statService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	var out dto.OverviewResponse

	g, gctx := errgroup.WithContext(ctx)
	counters := []struct {
		dst *int64
		fn  func(context.Context) (int64, error)
	}{
		{&out.TotalStudents, s.repo.CountStudents},
		{&out.CompletedProfiles, s.repo.CountCompletedProfiles},
		{&out.FirstLoginPending, s.repo.CountFirstLoginPending},
		{&out.TotalProjects, s.repo.CountProjects},
		{&out.TotalCertificates, s.repo.CountCertificates},
		{&out.TotalUploadedFiles, s.repo.CountFiles},
	}
	for _, c := range counters {
		c := c
		g.Go(func() error {
			n, err := c.fn(gctx)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
