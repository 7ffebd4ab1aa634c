package service

import (
	"context"
	"strings"

	searchService "anoa.com/studentprofile/internal/modules/search/service"
	"anoa.com/studentprofile/internal/modules/teacher/dto"
	"anoa.com/studentprofile/internal/modules/teacher/repository"
	"github.com/rs/zerolog"
)

const searchLimit = 200

type TeacherService interface {
	ListStudents(ctx context.Context, search string) ([]dto.StudentSummary, error)
}

type teacherService struct {
	repo   repository.StudentDirectoryRepository
	search searchService.SearchService
	log    zerolog.Logger
}

// NewTeacherService wires the directory service. search may be nil.
func NewTeacherService(repo repository.StudentDirectoryRepository, search searchService.SearchService, log zerolog.Logger) TeacherService {
	return &teacherService{repo: repo, search: search, log: log}
}

func (s *teacherService) ListStudents(ctx context.Context, search string) ([]dto.StudentSummary, error) {
	term := strings.TrimSpace(search)
	if term == "" {
		return s.repo.ListStudents(ctx)
	}

	if s.search != nil {
		ids, err := s.search.SearchStudents(term, searchLimit)
		if err == nil {
			return s.repo.FindStudents(ctx, ids)
		}
		s.log.Warn().Err(err).Msg("student search failed, falling back to database")
	}

	return s.repo.SearchStudents(ctx, term)
}
