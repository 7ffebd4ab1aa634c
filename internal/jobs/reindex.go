package jobs

import (
	"context"
	"fmt"

	searchRepo "anoa.com/studentprofile/internal/modules/search/repository"
	searchService "anoa.com/studentprofile/internal/modules/search/service"
)

const (
	ReindexJobName = "search-reindex"
	reindexBatch   = 500
)

// ReindexJob rebuilds the student search index from the database, which
// repairs documents missed while Meilisearch was unreachable.
type ReindexJob struct {
	source   searchRepo.SearchSourceRepository
	search   searchService.SearchService
	schedule string
	batch    int
}

func NewReindexJob(source searchRepo.SearchSourceRepository, search searchService.SearchService, schedule string) *ReindexJob {
	return &ReindexJob{source: source, search: search, schedule: schedule, batch: reindexBatch}
}

func (j *ReindexJob) Name() string { return ReindexJobName }

func (j *ReindexJob) Schedule() string { return j.schedule }

// Run pages through students so only one batch is held in memory.
func (j *ReindexJob) Run(ctx context.Context) error {
	for offset := 0; ; offset += j.batch {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := j.source.ListStudentRows(ctx, offset, j.batch)
		if err != nil {
			return fmt.Errorf("load students from %d: %w", offset, err)
		}
		if len(rows) == 0 {
			return nil
		}

		docs := make([]searchService.StudentDocument, 0, len(rows))
		for _, r := range rows {
			docs = append(docs, searchService.NewStudentDocument(r.StudentID, r.Email, deref(r.FirstName), deref(r.LastName), r.USN, r.LastChanged()))
		}
		if err := j.search.IndexStudents(docs); err != nil {
			return fmt.Errorf("index students %d-%d: %w", offset, offset+len(docs), err)
		}

		if len(rows) < j.batch {
			return nil
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
