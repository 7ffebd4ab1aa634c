package service

import (
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/studentprofile/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/rs/zerolog"
)

const studentsIndex = "students"

// StudentDocument is the searchable projection of a student and profile.
type StudentDocument struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	USN       string `json:"usn"`
	UpdatedAt int64  `json:"updated_at"`
}

func NewStudentDocument(studentID uuid.UUID, email, firstName, lastName string, usn *string, updatedAt time.Time) StudentDocument {
	doc := StudentDocument{
		ID:        studentID.String(),
		Email:     email,
		FirstName: sanitize.Text(firstName),
		LastName:  sanitize.Text(lastName),
		UpdatedAt: updatedAt.Unix(),
	}
	if usn != nil {
		doc.USN = sanitize.Text(*usn)
	}
	return doc
}

type SearchService interface {
	IndexStudent(doc StudentDocument) error
	IndexStudents(docs []StudentDocument) error
	SearchStudents(query string, limit int64) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
	log    zerolog.Logger
}

func NewSearchService(client meilisearch.ServiceManager, log zerolog.Logger) SearchService {
	s := &meiliSearchService{
		client: client,
		log:    log,
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	searchable := []string{"first_name", "last_name", "email", "usn"}
	if _, err := s.client.Index(studentsIndex).UpdateSearchableAttributes(&searchable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update students searchable attributes")
	}

	sortable := []string{"updated_at", "last_name"}
	if _, err := s.client.Index(studentsIndex).UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update students sortable attributes")
	}

	s.log.Info().Msg("meilisearch indexes initialized")
}

func (s *meiliSearchService) IndexStudent(doc StudentDocument) error {
	task, err := s.client.Index(studentsIndex).AddDocuments([]StudentDocument{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.log.Debug().Str("student_id", doc.ID).Int64("task_uid", task.TaskUID).Msg("indexed student")
	return nil
}

// IndexStudents upserts docs in one task; documents with the same id are replaced.
func (s *meiliSearchService) IndexStudents(docs []StudentDocument) error {
	if len(docs) == 0 {
		return nil
	}
	task, err := s.client.Index(studentsIndex).AddDocuments(docs, strPtr("id"))
	if err != nil {
		return err
	}
	s.log.Info().Int("count", len(docs)).Int64("task_uid", task.TaskUID).Msg("queued students reindex")
	return nil
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
}

// SearchStudents returns matching student ids in relevance order.
func (s *meiliSearchService) SearchStudents(query string, limit int64) ([]uuid.UUID, error) {
	raw, err := s.client.Index(studentsIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	var res searchHits
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
