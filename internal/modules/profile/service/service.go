package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"anoa.com/studentprofile/internal/entity"
	moocDto "anoa.com/studentprofile/internal/modules/mooc/dto"
	moocRepo "anoa.com/studentprofile/internal/modules/mooc/repository"
	notifDto "anoa.com/studentprofile/internal/modules/notification/dto"
	"anoa.com/studentprofile/internal/modules/profile/dto"
	"anoa.com/studentprofile/internal/modules/profile/repository"
	projectDto "anoa.com/studentprofile/internal/modules/project/dto"
	projectRepo "anoa.com/studentprofile/internal/modules/project/repository"
	searchService "anoa.com/studentprofile/internal/modules/search/service"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/token"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// FeedPublisher receives an event after every committed submission.
type FeedPublisher interface {
	Publish(ctx context.Context, event notifDto.FeedEvent) error
}

type ProfileService interface {
	UpsertProfile(ctx context.Context, claims *token.Claims, req dto.UpsertProfileRequest) (*dto.UpsertProfileResponse, error)
	PatchProfile(ctx context.Context, claims *token.Claims, req dto.PatchProfileRequest) (*dto.ProfileResponse, error)
	GetProfile(ctx context.Context, claims *token.Claims, studentID uuid.UUID) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo        repository.ProfileRepository
	projectRepo projectRepo.ProjectRepository
	moocRepo    moocRepo.MoocRepository
	search      searchService.SearchService
	feed        FeedPublisher
	validate    *validator.Validate
	log         zerolog.Logger
}

// NewProfileService wires the profile service. search and feed may be nil.
func NewProfileService(
	repo repository.ProfileRepository,
	projectRepo projectRepo.ProjectRepository,
	moocRepo moocRepo.MoocRepository,
	search searchService.SearchService,
	feed FeedPublisher,
	log zerolog.Logger,
) ProfileService {
	return &profileService{
		repo:        repo,
		projectRepo: projectRepo,
		moocRepo:    moocRepo,
		search:      search,
		feed:        feed,
		validate:    validator.New(),
		log:         log,
	}
}

func (s *profileService) UpsertProfile(ctx context.Context, claims *token.Claims, req dto.UpsertProfileRequest) (*dto.UpsertProfileResponse, error) {
	if claims == nil || claims.Role != token.RoleStudent || !strings.EqualFold(claims.Subject, strings.TrimSpace(req.StudentID)) {
		return nil, apperror.ErrOwnershipMismatch
	}
	studentID, err := uuid.Parse(strings.TrimSpace(req.StudentID))
	if err != nil {
		return nil, apperror.ErrOwnershipMismatch
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(req.ParentEmail); err != nil {
		return nil, err
	}

	changes := repository.ProfileChanges{
		Fields: repository.ProfileFields{
			FirstName:         strings.TrimSpace(req.FirstName),
			LastName:          strings.TrimSpace(req.LastName),
			USN:               optional(req.USN),
			DOB:               dob,
			Phone:             optional(req.Phone),
			ProfilePictureURL: optional(req.ProfilePictureURL),
		},
		Parent: &repository.ParentPatch{
			FatherName: req.FatherName,
			MotherName: req.MotherName,
			Contact:    req.ParentContact,
			Email:      req.ParentEmail,
		},
		Addresses:       s.addressRows(studentID, formAddresses(req.PermanentAddress, req.TemporaryAddress)),
		AcademicRecords: s.academicRows(studentID, req.AcademicRecords),
		Siblings:        s.siblingRows(studentID, req.Siblings),
		Hobbies:         s.hobbyRows(studentID, req.Hobbies),
	}

	profile, created, err := s.repo.Upsert(ctx, studentID, changes)
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, profile, created)

	msg := "Profile updated successfully"
	if created {
		msg = "Profile created successfully"
	}
	return &dto.UpsertProfileResponse{
		Message:   msg,
		ProfileID: profile.ID,
		Created:   created,
	}, nil
}

func (s *profileService) PatchProfile(ctx context.Context, claims *token.Claims, req dto.PatchProfileRequest) (*dto.ProfileResponse, error) {
	if claims == nil || claims.Role != token.RoleStudent {
		return nil, apperror.ErrOwnershipMismatch
	}
	studentID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		return nil, err
	}

	patch := repository.ProfilePatch{
		FirstName:         trimmed(req.FirstName),
		LastName:          trimmed(req.LastName),
		USN:               trimmed(req.USN),
		DOB:               dob,
		Phone:             trimmed(req.Phone),
		ProfilePictureURL: trimmed(req.ProfilePictureURL),
	}

	if req.ParentInfo != nil {
		if err := s.checkEmail(req.ParentInfo.Email); err != nil {
			return nil, err
		}
		patch.Parent = &repository.ParentPatch{
			FatherName: req.ParentInfo.FatherName,
			MotherName: req.ParentInfo.MotherName,
			Contact:    req.ParentInfo.Contact,
			Email:      req.ParentInfo.Email,
		}
	}
	if req.Addresses != nil {
		rows := s.addressRows(studentID, *req.Addresses)
		patch.Addresses = &rows
	}
	if req.AcademicRecords != nil {
		rows := s.academicRows(studentID, *req.AcademicRecords)
		patch.AcademicRecords = &rows
	}
	if req.Siblings != nil {
		rows := s.siblingRows(studentID, *req.Siblings)
		patch.Siblings = &rows
	}
	if req.Hobbies != nil {
		rows := s.hobbyRows(studentID, *req.Hobbies)
		patch.Hobbies = &rows
	}

	profile, err := s.repo.Patch(ctx, studentID, patch)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("profile not found, use POST to create a profile")
		}
		return nil, err
	}

	s.afterCommit(ctx, profile, false)

	return s.GetProfile(ctx, claims, studentID)
}

func (s *profileService) GetProfile(ctx context.Context, claims *token.Claims, studentID uuid.UUID) (*dto.ProfileResponse, error) {
	if claims == nil || (claims.Role != token.RoleTeacher && !strings.EqualFold(claims.Subject, studentID.String())) {
		return nil, apperror.ErrForbidden
	}

	student, err := s.repo.FindStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("student not found")
		}
		return nil, err
	}

	resp := &dto.ProfileResponse{
		StudentID:    student.ID,
		Email:        student.Email,
		IsFirstLogin: student.IsFirstLogin,
	}

	profile, err := s.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return resp, nil
		}
		return nil, err
	}

	var (
		parent    *entity.ParentInfo
		addresses []entity.Address
		records   []entity.AcademicRecord
		siblings  []entity.SiblingInfo
		hobbies   []entity.Hobby
		projects  []entity.Project
		certs     []entity.MoocCertificate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		parent, err = s.repo.FindParentInfo(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		addresses, err = s.repo.ListAddresses(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		records, err = s.repo.ListAcademicRecords(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		siblings, err = s.repo.ListSiblings(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		hobbies, err = s.repo.ListHobbies(gctx, profile.ID)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.projectRepo.ListByStudent(gctx, studentID)
		return err
	})
	g.Go(func() (err error) {
		certs, err = s.moocRepo.ListByProfile(gctx, profile.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.ProfileCompleted = profile.ProfileCompleted
	resp.ProfileDetails = &dto.ProfileDetails{
		ProfileID:         profile.ID,
		FirstName:         profile.FirstName,
		LastName:          profile.LastName,
		USN:               profile.USN,
		DOB:               formatDate(profile.DOB),
		Phone:             profile.Phone,
		ProfilePictureURL: profile.ProfilePictureURL,
		ParentInfo:        parentResponse(parent),
		Addresses:         addressResponses(addresses),
		AcademicRecords:   academicResponses(records),
		Siblings:          siblingResponses(siblings),
		Hobbies:           hobbyResponses(hobbies),
		Projects:          projectDto.NewProjectResponses(projects),
		MoocCertificates:  moocDto.NewCertificateResponses(certs),
	}
	return resp, nil
}

// afterCommit runs side effects that must never fail the request.
func (s *profileService) afterCommit(ctx context.Context, profile *entity.StudentProfile, created bool) {
	if s.search != nil {
		if student, err := s.repo.FindStudent(ctx, profile.StudentID); err == nil {
			doc := searchService.NewStudentDocument(student.ID, student.Email, profile.FirstName, profile.LastName, profile.USN, profile.UpdatedAt)
			if err := s.search.IndexStudent(doc); err != nil {
				s.log.Warn().Err(err).Str("student_id", profile.StudentID.String()).Msg("failed to index student")
			}
		}
	}

	if s.feed != nil {
		event := notifDto.FeedEvent{
			Type:      notifDto.EventProfileSubmitted,
			StudentID: profile.StudentID,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Created:   created,
			At:        time.Now().UTC(),
		}
		if err := s.feed.Publish(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("student_id", profile.StudentID.String()).Msg("failed to publish feed event")
		}
	}
}

func (s *profileService) checkEmail(email *string) error {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil
	}
	if err := s.validate.Var(strings.TrimSpace(*email), "email"); err != nil {
		return apperror.Validation("parent email must be a valid email address")
	}
	return nil
}

func (s *profileService) addressRows(studentID uuid.UUID, in []dto.AddressInput) []entity.Address {
	// one row per type, the last entry of a type wins
	byType := map[string]int{}
	rows := []entity.Address{}
	for _, a := range in {
		kind := strings.ToLower(strings.TrimSpace(a.AddressType))
		if kind != entity.AddressPermanent && kind != entity.AddressTemporary {
			s.log.Warn().Str("student_id", studentID.String()).Str("address_type", a.AddressType).Msg("skipping address with unknown type")
			continue
		}
		row := entity.Address{
			AddressType: kind,
			Street:      strings.TrimSpace(a.Street),
			City:        strings.TrimSpace(a.City),
			State:       strings.TrimSpace(a.State),
			ZipCode:     strings.TrimSpace(a.ZipCode),
			Country:     strings.TrimSpace(a.Country),
		}
		if i, seen := byType[kind]; seen {
			rows[i] = row
			continue
		}
		byType[kind] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

func (s *profileService) academicRows(studentID uuid.UUID, in []dto.AcademicRecordInput) []entity.AcademicRecord {
	rows := []entity.AcademicRecord{}
	for i, r := range in {
		row := entity.AcademicRecord{
			Degree:      strings.TrimSpace(r.Degree),
			Institution: strings.TrimSpace(r.Institution),
			Year:        int(r.Year),
			Grade:       strings.TrimSpace(r.Grade),
		}
		if row.Degree == "" || row.Institution == "" || row.Year == 0 || row.Grade == "" {
			s.log.Warn().Str("student_id", studentID.String()).Int("index", i).Msg("skipping incomplete academic record")
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *profileService) siblingRows(studentID uuid.UUID, in []dto.SiblingInput) []entity.SiblingInfo {
	rows := []entity.SiblingInfo{}
	for i, r := range in {
		row := entity.SiblingInfo{
			SiblingName:  strings.TrimSpace(r.SiblingName),
			Relationship: strings.TrimSpace(r.Relationship),
		}
		if row.SiblingName == "" || row.Relationship == "" {
			s.log.Warn().Str("student_id", studentID.String()).Int("index", i).Msg("skipping incomplete sibling")
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *profileService) hobbyRows(studentID uuid.UUID, in []dto.HobbyInput) []entity.Hobby {
	rows := []entity.Hobby{}
	for i, r := range in {
		name := strings.TrimSpace(r.HobbyName)
		if name == "" {
			s.log.Warn().Str("student_id", studentID.String()).Int("index", i).Msg("skipping empty hobby")
			continue
		}
		rows = append(rows, entity.Hobby{HobbyName: name})
	}
	return rows
}

func formAddresses(permanent, temporary *dto.AddressInput) []dto.AddressInput {
	var out []dto.AddressInput
	if permanent != nil {
		a := *permanent
		a.AddressType = entity.AddressPermanent
		out = append(out, a)
	}
	if temporary != nil {
		a := *temporary
		a.AddressType = entity.AddressTemporary
		out = append(out, a)
	}
	return out
}

func parseDOB(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d, nil
	}
	return nil, apperror.Validation("dob must be a date in YYYY-MM-DD format")
}

// optional maps blank strings to nil for put semantics.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// trimmed keeps an explicit empty string so a patch can clear a column.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(dateLayout)
	return &v
}

func parentResponse(p *entity.ParentInfo) *dto.ParentInfoResponse {
	if p == nil {
		return nil
	}
	return &dto.ParentInfoResponse{
		FatherName: p.FatherName,
		MotherName: p.MotherName,
		Contact:    p.Contact,
		Email:      p.Email,
	}
}

func addressResponses(rows []entity.Address) []dto.AddressResponse {
	out := make([]dto.AddressResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, dto.AddressResponse{
			AddressType: a.AddressType,
			Street:      a.Street,
			City:        a.City,
			State:       a.State,
			ZipCode:     a.ZipCode,
			Country:     a.Country,
		})
	}
	return out
}

func academicResponses(rows []entity.AcademicRecord) []dto.AcademicRecordResponse {
	out := make([]dto.AcademicRecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.AcademicRecordResponse{
			Degree:      r.Degree,
			Institution: r.Institution,
			Year:        r.Year,
			Grade:       r.Grade,
		})
	}
	return out
}

func siblingResponses(rows []entity.SiblingInfo) []dto.SiblingResponse {
	out := make([]dto.SiblingResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SiblingResponse{SiblingName: r.SiblingName, Relationship: r.Relationship})
	}
	return out
}

func hobbyResponses(rows []entity.Hobby) []dto.HobbyResponse {
	out := make([]dto.HobbyResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.HobbyResponse{HobbyName: r.HobbyName})
	}
	return out
}
