package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/internal/modules/file/dto"
	"anoa.com/studentprofile/internal/modules/file/repository"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/ratelimit"
	"anoa.com/studentprofile/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProfilePictureSetter keeps the profile's picture column in step with the
// stored profile picture.
type ProfilePictureSetter interface {
	SetProfilePicture(ctx context.Context, studentID uuid.UUID, url *string) error
}

type FileService interface {
	Upload(ctx context.Context, userID uuid.UUID, fileType, semester string, header *multipart.FileHeader) (*dto.FileResponse, error)
	List(ctx context.Context, userID uuid.UUID, fileType string, semester *string) ([]dto.FileResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, fileType string, semester *string) error
}

type Options struct {
	MaxUploadSize  int64
	UploadCooldown time.Duration
	Folder         string
}

type fileService struct {
	repo     repository.FileRepository
	storage  storage.FileStorage
	profiles ProfilePictureSetter
	redis    *redis.Client
	opts     Options
	log      zerolog.Logger
}

// NewFileService wires the upload service. redisClient and profiles may be nil.
func NewFileService(
	repo repository.FileRepository,
	fileStorage storage.FileStorage,
	profiles ProfilePictureSetter,
	redisClient *redis.Client,
	opts Options,
	log zerolog.Logger,
) FileService {
	return &fileService{
		repo:     repo,
		storage:  fileStorage,
		profiles: profiles,
		redis:    redisClient,
		opts:     opts,
		log:      log,
	}
}

func (s *fileService) Upload(ctx context.Context, userID uuid.UUID, fileType, semester string, header *multipart.FileHeader) (*dto.FileResponse, error) {
	if s.opts.MaxUploadSize > 0 && header.Size > s.opts.MaxUploadSize {
		return nil, apperror.New(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d MB limit", s.opts.MaxUploadSize>>20), apperror.ErrPayloadTooLarge)
	}
	if fileType == entity.FileTypeProfilePicture {
		semester = ""
	}
	semester = strings.TrimSpace(semester)

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect file type: %w", err)
	}
	if err := checkMime(fileType, mime); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	allowed, err := ratelimit.CheckAndSetRateLimit(ctx, s.redis, userID.String(), "upload", s.opts.UploadCooldown)
	if err != nil {
		s.log.Warn().Err(err).Msg("upload rate limit check failed")
	} else if !allowed {
		ttl, _ := ratelimit.GetRateLimitTTL(ctx, s.redis, userID.String(), "upload")
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("please wait %d seconds before uploading again", int(ttl.Seconds())+1), apperror.ErrRateLimitExceeded)
	}

	folder := path.Join(s.opts.Folder, fileType)
	url, err := s.storage.Upload(ctx, f, header.Size, folder, header.Filename, mime.String())
	if err != nil {
		s.releaseCooldown(ctx, userID)
		return nil, fmt.Errorf("store file: %w", err)
	}

	record := &entity.UserFile{
		UserID:       userID,
		FileType:     fileType,
		Semester:     semester,
		FileName:     path.Base(url),
		OriginalName: header.Filename,
		FileURL:      url,
		FileSize:     header.Size,
		MimeType:     mime.String(),
	}
	previous, err := s.repo.Save(ctx, record)
	if err != nil {
		s.removeObject(ctx, url)
		s.releaseCooldown(ctx, userID)
		return nil, err
	}
	if previous != "" && previous != url {
		s.removeObject(ctx, previous)
	}

	if fileType == entity.FileTypeProfilePicture && s.profiles != nil {
		if err := s.profiles.SetProfilePicture(ctx, userID, &url); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to update profile picture")
		}
	}

	resp := dto.NewFileResponse(record)
	return &resp, nil
}

func (s *fileService) List(ctx context.Context, userID uuid.UUID, fileType string, semester *string) ([]dto.FileResponse, error) {
	files, err := s.repo.List(ctx, userID, fileType, semester)
	if err != nil {
		return nil, err
	}
	return dto.NewFileResponses(files), nil
}

// Delete removes one semester slot, or every file of the type when semester is nil.
func (s *fileService) Delete(ctx context.Context, userID uuid.UUID, fileType string, semester *string) error {
	removed, err := s.repo.Delete(ctx, userID, fileType, semester)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("file not found")
		}
		return err
	}

	for _, f := range removed {
		s.removeObject(ctx, f.FileURL)
	}

	if fileType == entity.FileTypeProfilePicture && s.profiles != nil {
		if err := s.profiles.SetProfilePicture(ctx, userID, nil); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear profile picture")
		}
	}
	return nil
}

// releaseCooldown lets the user retry right away after a failed upload.
func (s *fileService) releaseCooldown(ctx context.Context, userID uuid.UUID) {
	if err := ratelimit.ClearRateLimit(ctx, s.redis, userID.String(), "upload"); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to release upload cooldown")
	}
}

func (s *fileService) removeObject(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("failed to delete stored file")
	}
}

func checkMime(fileType string, mime *mimetype.MIME) error {
	switch fileType {
	case entity.FileTypeProfilePicture:
		if !strings.HasPrefix(mime.String(), "image/") {
			return apperror.Validation("profile picture must be an image")
		}
	case entity.FileTypeMoocCertificate:
		if !mime.Is("application/pdf") {
			return apperror.Validation("certificate must be a PDF file")
		}
	default:
		return apperror.Validation("unsupported file type")
	}
	return nil
}
