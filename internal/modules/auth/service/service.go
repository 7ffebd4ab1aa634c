package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/internal/modules/auth/dto"
	"anoa.com/studentprofile/internal/modules/auth/repository"
	searchService "anoa.com/studentprofile/internal/modules/search/service"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/password"
	"anoa.com/studentprofile/pkg/ratelimit"
	"anoa.com/studentprofile/pkg/token"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type TokenIssuer interface {
	Issue(userID, role, email string) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	RegisterTeacher(ctx context.Context, registrationKey string, req dto.RegisterTeacherRequest) (*dto.TeacherResponse, error)
}

type Options struct {
	LoginMaxAttempts int
	LoginWindow      time.Duration
	RegistrationKey  string
}

type authService struct {
	repo   repository.AuthRepository
	tokens TokenIssuer
	redis  *redis.Client
	search searchService.SearchService
	opts   Options
	log    zerolog.Logger
	now    func() time.Time
	verify func(plain, hash string) (bool, error)
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// unknownAccountHash is verified against when no account matches, so a miss
// costs the same argon2 work as a wrong password.
func unknownAccountHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = password.Hash("no-such-account")
	})
	return dummyHash
}

// NewAuthService wires the auth service. redisClient and search may be nil.
func NewAuthService(
	repo repository.AuthRepository,
	tokens TokenIssuer,
	redisClient *redis.Client,
	search searchService.SearchService,
	opts Options,
	log zerolog.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		redis:  redisClient,
		search: search,
		opts:   opts,
		log:    log,
		now:    time.Now,
		verify: password.Verify,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrDuplicateAccount
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	student := &entity.Student{
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleStudent,
		IsFirstLogin: true,
	}
	if err := s.repo.CreateStudentWithProfile(ctx, student); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ErrDuplicateAccount
		}
		return nil, err
	}

	signed, err := s.tokens.Issue(student.ID.String(), token.RoleStudent, student.Email)
	if err != nil {
		return nil, err
	}

	if s.search != nil {
		doc := searchService.NewStudentDocument(student.ID, student.Email, "", "", nil, student.CreatedAt)
		if err := s.search.IndexStudent(doc); err != nil {
			s.log.Warn().Err(err).Str("student_id", student.ID.String()).Msg("failed to index student")
		}
	}

	return &dto.RegisterResponse{
		Token: signed,
		Student: dto.StudentAccount{
			StudentID:    student.ID,
			Email:        student.Email,
			IsFirstLogin: true,
			Role:         token.RoleStudent,
		},
	}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	attemptKey := "login:" + email

	allowed, err := ratelimit.Attempt(ctx, s.redis, attemptKey, s.opts.LoginMaxAttempts, s.opts.LoginWindow)
	if err != nil {
		// fail open when redis is unreachable
		s.log.Warn().Err(err).Msg("login rate limit check failed")
	} else if !allowed {
		return nil, apperror.New(http.StatusTooManyRequests, "too many login attempts, please try again later", apperror.ErrRateLimitExceeded)
	}

	account, err := s.authenticate(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	signed, err := s.tokens.Issue(account.ID.String(), account.Role, account.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(ctx, account.Role, account.ID, s.now()); err != nil {
		s.log.Warn().Err(err).Str("user_id", account.ID.String()).Msg("failed to update last login")
	}
	if err := ratelimit.ClearAttempts(ctx, s.redis, attemptKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear login attempts")
	}

	return &dto.LoginResponse{Token: signed, User: *account}, nil
}

func (s *authService) RegisterTeacher(ctx context.Context, registrationKey string, req dto.RegisterTeacherRequest) (*dto.TeacherResponse, error) {
	if s.opts.RegistrationKey == "" ||
		subtle.ConstantTimeCompare([]byte(registrationKey), []byte(s.opts.RegistrationKey)) != 1 {
		return nil, apperror.New(http.StatusForbidden, "invalid registration key", apperror.ErrForbidden)
	}

	email := normalizeEmail(req.Email)
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrDuplicateAccount
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	teacher := &entity.Teacher{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         entity.RoleTeacher,
	}
	if err := s.repo.CreateTeacher(ctx, teacher); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ErrDuplicateAccount
		}
		return nil, err
	}

	signed, err := s.tokens.Issue(teacher.ID.String(), token.RoleTeacher, teacher.Email)
	if err != nil {
		return nil, err
	}

	return &dto.TeacherResponse{
		Token: signed,
		Teacher: dto.UserAccount{
			ID:        teacher.ID,
			Email:     teacher.Email,
			Role:      token.RoleTeacher,
			FirstName: teacher.FirstName,
			LastName:  teacher.LastName,
		},
	}, nil
}

// authenticate checks students first, then teachers. Every failure looks the
// same to the caller.
func (s *authService) authenticate(ctx context.Context, email, plain string) (*dto.UserAccount, error) {
	student, err := s.repo.FindStudentByEmail(ctx, email)
	switch {
	case err == nil:
		if !s.checkPassword(ctx, entity.RoleStudent, student.ID, plain, student.PasswordHash) {
			return nil, apperror.ErrInvalidCredentials
		}
		firstLogin := student.IsFirstLogin
		return &dto.UserAccount{
			ID:           student.ID,
			Email:        student.Email,
			Role:         token.RoleStudent,
			IsFirstLogin: &firstLogin,
		}, nil
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, err
	}

	teacher, err := s.repo.FindTeacherByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_, _ = s.verify(plain, unknownAccountHash())
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.checkPassword(ctx, entity.RoleTeacher, teacher.ID, plain, teacher.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}
	return &dto.UserAccount{
		ID:        teacher.ID,
		Email:     teacher.Email,
		Role:      token.RoleTeacher,
		FirstName: teacher.FirstName,
		LastName:  teacher.LastName,
	}, nil
}

func (s *authService) checkPassword(ctx context.Context, role string, id uuid.UUID, plain, hash string) bool {
	needsRehash, err := s.verify(plain, hash)
	if err != nil {
		return false
	}

	if needsRehash {
		upgraded, err := password.Hash(plain)
		if err == nil {
			err = s.repo.UpdatePasswordHash(ctx, role, id, upgraded)
		}
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", id.String()).Msg("failed to upgrade password hash")
		}
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
