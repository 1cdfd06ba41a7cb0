package application

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"users-go-pgsql/internal/domain/entity"
	repo "users-go-pgsql/internal/domain/repository"
)

// Field length ceilings, counted in characters (runes), matching the
// VARCHAR(n) column caps. Hard limits: violation is a rejection, never a clamp.
const (
	MaxNameLen     = 255
	MaxUsernameLen = 150
	MaxPhoneLen    = 20
	MaxWebsiteLen  = 200
)

// emailRegex is the strict application-level pattern: local part of allowed
// characters, '@', a dotted domain, and a TLD of at least two letters.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Service owns the business rules for the user resource. It depends only on
// the repository port; no storage technology leaks in here.
type Service struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, Logger: logger}
}

// GetAllUsers returns every stored user in the adapter's default order.
func (s *Service) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.GetAll(ctx)
}

// GetUserByID returns the user with the given id, or (nil, nil) when no such
// user exists. A non-positive id is rejected before any storage call.
func (s *Service) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, entity.NewValidationError("Invalid user ID")
	}
	return s.Repo.GetByID(ctx, id)
}

// CreateUser validates the dto and persists a new user. Checks run cheapest
// first and short-circuit: required fields, email format, uniqueness probes,
// then length caps. Nothing is written until every check passes; the unique
// indexes in storage remain the last-resort guard against concurrent creates.
func (s *Service) CreateUser(ctx context.Context, dto entity.CreateUserDTO) (*entity.User, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return nil, entity.NewValidationError("Name is required")
	}
	if strings.TrimSpace(dto.Email) == "" {
		return nil, entity.NewValidationError("Email is required")
	}
	if strings.TrimSpace(dto.Username) == "" {
		return nil, entity.NewValidationError("Username is required")
	}

	if !emailRegex.MatchString(dto.Email) {
		return nil, entity.NewValidationError("Invalid email format")
	}

	taken, err := s.Repo.ExistsByEmail(ctx, dto.Email, repo.NoExclusion)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, entity.NewValidationError("User with this email already exists")
	}

	taken, err = s.Repo.ExistsByUsername(ctx, dto.Username, repo.NoExclusion)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, entity.NewValidationError("User with this username already exists")
	}

	if utf8.RuneCountInString(dto.Name) > MaxNameLen {
		return nil, entity.NewValidationError("Name must be less than 255 characters")
	}
	if utf8.RuneCountInString(dto.Username) > MaxUsernameLen {
		return nil, entity.NewValidationError("Username must be less than 150 characters")
	}
	if dto.Phone != nil && utf8.RuneCountInString(*dto.Phone) > MaxPhoneLen {
		return nil, entity.NewValidationError("Phone must be less than 20 characters")
	}
	if dto.Website != nil && utf8.RuneCountInString(*dto.Website) > MaxWebsiteLen {
		return nil, entity.NewValidationError("Website must be less than 200 characters")
	}

	u, err := s.Repo.Create(ctx, dto)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", dto.Email).Error("create user failed")
		}
		return nil, err
	}
	return u, nil
}

// UpdateUser applies a partial update. A missing id yields (nil, nil) rather
// than an error. Only fields present in the dto are validated and applied.
//
// The username duplicate probe runs before its length cap; create checks the
// other way around. Kept asymmetric for compatibility with existing clients
// that depend on which message they get back.
func (s *Service) UpdateUser(ctx context.Context, dto entity.UpdateUserDTO) (*entity.User, error) {
	existing, err := s.Repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if dto.Email != nil {
		if !emailRegex.MatchString(*dto.Email) {
			return nil, entity.NewValidationError("Invalid email format")
		}
		taken, err := s.Repo.ExistsByEmail(ctx, *dto.Email, dto.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, entity.NewValidationError("User with this email already exists")
		}
	}

	if dto.Username != nil {
		taken, err := s.Repo.ExistsByUsername(ctx, *dto.Username, dto.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, entity.NewValidationError("User with this username already exists")
		}
		if utf8.RuneCountInString(*dto.Username) > MaxUsernameLen {
			return nil, entity.NewValidationError("Username must be less than 150 characters")
		}
	}

	if dto.Name != nil && utf8.RuneCountInString(*dto.Name) > MaxNameLen {
		return nil, entity.NewValidationError("Name must be less than 255 characters")
	}
	if dto.Phone != nil && utf8.RuneCountInString(*dto.Phone) > MaxPhoneLen {
		return nil, entity.NewValidationError("Phone must be less than 20 characters")
	}
	if dto.Website != nil && utf8.RuneCountInString(*dto.Website) > MaxWebsiteLen {
		return nil, entity.NewValidationError("Website must be less than 200 characters")
	}

	u, err := s.Repo.Update(ctx, dto)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", dto.ID).Error("update user failed")
		}
		return nil, err
	}
	return u, nil
}

// DeleteUser removes the user with the given id. Deleting an id that does not
// exist returns false, not an error, so the signal is idempotent.
func (s *Service) DeleteUser(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, entity.NewValidationError("Invalid user ID")
	}

	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	return s.Repo.Delete(ctx, id)
}
