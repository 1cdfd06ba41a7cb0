package repository

import (
	"context"

	"users-go-pgsql/internal/domain/entity"
)

// NoExclusion disables the exclude-id filter on the existence probes.
const NoExclusion int64 = 0

// UserRepository defines the storage contract the application layer depends on.
//
// Absence is never an error: GetByID and Update return (nil, nil) when no row
// matches, and Delete returns false. The existence probes take an excludeID so
// a user is not flagged as duplicating itself during an update; pass
// NoExclusion to consider every row.
type UserRepository interface {
	GetAll(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	Create(ctx context.Context, dto entity.CreateUserDTO) (*entity.User, error)
	Update(ctx context.Context, dto entity.UpdateUserDTO) (*entity.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
