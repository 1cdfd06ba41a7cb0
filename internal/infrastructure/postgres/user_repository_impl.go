package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"users-go-pgsql/internal/domain/entity"
	"users-go-pgsql/internal/domain/repository"
)

// uniqueViolation is the Postgres error code raised by the unique indexes on
// email and username. It is the authoritative duplicate guard beneath the
// application-level existence probes.
const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.NewConflictError(op, err)
	}
	return entity.NewStorageError(op, err)
}

func (r *UserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, username, phone, website, created_at, updated_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, wrapErr("get_all", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.Phone,
			&u.Website, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, wrapErr("get_all", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("get_all", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, username, phone, website, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.Phone,
		&u.Website, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get_by_id", err)
	}
	return u, nil
}

// ExistsByEmail reports whether a user with the given email exists.
// excludeID removes that row from consideration; repository.NoExclusion keeps all.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE email = $1 AND ($2 = 0 OR id <> $2)
		)
	`, email, excludeID).Scan(&exists)
	if err != nil {
		return false, wrapErr("exists_by_email", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 AND ($2 = 0 OR id <> $2)
		)
	`, username, excludeID).Scan(&exists)
	if err != nil {
		return false, wrapErr("exists_by_username", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, dto entity.CreateUserDTO) (*entity.User, error) {
	u := &entity.User{
		Name:     dto.Name,
		Email:    dto.Email,
		Username: dto.Username,
		Phone:    dto.Phone,
		Website:  dto.Website,
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, username, phone, website)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, dto.Name, dto.Email, dto.Username, dto.Phone, dto.Website)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, wrapErr("create", err)
	}
	return u, nil
}

// Update applies only the non-nil dto fields; NULL parameters keep the stored
// value via COALESCE. Returns (nil, nil) when no row matches the id.
func (r *UserRepository) Update(ctx context.Context, dto entity.UpdateUserDTO) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name       = COALESCE($2, name),
		    email      = COALESCE($3, email),
		    username   = COALESCE($4, username),
		    phone      = COALESCE($5, phone),
		    website    = COALESCE($6, website),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, username, phone, website, created_at, updated_at
	`, dto.ID, dto.Name, dto.Email, dto.Username, dto.Phone, dto.Website)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.Phone,
		&u.Website, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("update", err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr("delete", err)
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
