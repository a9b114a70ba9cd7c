package repository

import (
	"context"
	"fmt"

	"hall-booking/internal/data/entity"
	"hall-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HallRepository interface {
	Create(ctx context.Context, hall *entity.Hall) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error)
	FindByName(ctx context.Context, name string) (*entity.Hall, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Hall, error)
	CountAll(ctx context.Context) (int64, error)
	FindAvailable(ctx context.Context) ([]*entity.Hall, error)
	CountAvailable(ctx context.Context) (int64, error)
	Update(ctx context.Context, hall *entity.Hall) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type hallRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHallRepository(db database.PgxIface, log *zap.Logger) HallRepository {
	return &hallRepository{
		db:  db,
		log: log.With(zap.String("repository", "hall")),
	}
}

const hallColumns = `id, name, capacity, location, description, amenities, image, available, created_at, updated_at, deleted_at`

func scanHall(row pgx.Row) (*entity.Hall, error) {
	var hall entity.Hall
	err := row.Scan(
		&hall.ID,
		&hall.Name,
		&hall.Capacity,
		&hall.Location,
		&hall.Description,
		&hall.Amenities,
		&hall.Image,
		&hall.Available,
		&hall.CreatedAt,
		&hall.UpdatedAt,
		&hall.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &hall, nil
}

func (r *hallRepository) Create(ctx context.Context, hall *entity.Hall) error {
	query := `
		INSERT INTO halls (id, name, capacity, location, description, amenities, image, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Capacity,
		hall.Location,
		hall.Description,
		hall.Amenities,
		hall.Image,
		hall.Available,
		hall.CreatedAt,
		hall.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create hall",
			zap.Error(err),
			zap.String("name", hall.Name),
			zap.Int("capacity", hall.Capacity),
		)
		return fmt.Errorf("create hall %s: %w", hall.Name, err)
	}

	return nil
}

func (r *hallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	query := `SELECT ` + hallColumns + ` FROM halls WHERE id = $1 AND deleted_at IS NULL`

	hall, err := scanHall(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hall by ID",
			zap.Error(err),
			zap.String("hall_id", id.String()),
		)
		return nil, fmt.Errorf("find hall by ID %s: %w", id.String(), err)
	}

	return hall, nil
}

func (r *hallRepository) FindByName(ctx context.Context, name string) (*entity.Hall, error) {
	query := `SELECT ` + hallColumns + ` FROM halls WHERE name = $1 AND deleted_at IS NULL LIMIT 1`

	hall, err := scanHall(r.db.QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hall by name", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("find hall by name %s: %w", name, err)
	}

	return hall, nil
}

func (r *hallRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Hall, error) {
	query := `
		SELECT ` + hallColumns + `
		FROM halls
		WHERE deleted_at IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	halls, err := r.queryHalls(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find halls",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find halls limit %d offset %d: %w", limit, offset, err)
	}

	return halls, nil
}

func (r *hallRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM halls WHERE deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count halls", zap.Error(err))
		return 0, fmt.Errorf("count halls: %w", err)
	}

	return count, nil
}

func (r *hallRepository) FindAvailable(ctx context.Context) ([]*entity.Hall, error) {
	query := `
		SELECT ` + hallColumns + `
		FROM halls
		WHERE available = TRUE AND deleted_at IS NULL
		ORDER BY name
	`

	halls, err := r.queryHalls(ctx, query)
	if err != nil {
		r.log.Error("Failed to find available halls", zap.Error(err))
		return nil, fmt.Errorf("find available halls: %w", err)
	}

	return halls, nil
}

func (r *hallRepository) CountAvailable(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM halls WHERE available = TRUE AND deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count available halls", zap.Error(err))
		return 0, fmt.Errorf("count available halls: %w", err)
	}

	return count, nil
}

func (r *hallRepository) Update(ctx context.Context, hall *entity.Hall) error {
	query := `
		UPDATE halls
		SET name = $2, capacity = $3, location = $4, description = $5,
		    amenities = $6, image = $7, available = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.Name,
		hall.Capacity,
		hall.Location,
		hall.Description,
		hall.Amenities,
		hall.Image,
		hall.Available,
		hall.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update hall",
			zap.Error(err),
			zap.String("hall_id", hall.ID.String()),
		)
		return fmt.Errorf("update hall %s: %w", hall.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hall %s: %w", hall.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *hallRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE halls SET deleted_at = NOW(), available = FALSE WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete hall",
			zap.Error(err),
			zap.String("hall_id", id.String()),
		)
		return fmt.Errorf("delete hall %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("hall %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Hall deleted", zap.String("hall_id", id.String()))
	return nil
}

func (r *hallRepository) queryHalls(ctx context.Context, query string, args ...any) ([]*entity.Hall, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	halls := []*entity.Hall{}
	for rows.Next() {
		hall, err := scanHall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hall row: %w", err)
		}
		halls = append(halls, hall)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hall rows: %w", err)
	}

	return halls, nil
}
