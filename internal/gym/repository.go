package gym

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymbook/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, req CreateGymRequest) (int, error) {
	query := `
		INSERT INTO gyms (name, address, phone, photo, schedule)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int
	err := r.db.GetContext(ctx, &id, query, req.Name, req.Address, req.Phone, req.Photo, req.Schedule)
	if err != nil {
		return 0, fmt.Errorf("insert gym: %w", err)
	}

	return id, nil
}

func (r *repository) DeleteGym(ctx context.Context, id int) (int64, error) {
	return r.deleteByID(ctx, `DELETE FROM gyms WHERE id = $1`, id)
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, name, address, phone, photo, schedule, created_at
		FROM gyms
		ORDER BY id ASC
	`

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query); err != nil {
		return nil, fmt.Errorf("select gyms: %w", err)
	}

	return gyms, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, name, address, phone, photo, schedule, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGymNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select gym %d: %w", id, err)
	}

	return &gym, nil
}

func (r *repository) UpdateSchedule(ctx context.Context, gymID int, schedule *string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE gyms SET schedule = $1 WHERE id = $2`, schedule, gymID)
	if err != nil {
		return 0, fmt.Errorf("update schedule: %w", err)
	}
	return result.RowsAffected()
}

func (r *repository) CreateClass(ctx context.Context, c NewClass) (int, error) {
	query := `
		INSERT INTO classes (gym_id, name, instructor, users, capacity, start_time, finish_time, photo)
		VALUES ($1, $2, $3, 0, $4, $5, $6, $7)
		RETURNING id
	`

	var id int
	err := r.db.GetContext(ctx, &id, query,
		c.GymID, c.Name, c.Instructor, c.Capacity, c.StartTime, c.FinishTime, c.Photo)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, ErrGymNotFound
		}
		return 0, fmt.Errorf("insert class: %w", err)
	}

	return id, nil
}

func (r *repository) DeleteClass(ctx context.Context, id int) (int64, error) {
	return r.deleteByID(ctx, `DELETE FROM classes WHERE id = $1`, id)
}

func (r *repository) GetClassesByGym(ctx context.Context, gymID int) ([]Class, error) {
	query := `
		SELECT id, gym_id, name, instructor, users, capacity, start_time, finish_time, photo, created_at
		FROM classes
		WHERE gym_id = $1
		ORDER BY start_time ASC NULLS LAST, id ASC
	`

	classes := []Class{}
	if err := r.db.SelectContext(ctx, &classes, query, gymID); err != nil {
		return nil, fmt.Errorf("select classes: %w", err)
	}

	return classes, nil
}

func (r *repository) GetClassByID(ctx context.Context, id int) (*Class, error) {
	query := `
		SELECT id, gym_id, name, instructor, users, capacity, start_time, finish_time, photo, created_at
		FROM classes
		WHERE id = $1
	`

	var class Class
	err := r.db.GetContext(ctx, &class, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select class %d: %w", id, err)
	}

	return &class, nil
}

func (r *repository) deleteByID(ctx context.Context, query string, id int) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return rowsAffected, nil
}
