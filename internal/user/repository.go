package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymbook/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name *string, email, passwordHash string) (int, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int
	if err := r.db.GetContext(ctx, &id, query, name, email, passwordHash); err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrEmailExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	return r.findOne(ctx, query, email)
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	return r.findOne(ctx, query, id)
}

func (r *repository) findOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

// Delete removes the user and releases every seat they held.
//
// The user row is locked first. That lock conflicts with the KEY SHARE lock an
// enrollment insert takes, so a concurrent join either commits before the
// enrollments are read here or fails on the foreign key. The user's classes
// are then locked by id, and only classes that actually lost a row are
// decremented.
func (r *repository) Delete(ctx context.Context, id int) (int64, error) {
	var affected int64

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var lockedID int
		err := tx.GetContext(ctx, &lockedID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		var classIDs []int64
		lockClasses := `
			SELECT id FROM classes
			WHERE id IN (SELECT class_id FROM class_users WHERE user_id = $1)
			ORDER BY id
			FOR UPDATE
		`
		if err := tx.SelectContext(ctx, &classIDs, lockClasses, id); err != nil {
			return fmt.Errorf("lock classes: %w", err)
		}

		var released []int64
		if len(classIDs) > 0 {
			if err := tx.SelectContext(ctx, &released,
				`DELETE FROM class_users WHERE user_id = $1 RETURNING class_id`, id); err != nil {
				return fmt.Errorf("remove enrollments: %w", err)
			}
		}

		if len(released) > 0 {
			_, err := tx.ExecContext(ctx,
				`UPDATE classes SET users = users - 1 WHERE id = ANY($1) AND users > 0`,
				pq.Array(released))
			if err != nil {
				return fmt.Errorf("release seats: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}
