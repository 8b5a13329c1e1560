package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymbook/internal/db"
	"gymbook/internal/user"

	"github.com/jmoiron/sqlx"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrClassFull       = errors.New("class is full")
	ErrAlreadyEnrolled = errors.New("user already enrolled in class")
	ErrNotEnrolled     = errors.New("user not enrolled in class")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// lockSeat loads the class row and holds its lock until the transaction ends,
// so Join and Leave on the same class run one at a time.
func lockSeat(ctx context.Context, tx *sqlx.Tx, classID int) (*seat, error) {
	var s seat
	err := tx.GetContext(ctx, &s, `SELECT id, capacity, users FROM classes WHERE id = $1 FOR UPDATE`, classID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock class: %w", err)
	}
	return &s, nil
}

func (r *repository) Join(ctx context.Context, classID, userID int) (*Enrollment, error) {
	var enrollment Enrollment

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		class, err := lockSeat(ctx, tx, classID)
		if err != nil {
			return err
		}

		if class.Users >= class.Capacity {
			return ErrClassFull
		}

		enrolled, err := db.Exists(ctx, tx,
			`SELECT EXISTS(SELECT 1 FROM class_users WHERE class_id = $1 AND user_id = $2)`,
			classID, userID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}

		insertQuery := `
			INSERT INTO class_users (class_id, user_id)
			VALUES ($1, $2)
			RETURNING id, class_id, user_id, created_at
		`
		if err := tx.GetContext(ctx, &enrollment, insertQuery, classID, userID); err != nil {
			switch {
			case db.IsUniqueViolation(err):
				return ErrAlreadyEnrolled
			case db.IsForeignKeyViolation(err):
				return user.ErrUserNotFound
			}
			return fmt.Errorf("insert enrollment: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE classes SET users = users + 1 WHERE id = $1`, classID); err != nil {
			return fmt.Errorf("increment class users: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (r *repository) Leave(ctx context.Context, classID, userID int) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := lockSeat(ctx, tx, classID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM class_users WHERE class_id = $1 AND user_id = $2`, classID, userID)
		if err != nil {
			return fmt.Errorf("delete enrollment: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotEnrolled
		}

		if _, err := tx.ExecContext(ctx, `UPDATE classes SET users = users - 1 WHERE id = $1 AND users > 0`, classID); err != nil {
			return fmt.Errorf("decrement class users: %w", err)
		}

		return nil
	})
}

// IsEnrolled does not check that the class exists; an unknown class simply
// has no enrollments.
func (r *repository) IsEnrolled(ctx context.Context, classID, userID int) (bool, error) {
	enrolled, err := db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM class_users WHERE class_id = $1 AND user_id = $2)`,
		classID, userID)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}

func (r *repository) ListAttendees(ctx context.Context, classID int) ([]Attendee, error) {
	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, classID)
	if err != nil {
		return nil, fmt.Errorf("check class: %w", err)
	}
	if !exists {
		return nil, ErrClassNotFound
	}

	query := `
		SELECT u.id, u.name, u.email
		FROM class_users cu
		JOIN users u ON u.id = cu.user_id
		WHERE cu.class_id = $1
		ORDER BY cu.created_at ASC, cu.id ASC
	`

	attendees := []Attendee{}
	if err := r.db.SelectContext(ctx, &attendees, query, classID); err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}

	return attendees, nil
}

// FindDriftedClasses returns the ids of classes whose stored count differs
// from their enrollment rows. The result is a hint only; RepairCounter
// re-checks under the row lock.
func (r *repository) FindDriftedClasses(ctx context.Context) ([]int, error) {
	query := `
		SELECT c.id
		FROM classes c
		LEFT JOIN class_users cu ON cu.class_id = c.id
		GROUP BY c.id, c.users
		HAVING c.users <> COUNT(cu.id)
		ORDER BY c.id
	`

	ids := []int{}
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("find drifted classes: %w", err)
	}
	return ids, nil
}

func (r *repository) RepairCounter(ctx context.Context, classID int) (bool, error) {
	repaired := false

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		class, err := lockSeat(ctx, tx, classID)
		if err != nil {
			return err
		}

		var live int
		if err := tx.GetContext(ctx, &live, `SELECT COUNT(*) FROM class_users WHERE class_id = $1`, classID); err != nil {
			return fmt.Errorf("count enrollments: %w", err)
		}
		if live == class.Users {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `UPDATE classes SET users = $1 WHERE id = $2`, live, classID); err != nil {
			return fmt.Errorf("repair class users: %w", err)
		}
		repaired = true
		return nil
	})
	if errors.Is(err, ErrClassNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return repaired, nil
}
