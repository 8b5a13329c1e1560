package enrollment

import (
	"time"

	"gymbook/internal/api"
)

// Enrollment is one user's seat in one class.
type Enrollment struct {
	ID        int       `db:"id" json:"id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Attendee struct {
	ID    int     `db:"id" json:"id"`
	Name  *string `db:"name" json:"name"`
	Email string  `db:"email" json:"email"`
}

type AttendeeList struct {
	ClassID int        `json:"classId"`
	Users   []Attendee `json:"users"`
}

type EnrollmentRequest struct {
	UserID int `json:"user_id" binding:"required,gt=0"`
}

type JoinResponse struct {
	Message      string            `json:"message" example:"User added to class"`
	InsertResult *api.InsertResult `json:"insertResult"`
}

type LeaveResponse struct {
	Message      string            `json:"message" example:"User removed from class"`
	DeleteResult *api.DeleteResult `json:"deleteResult"`
}

type CheckResponse struct {
	Reserved bool `json:"reservado"`
}

// seat is the locked view of a class row used while mutating enrollments.
type seat struct {
	ID       int `db:"id"`
	Capacity int `db:"capacity"`
	Users    int `db:"users"`
}
