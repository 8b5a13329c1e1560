package gym

import "time"

type Gym struct {
	ID        int       `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address"`
	Phone     *string   `db:"phone" json:"phone"`
	Photo     *string   `db:"photo" json:"photo"`
	Schedule  *string   `db:"schedule" json:"schedule"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Class is a scheduled activity hosted by a gym. Users is the stored count of
// enrollments; only the enrollment package changes it.
type Class struct {
	ID         int        `db:"id" json:"id"`
	GymID      int        `db:"gym_id" json:"gym_id"`
	Name       *string    `db:"name" json:"name"`
	Instructor *string    `db:"instructor" json:"instructor"`
	Users      int        `db:"users" json:"users"`
	Capacity   int        `db:"capacity" json:"capacity"`
	StartTime  *time.Time `db:"start_time" json:"start_time"`
	FinishTime *time.Time `db:"finish_time" json:"finish_time"`
	Photo      *string    `db:"photo" json:"photo"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

type ClassWithAvailability struct {
	Class
	Available int  `json:"available"`
	IsFull    bool `json:"is_full"`
}

type CreateGymRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Photo    *string `json:"photo"`
	Schedule *string `json:"schedule"`
}

// CreateClassRequest mirrors the public payload. Users is accepted for
// compatibility with older clients and ignored: new classes start empty.
type CreateClassRequest struct {
	GymID      int     `json:"gym_id" binding:"required,gt=0"`
	Name       *string `json:"name"`
	Instructor *string `json:"instructor"`
	Users      *int    `json:"users"`
	Capacity   int     `json:"capacity" binding:"required"`
	StartTime  *string `json:"start_time"`
	FinishTime *string `json:"finish_time"`
	Photo      *string `json:"photo"`
}

type ListClassesRequest struct {
	GymID int `json:"gym_id" binding:"required"`
}

type UpdateScheduleRequest struct {
	Schedule *string `json:"schedule"`
}

type ScheduleResponse struct {
	Schedule *string `json:"schedule"`
}

// NewClass is the validated form of CreateClassRequest handed to the repository.
type NewClass struct {
	GymID      int
	Name       *string
	Instructor *string
	Capacity   int
	StartTime  *time.Time
	FinishTime *time.Time
	Photo      *string
}
