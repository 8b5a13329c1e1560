package enrollment

import "context"

type Repository interface {
	Join(ctx context.Context, classID, userID int) (*Enrollment, error)
	Leave(ctx context.Context, classID, userID int) error
	IsEnrolled(ctx context.Context, classID, userID int) (bool, error)
	ListAttendees(ctx context.Context, classID int) ([]Attendee, error)
	FindDriftedClasses(ctx context.Context) ([]int, error)
	RepairCounter(ctx context.Context, classID int) (bool, error)
}
