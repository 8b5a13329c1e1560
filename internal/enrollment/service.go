package enrollment

import (
	"context"
	"errors"
	"time"

	"gymbook/internal/gym"
	"gymbook/internal/logger"
	"gymbook/internal/metrics"
	"gymbook/internal/user"
)

// Notifier delivers enrollment notices. *email.Service implements it.
type Notifier interface {
	SendEnrollmentConfirmation(ctx context.Context, email, name, className string, start *time.Time) error
	SendEnrollmentCancellation(ctx context.Context, email, name, className string) error
}

type ClassLookup interface {
	GetClassByID(ctx context.Context, id int) (*gym.Class, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Service interface {
	Join(ctx context.Context, classID, userID int) (*Enrollment, error)
	Leave(ctx context.Context, classID, userID int) error
	CheckEnrolled(ctx context.Context, classID, userID int) (bool, error)
	ListAttendees(ctx context.Context, classID int) (*AttendeeList, error)
}

type service struct {
	repo     Repository
	classes  ClassLookup
	users    UserLookup
	notifier Notifier
}

// NewService wires the enrollment manager. notifier may be nil, in which case
// no notices are sent.
func NewService(repo Repository, classes ClassLookup, users UserLookup, notifier Notifier) Service {
	return &service{
		repo:     repo,
		classes:  classes,
		users:    users,
		notifier: notifier,
	}
}

func (s *service) Join(ctx context.Context, classID, userID int) (*Enrollment, error) {
	enrollment, err := s.repo.Join(ctx, classID, userID)
	metrics.RecordEnrollment(joinOutcome(err))
	if err != nil {
		return nil, err
	}

	logger.Info("user joined class", "class_id", classID, "user_id", userID)
	s.notify(ctx, classID, userID, true)
	return enrollment, nil
}

func (s *service) Leave(ctx context.Context, classID, userID int) error {
	err := s.repo.Leave(ctx, classID, userID)
	metrics.RecordLeave(leaveOutcome(err))
	if err != nil {
		return err
	}

	logger.Info("user left class", "class_id", classID, "user_id", userID)
	s.notify(ctx, classID, userID, false)
	return nil
}

func (s *service) CheckEnrolled(ctx context.Context, classID, userID int) (bool, error) {
	return s.repo.IsEnrolled(ctx, classID, userID)
}

func (s *service) ListAttendees(ctx context.Context, classID int) (*AttendeeList, error) {
	attendees, err := s.repo.ListAttendees(ctx, classID)
	if err != nil {
		return nil, err
	}

	return &AttendeeList{
		ClassID: classID,
		Users:   attendees,
	}, nil
}

// notify never fails the enrollment it reports on.
func (s *service) notify(ctx context.Context, classID, userID int, joined bool) {
	if s.notifier == nil {
		return
	}
	log := logger.WithFields(map[string]interface{}{"class_id": classID, "user_id": userID})

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		log.Warnw("enrollment notice skipped", "error", err)
		return
	}

	class, err := s.classes.GetClassByID(ctx, classID)
	if err != nil {
		log.Warnw("enrollment notice skipped", "error", err)
		return
	}

	name := u.Email
	if u.Name != nil && *u.Name != "" {
		name = *u.Name
	}
	className := "your class"
	if class.Name != nil && *class.Name != "" {
		className = *class.Name
	}

	if joined {
		err = s.notifier.SendEnrollmentConfirmation(ctx, u.Email, name, className, class.StartTime)
	} else {
		err = s.notifier.SendEnrollmentCancellation(ctx, u.Email, name, className)
	}
	if err != nil {
		log.Errorw("failed to queue enrollment notice", "error", err)
	}
}

func joinOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeJoined
	case errors.Is(err, ErrClassFull):
		return metrics.OutcomeFull
	case errors.Is(err, ErrAlreadyEnrolled):
		return metrics.OutcomeAlreadyEnrolled
	case errors.Is(err, ErrClassNotFound):
		return metrics.OutcomeClassNotFound
	case errors.Is(err, user.ErrUserNotFound):
		return metrics.OutcomeUserNotFound
	default:
		return metrics.OutcomeError
	}
}

func leaveOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeLeft
	case errors.Is(err, ErrNotEnrolled):
		return metrics.OutcomeNotEnrolled
	case errors.Is(err, ErrClassNotFound):
		return metrics.OutcomeClassNotFound
	default:
		return metrics.OutcomeError
	}
}
