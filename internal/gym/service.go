package gym

import (
	"context"
	"errors"
	"time"

	"gymbook/internal/api"

	"github.com/samber/lo"
)

var (
	ErrGymNotFound   = errors.New("gym not found")
	ErrClassNotFound = errors.New("class not found")
	ErrClassInvalid  = errors.New("invalid class")
)

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*api.InsertResult, error)
	DeleteGym(ctx context.Context, id int) (*api.DeleteResult, error)
	ListGyms(ctx context.Context) ([]Gym, error)
	GetGym(ctx context.Context, id int) (*Gym, error)
	GetSchedule(ctx context.Context, gymID int) (*string, error)
	UpdateSchedule(ctx context.Context, gymID int, schedule *string) error
	CreateClass(ctx context.Context, req CreateClassRequest) (*api.InsertResult, error)
	DeleteClass(ctx context.Context, id int) (*api.DeleteResult, error)
	ListClassesByGym(ctx context.Context, gymID int) ([]ClassWithAvailability, error)
	GetClass(ctx context.Context, id int) (*Class, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*api.InsertResult, error) {
	id, err := s.repo.CreateGym(ctx, req)
	if err != nil {
		return nil, err
	}
	return api.Inserted(id), nil
}

func (s *service) DeleteGym(ctx context.Context, id int) (*api.DeleteResult, error) {
	n, err := s.repo.DeleteGym(ctx, id)
	if err != nil {
		return nil, err
	}
	return &api.DeleteResult{AffectedRows: n}, nil
}

func (s *service) ListGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) GetGym(ctx context.Context, id int) (*Gym, error) {
	return s.repo.GetGymByID(ctx, id)
}

func (s *service) GetSchedule(ctx context.Context, gymID int) (*string, error) {
	gym, err := s.GetGym(ctx, gymID)
	if err != nil {
		return nil, err
	}
	return gym.Schedule, nil
}

func (s *service) UpdateSchedule(ctx context.Context, gymID int, schedule *string) error {
	n, err := s.repo.UpdateSchedule(ctx, gymID, schedule)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGymNotFound
	}
	return nil
}

func (s *service) CreateClass(ctx context.Context, req CreateClassRequest) (*api.InsertResult, error) {
	if req.Capacity <= 0 {
		return nil, ErrClassInvalid
	}

	startTime, err := parseOptionalTime(req.StartTime)
	if err != nil {
		return nil, ErrClassInvalid
	}

	finishTime, err := parseOptionalTime(req.FinishTime)
	if err != nil {
		return nil, ErrClassInvalid
	}

	if startTime != nil && finishTime != nil && !finishTime.After(*startTime) {
		return nil, ErrClassInvalid
	}

	id, err := s.repo.CreateClass(ctx, NewClass{
		GymID:      req.GymID,
		Name:       req.Name,
		Instructor: req.Instructor,
		Capacity:   req.Capacity,
		StartTime:  startTime,
		FinishTime: finishTime,
		Photo:      req.Photo,
	})
	if err != nil {
		return nil, err
	}

	return api.Inserted(id), nil
}

func (s *service) DeleteClass(ctx context.Context, id int) (*api.DeleteResult, error) {
	n, err := s.repo.DeleteClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return &api.DeleteResult{AffectedRows: n}, nil
}

func (s *service) ListClassesByGym(ctx context.Context, gymID int) ([]ClassWithAvailability, error) {
	classes, err := s.repo.GetClassesByGym(ctx, gymID)
	if err != nil {
		return nil, err
	}

	return lo.Map(classes, func(c Class, _ int) ClassWithAvailability {
		available := c.Capacity - c.Users
		if available < 0 {
			available = 0
		}
		return ClassWithAvailability{
			Class:     c,
			Available: available,
			IsFull:    available == 0,
		}
	}), nil
}

func (s *service) GetClass(ctx context.Context, id int) (*Class, error) {
	return s.repo.GetClassByID(ctx, id)
}

func parseOptionalTime(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
