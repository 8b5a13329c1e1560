package gym

import "context"

type Repository interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (int, error)
	DeleteGym(ctx context.Context, id int) (int64, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	UpdateSchedule(ctx context.Context, gymID int, schedule *string) (int64, error)
	CreateClass(ctx context.Context, c NewClass) (int, error)
	DeleteClass(ctx context.Context, id int) (int64, error)
	GetClassesByGym(ctx context.Context, gymID int) ([]Class, error)
	GetClassByID(ctx context.Context, id int) (*Class, error)
}
