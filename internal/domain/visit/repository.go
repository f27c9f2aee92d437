package visit

import (
	"context"
)

type Repository interface {
	ListAll(ctx context.Context) ([]Log, error)
	ListByPet(ctx context.Context, petID string) ([]Log, error)
	Get(ctx context.Context, id string) (Log, error)
	Add(ctx context.Context, in Input) (Log, error)
	Update(ctx context.Context, id string, in Input) (Log, error)
	Delete(ctx context.Context, id string) error
}
