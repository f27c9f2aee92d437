package pet

import (
	"context"
)

type Repository interface {
	List(ctx context.Context, ownerID string) ([]Pet, error)
	Get(ctx context.Context, id string) (Pet, error)
	Create(ctx context.Context, p Pet) (Pet, error)
	Update(ctx context.Context, id string, changes Changes) (Pet, error)
	Delete(ctx context.Context, id string) error
}
