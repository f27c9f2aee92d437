package weight

import (
	"context"
)

type Repository interface {
	List(ctx context.Context, q Query) ([]Log, error)
}
