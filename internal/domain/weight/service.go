package weight

import (
	"context"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context, q Query) ([]Log, error)
}

// Service записи веса доступны только на чтение
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// List возвращает записи веса в заданном порядке по дате
func (s *Service) List(ctx context.Context, q Query) ([]Log, error) {
	if q.Order == "" {
		q.Order = OrderDesc
	}

	return s.repo.List(ctx, q)
}
