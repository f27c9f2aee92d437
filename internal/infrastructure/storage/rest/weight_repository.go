package rest

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
	"pettrack/internal/domain/weight"
	"pettrack/internal/infrastructure/remote"
)

type WeightRepository struct {
	client *remote.Client
	log    *slog.Logger
}

func NewWeightRepository(client *remote.Client, log *slog.Logger) *WeightRepository {
	return &WeightRepository{
		client: client,
		log:    log.With("component", "weight_repository"),
	}
}

// List возвращает записи веса вместе с питомцем, отсортированные по дате
func (r *WeightRepository) List(ctx context.Context, q weight.Query) ([]weight.Log, error) {
	query := r.client.From(tableWeights).
		Select(selectWithPets).
		Order(columnDate, q.Order.Ascending())
	if q.PetID != "" {
		query = query.Eq(columnPetID, q.PetID)
	}

	var logs []weight.Log
	if err := query.Execute(ctx, &logs); err != nil {
		return nil, fmt.Errorf("list weight logs: %w", err)
	}

	if err := checkIDs(logs, func(l weight.Log) string { return l.ID.String() }, tableWeights); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []weight.Log{}
	}

	return logs, nil
}
