package rest

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
	"pettrack/internal/domain/visit"
	"pettrack/internal/infrastructure/remote"
)

type VisitRepository struct {
	client *remote.Client
	log    *slog.Logger
}

func NewVisitRepository(client *remote.Client, log *slog.Logger) *VisitRepository {
	return &VisitRepository{
		client: client,
		log:    log.With("component", "visit_repository"),
	}
}

func visitID(l visit.Log) string { return l.ID.String() }

func (r *VisitRepository) ListAll(ctx context.Context) ([]visit.Log, error) {
	var logs []visit.Log
	err := r.client.From(tableVisits).
		Select(selectWithPetAlias).
		Order(columnDate, false).
		Execute(ctx, &logs)
	if err != nil {
		return nil, fmt.Errorf("list vet visits: %w", err)
	}

	return r.checked(logs)
}

func (r *VisitRepository) ListByPet(ctx context.Context, petID string) ([]visit.Log, error) {
	var logs []visit.Log
	err := r.client.From(tableVisits).
		Select(selectWithPetAlias).
		Eq(columnPetID, petID).
		Order(columnDate, false).
		Execute(ctx, &logs)
	if err != nil {
		return nil, fmt.Errorf("list vet visits by pet: %w", err)
	}

	return r.checked(logs)
}

func (r *VisitRepository) Get(ctx context.Context, id string) (visit.Log, error) {
	var l visit.Log
	err := r.client.From(tableVisits).
		Select(selectWithPetAlias).
		Eq(columnID, id).
		Single().
		Execute(ctx, &l)
	if err != nil {
		if remote.IsNoRows(err) {
			return visit.Log{}, fmt.Errorf("%w: %s", visit.ErrNotFound, id)
		}
		return visit.Log{}, fmt.Errorf("get vet visit: %w", err)
	}

	if visitID(l) == "" {
		return visit.Log{}, fmt.Errorf("%w: %s row has no id", ErrMalformedRow, tableVisits)
	}

	return l, nil
}

func (r *VisitRepository) Add(ctx context.Context, in visit.Input) (visit.Log, error) {
	var l visit.Log
	err := r.client.From(tableVisits).
		Insert(in).
		Select(selectAll).
		Single().
		Execute(ctx, &l)
	if err != nil {
		r.log.Warn("failed to insert vet visit", "pet_id", in.PetID, "error", err)
		return visit.Log{}, fmt.Errorf("insert vet visit: %w", err)
	}

	if visitID(l) == "" {
		return visit.Log{}, fmt.Errorf("%w: %s row has no id", ErrMalformedRow, tableVisits)
	}

	return l, nil
}

func (r *VisitRepository) Update(ctx context.Context, id string, in visit.Input) (visit.Log, error) {
	var logs []visit.Log
	err := r.client.From(tableVisits).
		Update(in).
		Eq(columnID, id).
		Select(selectAll).
		Execute(ctx, &logs)
	if err != nil {
		return visit.Log{}, fmt.Errorf("update vet visit: %w", err)
	}

	if len(logs) == 0 {
		return visit.Log{}, fmt.Errorf("%w: %s", visit.ErrNotFound, id)
	}
	logs, err = r.checked(logs)
	if err != nil {
		return visit.Log{}, err
	}

	return logs[0], nil
}

func (r *VisitRepository) Delete(ctx context.Context, id string) error {
	var logs []visit.Log
	err := r.client.From(tableVisits).
		Delete().
		Eq(columnID, id).
		Execute(ctx, &logs)
	if err != nil {
		return fmt.Errorf("delete vet visit: %w", err)
	}

	if len(logs) == 0 {
		return fmt.Errorf("%w: %s", visit.ErrNotFound, id)
	}

	return nil
}

func (r *VisitRepository) checked(logs []visit.Log) ([]visit.Log, error) {
	if err := checkIDs(logs, visitID, tableVisits); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []visit.Log{}
	}
	return logs, nil
}
