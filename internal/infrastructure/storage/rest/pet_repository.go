package rest

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
	"pettrack/internal/domain/pet"
	"pettrack/internal/infrastructure/remote"
)

type PetRepository struct {
	client *remote.Client
	log    *slog.Logger
}

func NewPetRepository(client *remote.Client, log *slog.Logger) *PetRepository {
	return &PetRepository{
		client: client,
		log:    log.With("component", "pet_repository"),
	}
}

func petID(p pet.Pet) string { return p.ID }

// List возвращает питомцев владельца, новые первыми
func (r *PetRepository) List(ctx context.Context, ownerID string) ([]pet.Pet, error) {
	var pets []pet.Pet
	err := r.client.From(tablePets).
		Select(selectAll).
		Eq(columnOwnerID, ownerID).
		Order(columnCreatedAt, false).
		Execute(ctx, &pets)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}

	if err := checkIDs(pets, petID, tablePets); err != nil {
		return nil, err
	}
	if pets == nil {
		pets = []pet.Pet{}
	}

	return pets, nil
}

func (r *PetRepository) Get(ctx context.Context, id string) (pet.Pet, error) {
	var p pet.Pet
	err := r.client.From(tablePets).
		Select(selectAll).
		Eq(columnID, id).
		Single().
		Execute(ctx, &p)
	if err != nil {
		if remote.IsNoRows(err) {
			return pet.Pet{}, notFound(id, err)
		}
		return pet.Pet{}, fmt.Errorf("get pet: %w", err)
	}

	if err := checkIDs([]pet.Pet{p}, petID, tablePets); err != nil {
		return pet.Pet{}, err
	}

	return p, nil
}

func (r *PetRepository) Create(ctx context.Context, p pet.Pet) (pet.Pet, error) {
	var rows []pet.Pet
	err := r.client.From(tablePets).
		Insert(p).
		Select(selectAll).
		Execute(ctx, &rows)
	if err != nil {
		r.log.Warn("failed to insert pet", "id", p.ID, "error", err)
		return pet.Pet{}, fmt.Errorf("insert pet: %w", err)
	}

	if len(rows) == 0 {
		// представление не вернулось, считаем вставленным то, что отправили
		return p, nil
	}
	if err := checkIDs(rows, petID, tablePets); err != nil {
		return pet.Pet{}, err
	}

	return rows[0], nil
}

func (r *PetRepository) Update(ctx context.Context, id string, changes pet.Changes) (pet.Pet, error) {
	var rows []pet.Pet
	err := r.client.From(tablePets).
		Update(changes).
		Eq(columnID, id).
		Select(selectAll).
		Execute(ctx, &rows)
	if err != nil {
		return pet.Pet{}, fmt.Errorf("update pet: %w", err)
	}

	if len(rows) == 0 {
		return pet.Pet{}, notFound(id, nil)
	}
	if err := checkIDs(rows, petID, tablePets); err != nil {
		return pet.Pet{}, err
	}

	return rows[0], nil
}

// Delete удаляет питомца. Если удалять было нечего, возвращает pet.ErrNotFound.
func (r *PetRepository) Delete(ctx context.Context, id string) error {
	var rows []pet.Pet
	err := r.client.From(tablePets).
		Delete().
		Eq(columnID, id).
		Execute(ctx, &rows)
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}

	if len(rows) == 0 {
		return notFound(id, nil)
	}

	return nil
}

func notFound(id string, cause error) error {
	de := &pet.DomainError{
		Err:     pet.ErrNotFound,
		Message: fmt.Sprintf("pet %s not found", id),
		Code:    remote.CodeNoRows,
	}
	if cause != nil {
		return fmt.Errorf("%w: %w", de, cause)
	}
	return de
}
