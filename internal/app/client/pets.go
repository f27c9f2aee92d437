package client

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"pettrack/internal/app/client/state"
	"pettrack/internal/app/client/view"
	"pettrack/internal/domain/pet"
)

// PetList экран списка питомцев текущего пользователя. Результат замещает снимок pets.
func (a *App) PetList() *view.Loader[[]pet.Pet] {
	return view.New(a.ctx, a.fetchPets, a.log,
		view.Bind(a.store, state.DomainPets, func(ps []pet.Pet) state.Action {
			return state.SetPets{Pets: ps}
		}),
		view.WithName[[]pet.Pet]("pet_list"),
	)
}

// PetDetail экран одного питомца
func (a *App) PetDetail(id string) *view.Loader[pet.Pet] {
	return view.New(a.ctx, func(ctx context.Context) (pet.Pet, error) {
		return a.pets.Get(ctx, id)
	}, a.log, view.WithName[pet.Pet]("pet_detail"))
}

// CreatePet создает питомца от имени текущего пользователя и перечитывает список целиком
func (a *App) CreatePet(ctx context.Context, form pet.Form) (pet.Pet, error) {
	u, err := a.requireUser()
	if err != nil {
		return pet.Pet{}, err
	}

	created, err := a.pets.Create(ctx, pet.Owner{ID: u.ID, Email: u.Email}, form)
	if err != nil {
		return pet.Pet{}, err
	}

	if err := a.refreshPets(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// UpdatePet обновляет питомца и перечитывает список целиком
func (a *App) UpdatePet(ctx context.Context, id string, form pet.Form) (pet.Pet, error) {
	if _, err := a.requireUser(); err != nil {
		return pet.Pet{}, err
	}

	updated, err := a.pets.Update(ctx, id, form)
	if err != nil {
		return pet.Pet{}, err
	}

	if err := a.refreshPets(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeletePet удаляет питомца. Из снимка убирается ровно этот id и только после успешного удаления.
func (a *App) DeletePet(ctx context.Context, id string) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}

	if err := a.pets.Delete(ctx, id); err != nil {
		a.log.Warn("pet delete failed", slog.String("id", id), slog.String("error", err.Error()))
		return err
	}

	a.store.Dispatch(state.RemovePet{ID: id})
	return nil
}

func (a *App) fetchPets(ctx context.Context) ([]pet.Pet, error) {
	u, err := a.requireUser()
	if err != nil {
		return nil, err
	}
	return a.pets.List(ctx, u.ID)
}

// refreshPets полная перезагрузка снимка после мутации
func (a *App) refreshPets(ctx context.Context) error {
	ticket := a.store.Begin(state.DomainPets)

	ps, err := a.fetchPets(ctx)
	if err != nil {
		a.log.Warn("pet list refresh failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	if !a.store.Commit(ticket, state.SetPets{Pets: ps}) {
		a.log.Debug("pet list refresh superseded")
	}
	return nil
}
