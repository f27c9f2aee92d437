package client

import (
	"context"
	"sync"

	"golang.org/x/exp/slog"

	"pettrack/internal/app/client/view"
	"pettrack/internal/domain/visit"
	"pettrack/internal/domain/weight"
)

// WeightScreen список записей веса с переключаемым порядком по дате
type WeightScreen struct {
	*view.Loader[[]weight.Log]

	mu    sync.RWMutex
	petID string
	order weight.Order
}

// Order текущий порядок сортировки
func (s *WeightScreen) Order() weight.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order
}

// ToggleOrder меняет порядок и перечитывает список с сервера
func (s *WeightScreen) ToggleOrder(ctx context.Context) ([]weight.Log, error) {
	s.mu.Lock()
	s.order = s.order.Toggle()
	s.mu.Unlock()

	return s.Load(ctx)
}

func (s *WeightScreen) query() weight.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return weight.Query{PetID: s.petID, Order: s.order}
}

// WeightLogs экран записей веса. Пустой petID означает все питомцы.
func (a *App) WeightLogs(petID string, order weight.Order) *WeightScreen {
	if order == "" {
		order = weight.OrderDesc
	}
	s := &WeightScreen{petID: petID, order: order}
	s.Loader = view.New(a.ctx, func(ctx context.Context) ([]weight.Log, error) {
		if _, err := a.requireUser(); err != nil {
			return nil, err
		}
		return a.weights.List(ctx, s.query())
	}, a.log, view.WithName[[]weight.Log]("weight_logs"))
	return s
}

// VisitLogs экран визитов к ветеринару. Пустой petID означает все визиты.
func (a *App) VisitLogs(petID string) *view.Loader[[]visit.Log] {
	return view.New(a.ctx, func(ctx context.Context) ([]visit.Log, error) {
		if _, err := a.requireUser(); err != nil {
			return nil, err
		}
		if petID == "" {
			return a.visits.ListAll(ctx)
		}
		return a.visits.ListByPet(ctx, petID)
	}, a.log, view.WithName[[]visit.Log]("visit_logs"))
}

// VisitDetail экран одного визита
func (a *App) VisitDetail(id string) *view.Loader[visit.Log] {
	return view.New(a.ctx, func(ctx context.Context) (visit.Log, error) {
		if _, err := a.requireUser(); err != nil {
			return visit.Log{}, err
		}
		return a.visits.Get(ctx, id)
	}, a.log, view.WithName[visit.Log]("visit_detail"))
}

func (a *App) AddVisit(ctx context.Context, in visit.Input) (visit.Log, error) {
	if _, err := a.requireUser(); err != nil {
		return visit.Log{}, err
	}
	return a.visits.Add(ctx, in)
}

func (a *App) UpdateVisit(ctx context.Context, id string, in visit.Input) (visit.Log, error) {
	if _, err := a.requireUser(); err != nil {
		return visit.Log{}, err
	}
	return a.visits.Update(ctx, id, in)
}

func (a *App) DeleteVisit(ctx context.Context, id string) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}
	if err := a.visits.Delete(ctx, id); err != nil {
		a.log.Warn("visit delete failed", slog.String("id", id), slog.String("error", err.Error()))
		return err
	}
	return nil
}
