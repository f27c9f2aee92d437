package visit

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
	"pettrack/internal/domain/field"
)

type Servicer interface {
	ListAll(ctx context.Context) ([]Log, error)
	ListByPet(ctx context.Context, petID string) ([]Log, error)
	Get(ctx context.Context, id string) (Log, error)
	Add(ctx context.Context, in Input) (Log, error)
	Update(ctx context.Context, id string, in Input) (Log, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
	today     func() field.Date
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With(slog.String("component", "visit_service")),
		today:     field.Today,
	}
}

// ListAll возвращает все визиты вместе с питомцами, свежие первыми
func (s *Service) ListAll(ctx context.Context) ([]Log, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Log, error) {
	if petID == "" {
		return nil, fmt.Errorf("%w: pet id is required", ErrInvalidInput)
	}

	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) Get(ctx context.Context, id string) (Log, error) {
	if id == "" {
		return Log{}, fmt.Errorf("%w: visit id is required", ErrInvalidInput)
	}

	return s.repo.Get(ctx, id)
}

// Add добавляет визит. Без даты используется сегодняшняя.
func (s *Service) Add(ctx context.Context, in Input) (Log, error) {
	in, err := s.prepare(in)
	if err != nil {
		return Log{}, err
	}
	if in.Date.IsZero() {
		in.Date = s.today()
	}

	created, err := s.repo.Add(ctx, in)
	if err != nil {
		return Log{}, err
	}

	s.log.Info("vet visit added", "id", created.ID, "pet_id", created.PetID)
	return created, nil
}

// Update сохраняет дату как есть, пустая дата очищает поле.
func (s *Service) Update(ctx context.Context, id string, in Input) (Log, error) {
	if id == "" {
		return Log{}, fmt.Errorf("%w: visit id is required", ErrInvalidInput)
	}

	in, err := s.prepare(in)
	if err != nil {
		return Log{}, err
	}

	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: visit id is required", ErrInvalidInput)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) prepare(in Input) (Input, error) {
	in = in.Normalize()
	if err := s.validator.ValidateInput(in); err != nil {
		s.log.Debug("visit input rejected", "error", err)
		return Input{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return in, nil
}
