package pet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context, ownerID string) ([]Pet, error)
	Get(ctx context.Context, id string) (Pet, error)
	Create(ctx context.Context, owner Owner, form Form) (Pet, error)
	Update(ctx context.Context, id string, form Form) (Pet, error)
	Delete(ctx context.Context, id string) error
}

// Service операции над питомцами. Каждый метод делает ровно один запрос к репозиторию.
type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With(slog.String("component", "pet_service")),
		now:       time.Now,
	}
}

// List возвращает питомцев владельца, новые первыми
func (s *Service) List(ctx context.Context, ownerID string) ([]Pet, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	return s.repo.List(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, id string) (Pet, error) {
	if id == "" {
		return Pet{}, fmt.Errorf("%w: pet id is required", ErrInvalidInput)
	}

	return s.repo.Get(ctx, id)
}

// Create валидирует форму и вставляет нового питомца
func (s *Service) Create(ctx context.Context, owner Owner, form Form) (Pet, error) {
	form = form.Normalize()
	if err := s.validator.ValidateForm(form); err != nil {
		s.log.Debug("pet form rejected", "error", err)
		return Pet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if owner.ID == "" {
		return Pet{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	image := form.Image
	if image == "" {
		image = PlaceholderImage(form.Name)
	}

	p := Pet{
		ID:         uuid.NewString(),
		Name:       form.Name,
		Species:    form.EffectiveSpecies(),
		Breed:      form.Breed,
		Age:        form.AgeValue(),
		Image:      image,
		OwnerID:    owner.ID,
		OwnerEmail: owner.Email,
		CreatedAt:  s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Pet{}, err
	}

	s.log.Info("pet created", "id", created.ID)
	return created, nil
}

// Update валидирует форму и обновляет питомца по id
func (s *Service) Update(ctx context.Context, id string, form Form) (Pet, error) {
	if id == "" {
		return Pet{}, fmt.Errorf("%w: pet id is required", ErrInvalidInput)
	}

	form = form.Normalize()
	if err := s.validator.ValidateForm(form); err != nil {
		s.log.Debug("pet form rejected", "error", err)
		return Pet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.repo.Update(ctx, id, form.Changes())
}

// Delete удаляет питомца. Отсутствующий id дает ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: pet id is required", ErrInvalidInput)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("pet deleted", "id", id)
	return nil
}
