package visit

import (
	"strings"

	"pettrack/internal/domain/field"
	"pettrack/internal/domain/pet"
)

// Log запись о визите к ветеринару
type Log struct {
	ID    field.ID   `json:"id"`
	PetID string     `json:"pet_id"`
	Notes string     `json:"notes"`
	Date  field.Date `json:"date"`
	Pet   *pet.Pet   `json:"pet,omitempty"`
}

// Input данные для добавления или изменения визита
type Input struct {
	PetID string     `json:"pet_id" validate:"notblank"`
	Notes string     `json:"notes" validate:"notblank"`
	Date  field.Date `json:"date"`
}

func (in Input) Normalize() Input {
	in.PetID = strings.TrimSpace(in.PetID)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}
