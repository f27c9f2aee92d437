// Package rest реализует репозитории доменов поверх табличного API удаленного хранилища
package rest

import (
	"errors"
	"fmt"
)

const (
	tablePets    = "pets"
	tableWeights = "weight_logs"
	tableVisits  = "vet_visit_logs"

	columnID        = "id"
	columnPetID     = "pet_id"
	columnOwnerID   = "owner_id"
	columnCreatedAt = "created_at"
	columnDate      = "date"

	selectAll          = "*"
	selectWithPets     = "*,pets(*)"
	selectWithPetAlias = "*,pet:pets(*)"
)

// ErrMalformedRow строка ответа не прошла проверку схемы
var ErrMalformedRow = errors.New("malformed row")

func checkIDs[T any](rows []T, id func(T) string, table string) error {
	for i, row := range rows {
		if id(row) == "" {
			return fmt.Errorf("%w: %s row %d has no id", ErrMalformedRow, table, i)
		}
	}
	return nil
}
