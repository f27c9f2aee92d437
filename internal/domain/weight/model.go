package weight

import (
	"errors"
	"fmt"
	"strings"

	"pettrack/internal/domain/field"
	"pettrack/internal/domain/pet"
)

var ErrInvalidOrder = errors.New("invalid order")

// Order порядок сортировки записей веса по дате
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder разбирает порядок сортировки. Пустая строка означает desc.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderDesc:
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}

// Toggle возвращает противоположный порядок
func (o Order) Toggle() Order {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

func (o Order) Ascending() bool {
	return o == OrderAsc
}

// Log запись веса питомца
type Log struct {
	ID     field.ID   `json:"id"`
	PetID  string     `json:"pet_id"`
	Weight float64    `json:"weight"`
	Date   field.Date `json:"date"`
	Pet    *pet.Pet   `json:"pets,omitempty"`
}

// Query параметры выборки. Пустой PetID означает записи всех питомцев.
type Query struct {
	PetID string
	Order Order
}
