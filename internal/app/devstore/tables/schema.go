// Package tables таблицы dev-сервера в памяти с фильтрами, сортировкой и встраиванием связанных строк
package tables

import (
	"errors"
	"fmt"
	"time"
)

const (
	Pets         = "pets"
	WeightLogs   = "weight_logs"
	VetVisitLogs = "vet_visit_logs"
)

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotNull       = errors.New("null value violates not-null constraint")
	ErrForeignKey    = errors.New("foreign key violation")
	ErrDuplicateKey  = errors.New("duplicate key value violates unique constraint")
	ErrRowPolicy     = errors.New("new row violates row-level security policy")
	ErrInvalidQuery  = errors.New("invalid query")
	ErrInvalidBody   = errors.New("invalid request body")
)

// Error ошибка таблицы с кодом в стиле Postgres/PostgREST
type Error struct {
	Err     error
	Code    string
	Details string
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error, code, format string, args ...any) *Error {
	return &Error{Err: err, Code: code, Details: fmt.Sprintf(format, args...)}
}

// Schema описание таблицы
type Schema struct {
	Name     string
	Columns  []string
	Required []string
	// References внешние ключи: колонка → таблица (ссылка на id)
	References map[string]string
	// OwnerColumn колонка с id владельца строки
	OwnerColumn string
	// OwnerVia колонка-ссылка, через которую владелец определяется по родительской строке
	OwnerVia string
	// Cascade дочерние таблицы, строки которых удаляются вместе с родительской
	Cascade  []string
	Defaults func(r Row, now time.Time)
}

func (s Schema) hasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Schemas таблицы, которые использует клиент
func Schemas() []Schema {
	return []Schema{
		{
			Name:        Pets,
			Columns:     []string{"id", "name", "species", "breed", "age", "pet_Image", "owner_id", "owner_email", "created_at"},
			Required:    []string{"name", "owner_id"},
			OwnerColumn: "owner_id",
			Cascade:     []string{WeightLogs, VetVisitLogs},
			Defaults:    defaultCreatedAt,
		},
		{
			Name:       WeightLogs,
			Columns:    []string{"id", "pet_id", "weight", "date"},
			Required:   []string{"pet_id", "weight"},
			References: map[string]string{"pet_id": Pets},
			OwnerVia:   "pet_id",
			Defaults:   defaultDate,
		},
		{
			Name:       VetVisitLogs,
			Columns:    []string{"id", "pet_id", "notes", "date"},
			Required:   []string{"pet_id", "notes"},
			References: map[string]string{"pet_id": Pets},
			OwnerVia:   "pet_id",
			Defaults:   defaultDate,
		},
	}
}

func defaultCreatedAt(r Row, now time.Time) {
	if v, ok := r["created_at"]; !ok || v == nil {
		r["created_at"] = now.UTC().Format(time.RFC3339Nano)
	}
}

func defaultDate(r Row, now time.Time) {
	if v, ok := r["date"]; !ok || v == nil {
		r["date"] = now.Format("2006-01-02")
	}
}
