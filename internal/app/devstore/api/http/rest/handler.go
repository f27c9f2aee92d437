// Package rest табличный API dev-сервера в формате PostgREST
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"pettrack/internal/app/devstore/api/http/middleware/auth"
	"pettrack/internal/app/devstore/tables"
)

// Store операции над таблицами
type Store interface {
	Select(ctx context.Context, q tables.Query) ([]tables.Row, error)
	Insert(ctx context.Context, table string, rows []tables.Row, owner string, sel tables.Selection) ([]tables.Row, error)
	Update(ctx context.Context, q tables.Query, patch tables.Row) ([]tables.Row, error)
	Delete(ctx context.Context, q tables.Query) ([]tables.Row, error)
}

type Handler struct {
	store      Store
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(store Store, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		log:        log.With(slog.String("component", "rest_handler")),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.selectOp(), h.selectRows)
	huma.Register(api, h.insertOp(), h.insertRows)
	huma.Register(api, h.updateOp(), h.updateRows)
	huma.Register(api, h.deleteOp(), h.deleteRows)
}

func (h *Handler) selectRows(ctx context.Context, input *selectInput) (*rowsOutput, error) {
	q, err := h.query(ctx, input.TableParams)
	if err != nil {
		return nil, err
	}

	rows, err := h.store.Select(ctx, q)
	if err != nil {
		return nil, h.fail(err)
	}

	return output(rows), nil
}

func (h *Handler) insertRows(ctx context.Context, input *writeInput) (*rowsOutput, error) {
	q, err := h.query(ctx, input.TableParams)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows(input.RawBody)
	if err != nil {
		return nil, h.fail(err)
	}

	inserted, err := h.store.Insert(ctx, q.Table, rows, q.Owner, q.Select)
	if err != nil {
		return nil, h.fail(err)
	}

	h.log.Debug("rows inserted", slog.String("table", q.Table), slog.Int("count", len(inserted)))
	return output(inserted), nil
}

func (h *Handler) updateRows(ctx context.Context, input *writeInput) (*rowsOutput, error) {
	q, err := h.query(ctx, input.TableParams)
	if err != nil {
		return nil, err
	}
	if len(q.Filters) == 0 {
		return nil, h.fail(fmt.Errorf("%w: update requires a filter", tables.ErrInvalidQuery))
	}

	var patch tables.Row
	if err := json.Unmarshal(input.RawBody, &patch); err != nil || patch == nil {
		return nil, h.fail(fmt.Errorf("%w: body must be a JSON object", tables.ErrInvalidBody))
	}

	updated, err := h.store.Update(ctx, q, patch)
	if err != nil {
		return nil, h.fail(err)
	}

	return output(updated), nil
}

func (h *Handler) deleteRows(ctx context.Context, input *deleteInput) (*rowsOutput, error) {
	q, err := h.query(ctx, input.TableParams)
	if err != nil {
		return nil, err
	}
	if len(q.Filters) == 0 {
		return nil, h.fail(fmt.Errorf("%w: delete requires a filter", tables.ErrInvalidQuery))
	}

	deleted, err := h.store.Delete(ctx, q)
	if err != nil {
		return nil, h.fail(err)
	}

	return output(deleted), nil
}

// query собирает запрос к таблице от имени текущего пользователя
func (h *Handler) query(ctx context.Context, p TableParams) (tables.Query, error) {
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return tables.Query{}, &Error{
			Status:  http.StatusUnauthorized,
			Code:    "PGRST301",
			Message: "authenticated user required",
		}
	}

	sel, err := tables.ParseSelect(p.Select)
	if err != nil {
		return tables.Query{}, h.fail(err)
	}
	order, err := tables.ParseOrder(p.Order)
	if err != nil {
		return tables.Query{}, h.fail(err)
	}

	q := tables.Query{
		Table:  p.Table,
		Select: sel,
		Order:  order,
		Limit:  p.Limit,
		Owner:  claims.UserID,
	}

	for _, f := range []struct{ column, raw string }{
		{"id", p.ID},
		{"pet_id", p.PetID},
		{"owner_id", p.OwnerID},
	} {
		if f.raw == "" {
			continue
		}
		filter, err := tables.ParseFilter(f.column, f.raw)
		if err != nil {
			return tables.Query{}, h.fail(err)
		}
		q.Filters = append(q.Filters, filter)
	}

	return q, nil
}

// fail переводит ошибку таблиц в ответ PostgREST
func (h *Handler) fail(err error) error {
	e := &Error{Status: http.StatusInternalServerError, Message: err.Error()}

	var te *tables.Error
	if errors.As(err, &te) {
		e.Code = te.Code
		e.Message = te.Err.Error()
		e.Details = te.Details
	}

	switch {
	case errors.Is(err, tables.ErrUnknownTable):
		e.Status = http.StatusNotFound
		e.Hint = "Available tables: pets, weight_logs, vet_visit_logs"
	case errors.Is(err, tables.ErrUnknownColumn),
		errors.Is(err, tables.ErrInvalidQuery),
		errors.Is(err, tables.ErrInvalidBody),
		errors.Is(err, tables.ErrNotNull):
		e.Status = http.StatusBadRequest
	case errors.Is(err, tables.ErrForeignKey), errors.Is(err, tables.ErrDuplicateKey):
		e.Status = http.StatusConflict
	case errors.Is(err, tables.ErrRowPolicy):
		e.Status = http.StatusForbidden
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.Status = http.StatusServiceUnavailable
		e.Code = "57014"
	}

	if e.Status >= http.StatusInternalServerError {
		h.log.Error("table operation failed", slog.String("error", err.Error()))
		if e.Code == "" {
			e.Code = "XX000"
		}
	}
	if e.Code == "" {
		e.Code = "PGRST100"
	}

	return e
}

// decodeRows принимает один объект или массив объектов
func decodeRows(body []byte) ([]tables.Row, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", tables.ErrInvalidBody)
	}

	if body[0] == '[' {
		var rows []tables.Row
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("%w: %w", tables.ErrInvalidBody, err)
		}
		for i, r := range rows {
			if r == nil {
				return nil, fmt.Errorf("%w: element %d is not an object", tables.ErrInvalidBody, i)
			}
		}
		return rows, nil
	}

	var row tables.Row
	if err := json.Unmarshal(body, &row); err != nil || row == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object or array", tables.ErrInvalidBody)
	}
	return []tables.Row{row}, nil
}

func output(rows []tables.Row) *rowsOutput {
	if rows == nil {
		rows = []tables.Row{}
	}

	contentRange := "*/*"
	if len(rows) > 0 {
		contentRange = fmt.Sprintf("0-%d/*", len(rows)-1)
	}

	return &rowsOutput{ContentRange: contentRange, Body: rows}
}
