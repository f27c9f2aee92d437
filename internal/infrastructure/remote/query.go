package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const restPrefix = "/rest/v1/"

type filter struct {
	column string
	value  string
}

// Query построитель запроса к одной таблице.
// Методы изменяют и возвращают тот же Query, запрос выполняется в Execute.
type Query struct {
	c       *Client
	table   string
	method  string
	columns string
	filters []filter
	order   string
	limit   int
	body    any
	single  bool
}

// From начинает запрос к таблице table
func (c *Client) From(table string) *Query {
	return &Query{
		c:      c,
		table:  table,
		method: http.MethodGet,
	}
}

// Select задает список колонок, включая встраивания вида "*,pet:pets(*)"
func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

func (q *Query) Insert(record any) *Query {
	q.method = http.MethodPost
	q.body = record
	return q
}

func (q *Query) Update(fields any) *Query {
	q.method = http.MethodPatch
	q.body = fields
	return q
}

func (q *Query) Delete() *Query {
	q.method = http.MethodDelete
	q.body = nil
	return q
}

// Eq добавляет фильтр column = value
func (q *Query) Eq(column string, value any) *Query {
	q.filters = append(q.filters, filter{column: column, value: fmt.Sprint(value)})
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = column + "." + dir
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single требует, чтобы ответ содержал ровно одну строку
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) params() url.Values {
	params := url.Values{}
	if q.columns != "" {
		params.Set("select", q.columns)
	}
	for _, f := range q.filters {
		params.Add(f.column, "eq."+f.value)
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	return params
}

// Execute выполняет запрос и раскладывает ответ в out.
// Без Single out получает массив строк, с Single одну строку.
func (q *Query) Execute(ctx context.Context, out any) error {
	if (q.method == http.MethodPatch || q.method == http.MethodDelete) && len(q.filters) == 0 {
		return ErrUnfilteredMutation
	}

	r := request{
		method: q.method,
		path:   restPrefix + url.PathEscape(q.table),
		query:  q.params(),
		body:   q.body,
	}
	if q.method != http.MethodGet {
		r.headers = map[string]string{"Prefer": "return=representation"}
	}

	resp, err := q.c.doRequest(ctx, r)
	if err != nil {
		return err
	}

	var raw json.RawMessage
	if err := q.c.parseResponse(resp, &raw); err != nil {
		return err
	}

	if q.single {
		var rows []json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if len(rows) != 1 {
			return &Error{
				Status:  http.StatusNotAcceptable,
				Code:    CodeNoRows,
				Message: "JSON object requested, multiple (or no) rows returned",
				Details: fmt.Sprintf("The result contains %d rows", len(rows)),
			}
		}
		raw = rows[0]
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}
