package tables

import (
	"strings"
)

// Embed встраивание связанной таблицы: "pets(*)" или "pet:pets(*)"
type Embed struct {
	Alias   string
	Table   string
	Columns Selection
}

// Selection разобранный параметр select
type Selection struct {
	All     bool
	Columns []string
	Embeds  []Embed
}

// ParseSelect разбирает список колонок. Пустая строка означает "*".
func ParseSelect(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selection{All: true}, nil
	}

	parts, err := splitTopLevel(s)
	if err != nil {
		return Selection{}, err
	}

	var sel Selection
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			return Selection{}, newError(ErrInvalidQuery, "PGRST100", "empty item in select %q", s)
		case part == "*":
			sel.All = true
		case strings.HasSuffix(part, ")"):
			embed, err := parseEmbed(part)
			if err != nil {
				return Selection{}, err
			}
			sel.Embeds = append(sel.Embeds, embed)
		default:
			sel.Columns = append(sel.Columns, part)
		}
	}

	return sel, nil
}

func parseEmbed(part string) (Embed, error) {
	open := strings.IndexByte(part, '(')
	if open <= 0 {
		return Embed{}, newError(ErrInvalidQuery, "PGRST100", "malformed embedding %q", part)
	}

	head := part[:open]
	inner, err := ParseSelect(part[open+1 : len(part)-1])
	if err != nil {
		return Embed{}, err
	}
	if len(inner.Embeds) > 0 {
		return Embed{}, newError(ErrInvalidQuery, "PGRST100", "nested embedding is not supported in %q", part)
	}

	alias, table := head, head
	if i := strings.IndexByte(head, ':'); i >= 0 {
		alias, table = head[:i], head[i+1:]
	}
	alias, table = strings.TrimSpace(alias), strings.TrimSpace(table)
	if alias == "" || table == "" {
		return Embed{}, newError(ErrInvalidQuery, "PGRST100", "malformed embedding %q", part)
	}

	return Embed{Alias: alias, Table: table, Columns: inner}, nil
}

func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, newError(ErrInvalidQuery, "PGRST100", "unbalanced parentheses in select %q", s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, newError(ErrInvalidQuery, "PGRST100", "unbalanced parentheses in select %q", s)
	}
	return append(parts, s[start:]), nil
}

// project оставляет в строке только выбранные колонки. Без явных колонок остаются все.
func (sel Selection) project(r Row) Row {
	if sel.All || len(sel.Columns) == 0 {
		return r.clone()
	}
	out := make(Row, len(sel.Columns))
	for _, c := range sel.Columns {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}
