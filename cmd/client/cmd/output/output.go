// Package output печать результатов команд: таблицы, JSON и цветные статусы
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"pettrack/internal/utils/validation"
)

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	header   = color.New(color.Bold).SprintFunc()
)

func Success(format string, args ...any) {
	fmt.Fprintf(Stdout, "%s %s\n", okMark("✓"), fmt.Sprintf(format, args...))
}

func Warn(format string, args ...any) {
	fmt.Fprintf(Stderr, "%s %s\n", warnMark("!"), fmt.Sprintf(format, args...))
}

func Fail(format string, args ...any) {
	fmt.Fprintf(Stderr, "%s %s\n", failMark("✗"), fmt.Sprintf(format, args...))
}

// JSON печатает v с отступами
func JSON(v any) error {
	encoder := json.NewEncoder(Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Table печатает строки с выровненными колонками
func Table(columns []string, rows [][]string) error {
	w := tabwriter.NewWriter(Stdout, 0, 0, 2, ' ', 0)
	for i, c := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, header(c))
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// FieldErrors печатает ошибки формы по полям. Возвращает false, если err не ошибка валидации.
func FieldErrors(err error) bool {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}

	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	Fail("Форма заполнена с ошибками:")
	for _, f := range fields {
		fmt.Fprintf(Stderr, "  %s: %s\n", f, verrs[f])
	}
	return true
}
