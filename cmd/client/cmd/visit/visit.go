package visit

import (
	"fmt"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
	"pettrack/internal/domain/field"
	"pettrack/internal/domain/visit"
)

// VisitCmd - родительская команда для визитов к ветеринару
var VisitCmd = &cobra.Command{
	Use:   "visit",
	Short: "Визиты к ветеринару",
}

var listPetID string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список визитов",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		opts := types.Opts(cmd)

		screen := app.VisitLogs(listPetID)
		defer screen.Close()

		logs, err := types.Load(cmd.Context(), screen, opts.Retry)
		if err != nil {
			return fmt.Errorf("ошибка получения визитов: %w", err)
		}

		if opts.JSON {
			return output.JSON(logs)
		}
		if len(logs) == 0 {
			fmt.Fprintln(output.Stdout, "Визиты не найдены")
			return nil
		}

		rows := make([][]string, 0, len(logs))
		for _, l := range logs {
			rows = append(rows, []string{l.ID.String(), petName(l), l.Date.String(), l.Notes})
		}
		if err := output.Table([]string{"ID", "ПИТОМЕЦ", "ДАТА", "ЗАМЕТКИ"}, rows); err != nil {
			return err
		}
		fmt.Fprintf(output.Stdout, "\nВсего визитов: %d\n", len(logs))
		return nil
	},
}

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Показать визит",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		opts := types.Opts(cmd)

		screen := app.VisitDetail(args[0])
		defer screen.Close()

		l, err := types.Load(cmd.Context(), screen, opts.Retry)
		if err != nil {
			return fmt.Errorf("ошибка получения визита: %w", err)
		}

		if opts.JSON {
			return output.JSON(l)
		}
		fmt.Fprintf(output.Stdout, "ID:       %s\n", l.ID)
		fmt.Fprintf(output.Stdout, "Питомец:  %s (%s)\n", petName(l), l.PetID)
		fmt.Fprintf(output.Stdout, "Дата:     %s\n", l.Date)
		fmt.Fprintf(output.Stdout, "Заметки:  %s\n", l.Notes)
		return nil
	},
}

func petName(l visit.Log) string {
	if l.Pet == nil {
		return ""
	}
	return l.Pet.Name
}

// inputFlags флаги визита, общие для add и update
type inputFlags struct {
	petID string
	notes string
	date  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.petID, "pet", "p", "", "id питомца")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "заметки о визите")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "дата визита YYYY-MM-DD, по умолчанию сегодня")
}

// apply переносит в ввод только явно заданные флаги
func (f *inputFlags) apply(cmd *cobra.Command, in visit.Input) (visit.Input, error) {
	changed := cmd.Flags().Changed
	if changed("pet") {
		in.PetID = f.petID
	}
	if changed("notes") {
		in.Notes = f.notes
	}
	if changed("date") {
		if f.date == "" {
			in.Date = field.Date{}
			return in, nil
		}
		d, err := field.ParseDate(f.date)
		if err != nil {
			return in, err
		}
		in.Date = d
	}
	return in, nil
}
