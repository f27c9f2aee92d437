package weight

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
	"pettrack/internal/domain/weight"
)

// WeightCmd - родительская команда для записей веса
var WeightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Записи веса питомцев",
}

var (
	petID  string
	order  string
	toggle bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список записей веса",
	Long: `Список записей веса, отсортированный по дате. По умолчанию новые записи идут первыми.
Флаг --toggle загружает список и затем перечитывает его в противоположном порядке.`,
	Example: `  pettrack weight list --pet 0b6d... --order asc`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		opts := types.Opts(cmd)

		o, err := weight.ParseOrder(order)
		if err != nil {
			return err
		}

		screen := app.WeightLogs(petID, o)
		defer screen.Close()

		logs, err := types.Load(cmd.Context(), screen.Loader, opts.Retry)
		if err != nil {
			return fmt.Errorf("ошибка получения записей веса: %w", err)
		}
		if toggle {
			if logs, err = screen.ToggleOrder(cmd.Context()); err != nil {
				return fmt.Errorf("ошибка получения записей веса: %w", err)
			}
		}

		if opts.JSON {
			return output.JSON(logs)
		}
		return printLogs(logs, screen.Order())
	},
}

func printLogs(logs []weight.Log, o weight.Order) error {
	if len(logs) == 0 {
		fmt.Fprintln(output.Stdout, "Записи веса не найдены")
		return nil
	}

	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		name := ""
		if l.Pet != nil {
			name = l.Pet.Name
		}
		rows = append(rows, []string{
			l.ID.String(),
			name,
			strconv.FormatFloat(l.Weight, 'f', -1, 64),
			l.Date.String(),
		})
	}
	if err := output.Table([]string{"ID", "ПИТОМЕЦ", "ВЕС", "ДАТА"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(output.Stdout, "\nВсего записей: %d, порядок: %s\n", len(logs), o)
	return nil
}

func init() {
	ListCmd.Flags().StringVarP(&petID, "pet", "p", "", "id питомца, по умолчанию все питомцы")
	ListCmd.Flags().StringVarP(&order, "order", "o", string(weight.OrderDesc), "порядок по дате: asc или desc")
	ListCmd.Flags().BoolVarP(&toggle, "toggle", "t", false, "переключить порядок после загрузки")
}
