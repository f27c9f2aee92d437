package visit

import (
	"fmt"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
	"pettrack/internal/domain/visit"
)

var (
	addFlags    inputFlags
	updateFlags inputFlags
)

var AddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Добавить визит",
	Example: `  pettrack visit add --pet 0b6d... --notes "Прививка" --date 2024-05-01`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		in, err := addFlags.apply(cmd, visit.Input{})
		if err != nil {
			return err
		}

		created, err := app.AddVisit(cmd.Context(), in)
		if err != nil {
			return err
		}

		if types.Opts(cmd).JSON {
			return output.JSON(created)
		}
		output.Success("Визит %s добавлен (id %s)", created.Date, created.ID)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить визит",
	Long:  `Изменение визита. Незаданные флаги сохраняют текущие значения.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		screen := app.VisitDetail(args[0])
		defer screen.Close()
		current, err := types.Load(cmd.Context(), screen, types.Opts(cmd).Retry)
		if err != nil {
			return fmt.Errorf("ошибка получения визита: %w", err)
		}

		in, err := updateFlags.apply(cmd, visit.Input{PetID: current.PetID, Notes: current.Notes, Date: current.Date})
		if err != nil {
			return err
		}

		updated, err := app.UpdateVisit(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}

		if types.Opts(cmd).JSON {
			return output.JSON(updated)
		}
		output.Success("Визит %s изменен", updated.ID)
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить визит",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.DeleteVisit(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка удаления визита: %w", err)
		}

		output.Success("Визит %s удален", args[0])
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listPetID, "pet", "p", "", "id питомца, по умолчанию все визиты")
	addFlags.register(AddCmd)
	updateFlags.register(UpdateCmd)
}
