package pet

import (
	"fmt"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список питомцев",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		opts := types.Opts(cmd)

		screen := app.PetList()
		defer screen.Close()

		pets, err := types.Load(cmd.Context(), screen, opts.Retry)
		if err != nil {
			return fmt.Errorf("ошибка получения списка питомцев: %w", err)
		}

		if opts.JSON {
			return output.JSON(pets)
		}
		return printPets(pets)
	},
}

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Показать питомца",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		opts := types.Opts(cmd)

		screen := app.PetDetail(args[0])
		defer screen.Close()

		p, err := types.Load(cmd.Context(), screen, opts.Retry)
		if err != nil {
			return fmt.Errorf("ошибка получения питомца: %w", err)
		}

		if opts.JSON {
			return output.JSON(p)
		}
		printPet(p)
		return nil
	},
}
