package pet

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
	"pettrack/internal/app/client"
	domain "pettrack/internal/domain/pet"
)

var (
	createFlags formFlags
	updateFlags formFlags
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Добавить питомца",
	Example: `  pettrack pet create --name Rex --species Dog --breed Beagle --age 3
  pettrack pet create -n Kesha -s Other --other Parrot -b Ara -a 2 --image-file kesha.jpg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		form, err := createFlags.upload(cmd, app, createFlags.apply(cmd, domain.Form{}))
		if err != nil {
			return err
		}

		created, err := app.CreatePet(cmd.Context(), form)
		if err != nil && !errors.Is(err, client.ErrRefreshFailed) {
			return err
		}
		if err != nil {
			output.Warn("Питомец создан, но список не обновился: %v", err)
		}

		if types.Opts(cmd).JSON {
			return output.JSON(created)
		}
		output.Success("Питомец %s добавлен (id %s)", created.Name, created.ID)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить питомца",
	Long: `Изменение питомца. Незаданные флаги сохраняют текущие значения.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		screen := app.PetDetail(args[0])
		defer screen.Close()
		current, err := types.Load(cmd.Context(), screen, types.Opts(cmd).Retry)
		if err != nil {
			return fmt.Errorf("ошибка получения питомца: %w", err)
		}

		form, err := updateFlags.upload(cmd, app, updateFlags.apply(cmd, domain.FormFromPet(current)))
		if err != nil {
			return err
		}

		updated, err := app.UpdatePet(cmd.Context(), args[0], form)
		if err != nil && !errors.Is(err, client.ErrRefreshFailed) {
			return err
		}
		if err != nil {
			output.Warn("Питомец изменен, но список не обновился: %v", err)
		}

		if types.Opts(cmd).JSON {
			return output.JSON(updated)
		}
		output.Success("Питомец %s изменен", updated.Name)
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить питомца вместе с его записями веса и визитами",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.DeletePet(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка удаления питомца: %w", err)
		}

		output.Success("Питомец %s удален", args[0])
		return nil
	},
}

func init() {
	createFlags.register(CreateCmd)
	updateFlags.register(UpdateCmd)
}
