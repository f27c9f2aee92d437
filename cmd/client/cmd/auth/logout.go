package auth

import (
	"errors"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
	"pettrack/internal/domain/user"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		err = app.SignOut(cmd.Context())
		switch {
		case errors.Is(err, user.ErrNotAuthenticated):
			output.Warn("Вы не были авторизованы")
			return nil
		case err != nil:
			output.Warn("Сервис не подтвердил выход: %v", err)
		}

		output.Success("Сессия завершена, локальные данные очищены")
		return nil
	},
}

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		u, ok := app.CurrentUser()
		if !ok {
			return user.ErrNotAuthenticated
		}

		if types.Opts(cmd).JSON {
			return output.JSON(u)
		}
		return output.Table([]string{"ID", "EMAIL"}, [][]string{{u.ID, u.Email}})
	},
}
