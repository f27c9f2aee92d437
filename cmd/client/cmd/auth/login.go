package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
)

var loginEmail string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему",
	Long: `Вход по email и паролю.

После входа сессия сохраняется локально и восстанавливается при следующих запусках.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		email := loginEmail
		if email == "" {
			if email, err = promptLine("Email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword("Пароль: ")
		if err != nil {
			return err
		}

		session, err := app.SignIn(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("ошибка входа: %w", err)
		}

		if types.Opts(cmd).JSON {
			return output.JSON(session.User)
		}
		output.Success("Вы вошли как %s", session.User.Email)
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email пользователя")
}
