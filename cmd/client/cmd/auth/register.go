package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/types"
)

var registerEmail string

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	Long: `Регистрация нового пользователя.

Если сервис требует подтверждения email, войти можно будет после подтверждения.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		email := registerEmail
		if email == "" {
			if email, err = promptLine("Email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword("Пароль: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Повторите пароль: ")
		if err != nil {
			return err
		}

		res, err := app.SignUp(cmd.Context(), email, password, confirm)
		if err != nil {
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		if types.Opts(cmd).JSON {
			return output.JSON(res.User)
		}
		if res.NeedsConfirmation() {
			output.Warn("Проверьте почту %s и подтвердите регистрацию, затем выполните: pettrack auth login", res.User.Email)
			return nil
		}
		output.Success("Регистрация завершена, вы вошли как %s", res.User.Email)
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email пользователя")
}
