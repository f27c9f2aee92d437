package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"pettrack/cmd/client/cmd/auth"
	"pettrack/cmd/client/cmd/image"
	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/pet"
	"pettrack/cmd/client/cmd/types"
	"pettrack/cmd/client/cmd/visit"
	"pettrack/cmd/client/cmd/weight"
	"pettrack/internal/app/client"
	"pettrack/internal/app/client/config"
	"pettrack/internal/domain/user"
	"pettrack/internal/utils/logger"
)

var (
	cfgFile    string
	debug      bool
	jsonOutput bool
	serverURL  string
	retries    int

	// openApp живет от setupApp до конца Execute
	openApp io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "pettrack",
	Short: "Pettrack - клиент для учета питомцев",
	Long: `Pettrack: клиент для учета питомцев, их веса и визитов к ветеринару.

Данные хранятся в удаленном табличном сервисе, сессия входа сохраняется
локально в зашифрованном виде и восстанавливается при следующем запуске.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, rootCmd); err != nil {
		stop()
		if !output.FieldErrors(err) {
			output.Fail("Ошибка: %v", err)
		}
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.RemoteURL = serverURL
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}

	log := logger.NewWithLevel(cfg.Env, level)

	app, err := client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}
	openApp = app

	if _, err := app.Restore(cmd.Context()); err != nil {
		if errors.Is(err, user.ErrSessionExpired) {
			output.Warn("Сессия истекла, войдите заново: pettrack auth login")
		} else {
			log.Warn("session restore failed", slog.String("error", err.Error()))
		}
	}

	ctx := context.WithValue(cmd.Context(), types.ClientAppKey, app)
	ctx = context.WithValue(ctx, types.OptionsKey, types.Options{JSON: jsonOutput, Retry: retries})
	cmd.SetContext(ctx)

	return nil
}

// run выполняет команду и закрывает приложение, в том числе когда команда
// завершилась ошибкой: cobra в этом случае не вызывает PostRun.
func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := closeApp(); cerr != nil && err == nil {
		err = fmt.Errorf("ошибка закрытия приложения: %w", cerr)
	}
	return err
}

func closeApp() error {
	if openApp == nil {
		return nil
	}
	app := openApp
	openApp = nil
	return app.Close()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "URL удаленного сервиса")
	rootCmd.PersistentFlags().IntVar(&retries, "retry", 0, "сколько раз повторить неудачную загрузку списка")

	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd, auth.RegisterCmd, auth.LogoutCmd, auth.WhoamiCmd)

	rootCmd.AddCommand(pet.PetCmd)
	pet.PetCmd.AddCommand(pet.ListCmd, pet.GetCmd, pet.CreateCmd, pet.UpdateCmd, pet.DeleteCmd)

	rootCmd.AddCommand(weight.WeightCmd)
	weight.WeightCmd.AddCommand(weight.ListCmd)

	rootCmd.AddCommand(visit.VisitCmd)
	visit.VisitCmd.AddCommand(visit.ListCmd, visit.GetCmd, visit.AddCmd, visit.UpdateCmd, visit.DeleteCmd)

	rootCmd.AddCommand(image.ImageCmd)
	image.ImageCmd.AddCommand(image.UploadCmd)
}
