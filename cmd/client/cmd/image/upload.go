package image

import (
	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/cmd/client/cmd/pet"
	"pettrack/cmd/client/cmd/types"
)

// ImageCmd - родительская команда для изображений питомцев
var ImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Изображения питомцев",
}

var UploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Загрузить изображение и вывести его адрес",
	Long: `Загружает файл в хранилище изображений. Полученный адрес можно передать
в pet create --image или pet update --image.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		img, err := pet.ReadImage(args[0])
		if err != nil {
			return err
		}

		u, err := app.UploadImage(cmd.Context(), img)
		if err != nil {
			return err
		}

		if types.Opts(cmd).JSON {
			return output.JSON(map[string]string{"url": u})
		}
		output.Success("Изображение загружено: %s", u)
		return nil
	},
}
