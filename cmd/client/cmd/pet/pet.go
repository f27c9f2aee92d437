package pet

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"pettrack/cmd/client/cmd/output"
	"pettrack/internal/app/client"
	domain "pettrack/internal/domain/pet"
	"pettrack/internal/infrastructure/imagehost"
)

// PetCmd - родительская команда для операций с питомцами
var PetCmd = &cobra.Command{
	Use:   "pet",
	Short: "Управление питомцами",
	Long:  `Список, просмотр, создание, изменение и удаление питомцев текущего пользователя.`,
}

// formFlags флаги формы питомца, общие для create и update
type formFlags struct {
	name      string
	species   string
	other     string
	breed     string
	age       int
	image     string
	imageFile string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "кличка")
	cmd.Flags().StringVarP(&f.species, "species", "s", "", "вид: Dog, Cat, Bird, Rabbit, Fish, Reptile или Other")
	cmd.Flags().StringVar(&f.other, "other", "", "вид, если выбран Other")
	cmd.Flags().StringVarP(&f.breed, "breed", "b", "", "порода")
	cmd.Flags().IntVarP(&f.age, "age", "a", 0, "возраст, полных лет")
	cmd.Flags().StringVar(&f.image, "image", "", "адрес изображения")
	cmd.Flags().StringVar(&f.imageFile, "image-file", "", "файл изображения для загрузки")
}

// apply переносит в форму только явно заданные флаги
func (f *formFlags) apply(cmd *cobra.Command, form domain.Form) domain.Form {
	changed := cmd.Flags().Changed
	if changed("name") {
		form.Name = f.name
	}
	if changed("species") {
		form.SelectValue = f.species
		if f.species != domain.SpeciesOther {
			form.Species = ""
		}
	}
	if changed("other") {
		form.Species = f.other
	}
	if changed("breed") {
		form.Breed = f.breed
	}
	if changed("age") {
		form.Age = strconv.Itoa(f.age)
	}
	if changed("image") {
		form.Image = f.image
	}
	return form
}

// upload загружает файл изображения, если он задан, и подставляет адрес в форму
func (f *formFlags) upload(cmd *cobra.Command, app *client.App, form domain.Form) (domain.Form, error) {
	if f.imageFile == "" {
		return form, nil
	}

	img, err := ReadImage(f.imageFile)
	if err != nil {
		return form, err
	}

	u, err := app.UploadImage(cmd.Context(), img)
	if err != nil {
		return form, fmt.Errorf("ошибка загрузки изображения: %w", err)
	}
	form.Image = u
	return form, nil
}

// ReadImage читает файл изображения с диска
func ReadImage(path string) (imagehost.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return imagehost.Image{}, fmt.Errorf("ошибка чтения файла: %w", err)
	}
	return imagehost.Image{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}

func row(p domain.Pet) []string {
	return []string{
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		strconv.Itoa(p.Age),
		p.CreatedAt.Format("2006-01-02"),
	}
}

var columns = []string{"ID", "КЛИЧКА", "ВИД", "ПОРОДА", "ВОЗРАСТ", "СОЗДАН"}

func printPets(pets []domain.Pet) error {
	if len(pets) == 0 {
		fmt.Fprintln(output.Stdout, "Питомцы не найдены")
		return nil
	}

	rows := make([][]string, 0, len(pets))
	for _, p := range pets {
		rows = append(rows, row(p))
	}
	if err := output.Table(columns, rows); err != nil {
		return err
	}
	fmt.Fprintf(output.Stdout, "\nВсего питомцев: %d\n", len(pets))
	return nil
}

func printPet(p domain.Pet) {
	image := p.Image
	if image == "" {
		image = domain.PlaceholderImage(p.Name)
	}
	fmt.Fprintf(output.Stdout, "ID:       %s\n", p.ID)
	fmt.Fprintf(output.Stdout, "Кличка:   %s\n", p.Name)
	fmt.Fprintf(output.Stdout, "Вид:      %s\n", p.Species)
	fmt.Fprintf(output.Stdout, "Порода:   %s\n", p.Breed)
	fmt.Fprintf(output.Stdout, "Возраст:  %d\n", p.Age)
	fmt.Fprintf(output.Stdout, "Фото:     %s\n", image)
	fmt.Fprintf(output.Stdout, "Создан:   %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
}
