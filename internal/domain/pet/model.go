package pet

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"pettrack/internal/utils/validation"
)

const placeholderImageURL = "https://via.placeholder.com/400x300?text="

// SpeciesOther означает, что вид указан вручную в поле species
const SpeciesOther = "Other"

// KnownSpecies варианты выбора вида в форме питомца
var KnownSpecies = []string{"Dog", "Cat", "Bird", "Rabbit", "Fish", "Reptile"}

type Pet struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Species    string    `json:"species"`
	Breed      string    `json:"breed"`
	Age        int       `json:"age"`
	Image      string    `json:"pet_Image"`
	OwnerID    string    `json:"owner_id"`
	OwnerEmail string    `json:"owner_email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Owner владелец, от имени которого создается питомец
type Owner struct {
	ID    string
	Email string
}

// Changes изменяемые колонки питомца. Пустое изображение не перезаписывает текущее.
type Changes struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Age     int    `json:"age"`
	Image   string `json:"pet_Image,omitempty"`
}

// Form значения формы питомца в том виде, в котором их вводит пользователь
type Form struct {
	Name        string `json:"name" validate:"notblank,min=2"`
	SelectValue string `json:"selectValue" validate:"required,oneof=Dog Cat Bird Rabbit Fish Reptile Other"`
	Species     string `json:"species" validate:"required_if=SelectValue Other"`
	Breed       string `json:"breed" validate:"notblank,min=2"`
	Age         string `json:"age" validate:"posint"`
	Image       string `json:"pet_Image" validate:"omitempty,httpurl"`
}

// FormFromPet заполняет форму значениями существующего питомца
func FormFromPet(p Pet) Form {
	form := Form{
		Name:  p.Name,
		Breed: p.Breed,
		Age:   strconv.Itoa(p.Age),
		Image: p.Image,
	}

	if isKnownSpecies(p.Species) {
		form.SelectValue = p.Species
	} else {
		form.SelectValue = SpeciesOther
		form.Species = p.Species
	}

	return form
}

// Normalize убирает пробелы по краям всех полей
func (f Form) Normalize() Form {
	return Form{
		Name:        strings.TrimSpace(f.Name),
		SelectValue: strings.TrimSpace(f.SelectValue),
		Species:     strings.TrimSpace(f.Species),
		Breed:       strings.TrimSpace(f.Breed),
		Age:         strings.TrimSpace(f.Age),
		Image:       strings.TrimSpace(f.Image),
	}
}

// EffectiveSpecies возвращает выбранный вид или введенный вручную для Other
func (f Form) EffectiveSpecies() string {
	if f.SelectValue == SpeciesOther {
		return f.Species
	}
	return f.SelectValue
}

// AgeValue возвращает возраст полным числом лет. Форма должна быть провалидирована.
func (f Form) AgeValue() int {
	n, _ := validation.PositiveInt(f.Age)
	return n
}

func (f Form) Changes() Changes {
	return Changes{
		Name:    f.Name,
		Species: f.EffectiveSpecies(),
		Breed:   f.Breed,
		Age:     f.AgeValue(),
		Image:   f.Image,
	}
}

// PlaceholderImage адрес картинки-заглушки с именем питомца
func PlaceholderImage(name string) string {
	return placeholderImageURL + url.QueryEscape(name)
}

func isKnownSpecies(s string) bool {
	for _, known := range KnownSpecies {
		if known == s {
			return true
		}
	}
	return false
}
