package pet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		Name:        "Rex",
		SelectValue: "Dog",
		Breed:       "Beagle",
		Age:         "3",
		Image:       "https://img.example/rex.png",
	}
}

func TestFormValidator_ValidInputs(t *testing.T) {
	v := NewFormValidator()

	tests := []struct {
		name   string
		mutate func(f *Form)
	}{
		{name: "all fields", mutate: func(f *Form) {}},
		{name: "no image", mutate: func(f *Form) { f.Image = "" }},
		{name: "http image", mutate: func(f *Form) { f.Image = "http://img.example/rex.png" }},
		{name: "other species with text", mutate: func(f *Form) {
			f.SelectValue = SpeciesOther
			f.Species = "Hamster"
		}},
		{name: "fractional age", mutate: func(f *Form) { f.Age = "2.5" }},
		{name: "exponent age", mutate: func(f *Form) { f.Age = "1e1" }},
		{name: "surrounding spaces", mutate: func(f *Form) {
			f.Name = "  Rex  "
			f.Age = " 7 "
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			assert.NoError(t, v.ValidateForm(form))
		})
	}
}

func TestFormValidator_InvalidInputs(t *testing.T) {
	v := NewFormValidator()

	tests := []struct {
		name    string
		mutate  func(f *Form)
		field   string
		message string
	}{
		{
			name:    "short name",
			mutate:  func(f *Form) { f.Name = "R" },
			field:   "name",
			message: "Pet name must be at least 2 characters",
		},
		{
			name:    "blank name",
			mutate:  func(f *Form) { f.Name = "   " },
			field:   "name",
			message: "Pet name must be at least 2 characters",
		},
		{
			name:    "no species selected",
			mutate:  func(f *Form) { f.SelectValue = "" },
			field:   "selectValue",
			message: "Please select a species",
		},
		{
			name:    "unknown species choice",
			mutate:  func(f *Form) { f.SelectValue = "Dragon" },
			field:   "selectValue",
			message: "Please select a species",
		},
		{
			name:    "other without text",
			mutate:  func(f *Form) { f.SelectValue = SpeciesOther; f.Species = " " },
			field:   "species",
			message: "Please select a species",
		},
		{
			name:    "short breed",
			mutate:  func(f *Form) { f.Breed = "B" },
			field:   "breed",
			message: "Breed must be at least 2 characters",
		},
		{
			name:    "zero age",
			mutate:  func(f *Form) { f.Age = "0" },
			field:   "age",
			message: "Age must be a positive number",
		},
		{
			name:    "negative age",
			mutate:  func(f *Form) { f.Age = "-2" },
			field:   "age",
			message: "Age must be a positive number",
		},
		{
			name:    "fraction below one",
			mutate:  func(f *Form) { f.Age = "0.5" },
			field:   "age",
			message: "Age must be a positive number",
		},
		{
			name:    "text age",
			mutate:  func(f *Form) { f.Age = "three" },
			field:   "age",
			message: "Age must be a positive number",
		},
		{
			name:    "image without scheme",
			mutate:  func(f *Form) { f.Image = "img.example/rex.png" },
			field:   "pet_Image",
			message: "Please enter a valid image URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := v.ValidateForm(form)
			var errs FormErrors
			require.ErrorAs(t, err, &errs)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.message, errs[tt.field])
		})
	}
}

func TestFormFromPet(t *testing.T) {
	tests := []struct {
		name     string
		pet      Pet
		expected Form
	}{
		{
			name: "known species",
			pet:  Pet{Name: "Tom", Species: "Cat", Breed: "Siamese", Age: 4, Image: "https://x/y.png"},
			expected: Form{
				Name: "Tom", SelectValue: "Cat", Breed: "Siamese", Age: "4", Image: "https://x/y.png",
			},
		},
		{
			name: "custom species",
			pet:  Pet{Name: "Nibbles", Species: "Hamster", Breed: "Syrian", Age: 1},
			expected: Form{
				Name: "Nibbles", SelectValue: SpeciesOther, Species: "Hamster", Breed: "Syrian", Age: "1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FormFromPet(tt.pet)
			assert.Equal(t, tt.expected, form)
			assert.Equal(t, tt.pet.Species, form.EffectiveSpecies())
		})
	}
}

func TestPlaceholderImage(t *testing.T) {
	assert.Equal(t, "https://via.placeholder.com/400x300?text=Rex", PlaceholderImage("Rex"))
	assert.Equal(t, "https://via.placeholder.com/400x300?text=Mr+Rex", PlaceholderImage("Mr Rex"))
}

func TestForm_AgeValue(t *testing.T) {
	tests := []struct {
		age      string
		expected int
	}{
		{age: "3", expected: 3},
		{age: "2.5", expected: 2},
		{age: "2.99", expected: 2},
		{age: "1e1", expected: 10},
		{age: " 4 ", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			form := validForm()
			form.Age = tt.age
			assert.Equal(t, tt.expected, form.AgeValue())
			assert.Equal(t, tt.expected, form.Changes().Age)
		})
	}
}
