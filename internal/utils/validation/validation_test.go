package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name" validate:"notblank,min=2"`
	Age   string `json:"age" validate:"posint"`
	Image string `json:"image_url" validate:"omitempty,httpurl"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestNew_CustomTags(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		input    sample
		expected map[string]string
	}{
		{
			name:  "valid",
			input: sample{Name: "Rex", Age: "3", Image: "https://img.example/rex.png"},
		},
		{
			name:  "blank name",
			input: sample{Name: "   ", Age: "3"},
			expected: map[string]string{
				"name": "is required",
			},
		},
		{
			name:  "zero age",
			input: sample{Name: "Rex", Age: "0"},
			expected: map[string]string{
				"age": "must be a positive number",
			},
		},
		{
			name:  "non numeric age and ftp image",
			input: sample{Name: "Rex", Age: "abc", Image: "ftp://x"},
			expected: map[string]string{
				"age":       "must be a positive number",
				"image_url": "must be a valid http(s) URL",
			},
		},
		{
			name:  "bad email",
			input: sample{Name: "Rex", Age: "1", Email: "nope"},
			expected: map[string]string{
				"email": "must be a valid email",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			assert.Equal(t, tt.expected, ToDetails(err, nil))
		})
	}
}

func TestToDetails_Messages(t *testing.T) {
	v := New()

	err := v.Struct(sample{Name: "R", Age: "2"})
	details := ToDetails(err, map[string]string{"name": "Name is too short"})

	assert.Equal(t, map[string]string{"name": "Name is too short"}, details)
}

func TestToDetails_Fallbacks(t *testing.T) {
	assert.Nil(t, ToDetails(nil, nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("x"), nil))
}

func TestCheck(t *testing.T) {
	v := New()

	assert.NoError(t, Check(v, sample{Name: "Rex", Age: "4"}, nil))

	err := Check(v, sample{Name: "", Age: "-1"}, map[string]string{"age": "Age must be a positive number"})
	var errs Errors
	assert.ErrorAs(t, err, &errs)
	assert.Equal(t, "Age must be a positive number", errs["age"])
	assert.Equal(t, "age: Age must be a positive number; name: is required", err.Error())
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		in       string
		expected int
		ok       bool
	}{
		{in: "3", expected: 3, ok: true},
		{in: "2.5", expected: 2, ok: true},
		{in: "1e1", expected: 10, ok: true},
		{in: " 7 ", expected: 7, ok: true},
		{in: "0.5", ok: false},
		{in: "0", ok: false},
		{in: "-2", ok: false},
		{in: "abc", ok: false},
		{in: "NaN", ok: false},
		{in: "Inf", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, ok := PositiveInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, n)
			}
		})
	}
}
