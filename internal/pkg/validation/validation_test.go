package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBloodType(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"A+", "A+", true},
		{"a+", "A+", true},
		{" o- ", "O-", true},
		{"ab+", "AB+", true},
		{"C+", "C+", false},
		{"", "", false},
		{"A", "A", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeBloodType(tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, tt.valid, ok, "input %q", tt.input)
	}
}

func TestIsValidUrgency(t *testing.T) {
	for _, u := range []string{"low", "normal", "high", "critical"} {
		assert.True(t, IsValidUrgency(u), u)
	}
	assert.False(t, IsValidUrgency("urgent"))
	assert.False(t, IsValidUrgency("HIGH"))
	assert.False(t, IsValidUrgency(""))
}

func TestIsValidRequestStatus(t *testing.T) {
	for _, s := range []string{"open", "fulfilled", "cancelled", "expired"} {
		assert.True(t, IsValidRequestStatus(s), s)
	}
	assert.False(t, IsValidRequestStatus("closed"))
	assert.False(t, IsValidRequestStatus("Open"))
}

func TestValidateJobInput(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		errs := ValidateJobInput(&JobInput{
			Title:       "مطلوب محاسب",
			Description: "خبرة سنتين على الأقل",
			Type:        "محاسبة",
			Salary:      "3000",
			ExpiresAt:   "2026-12-31",
		})
		assert.Empty(t, errs)
	})

	t.Run("short title", func(t *testing.T) {
		errs := ValidateJobInput(&JobInput{Title: "ab"})
		require.Contains(t, errs, "title")
	})

	t.Run("short arabic title counts characters not bytes", func(t *testing.T) {
		// "عم" is 2 characters but 4 bytes.
		errs := ValidateJobInput(&JobInput{Title: "عم"})
		require.Contains(t, errs, "title")

		errs = ValidateJobInput(&JobInput{Title: "عمل"})
		assert.NotContains(t, errs, "title")
	})

	t.Run("long arabic description counts characters not bytes", func(t *testing.T) {
		within := strings.Repeat("م", 5000)
		errs := ValidateJobInput(&JobInput{Title: "وظيفة جديدة", Description: within})
		assert.NotContains(t, errs, "description")

		over := strings.Repeat("م", 5001)
		errs = ValidateJobInput(&JobInput{Title: "وظيفة جديدة", Description: over})
		require.Contains(t, errs, "description")
	})

	t.Run("invalid type", func(t *testing.T) {
		errs := ValidateJobInput(&JobInput{Title: "وظيفة جديدة", Type: "فضاء"})
		require.Contains(t, errs, "type")
	})

	t.Run("bad expiry date", func(t *testing.T) {
		errs := ValidateJobInput(&JobInput{Title: "وظيفة جديدة", ExpiresAt: "31/12/2026"})
		require.Contains(t, errs, "expiresAt")
	})

	t.Run("numeric salary accepted", func(t *testing.T) {
		errs := ValidateJobInput(&JobInput{Title: "وظيفة جديدة", Salary: float64(2500)})
		assert.Empty(t, errs)
	})

	t.Run("salary wrong kind", func(t *testing.T) {
		errs := ValidateJobInput(&JobInput{Title: "وظيفة جديدة", Salary: []string{"x"}})
		require.Contains(t, errs, "salary")
	})
}

func TestParseDate(t *testing.T) {
	for _, value := range []string{
		"2026-09-01T10:30:00Z",
		"2026-09-01T10:30:00",
		"2026-09-01 10:30:00",
		"2026-09-01",
	} {
		parsed, err := ParseDate(value)
		require.NoError(t, err, value)
		assert.Equal(t, 2026, parsed.Year())
	}

	_, err := ParseDate("01-09-2026")
	assert.Error(t, err)
}

func TestStruct(t *testing.T) {
	type sample struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
	}

	t.Run("valid", func(t *testing.T) {
		errs := Struct(&sample{Email: "user@example.com", Name: "Omar"})
		assert.Nil(t, errs)
	})

	t.Run("invalid", func(t *testing.T) {
		errs := Struct(&sample{Email: "not-an-email", Name: "x"})
		require.NotNil(t, errs)
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "name")
	})
}
