package validate

import (
	"testing"
	"time"

	"bytebank/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso date", "2024-01-05", "2024-01-05", false},
		{"surrounding spaces", "  2024-02-29 ", "2024-02-29", false},
		{"not a leap year", "2023-02-29", "", true},
		{"wrong layout", "05/01/2024", "", true},
		{"time component", "2024-01-05T10:00", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidDate)
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(models.DateLayout))
		})
	}
}

func TestOptionalDate(t *testing.T) {
	d, err := OptionalDate("   ")
	require.NoError(t, err)
	assert.Nil(t, d, "empty input means no date supplied")

	d, err = OptionalDate("2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2024-03-01", d.Format(models.DateLayout))

	_, err = OptionalDate("yesterday")
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2024, 6, 30, 23, 15, 0, 0, time.UTC)

	got := ResolveDate(nil, now)
	assert.Equal(t, "2024-06-30", got.Format(models.DateLayout))
	assert.Zero(t, got.Hour(), "resolved date carries no time of day")

	given := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, given, ResolveDate(&given, now))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		input string
		want  models.Category
	}{
		{"food", models.Food},
		{"FOOD", models.Food},
		{"  transport ", models.Transport},
		{"rEnT", models.Rent},
		{"bills", models.Bills},
		{"Others", models.Others},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Category(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Rejected(t *testing.T) {
	_, err := Category("Snacks")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidCategory)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	for _, c := range models.Categories {
		assert.Contains(t, err.Error(), string(c), "message should list every valid category")
	}

	_, err = Category("")
	assert.ErrorIs(t, err, models.ErrInvalidCategory)
}

func TestCategory_Suggestion(t *testing.T) {
	_, err := Category("fod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean Food?")

	_, err = Category("groceries")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"5", 5, false},
		{"12.50", 12.5, false},
		{" 0.01 ", 0.01, false},
		{"1e3", 1000, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"0x1p3", 0, true},
		{"0X10", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Amount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Food", TitleCase("fOOD"))
	assert.Equal(t, "Eating Out", TitleCase("eating out"))
	assert.Equal(t, "A1B", TitleCase("a1b"))
	assert.Equal(t, "", TitleCase(""))
}
