package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots(t *testing.T) {
	slots, err := GenerateSlots("08:00", "11:00", 60)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, slots)

	slots, err = GenerateSlots("08:00", "10:00", 45)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "08:45"}, slots, "partial trailing slot is dropped")

	slots, err = GenerateSlots("22:30", "24:00", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"22:30", "23:00", "23:30"}, slots)
}

func TestGenerateSlots_Invalid(t *testing.T) {
	_, err := GenerateSlots("10:00", "09:00", 60)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = GenerateSlots("10:00", "12:00", 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = GenerateSlots("1000", "12:00", 60)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestNormalizeSlots(t *testing.T) {
	got, err := NormalizeSlots([]string{"10:30", "09:00", "09:45"}, 45)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:45", "10:30"}, got)

	_, err = NormalizeSlots([]string{"09:00", "09:00"}, 60)
	assert.ErrorIs(t, err, ErrDuplicateSlot)

	_, err = NormalizeSlots([]string{"09:00", "10:00", "12:00"}, 60)
	assert.ErrorIs(t, err, ErrSlotsNotContiguous)

	_, err = NormalizeSlots([]string{"09:00", "09:30"}, 60)
	assert.ErrorIs(t, err, ErrSlotsNotContiguous)

	assert.NoError(t, ValidateContiguous([]string{"20:00"}, 60))
}

func TestParseSlot(t *testing.T) {
	m, err := ParseSlot("07:05")
	require.NoError(t, err)
	assert.Equal(t, 425, m)
	assert.Equal(t, "07:05", FormatSlot(m))

	for _, bad := range []string{"24:00", "7:00", "07:60", "ab:cd", ""} {
		_, err := ParseSlot(bad)
		assert.ErrorIs(t, err, ErrInvalidSlot, bad)
	}
}
