package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		attended int
		from, to Status
		want     int
		wantErr  error
	}{
		{"pending to present counts", 2, StatusPending, StatusPresent, 3, nil},
		{"absent to present counts", 2, StatusAbsent, StatusPresent, 3, nil},
		{"present to absent gives back", 3, StatusPresent, StatusAbsent, 2, nil},
		{"present to excused gives back", 3, StatusPresent, StatusExcused, 2, nil},
		{"absent to excused unchanged", 3, StatusAbsent, StatusExcused, 3, nil},
		{"same status is a no-op", 3, StatusPresent, StatusPresent, 3, nil},
		{"finished package rejects present", 8, StatusPending, StatusPresent, 8, ErrPackageFinished},
		{"finished package still allows correction", 8, StatusPresent, StatusAbsent, 7, nil},
		{"unknown target", 1, StatusPending, Status("late"), 1, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.attended, 8, tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinishedAndRemaining(t *testing.T) {
	assert.False(t, Finished(7, 8))
	assert.True(t, Finished(8, 8))
	assert.False(t, Finished(0, 0))
	assert.Equal(t, 1, Remaining(7, 8))
	assert.Equal(t, 0, Remaining(9, 8))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("excused")
	require.NoError(t, err)
	assert.Equal(t, StatusExcused, st)

	_, err = ParseStatus("late")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
