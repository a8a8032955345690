package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("08:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("08:30"), ts)

	for _, bad := range []string{"", "8:30", "25:00", "08:61", "0830", "08:30:00"} {
		_, err := NewTimeStringFromString(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeString, bad)
	}
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:05").IsBefore("17:00"))
	assert.False(t, TimeString("bad").IsBefore("17:00"))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, loc)

	at, err := TimeString("09:15").On(date, loc)
	require.NoError(t, err)
	assert.True(t, at.Equal(time.Date(2026, 10, 20, 9, 15, 0, 0, loc)))
}
