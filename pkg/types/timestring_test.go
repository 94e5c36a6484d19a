package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "06:30"},
		{name: "midnight", value: "00:00"},
		{name: "no leading zero", value: "6:30", wantErr: true},
		{name: "hour overflow", value: "24:00", wantErr: true},
		{name: "garbage", value: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeStringFromString(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("21:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("22:15"), got)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:15"))
	assert.True(t, TimeString("18:00").IsAfter("06:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2026, 3, 14, 17, 42, 0, 0, loc)

	got := TimeString("06:15").On(day)
	assert.Equal(t, time.Date(2026, 3, 14, 6, 15, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("08:00:00"))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan([]byte("22:30")))
	assert.Equal(t, TimeString("22:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
