package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30"},
		{name: "postgres time", input: "17:00:00", want: "17:00"},
		{name: "padded", input: " 13:00 ", want: "13:00"},
		{name: "single digit hour", input: "9:30", wantErr: true},
		{name: "out of range", input: "25:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	start := MustTimeString("11:30")

	next, err := start.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, "12:00", next.String())
	assert.True(t, start.IsBefore(next))
	assert.True(t, next.IsAfter(start))
	assert.False(t, start.IsAfter(start))

	_, err = MustTimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_ZeroValue(t *testing.T) {
	var ts TimeString
	assert.True(t, ts.IsZero())
	assert.Error(t, ts.Validate())
	assert.Equal(t, "", ts.String())

	v, err := ts.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("14:30:00")))
	assert.Equal(t, "14:30", ts.String())

	require.NoError(t, ts.Scan("09:00:00.000000"))
	assert.Equal(t, "09:00", ts.String())

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 16, 30, 0, 0, time.UTC)))
	assert.Equal(t, "16:30", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_JSON(t *testing.T) {
	type payload struct {
		At  TimeString  `json:"at"`
		Opt *TimeString `json:"opt,omitempty"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"at":"10:00"}`), &p))
	assert.Equal(t, "10:00", p.At.String())
	assert.Nil(t, p.Opt)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"10:00"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"at":"10h"}`), &p))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	got := MustTimeString("09:30").On(date, loc)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 30, 0, 0, loc), got)
}
