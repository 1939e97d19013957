// ABOUTME: Tests for the calendar Date type
// ABOUTME: Covers parsing, ordering, weekday derivation and timezone independence

package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Normalizes(t *testing.T) {
	d := New(2024, time.January, 32)
	assert.Equal(t, "2024-02-01", d.String())

	leap := New(2024, time.February, 29)
	assert.Equal(t, "2024-02-29", leap.String())

	notLeap := New(2023, time.February, 29)
	assert.Equal(t, "2023-03-01", notLeap.String())
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date string
		want time.Weekday
	}{
		{"2024-01-14", time.Sunday},
		{"2024-01-15", time.Monday},
		{"2024-01-16", time.Tuesday},
		{"2024-01-17", time.Wednesday},
		{"2024-01-20", time.Saturday},
		{"2000-02-29", time.Tuesday},
		{"1970-01-01", time.Thursday},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.date).Weekday())
		})
	}
}

func TestWeekday_IgnoresLocalTimezone(t *testing.T) {
	orig := time.Local
	t.Cleanup(func() { time.Local = orig })

	d := New(2024, time.January, 15)
	for _, offset := range []int{0, 14, -11, -3} {
		time.Local = time.FixedZone("test", offset*3600)
		assert.Equal(t, time.Monday, d.Weekday(), "local offset %+d", offset)
	}
}

func TestFromTime_UsesGivenLocation(t *testing.T) {
	// 2024-01-15 23:30 UTC is already Tuesday in Tokyo.
	instant := time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)

	assert.Equal(t, "2024-01-15", FromTime(instant, nil).String())
	assert.Equal(t, "2024-01-16", FromTime(instant, tokyo).String())
}

func TestToday(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.March, 3, 1, 0, 0, 0, time.UTC) }
	assert.Equal(t, New(2024, time.March, 3), Today(now, time.UTC))

	newYork := time.FixedZone("EST", -5*3600)
	assert.Equal(t, New(2024, time.March, 2), Today(now, newYork))
}

func TestParse(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*3600)

	tests := []struct {
		name  string
		input string
		loc   *time.Location
		want  string
	}{
		{"plain date", "2024-01-15", nil, "2024-01-15"},
		{"plain date ignores location", "2024-01-15", saoPaulo, "2024-01-15"},
		{"rfc3339 utc", "2024-01-15T10:00:00Z", nil, "2024-01-15"},
		{"rfc3339 converted into location", "2024-01-15T01:00:00Z", saoPaulo, "2024-01-14"},
		{"rfc3339 with millis", "2024-01-15T03:00:00.000Z", saoPaulo, "2024-01-15"},
		{"local wall time", "2024-01-15T23:59:00", saoPaulo, "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2024-13-01", "2024-02-30", "15/01/2024"} {
		_, err := Parse(input, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", input)
	}
}

func TestCompare(t *testing.T) {
	a := MustParse("2024-01-15")
	b := MustParse("2024-01-16")
	c := MustParse("2023-12-31")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, c.Before(a))
	assert.Equal(t, 0, a.Compare(MustParse("2024-01-15")))
	assert.True(t, a.Equal(MustParse("2024-01-15")))
	assert.False(t, a.After(a))
}

func TestAddDays(t *testing.T) {
	d := MustParse("2024-02-28")
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-21", d.AddDays(-7).String())
}

// Weekday, Compare and AddDays agree with time.Time day arithmetic in UTC
// across leap years and century boundaries.
func TestDate_MatchesTimeArithmetic(t *testing.T) {
	start := time.Date(1899, time.December, 25, 0, 0, 0, 0, time.UTC)
	origin := FromTime(start, time.UTC)
	prev := origin

	for i := 0; i <= 366*205; i += 7 {
		ref := start.AddDate(0, 0, i)
		d := origin.AddDays(i)

		require.Equal(t, ref.Format("2006-01-02"), d.String(), "offset %d", i)
		require.Equal(t, ref.Weekday(), d.Weekday(), "weekday of %s", d)
		require.True(t, ref.Equal(d.Time()), "Time() of %s", d)
		if i > 0 {
			require.Equal(t, 1, d.Compare(prev), "%s vs %s", d, prev)
			require.Equal(t, -1, prev.Compare(d), "%s vs %s", prev, d)
		}
		prev = d
	}
}

func TestIsZero(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.False(t, MustParse("2024-01-01").IsZero())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: MustParse("2024-07-04")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-07-04"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2023-11-05"}`), &w))
	assert.Equal(t, New(2023, time.November, 5), w.Date)

	err = json.Unmarshal([]byte(`{"date":"2023-11-05T00:00:00Z"}`), &w)
	assert.Error(t, err)
}
