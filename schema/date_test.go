package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "iso date", input: "2024-03-05", expected: "2024-03-05"},
		{name: "rfc3339", input: "2024-03-05T23:59:59Z", expected: "2024-03-05"},
		{name: "rfc3339 with offset keeps local date", input: "2024-03-05T01:00:00+09:00", expected: "2024-03-05"},
		{name: "space separated timestamp", input: "2024-03-05 10:11:12", expected: "2024-03-05"},
		{name: "surrounding spaces", input: "  2024-12-31 ", expected: "2024-12-31"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "invalid day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.January, 31)

	assert.Equal(t, "2024-02-01", d.AddDays(1).String())
	assert.Equal(t, "2024-01-24", d.AddDays(-7).String())
	assert.Equal(t, "2024-03-02", d.AddMonths(1).String(), "month overflow normalizes like time.AddDate")
	assert.Equal(t, "2024-02-29", d.AddMonthsClamped(1).String())
	assert.Equal(t, "2024-02-29", NewDate(2024, time.April, 30).AddMonthsClamped(-2).String())
	assert.Equal(t, "2023-02-28", NewDate(2023, time.April, 30).AddMonthsClamped(-2).String())
	assert.Equal(t, "2023-11-30", NewDate(2024, time.January, 31).AddMonthsClamped(-2).String(), "crosses the year")
	assert.Equal(t, "2024-01-15", NewDate(2024, time.March, 15).AddMonthsClamped(-2).String())
	assert.True(t, Date{}.AddMonthsClamped(-2).IsZero())
	assert.Equal(t, 30, NewDate(2024, time.January, 1).DaysUntil(d))
	assert.Equal(t, -30, d.DaysUntil(NewDate(2024, time.January, 1)))

	// DST transitions in local zones must not shift day counts.
	assert.Equal(t, 365, NewDate(2023, time.March, 1).DaysUntil(NewDate(2024, time.February, 29)))

	assert.Equal(t, -1, NewDate(2024, 1, 1).Compare(NewDate(2024, 1, 2)))
	assert.Equal(t, 0, NewDate(2024, 1, 1).Compare(MustParseDate("2024-01-01")))
	assert.True(t, NewDate(2024, 1, 2).After(NewDate(2024, 1, 1)))
	assert.True(t, Date{}.IsZero())
	assert.Equal(t, "", Date{}.String())
}

func TestDateJSON(t *testing.T) {
	type holder struct {
		D  Date  `json:"d"`
		DP *Date `json:"dp"`
	}

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-05-06","dp":null}`), &h))
	assert.Equal(t, "2024-05-06", h.D.String())
	assert.Nil(t, h.DP)

	out, err := json.Marshal(holder{D: NewDate(2024, 5, 6)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-05-06","dp":null}`, string(out))

	out, err = json.Marshal(holder{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null,"dp":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"d":20240506}`), &h))
}

func TestDateYAML(t *testing.T) {
	type holder struct {
		D  Date  `yaml:"d"`
		DP *Date `yaml:"dp"`
	}

	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("d: 2024-05-06\ndp: 2024-05-07T10:00:00Z\n"), &h))
	assert.Equal(t, "2024-05-06", h.D.String())
	require.NotNil(t, h.DP)
	assert.Equal(t, "2024-05-07", h.DP.String())

	var empty holder
	require.NoError(t, yaml.Unmarshal([]byte("d: null\n"), &empty))
	assert.True(t, empty.D.IsZero())
}

// FuzzParseDate checks that any accepted input round-trips through its ISO form.
func FuzzParseDate(f *testing.F) {
	for _, seed := range []string{"2024-01-01", "1999-12-31T23:59:59Z", "2024-02-29", "", "not a date", "2024-13-01"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		d, err := ParseDate(s)
		if err != nil || d.IsZero() {
			return
		}
		again, err := ParseDate(d.String())
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", d.String(), err)
		}
		if again.Compare(d) != 0 {
			t.Fatalf("round trip mismatch: %s vs %s", d, again)
		}
	})
}
