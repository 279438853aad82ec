package expenses_bot_test

import (
	"testing"

	expbot "github.com/azatv/expenses-bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHumanDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"13.07.2025", "13.07.2025", true},
		{"1.7.2025", "01.07.2025", true},
		{"01/07/2025", "01.07.2025", true},
		{"1/7/2025", "01.07.2025", true},
		{"01-07-2025", "01.07.2025", true},
		{"13.07.25", "13.07.2025", true},
		{"  13.07.2025  ", "13.07.2025", true},
		{"13.07", "13.07.2025", true},
		{"1.2", "01.02.2025", true},
		{"2025-07-13", "", false},
		{"32.07.2025", "", false},
		{"yesterday", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := expbot.ParseHumanDate(c.in, testNow)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestMonthOf(t *testing.T) {
	month, err := expbot.MonthOf("13.07.2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-07", month)

	month, err = expbot.MonthOf("01.12.2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-12", month)

	_, err = expbot.MonthOf("2025-07-13")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1200", 1200, true},
		{"1200.50", 1200.5, true},
		{"1200,50", 1200.5, true},
		{"0", 0, true},
		{" 99,9 ", 99.9, true},
		{"-5", 0, false},
		{"abc", 0, false},
		{"12.3.4", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := expbot.ParseAmount(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParseAmountCommaDotEquivalence(t *testing.T) {
	a, ok := expbot.ParseAmount("1234,56")
	require.True(t, ok)
	b, ok := expbot.ParseAmount("1234.56")
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestLastMonths(t *testing.T) {
	months := expbot.LastMonths(testNow, 3)
	assert.Equal(t, []string{"2025-07", "2025-06", "2025-05"}, months)
}

func TestLastMonthsYearBoundary(t *testing.T) {
	jan := testNow.AddDate(0, -6, 0) // 2025-01
	months := expbot.LastMonths(jan, 3)
	assert.Equal(t, []string{"2025-01", "2024-12", "2024-11"}, months)
}
