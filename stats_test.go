package expenses_bot_test

import (
	"context"
	"strings"
	"testing"

	expbot "github.com/azatv/expenses-bot"
	"github.com/azatv/expenses-bot/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsMonthGroupedByCurrency(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store, expbot.Record{
		Date: "01.07.2025", Category: "Food", Amount: 1200, Currency: "₽", Spender: "Azat",
	})
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category:        expbot.CategoryAll,
		Month:           "2025-07",
		GroupByCurrency: true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "₽: 1,200.00")
	assert.Empty(t, result.Details)
}

func TestStatsConversionDetails(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store,
		expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 100, Currency: "₽"},
		expbot.Record{Date: "02.07.2025", Category: "Food", Amount: 10, Currency: "€"},
	)
	rates := &fakeRates{rates: map[string]float64{"₽>€": 0.01}}
	stats := expbot.NewStats(store, rates)

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category:  expbot.CategoryAll,
		Month:     "2025-07",
		ConvertTo: "€",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "€: 11.00")
	require.Contains(t, result.Details, "₽")
	detail := result.Details["₽"]
	assert.Equal(t, 0.01, detail.Rate)
	assert.Equal(t, 100.0, detail.Original)
	assert.InDelta(t, 1.0, detail.Converted, 1e-9)
}

func TestStatsConversionAllOrNothing(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store,
		expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 100, Currency: "₽"},
		expbot.Record{Date: "02.07.2025", Category: "Food", Amount: 5, Currency: "$"},
	)
	// only the ruble rate is known, the dollar one is not
	rates := &fakeRates{rates: map[string]float64{"₽>€": 0.01}}
	stats := expbot.NewStats(store, rates)

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category:  expbot.CategoryAll,
		Month:     "2025-07",
		ConvertTo: "€",
	})
	require.Error(t, err)
	assert.Nil(t, result)
	_, ok := err.(*expbot.RateUnavailableError)
	assert.True(t, ok, "expected RateUnavailableError, got %T", err)
}

func TestStatsNoData(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store, expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 100, Currency: "₽"})
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category: expbot.CategoryAll,
		Month:    "2024-01",
	})
	require.NoError(t, err)
	assert.Equal(t, expbot.NoDataMessage, result.Summary)
	assert.Empty(t, result.Details)
}

func TestStatsEmptyStore(t *testing.T) {
	store := memory.New(englishHeaders)
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category: expbot.CategoryAll,
		Month:    "2025-07",
	})
	require.NoError(t, err)
	assert.Equal(t, expbot.NoDataMessage, result.Summary)
}

func TestStatsRussianHeaders(t *testing.T) {
	store := memory.New(russianHeaders)
	seed(t, store, expbot.Record{Date: "01.07.2025", Category: "Еда", Amount: 500, Currency: "₽"})
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category: "Еда",
		Month:    "2025-07",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "₽: 500.00")
}

func TestStatsMissingAmountColumn(t *testing.T) {
	store := memory.New([]string{"Date", "Month", "Category"})
	require.NoError(t, store.AppendRow(context.Background(), []interface{}{"01.07.2025", "2025-07", "Food"}))
	stats := expbot.NewStats(store, &fakeRates{})

	_, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category: expbot.CategoryAll,
		Month:    "2025-07",
	})
	require.Error(t, err)
	_, ok := err.(*expbot.MissingColumnError)
	assert.True(t, ok, "expected MissingColumnError, got %T", err)
}

func TestStatsUnparsableAmountsZeroPercent(t *testing.T) {
	store := memory.New(englishHeaders)
	require.NoError(t, store.AppendRow(context.Background(),
		[]interface{}{"01.07.2025", "2025-07", "Food", "oops", "₽", "Azat", ""}))
	require.NoError(t, store.AppendRow(context.Background(),
		[]interface{}{"02.07.2025", "2025-07", "Fun", "-", "₽", "Azat", ""}))
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category:        expbot.CategoryAll,
		Month:           "2025-07",
		GroupByCurrency: true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "₽: 0.00")
	// zero grand total must report 0%, not divide by zero
	assert.Contains(t, result.Summary, "(0.0%)")
}

func TestStatsCategoryBreakdownShares(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store,
		expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 750, Currency: "₽"},
		expbot.Record{Date: "02.07.2025", Category: "Fun", Amount: 250, Currency: "₽"},
	)
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category:        expbot.CategoryAll,
		Month:           "2025-07",
		GroupByCurrency: true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "₽: 1,000.00")
	assert.Contains(t, result.Summary, "Food — ₽: 750.00 (75.0%)")
	assert.Contains(t, result.Summary, "Fun — ₽: 250.00 (25.0%)")
}

func TestStatsPeriodRange(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store,
		expbot.Record{Date: "30.06.2025", Category: "Food", Amount: 1, Currency: "₽"},
		expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 2, Currency: "₽"},
		expbot.Record{Date: "10.07.2025", Category: "Food", Amount: 3, Currency: "₽"},
		expbot.Record{Date: "11.07.2025", Category: "Food", Amount: 4, Currency: "₽"},
	)
	// a row with a broken date must be excluded, not errored
	require.NoError(t, store.AppendRow(context.Background(),
		[]interface{}{"garbage", "2025-07", "Food", "100", "₽", "", ""}))
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category: expbot.CategoryAll,
		DateFrom: "01.07.2025",
		DateTo:   "10.07.2025",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "₽: 5.00")
}

func TestStatsCategoryFilter(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store,
		expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 100, Currency: "₽"},
		expbot.Record{Date: "01.07.2025", Category: "Fun", Amount: 50, Currency: "₽"},
	)
	stats := expbot.NewStats(store, &fakeRates{})

	result, err := stats.Compute(context.Background(), expbot.StatsQuery{
		Category: "Food",
		Month:    "2025-07",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Summary, "₽: 100.00")
	assert.NotContains(t, result.Summary, "150")
}

func TestStatsIdempotent(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store,
		expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 10, Currency: "₽"},
		expbot.Record{Date: "02.07.2025", Category: "Fun", Amount: 20, Currency: "€"},
		expbot.Record{Date: "03.07.2025", Category: "Home", Amount: 30, Currency: "$"},
	)
	stats := expbot.NewStats(store, &fakeRates{})
	query := expbot.StatsQuery{Category: expbot.CategoryAll, Month: "2025-07", GroupByCurrency: true}

	first, err := stats.Compute(context.Background(), query)
	require.NoError(t, err)
	second, err := stats.Compute(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRecent(t *testing.T) {
	store := memory.New(englishHeaders)
	seed(t, store,
		expbot.Record{Date: "01.07.2025", Category: "Food", Amount: 1, Currency: "₽", Spender: "Azat"},
		expbot.Record{Date: "02.07.2025", Category: "Fun", Amount: 2, Currency: "₽", Spender: "Liza", Comment: "cinema"},
		expbot.Record{Date: "03.07.2025", Category: "Food", Amount: 3, Currency: "₽", Spender: "Azat"},
	)
	stats := expbot.NewStats(store, &fakeRates{})

	text, err := stats.Recent(context.Background(), expbot.CategoryAll, 2)
	require.NoError(t, err)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "02.07.2025")
	assert.Contains(t, lines[0], "cinema")
	assert.Contains(t, lines[1], "03.07.2025")

	text, err = stats.Recent(context.Background(), "Fun", 10)
	require.NoError(t, err)
	assert.Contains(t, text, "Fun")
	assert.NotContains(t, text, "03.07.2025")

	text, err = stats.Recent(context.Background(), "Transport", 10)
	require.NoError(t, err)
	assert.Equal(t, expbot.NoDataMessage, text)
}
