package expenses_bot_test

import (
	"context"
	"testing"
	"time"

	expbot "github.com/azatv/expenses-bot"
	"github.com/azatv/expenses-bot/storage/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var (
	englishHeaders = []string{"Date", "Month", "Category", "Amount", "Currency", "Spender", "Comment"}
	russianHeaders = []string{"Дата", "Месяц", "Категория", "Сумма", "Валюта", "Кто", "Комментарий"}

	testNow = time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)
)

type fakeRates struct {
	rates map[string]float64
}

func (f *fakeRates) GetRate(_ context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}
	if rate, ok := f.rates[from+">"+to]; ok {
		return rate, nil
	}
	return 0, &expbot.RateUnavailableError{From: from, To: to}
}

func seed(t *testing.T, store *memory.Storage, records ...expbot.Record) {
	t.Helper()
	for _, r := range records {
		if r.Month == "" {
			month, err := expbot.MonthOf(r.Date)
			require.NoError(t, err)
			r.Month = month
		}
		require.NoError(t, store.AppendRow(context.Background(), r.Fields()))
	}
}

func newTestFlow(store *memory.Storage, rates expbot.RateLookup, users *expbot.Users) *expbot.Flow {
	logger := expbot.NewLogger(logrus.ErrorLevel, "test")
	categories := expbot.NewCategories(store, "Config", expbot.DefaultCategories, logger)
	stats := expbot.NewStats(store, rates)
	if users == nil {
		users = expbot.NewUsers(nil)
	}
	flow := expbot.NewFlow(store, stats, categories, users, []string{"₽", "€", "$"}, logger)
	flow.Now = func() time.Time { return testNow }
	return flow
}
