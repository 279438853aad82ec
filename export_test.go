package expenses_bot_test

import (
	"bytes"
	"encoding/csv"
	"io/ioutil"
	"testing"

	expbot "github.com/azatv/expenses-bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	records := []expbot.Record{
		{Date: "01.07.2025", Month: "2025-07", Category: "Food", Amount: 1200.5, Currency: "₽", Spender: "Azat", Comment: "groceries"},
		{Date: "02.07.2025", Month: "2025-07", Category: "Transport", Amount: 320, Currency: "$", Spender: "Liza", Comment: "has,comma"},
	}

	r := expbot.ExportCSV(records)
	defer r.Close()
	raw, err := ioutil.ReadAll(r)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "month", "category", "amount", "currency", "spender", "comment"}, rows[0])
	assert.Equal(t, []string{"01.07.2025", "2025-07", "Food", "1200.5", "₽", "Azat", "groceries"}, rows[1])
	assert.Equal(t, []string{"02.07.2025", "2025-07", "Transport", "320", "$", "Liza", "has,comma"}, rows[2])
}

func TestExportCSVEmpty(t *testing.T) {
	r := expbot.ExportCSV(nil)
	defer r.Close()
	raw, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "date,month,category,amount,currency,spender,comment\n", string(raw))
}
