package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndFetch(t *testing.T) {
	store := New([]string{"Date", "Category", "Amount"})
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, []interface{}{"01.07.2025", "Food", "100"}))
	require.NoError(t, store.AppendRow(ctx, []interface{}{"02.07.2025", "Transport", "50"}))
	assert.Equal(t, 2, store.Len())

	records, err := store.FetchAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Food", records[0]["Category"])
	assert.Equal(t, "02.07.2025", records[1]["Date"])
}

func TestFetchShortRowPadsMissingCells(t *testing.T) {
	store := New([]string{"Date", "Category", "Amount"})
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, []interface{}{"01.07.2025"}))

	records, err := store.FetchAllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0]["Category"])
	assert.Equal(t, "", records[0]["Amount"])
}

func TestFetchColumnSkipsHeader(t *testing.T) {
	store := New(nil)
	store.SetColumn("Config", []string{"Category", "Food", "Transport"})

	values, err := store.FetchColumn(context.Background(), "Config", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Transport"}, values)
}

func TestFetchColumnUnknownSheet(t *testing.T) {
	store := New(nil)
	_, err := store.FetchColumn(context.Background(), "Missing", 1)
	assert.Error(t, err)
}

func TestFetchAllEmpty(t *testing.T) {
	store := New([]string{"Date"})
	records, err := store.FetchAllRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
