package expenses_bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// CategoryAll is the wildcard category in stats queries.
	CategoryAll = "All"
	// NoDataMessage is the successful empty-result sentinel, not an error.
	NoDataMessage = "No data"
)

// StatsQuery selects records by category and exactly one of Month or
// DateFrom/DateTo (the dialogue controller enforces the exclusivity).
type StatsQuery struct {
	Category        string
	Month           string
	DateFrom        string
	DateTo          string
	GroupByCurrency bool
	ConvertTo       string
}

// ConversionDetail records how one source currency was folded into the
// target: the rate used and the subtotal before and after.
type ConversionDetail struct {
	Rate      float64
	Original  float64
	Converted float64
}

// StatsResult carries the rendered summary plus conversion details
// keyed by source currency, disclosed only on explicit request.
type StatsResult struct {
	Summary string
	Details map[string]ConversionDetail
}

type Stats struct {
	storage Storage
	rates   RateLookup
}

func NewStats(storage Storage, rates RateLookup) *Stats {
	return &Stats{storage: storage, rates: rates}
}

// field aliases: the store may label columns in either of two header
// sets, both accepted transparently
var fieldAliases = map[string][]string{
	"date":     {"Date", "Дата"},
	"month":    {"Month", "Месяц"},
	"category": {"Category", "Категория"},
	"amount":   {"Amount", "Сумма"},
	"currency": {"Currency", "Валюта"},
	"spender":  {"Spender", "Кто"},
	"comment":  {"Comment", "Комментарий"},
}

// resolveField finds which alias of a canonical field the snapshot
// actually uses. Resolved once per load, not per access.
func resolveField(headers map[string]string, field string) (string, bool) {
	for _, alias := range fieldAliases[field] {
		if _, ok := headers[alias]; ok {
			return alias, true
		}
	}
	return "", false
}

// loadRecords snapshots the store and normalizes rows into canonical
// records. Unparseable amounts become zero; a snapshot with rows but no
// amount-equivalent column at all is a hard error.
func (s *Stats) loadRecords(ctx context.Context) ([]Record, error) {
	rows, err := s.storage.FetchAllRecords(ctx)
	if err != nil {
		return nil, NewStoreError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	amountKey, ok := resolveField(rows[0], "amount")
	if !ok {
		return nil, &MissingColumnError{Field: "amount"}
	}
	dateKey, _ := resolveField(rows[0], "date")
	monthKey, _ := resolveField(rows[0], "month")
	categoryKey, _ := resolveField(rows[0], "category")
	currencyKey, _ := resolveField(rows[0], "currency")
	spenderKey, _ := resolveField(rows[0], "spender")
	commentKey, _ := resolveField(rows[0], "comment")

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		amount, ok := ParseAmount(row[amountKey])
		if !ok {
			amount = 0
		}
		records = append(records, Record{
			Date:     row[dateKey],
			Month:    row[monthKey],
			Category: row[categoryKey],
			Amount:   amount,
			Currency: row[currencyKey],
			Spender:  row[spenderKey],
			Comment:  row[commentKey],
		})
	}
	return records, nil
}

func filterPeriod(records []Record, q StatsQuery) []Record {
	result := make([]Record, 0, len(records))
	if q.Month != "" {
		for _, r := range records {
			if r.Month == q.Month {
				result = append(result, r)
			}
		}
		return result
	}

	from, err := time.Parse(DateFormat, q.DateFrom)
	if err != nil {
		return result
	}
	to, err := time.Parse(DateFormat, q.DateTo)
	if err != nil {
		return result
	}
	for _, r := range records {
		d, err := time.Parse(DateFormat, r.Date)
		if err != nil {
			// rows with a broken date are excluded, not errored
			continue
		}
		if !d.Before(from) && !d.After(to) {
			result = append(result, r)
		}
	}
	return result
}

func filterCategory(records []Record, category string) []Record {
	if category == CategoryAll || category == "" {
		return records
	}
	result := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			result = append(result, r)
		}
	}
	return result
}

// convert folds every record into the target currency. All-or-nothing:
// a single unavailable rate aborts the whole computation.
func (s *Stats) convert(ctx context.Context, records []Record, target string) ([]Record, map[string]ConversionDetail, error) {
	originals := make(map[string]float64)
	for _, r := range records {
		if r.Currency != target {
			originals[r.Currency] += r.Amount
		}
	}

	sources := make([]string, 0, len(originals))
	for cur := range originals {
		sources = append(sources, cur)
	}
	sort.Strings(sources)

	rates := make(map[string]float64, len(sources))
	details := make(map[string]ConversionDetail, len(sources))
	for _, cur := range sources {
		rate, err := s.rates.GetRate(ctx, cur, target)
		if err != nil {
			return nil, nil, err
		}
		rates[cur] = rate
		details[cur] = ConversionDetail{
			Rate:      rate,
			Original:  originals[cur],
			Converted: originals[cur] * rate,
		}
	}

	converted := make([]Record, len(records))
	for i, r := range records {
		if r.Currency != target {
			r.Amount *= rates[r.Currency]
			r.Currency = target
		}
		converted[i] = r
	}
	return converted, details, nil
}

func sumByCurrency(records []Record) (map[string]float64, []string) {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.Currency] += r.Amount
	}
	currencies := make([]string, 0, len(totals))
	for cur := range totals {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)
	return totals, currencies
}

// percentOf guards division by zero: a zero grand total reports 0%.
func percentOf(amount, total float64) float64 {
	if total == 0 {
		return 0
	}
	return amount / total * 100
}

// categoryBreakdown renders per-category subtotals with each
// category's share of its currency's grand total.
func categoryBreakdown(records []Record) []string {
	totals, _ := sumByCurrency(records)

	type key struct{ category, currency string }
	sums := make(map[key]float64)
	order := make([]key, 0)
	for _, r := range records {
		k := key{r.Category, r.Currency}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += r.Amount
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].category != order[j].category {
			return order[i].category < order[j].category
		}
		return order[i].currency < order[j].currency
	})

	lines := make([]string, 0, len(order))
	for _, k := range order {
		lines = append(lines, fmt.Sprintf(
			"%s — %s: %s (%.1f%%)",
			k.category, k.currency, formatAmount(sums[k]), percentOf(sums[k], totals[k.currency]),
		))
	}
	return lines
}

// Compute filters, optionally converts and summarizes a fresh snapshot
// of the store. An empty match is a successful "no data" result.
func (s *Stats) Compute(ctx context.Context, q StatsQuery) (*StatsResult, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	records = filterPeriod(records, q)
	records = filterCategory(records, q.Category)
	if len(records) == 0 {
		return &StatsResult{Summary: NoDataMessage, Details: map[string]ConversionDetail{}}, nil
	}

	details := map[string]ConversionDetail{}
	if q.ConvertTo != "" {
		records, details, err = s.convert(ctx, records, q.ConvertTo)
		if err != nil {
			return nil, err
		}
	}

	totals, currencies := sumByCurrency(records)
	lines := make([]string, 0, len(currencies))
	if q.GroupByCurrency || len(currencies) > 1 {
		for _, cur := range currencies {
			lines = append(lines, fmt.Sprintf("%s: %s", cur, formatAmount(totals[cur])))
		}
		if q.GroupByCurrency && (q.Category == CategoryAll || q.Category == "") {
			lines = append(lines, categoryBreakdown(records)...)
		}
	} else {
		cur := currencies[0]
		lines = append(lines, fmt.Sprintf("%s: %s", cur, formatAmount(totals[cur])))
	}

	return &StatsResult{Summary: strings.Join(lines, "\n"), Details: details}, nil
}

// Snapshot returns the normalized full record set, used by the CSV
// export command.
func (s *Stats) Snapshot(ctx context.Context) ([]Record, error) {
	return s.loadRecords(ctx)
}

// Recent renders the last n records for a category (or all), newest
// last, in store order.
func (s *Stats) Recent(ctx context.Context, category string, n int) (string, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return "", err
	}
	records = filterCategory(records, category)
	if len(records) == 0 {
		return NoDataMessage, nil
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		line := fmt.Sprintf("%s — %s, %s %s (%s)", r.Date, r.Category, formatAmount(r.Amount), r.Currency, r.Spender)
		if r.Comment != "" {
			line += " " + r.Comment
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
