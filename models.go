package expenses_bot

const (
	// DateFormat is the fixed storage format for record dates.
	DateFormat = "02.01.2006"
	// MonthFormat is the derived month key format, e.g. "2025-07".
	MonthFormat = "2006-01"
)

// Record is one appended expense row. Once written it is never updated
// or deleted; Month is always derived from Date at commit time.
type Record struct {
	Date     string
	Month    string
	Category string
	Amount   float64
	Currency string
	Spender  string
	Comment  string
}

// Fields returns the record in store column order:
// date, month, category, amount, currency, spender, comment.
func (r *Record) Fields() []interface{} {
	return []interface{}{
		r.Date,
		r.Month,
		r.Category,
		formatAmountRaw(r.Amount),
		r.Currency,
		r.Spender,
		r.Comment,
	}
}

// Draft accumulates one in-flight flow for a single session. It is
// transient: cleared on commit, cancel or "to start", lost on restart.
type Draft struct {
	Category string
	Amount   float64
	Currency string
	Comment  string

	StatCategory    string
	Month           string
	DateFrom        string
	DateTo          string
	GroupByCurrency bool
	ConvertTo       string

	// conversion details held back until ShowDetailsPrompt
	Details map[string]ConversionDetail
}
