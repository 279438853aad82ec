package expenses_bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// State is an explicit dialogue position. Every session is in exactly
// one state; ChooseAction is the initial and terminal state.
type State int

const (
	ChooseAction State = iota
	ChooseCategory
	EnterAmount
	ChooseCurrency
	EnterComment
	ChooseDate
	EnterCustomDate
	ChooseStatScope
	ChooseStatType
	EnterPeriodStart
	EnterPeriodEnd
	ChooseMonth
	ChooseCurrencyGrouping
	ChooseConvertCurrency
	ShowDetailsPrompt
)

var stateNames = map[State]string{
	ChooseAction:           "choose_action",
	ChooseCategory:         "choose_category",
	EnterAmount:            "enter_amount",
	ChooseCurrency:         "choose_currency",
	EnterComment:           "enter_comment",
	ChooseDate:             "choose_date",
	EnterCustomDate:        "enter_custom_date",
	ChooseStatScope:        "choose_stat_scope",
	ChooseStatType:         "choose_stat_type",
	EnterPeriodStart:       "enter_period_start",
	EnterPeriodEnd:         "enter_period_end",
	ChooseMonth:            "choose_month",
	ChooseCurrencyGrouping: "choose_currency_grouping",
	ChooseConvertCurrency:  "choose_convert_currency",
	ShowDetailsPrompt:      "show_details_prompt",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// button labels and inline callback payloads
const (
	labelAddExpense = "Add expense"
	labelShowStats  = "Show stats"
	labelToStart    = "To start"
	labelCancel     = "Cancel"
	labelSkip       = "Skip"
	labelToday      = "Today"
	labelYesterday  = "Yesterday"
	labelCustomDate = "Custom date"
	labelRecent     = "Last 10 records"
	labelPeriod     = "Period"
	labelMonth      = "Month"
	labelByCurrency = "By currency"
	labelTotalOnly  = "Total only"
	labelNoConvert  = "No conversion"
	labelDetails    = "Show details"

	dataToStart   = "to_start"
	dataSkip      = "skip"
	dataToday     = "today"
	dataYesterday = "yesterday"
	dataCustom    = "custom"
	dataDetails   = "details"
)

// Input is one user-supplied token: either typed/button text or an
// inline callback payload.
type Input struct {
	Text string
	Data string
}

// Button is one keyboard entry; a non-empty Data makes it inline.
type Button struct {
	Label string
	Data  string
}

// Prompt is one outbound message with an optional keyboard.
type Prompt struct {
	Text    string
	Buttons [][]Button
}

// Inline reports whether the prompt keyboard is inline.
func (p *Prompt) Inline() bool {
	for _, row := range p.Buttons {
		for _, b := range row {
			if b.Data != "" {
				return true
			}
		}
	}
	return false
}

// action is the closed set of recognized control tokens. Every input
// maps to exactly one action; unrecognized input is actionText and
// the raw text is consumed by the current state.
type action int

const (
	actionText action = iota
	actionToStart
	actionAddExpense
	actionShowStats
	actionSkip
	actionToday
	actionYesterday
	actionCustomDate
	actionRecent
	actionPeriod
	actionMonth
	actionGroupByCurrency
	actionTotalOnly
	actionNoConvert
	actionShowDetails
)

func parseAction(in Input) action {
	switch in.Data {
	case dataToStart:
		return actionToStart
	case dataSkip:
		return actionSkip
	case dataToday:
		return actionToday
	case dataYesterday:
		return actionYesterday
	case dataCustom:
		return actionCustomDate
	case dataDetails:
		return actionShowDetails
	}
	switch strings.TrimSpace(in.Text) {
	case labelToStart, labelCancel:
		return actionToStart
	case labelAddExpense:
		return actionAddExpense
	case labelShowStats:
		return actionShowStats
	case labelSkip:
		return actionSkip
	case labelToday:
		return actionToday
	case labelYesterday:
		return actionYesterday
	case labelCustomDate:
		return actionCustomDate
	case labelRecent:
		return actionRecent
	case labelPeriod:
		return actionPeriod
	case labelMonth:
		return actionMonth
	case labelByCurrency:
		return actionGroupByCurrency
	case labelTotalOnly:
		return actionTotalOnly
	case labelNoConvert:
		return actionNoConvert
	case labelDetails:
		return actionShowDetails
	}
	return actionText
}

// Flow is the dialogue controller. It owns no transport: it consumes
// one input per call and answers with prompts, mutating the session.
type Flow struct {
	storage    Storage
	stats      *Stats
	categories *Categories
	users      *Users
	currencies []string
	logger     *logrus.Logger
	// Now is the process clock, replaceable in tests.
	Now func() time.Time
}

func NewFlow(storage Storage, stats *Stats, categories *Categories, users *Users, currencies []string, logger *logrus.Logger) *Flow {
	return &Flow{
		storage:    storage,
		stats:      stats,
		categories: categories,
		users:      users,
		currencies: currencies,
		logger:     logger,
		Now:        time.Now,
	}
}

// Handle advances one session by one input. The to-start override is
// checked before any state logic and wins from every state.
func (f *Flow) Handle(ctx context.Context, sess *Session, in Input) []Prompt {
	act := parseAction(in)
	if act == actionToStart {
		sess.Draft = Draft{}
		sess.State = ChooseAction
		return []Prompt{f.mainMenu()}
	}

	switch sess.State {
	case ChooseAction:
		return f.handleChooseAction(sess, act)
	case ChooseCategory:
		return f.handleChooseCategory(sess, in)
	case EnterAmount:
		return f.handleEnterAmount(sess, in)
	case ChooseCurrency:
		return f.handleChooseCurrency(sess, in)
	case EnterComment:
		return f.handleEnterComment(sess, act, in)
	case ChooseDate:
		return f.handleChooseDate(ctx, sess, act)
	case EnterCustomDate:
		return f.handleEnterCustomDate(ctx, sess, in)
	case ChooseStatScope:
		return f.handleChooseStatScope(sess, in)
	case ChooseStatType:
		return f.handleChooseStatType(ctx, sess, act)
	case EnterPeriodStart:
		return f.handleEnterPeriodStart(sess, in)
	case EnterPeriodEnd:
		return f.handleEnterPeriodEnd(sess, in)
	case ChooseMonth:
		return f.handleChooseMonth(sess, in)
	case ChooseCurrencyGrouping:
		return f.handleChooseCurrencyGrouping(sess, act)
	case ChooseConvertCurrency:
		return f.handleChooseConvertCurrency(ctx, sess, act, in)
	case ShowDetailsPrompt:
		return f.handleShowDetailsPrompt(sess, act)
	}

	f.logger.WithField("state", sess.State).Warn("session in unknown state, resetting")
	sess.Draft = Draft{}
	sess.State = ChooseAction
	return []Prompt{f.mainMenu()}
}

// Start resets the session and shows the main menu.
func (f *Flow) Start(sess *Session) []Prompt {
	sess.Draft = Draft{}
	sess.State = ChooseAction
	return []Prompt{f.mainMenu()}
}

func (f *Flow) mainMenu() Prompt {
	return Prompt{
		Text: "What shall we do?",
		Buttons: [][]Button{
			{{Label: labelAddExpense}, {Label: labelShowStats}},
			{{Label: labelCancel}},
		},
	}
}

// fail converts a flow failure into a user-visible message and returns
// the session to the initial state. No automatic retry.
func (f *Flow) fail(sess *Session, err error) []Prompt {
	f.logger.WithFields(logrus.Fields{
		"chat":  sess.ChatID,
		"state": sess.State,
	}).WithError(err).Error("flow failed")
	text := "sorry, internal error :("
	if s, ok := err.(fmt.Stringer); ok {
		text = s.String()
	}
	sess.Draft = Draft{}
	sess.State = ChooseAction
	return []Prompt{{Text: text}, f.mainMenu()}
}

func columnButtons(labels []string) [][]Button {
	rows := make([][]Button, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []Button{{Label: l}})
	}
	return rows
}

func (f *Flow) handleChooseAction(sess *Session, act action) []Prompt {
	switch act {
	case actionAddExpense:
		sess.State = ChooseCategory
		return []Prompt{{Text: "Choose a category:", Buttons: columnButtons(f.categories.List())}}
	case actionShowStats:
		sess.State = ChooseStatScope
		labels := append([]string{CategoryAll}, f.categories.List()...)
		return []Prompt{{Text: "Which category?", Buttons: columnButtons(labels)}}
	default:
		return []Prompt{f.mainMenu()}
	}
}

func (f *Flow) handleChooseCategory(sess *Session, in Input) []Prompt {
	// accepted as given: the configured set may have changed since the
	// buttons were rendered
	sess.Draft.Category = strings.TrimSpace(in.Text)
	sess.State = EnterAmount
	return []Prompt{{Text: "Enter the amount:"}}
}

func (f *Flow) handleEnterAmount(sess *Session, in Input) []Prompt {
	amount, ok := ParseAmount(in.Text)
	if !ok {
		return []Prompt{{Text: "That is not a number, try again:"}}
	}
	sess.Draft.Amount = amount
	sess.State = ChooseCurrency
	return []Prompt{{Text: "Currency?", Buttons: columnButtons(f.currencies)}}
}

func (f *Flow) handleChooseCurrency(sess *Session, in Input) []Prompt {
	sess.Draft.Currency = strings.TrimSpace(in.Text)
	sess.State = EnterComment
	return []Prompt{{
		Text:    "Add a comment or press Skip",
		Buttons: [][]Button{{{Label: labelSkip, Data: dataSkip}}},
	}}
}

func (f *Flow) handleEnterComment(sess *Session, act action, in Input) []Prompt {
	if act == actionSkip {
		sess.Draft.Comment = ""
	} else {
		sess.Draft.Comment = strings.TrimSpace(in.Text)
	}
	sess.State = ChooseDate
	return []Prompt{f.datePrompt()}
}

func (f *Flow) datePrompt() Prompt {
	return Prompt{
		Text: "Expense date:",
		Buttons: [][]Button{{
			{Label: labelToday, Data: dataToday},
			{Label: labelYesterday, Data: dataYesterday},
			{Label: labelCustomDate, Data: dataCustom},
		}},
	}
}

func (f *Flow) handleChooseDate(ctx context.Context, sess *Session, act action) []Prompt {
	switch act {
	case actionToday:
		return f.commit(ctx, sess, f.Now().Format(DateFormat))
	case actionYesterday:
		return f.commit(ctx, sess, f.Now().AddDate(0, 0, -1).Format(DateFormat))
	case actionCustomDate:
		sess.State = EnterCustomDate
		return []Prompt{{Text: "Enter the date (dd.mm.yyyy):"}}
	default:
		return []Prompt{f.datePrompt()}
	}
}

func (f *Flow) handleEnterCustomDate(ctx context.Context, sess *Session, in Input) []Prompt {
	date, ok := ParseHumanDate(in.Text, f.Now())
	if !ok {
		return []Prompt{{Text: "Cannot parse that date, try 13.07.2025"}}
	}
	return f.commit(ctx, sess, date)
}

// commit is the single store mutation of the add flow: one appended
// row, a confirmation, then back to the start.
func (f *Flow) commit(ctx context.Context, sess *Session, date string) []Prompt {
	month, err := MonthOf(date)
	if err != nil {
		return f.fail(sess, err)
	}
	record := Record{
		Date:     date,
		Month:    month,
		Category: sess.Draft.Category,
		Amount:   sess.Draft.Amount,
		Currency: sess.Draft.Currency,
		Spender:  f.users.DisplayName(sess.UserID, sess.Handle),
		Comment:  sess.Draft.Comment,
	}
	if err := f.storage.AppendRow(ctx, record.Fields()); err != nil {
		return f.fail(sess, NewStoreError(err))
	}

	confirmation := fmt.Sprintf(
		"Recorded: %s — %s %s on %s",
		record.Category, formatAmount(record.Amount), record.Currency, record.Date,
	)
	sess.Draft = Draft{}
	sess.State = ChooseAction
	return []Prompt{{Text: confirmation}, f.mainMenu()}
}

func (f *Flow) handleChooseStatScope(sess *Session, in Input) []Prompt {
	sess.Draft.StatCategory = strings.TrimSpace(in.Text)
	sess.State = ChooseStatType
	return []Prompt{{
		Text:    "What to show?",
		Buttons: columnButtons([]string{labelRecent, labelPeriod, labelMonth}),
	}}
}

const recentCount = 10

func (f *Flow) handleChooseStatType(ctx context.Context, sess *Session, act action) []Prompt {
	switch act {
	case actionRecent:
		// shortcut: responds immediately, two prompts, no extra steps
		text, err := f.stats.Recent(ctx, sess.Draft.StatCategory, recentCount)
		if err != nil {
			return f.fail(sess, err)
		}
		sess.Draft = Draft{}
		sess.State = ChooseAction
		return []Prompt{{Text: text}, f.mainMenu()}
	case actionPeriod:
		sess.State = EnterPeriodStart
		return []Prompt{{Text: "Start date (dd.mm.yyyy):"}}
	case actionMonth:
		sess.State = ChooseMonth
		return []Prompt{{Text: "Which month?", Buttons: columnButtons(LastMonths(f.Now(), 12))}}
	default:
		return []Prompt{{
			Text:    "What to show?",
			Buttons: columnButtons([]string{labelRecent, labelPeriod, labelMonth}),
		}}
	}
}

func (f *Flow) handleEnterPeriodStart(sess *Session, in Input) []Prompt {
	date, ok := ParseHumanDate(in.Text, f.Now())
	if !ok {
		return []Prompt{{Text: "Cannot parse that date, try 01.07.2025"}}
	}
	sess.Draft.DateFrom = date
	sess.State = EnterPeriodEnd
	return []Prompt{{Text: "End date (dd.mm.yyyy):"}}
}

func (f *Flow) handleEnterPeriodEnd(sess *Session, in Input) []Prompt {
	date, ok := ParseHumanDate(in.Text, f.Now())
	if !ok {
		return []Prompt{{Text: "Cannot parse that date, try 31.07.2025"}}
	}
	sess.Draft.DateTo = date
	return f.groupingPrompt(sess)
}

func (f *Flow) handleChooseMonth(sess *Session, in Input) []Prompt {
	sess.Draft.Month = strings.TrimSpace(in.Text)
	return f.groupingPrompt(sess)
}

func (f *Flow) groupingPrompt(sess *Session) []Prompt {
	sess.State = ChooseCurrencyGrouping
	return []Prompt{{
		Text:    "How to sum it up?",
		Buttons: columnButtons([]string{labelByCurrency, labelTotalOnly}),
	}}
}

func (f *Flow) handleChooseCurrencyGrouping(sess *Session, act action) []Prompt {
	switch act {
	case actionGroupByCurrency:
		sess.Draft.GroupByCurrency = true
	case actionTotalOnly:
		sess.Draft.GroupByCurrency = false
	default:
		return []Prompt{{
			Text:    "How to sum it up?",
			Buttons: columnButtons([]string{labelByCurrency, labelTotalOnly}),
		}}
	}
	sess.State = ChooseConvertCurrency
	labels := append([]string{labelNoConvert}, f.currencies...)
	return []Prompt{{Text: "Convert to a single currency?", Buttons: columnButtons(labels)}}
}

func (f *Flow) handleChooseConvertCurrency(ctx context.Context, sess *Session, act action, in Input) []Prompt {
	if act == actionNoConvert {
		sess.Draft.ConvertTo = ""
	} else {
		sess.Draft.ConvertTo = strings.TrimSpace(in.Text)
	}

	d := &sess.Draft
	query := StatsQuery{
		Category:        d.StatCategory,
		Month:           d.Month,
		DateFrom:        d.DateFrom,
		DateTo:          d.DateTo,
		GroupByCurrency: d.GroupByCurrency,
		ConvertTo:       d.ConvertTo,
	}
	result, err := f.stats.Compute(ctx, query)
	if err != nil {
		return f.fail(sess, err)
	}

	summary := fmt.Sprintf("Stats for %s, category %s:\n%s", describePeriod(query), d.StatCategory, result.Summary)
	if len(result.Details) > 0 {
		sess.Draft.Details = result.Details
		sess.State = ShowDetailsPrompt
		return []Prompt{{
			Text: summary,
			Buttons: [][]Button{{
				{Label: labelDetails, Data: dataDetails},
				{Label: labelToStart, Data: dataToStart},
			}},
		}}
	}
	sess.Draft = Draft{}
	sess.State = ChooseAction
	return []Prompt{{Text: summary}, f.mainMenu()}
}

func describePeriod(q StatsQuery) string {
	if q.Month != "" {
		return q.Month
	}
	return fmt.Sprintf("%s — %s", q.DateFrom, q.DateTo)
}

func (f *Flow) handleShowDetailsPrompt(sess *Session, act action) []Prompt {
	details := sess.Draft.Details
	sess.Draft = Draft{}
	sess.State = ChooseAction
	if act != actionShowDetails || len(details) == 0 {
		return []Prompt{f.mainMenu()}
	}

	currencies := make([]string, 0, len(details))
	for cur := range details {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)
	lines := make([]string, 0, len(currencies))
	for _, cur := range currencies {
		d := details[cur]
		lines = append(lines, fmt.Sprintf(
			"%s: rate %s, %s → %s",
			cur, formatAmountRaw(d.Rate), formatAmount(d.Original), formatAmount(d.Converted),
		))
	}
	return []Prompt{{Text: strings.Join(lines, "\n")}, f.mainMenu()}
}
