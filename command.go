package expenses_bot

import (
	"regexp"
	"strings"

	"github.com/go-telegram-bot-api/telegram-bot-api"
)

var (
	reHelp   = regexp.MustCompile(`^/help`)
	reStart  = regexp.MustCompile(`^/start`)
	reCancel = regexp.MustCompile(`^/(cancel|stop)\b`)
	reReload = regexp.MustCompile(`^/reloadcats`)
	reCats   = regexp.MustCompile(`^/cats`)
	reTest   = regexp.MustCompile(`^/testsheet`)
	reExport = regexp.MustCompile(`^/export`)
	// /whoami [display name] - show or register the caller's name
	reWhoami = regexp.MustCompile(`^/whoami(\s+(?P<name>.+))?$`)
)

type Command interface{}

type HelpCommand struct{}

type StartCommand struct{}

type CancelCommand struct{}

type ReloadCategoriesCommand struct{}

type ListCategoriesCommand struct{}

type TestSheetCommand struct{}

type ExportCommand struct{}

type WhoamiCommand struct {
	Name string
}

// ParseCommand recognizes slash commands; any other text is not a
// command and flows into the dialogue controller.
func ParseCommand(message *tgbotapi.Message) (Command, error) {
	s := strings.TrimSpace(message.Text)
	if !strings.HasPrefix(s, "/") {
		return nil, nil
	}
	if reHelp.MatchString(s) {
		return &HelpCommand{}, nil
	}
	if reStart.MatchString(s) {
		return &StartCommand{}, nil
	}
	if reCancel.MatchString(s) {
		return &CancelCommand{}, nil
	}
	if reReload.MatchString(s) {
		return &ReloadCategoriesCommand{}, nil
	}
	if reCats.MatchString(s) {
		return &ListCategoriesCommand{}, nil
	}
	if reTest.MatchString(s) {
		return &TestSheetCommand{}, nil
	}
	if reExport.MatchString(s) {
		return &ExportCommand{}, nil
	}
	if m, ok := getMatches(reWhoami, s); ok {
		return &WhoamiCommand{Name: strings.TrimSpace(m["name"])}, nil
	}
	return nil, &UnknownCommandError{Command: s}
}
