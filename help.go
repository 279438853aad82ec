package expenses_bot

import "strings"

var manual = `
/start — restart the dialogue
/cancel — drop the current flow and return to the menu
/cats — list configured categories
/reloadcats — reload categories from the sheet
/export — download all records as CSV
/testsheet — check spreadsheet connectivity
/whoami [name] — show or set your display name
`

func init() {
	manual = strings.TrimSpace(manual)
}
