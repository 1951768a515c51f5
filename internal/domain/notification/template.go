package notification

import "strings"

// Template is an admin-managed message body with {{placeholder}} slots.
type Template struct {
	ID       uint
	Kind     Type
	Subject  string
	Message  string
	IsActive bool
}

// Interpolate substitutes {{key}} placeholders in text with values from data.
// Unknown placeholders are left untouched.
func Interpolate(text string, data map[string]string) string {
	for key, value := range data {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}
