package utils

import "github.com/microcosm-cc/bluemonday"

var notesPolicy = bluemonday.StrictPolicy()

// Sanitize strips HTML from free-text input. Check-in notes are plain text;
// anything with markup in it loses the markup before persistence.
func Sanitize(input string) string {
	return notesPolicy.Sanitize(input)
}
