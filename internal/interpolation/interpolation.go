package interpolation

import (
	"regexp"
)

// FormatFlag is the gettext flag for messages containing printf-style directives.
const FormatFlag = "javascript-format"

// Placeholder is a printf-style directive such as %s, %d or %1$s found in a
// message.
type Placeholder struct {
	Value string
	Start int
	End   int
}

var printfPattern = regexp.MustCompile(`%(?:[0-9]+\$)?[-+0#]*[0-9]*(?:\.[0-9]+)?[sdifjoxXeEgGcb%]`)

// Detect returns the directives of text in order of position.
func Detect(text string) []Placeholder {
	var found []Placeholder
	for _, loc := range printfPattern.FindAllStringIndex(text, -1) {
		found = append(found, Placeholder{
			Value: text[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return found
}

// Flag returns FormatFlag when any text holds a directive other than the
// escaped percent sign, and "" otherwise.
func Flag(texts ...string) string {
	for _, text := range texts {
		for _, p := range Detect(text) {
			if p.Value != "%%" {
				return FormatFlag
			}
		}
	}
	return ""
}
