package parser

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrSyntax is returned when a source file does not parse.
	ErrSyntax = errors.New("syntax error")
	// ErrUnparseableArgument is returned in strict mode for a translation
	// call whose message argument is not a static string.
	ErrUnparseableArgument = errors.New("could not parse translation argument")
)

// DefaultKeywords are the translation functions recognized when no keyword
// list is configured.
var DefaultKeywords = []string{"gettext", "ngettext"}

// DefaultCommentTag marks developer comments meant for translators.
const DefaultCommentTag = "L10n:"

// Options configure the extraction of a single file.
type Options struct {
	// Keywords are the function names treated as translation calls.
	Keywords []string
	// CommentTag selects the comments attached as extracted comments.
	// Nil attaches no comments.
	CommentTag *regexp.Regexp
	// Strict turns non-literal message arguments into errors.
	Strict bool
}

// CommentPattern matches comments starting with tag, or "///" doc comments.
func CommentPattern(tag string) *regexp.Regexp {
	if tag == "" {
		tag = DefaultCommentTag
	}
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(tag) + `|^/`)
}

// ArgumentError describes a translation call whose argument could not be
// reduced to a string.
type ArgumentError struct {
	File     string
	Line     int
	Function string
	// Argument is the syntax tree of the offending argument.
	Argument string
	// Source is the argument's source text.
	Source string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s:%d: %v in call to %s: %s %s", e.File, e.Line, ErrUnparseableArgument, e.Function, e.Source, e.Argument)
}

func (e *ArgumentError) Unwrap() error {
	return ErrUnparseableArgument
}
