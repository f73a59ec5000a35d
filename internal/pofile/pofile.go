// Package pofile reads and writes GNU gettext PO/POT files.
package pofile

import (
	"strings"
)

// Entry is one message block of a PO file.
type Entry struct {
	// TranslatorComments are "# " lines.
	TranslatorComments []string
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" lines, kept one per line as written.
	References []string
	// Flags are the comma-separated values of "#," lines.
	Flags []string
	// PreviousMsgCtxt, PreviousMsgID and PreviousMsgIDPlural are the "#|"
	// values of fuzzy entries.
	PreviousMsgCtxt     string
	PreviousMsgID       string
	PreviousMsgIDPlural string

	MsgCtxt     string
	MsgID       string
	MsgIDPlural string
	// MsgStr holds msgstr, or msgstr[0..n] when MsgIDPlural is set.
	MsgStr []string

	// Obsolete marks "#~" entries.
	Obsolete bool
}

// Field is a single "Name: value" line of the header entry.
type Field struct {
	Name  string
	Value string
}

// File is a parsed PO file.
type File struct {
	// Header is the msgid "" entry, nil when the file has none.
	Header  *Entry
	Entries []*Entry
}

// HeaderFields splits the header msgstr into its fields, in file order.
func (f *File) HeaderFields() []Field {
	if f.Header == nil || len(f.Header.MsgStr) == 0 {
		return nil
	}

	var fields []Field
	for _, line := range strings.Split(f.Header.MsgStr[0], "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		fields = append(fields, Field{
			Name:  strings.TrimSpace(line[:idx]),
			Value: strings.TrimSpace(line[idx+1:]),
		})
	}
	return fields
}

// SetHeaderFields replaces the header msgstr with the given fields.
func (f *File) SetHeaderFields(fields []Field) {
	if f.Header == nil {
		f.Header = &Entry{}
	}

	var b strings.Builder
	for _, field := range fields {
		b.WriteString(field.Name)
		b.WriteString(": ")
		b.WriteString(field.Value)
		b.WriteString("\n")
	}
	f.Header.MsgStr = []string{b.String()}
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unquote decodes a quoted PO string. ok is false when s is not quoted.
func unquote(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), true
}
