package pofile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type field int

const (
	fieldNone field = iota
	fieldMsgCtxt
	fieldMsgID
	fieldMsgIDPlural
	fieldMsgStr
)

type reader struct {
	file    *File
	current *Entry
	field   field
	index   int   // msgstr index for fieldMsgStr
	prev    field // last "#|" keyword, for its continuation lines
}

// Parse reads a PO file. Blank lines separate entries.
func Parse(r io.Reader) (*File, error) {
	rd := &reader{file: &File{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if err := rd.line(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read po file: %w", err)
	}

	rd.flush()
	return rd.file, nil
}

func (rd *reader) entry() *Entry {
	if rd.current == nil {
		rd.current = &Entry{}
	}
	return rd.current
}

func (rd *reader) flush() {
	e := rd.current
	rd.current = nil
	rd.field = fieldNone
	rd.prev = fieldNone
	if e == nil {
		return
	}
	if e.MsgID == "" && e.MsgCtxt == "" && !e.Obsolete && rd.file.Header == nil {
		rd.file.Header = e
		return
	}
	rd.file.Entries = append(rd.file.Entries, e)
}

func (rd *reader) line(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		rd.flush()
		return nil
	}

	if strings.HasPrefix(trimmed, "#~") {
		rest := strings.TrimSpace(trimmed[2:])
		if strings.HasPrefix(rest, "|") {
			if rd.field == fieldMsgStr {
				rd.flush()
			}
			rd.entry().Obsolete = true
			rd.previous(strings.TrimSpace(rest[1:]))
			return nil
		}
		// a new obsolete block may follow the previous one without a blank line
		if rd.field == fieldMsgStr && (strings.HasPrefix(rest, "msgid ") || strings.HasPrefix(rest, "msgctxt ")) {
			rd.flush()
		}
		rd.entry().Obsolete = true
		return rd.keyword(rest)
	}

	if strings.HasPrefix(trimmed, "#") {
		// comments after a msgstr open the next entry
		if rd.field == fieldMsgStr {
			rd.flush()
		}
		rd.comment(trimmed)
		return nil
	}

	if rd.field == fieldMsgStr && (strings.HasPrefix(trimmed, "msgid ") || strings.HasPrefix(trimmed, "msgctxt ")) {
		rd.flush()
	}
	return rd.keyword(trimmed)
}

func (rd *reader) comment(line string) {
	e := rd.entry()
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.Fields(line[2:])...)
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		rd.previous(strings.TrimSpace(line[2:]))
	default:
		text := line[1:]
		text = strings.TrimPrefix(text, " ")
		e.TranslatorComments = append(e.TranslatorComments, text)
	}
}

// previous records a "#|" line, either a keyword with its value or the
// continuation of the last one. Malformed lines are ignored.
func (rd *reader) previous(line string) {
	e := rd.entry()

	if strings.HasPrefix(line, `"`) {
		value, ok := unquote(line)
		if !ok {
			return
		}
		switch rd.prev {
		case fieldMsgCtxt:
			e.PreviousMsgCtxt += value
		case fieldMsgID:
			e.PreviousMsgID += value
		case fieldMsgIDPlural:
			e.PreviousMsgIDPlural += value
		}
		return
	}

	name, rest, ok := strings.Cut(line, " ")
	if !ok {
		return
	}
	value, ok := unquote(strings.TrimSpace(rest))
	if !ok {
		return
	}
	switch name {
	case "msgctxt":
		e.PreviousMsgCtxt, rd.prev = value, fieldMsgCtxt
	case "msgid":
		e.PreviousMsgID, rd.prev = value, fieldMsgID
	case "msgid_plural":
		e.PreviousMsgIDPlural, rd.prev = value, fieldMsgIDPlural
	}
}

func (rd *reader) keyword(line string) error {
	if strings.HasPrefix(line, `"`) {
		return rd.continuation(line)
	}

	name, rest, ok := strings.Cut(line, " ")
	if !ok {
		return fmt.Errorf("unexpected %q", line)
	}
	value, ok := unquote(rest)
	if !ok {
		return fmt.Errorf("%s: malformed string %q", name, rest)
	}

	e := rd.entry()
	switch {
	case name == "msgctxt":
		e.MsgCtxt = value
		rd.field = fieldMsgCtxt
	case name == "msgid":
		e.MsgID = value
		rd.field = fieldMsgID
	case name == "msgid_plural":
		e.MsgIDPlural = value
		rd.field = fieldMsgIDPlural
	case name == "msgstr":
		e.MsgStr = setAt(e.MsgStr, 0, value)
		rd.field, rd.index = fieldMsgStr, 0
	case strings.HasPrefix(name, "msgstr[") && strings.HasSuffix(name, "]"):
		idx, err := strconv.Atoi(name[len("msgstr[") : len(name)-1])
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid msgstr index %q", name)
		}
		e.MsgStr = setAt(e.MsgStr, idx, value)
		rd.field, rd.index = fieldMsgStr, idx
	default:
		return fmt.Errorf("unknown keyword %q", name)
	}
	return nil
}

func (rd *reader) continuation(line string) error {
	value, ok := unquote(line)
	if !ok {
		return fmt.Errorf("malformed string %q", line)
	}

	e := rd.entry()
	switch rd.field {
	case fieldMsgCtxt:
		e.MsgCtxt += value
	case fieldMsgID:
		e.MsgID += value
	case fieldMsgIDPlural:
		e.MsgIDPlural += value
	case fieldMsgStr:
		e.MsgStr[rd.index] += value
	default:
		return fmt.Errorf("string without keyword %q", line)
	}
	return nil
}

func setAt(values []string, idx int, value string) []string {
	for len(values) <= idx {
		values = append(values, "")
	}
	values[idx] = value
	return values
}
