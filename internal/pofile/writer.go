package pofile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write serializes the file, header first, entries in slice order.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	first := true
	write := func(e *Entry) {
		if !first {
			bw.WriteString("\n")
		}
		first = false
		writeEntry(bw, e)
	}

	if f.Header != nil {
		write(f.Header)
	}
	for _, e := range f.Entries {
		write(e)
	}

	return bw.Flush()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	for _, c := range e.TranslatorComments {
		if c == "" {
			w.WriteString("#\n")
			continue
		}
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}

	prefix, prevPrefix := "", "#| "
	if e.Obsolete {
		prefix, prevPrefix = "#~ ", "#~| "
	}

	if e.PreviousMsgCtxt != "" {
		fmt.Fprintf(w, "%smsgctxt %s\n", prevPrefix, quote(e.PreviousMsgCtxt))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "%smsgid %s\n", prevPrefix, quote(e.PreviousMsgID))
	}
	if e.PreviousMsgIDPlural != "" {
		fmt.Fprintf(w, "%smsgid_plural %s\n", prevPrefix, quote(e.PreviousMsgIDPlural))
	}

	if e.MsgCtxt != "" {
		writeField(w, prefix, "msgctxt", e.MsgCtxt)
	}
	writeField(w, prefix, "msgid", e.MsgID)

	if e.MsgIDPlural != "" {
		writeField(w, prefix, "msgid_plural", e.MsgIDPlural)
		msgstr := e.MsgStr
		if len(msgstr) == 0 {
			msgstr = []string{"", ""}
		}
		for i, s := range msgstr {
			writeField(w, prefix, fmt.Sprintf("msgstr[%d]", i), s)
		}
		return
	}

	msgstr := ""
	if len(e.MsgStr) > 0 {
		msgstr = e.MsgStr[0]
	}
	writeField(w, prefix, "msgstr", msgstr)
}

// writeField splits values containing newlines over several quoted lines.
func writeField(w *bufio.Writer, prefix, name, value string) {
	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s %s\n", prefix, name, quote(value))
		return
	}

	fmt.Fprintf(w, "%s%s \"\"\n", prefix, name)
	for _, part := range strings.SplitAfter(value, "\n") {
		if part == "" {
			continue
		}
		fmt.Fprintf(w, "%s%s\n", prefix, quote(part))
	}
}
