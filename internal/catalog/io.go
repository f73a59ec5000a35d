package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"jsxgettext/internal/pofile"

	"golang.org/x/text/transform"
)

// TimestampLayout is the gettext header date format, always in UTC.
const TimestampLayout = "2006-01-02 15:04+0000"

// DefaultCharset is the encoding of every catalog created by this package.
const DefaultCharset = "utf-8"

// headerOrder lists known headers in the order xgettext writes them.
var headerOrder = []string{
	"Project-Id-Version",
	"Report-Msgid-Bugs-To",
	"POT-Creation-Date",
	"PO-Revision-Date",
	"Last-Translator",
	"Language-Team",
	"Language",
	"MIME-Version",
	"Content-Type",
	"Content-Transfer-Encoding",
	"Plural-Forms",
}

// FormatTimestamp renders t for date headers.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// DefaultHeaders builds the header set of a freshly created catalog.
func DefaultHeaders(projectIDVersion, reportBugsTo string, now time.Time) map[string]string {
	if projectIDVersion == "" {
		projectIDVersion = "PACKAGE VERSION"
	}
	return map[string]string{
		"project-id-version":        projectIDVersion,
		"language-team":             "LANGUAGE <LL@li.org>",
		"report-msgid-bugs-to":      reportBugsTo,
		"pot-creation-date":         FormatTimestamp(now),
		"po-revision-date":          "YEAR-MO-DA HO:MI+ZONE",
		"language":                  "",
		"mime-version":              "1.0",
		"content-type":              "text/plain; charset=" + DefaultCharset,
		"content-transfer-encoding": "8bit",
	}
}

// Load reads the catalog stored at path. A missing, unreadable or
// unparseable file yields ErrNoCatalog; a file that parses but cannot be
// represented as a catalog yields ErrCorrupt. Catalogs in another charset
// are decoded to UTF-8.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCatalog, err)
	}
	f, err := pofile.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoCatalog, path, err)
	}

	enc, err := encodingFor(charsetOf(headerValue(f, "content-type")))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}
	if enc != nil {
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
		}
		if f, err = pofile.Parse(bytes.NewReader(decoded)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoCatalog, path, err)
		}
	}

	return FromPO(f)
}

func headerValue(f *pofile.File, name string) string {
	for _, field := range f.HeaderFields() {
		if strings.EqualFold(field.Name, name) {
			return field.Value
		}
	}
	return ""
}

// FromPO converts a parsed PO file.
func FromPO(f *pofile.File) (*Catalog, error) {
	c := &Catalog{
		Charset:      DefaultCharset,
		Headers:      make(map[string]string),
		Translations: map[string]Entries{DefaultContext: {}},
		Obsolete:     make(map[string]Entries),
	}

	for _, field := range f.HeaderFields() {
		c.Headers[strings.ToLower(field.Name)] = field.Value
	}
	if f.Header != nil {
		c.HeaderComment = strings.Join(f.Header.TranslatorComments, "\n")
		c.HeaderFlags = strings.Join(f.Header.Flags, "\n")
	}
	if cs := charsetOf(c.Headers["content-type"]); cs != "" {
		c.Charset = cs
	}

	for _, pe := range f.Entries {
		buckets := c.Translations
		if pe.Obsolete {
			buckets = c.Obsolete
		}
		if buckets[pe.MsgCtxt] == nil {
			buckets[pe.MsgCtxt] = make(Entries)
		}
		bucket := buckets[pe.MsgCtxt]

		if _, dup := bucket[pe.MsgID]; dup {
			if pe.Obsolete {
				continue
			}
			return nil, fmt.Errorf("%w: duplicate msgid %q in context %q", ErrCorrupt, pe.MsgID, pe.MsgCtxt)
		}
		bucket[pe.MsgID] = fromPOEntry(pe)
	}

	return c, nil
}

func fromPOEntry(pe *pofile.Entry) *Entry {
	msgstr := append([]string(nil), pe.MsgStr...)
	if len(msgstr) == 0 {
		msgstr = []string{""}
	}
	return &Entry{
		MsgID:       pe.MsgID,
		MsgIDPlural: pe.MsgIDPlural,
		MsgStr:      msgstr,
		Comments: &Comments{
			Translator:      strings.Join(pe.TranslatorComments, "\n"),
			Extracted:       strings.Join(pe.ExtractedComments, "\n"),
			Reference:       strings.Join(pe.References, "\n"),
			Flag:            strings.Join(pe.Flags, "\n"),
			Previous:        pe.PreviousMsgID,
			PreviousContext: pe.PreviousMsgCtxt,
			PreviousPlural:  pe.PreviousMsgIDPlural,
		},
	}
}

func charsetOf(contentType string) string {
	for _, param := range strings.Split(contentType, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), "charset") {
			return strings.ToLower(strings.TrimSpace(v))
		}
	}
	return ""
}

// ToPO converts the catalog into a PO file. Entries of each context are
// ordered by their first reference, then by msgid.
func (c *Catalog) ToPO() *pofile.File {
	f := &pofile.File{}
	f.SetHeaderFields(c.headerFields())
	f.Header.TranslatorComments = lines(c.HeaderComment)
	f.Header.Flags = lines(c.HeaderFlags)

	for _, ctx := range sortedContexts(c.Translations) {
		for _, e := range sortedEntries(c.Translations[ctx]) {
			f.Entries = append(f.Entries, toPOEntry(ctx, e, false))
		}
	}
	for _, ctx := range sortedContexts(c.Obsolete) {
		for _, e := range sortedEntries(c.Obsolete[ctx]) {
			f.Entries = append(f.Entries, toPOEntry(ctx, e, true))
		}
	}
	return f
}

// Write serializes the catalog in PO format, encoded in its charset.
func (c *Catalog) Write(w io.Writer) error {
	enc, err := encodingFor(c.Charset)
	if err != nil {
		return err
	}
	if enc == nil {
		return c.ToPO().Write(w)
	}

	tw := transform.NewWriter(w, enc.NewEncoder())
	if err := c.ToPO().Write(tw); err != nil {
		return fmt.Errorf("encode catalog as %s: %w", c.Charset, err)
	}
	return tw.Close()
}

// WriteFile serializes the catalog to path.
func (c *Catalog) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	if err := c.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return out.Close()
}

func (c *Catalog) headerFields() []pofile.Field {
	known := make(map[string]bool, len(headerOrder))
	var fields []pofile.Field
	for _, name := range headerOrder {
		key := strings.ToLower(name)
		known[key] = true
		if v, ok := c.Headers[key]; ok {
			fields = append(fields, pofile.Field{Name: name, Value: v})
		}
	}

	var extra []string
	for key := range c.Headers {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fields = append(fields, pofile.Field{Name: canonicalHeader(key), Value: c.Headers[key]})
	}
	return fields
}

func canonicalHeader(key string) string {
	parts := strings.Split(key, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}

func toPOEntry(ctx string, e *Entry, obsolete bool) *pofile.Entry {
	pe := &pofile.Entry{
		MsgCtxt:     ctx,
		MsgID:       e.MsgID,
		MsgIDPlural: e.MsgIDPlural,
		MsgStr:      append([]string(nil), e.MsgStr...),
		Obsolete:    obsolete,
	}
	if e.Comments != nil {
		pe.TranslatorComments = lines(e.Comments.Translator)
		pe.ExtractedComments = lines(e.Comments.Extracted)
		pe.References = lines(e.Comments.Reference)
		pe.Flags = lines(e.Comments.Flag)
		pe.PreviousMsgCtxt = e.Comments.PreviousContext
		pe.PreviousMsgID = e.Comments.Previous
		pe.PreviousMsgIDPlural = e.Comments.PreviousPlural
	}
	return pe
}

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func sortedContexts(buckets map[string]Entries) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type position struct {
	file string
	line int
	ok   bool
}

func firstReference(e *Entry) position {
	if e.Comments == nil {
		return position{}
	}
	refs := strings.Fields(e.Comments.Reference)
	if len(refs) == 0 {
		return position{}
	}
	ref := refs[0]
	idx := strings.LastIndex(ref, ":")
	if idx < 0 {
		return position{file: ref, ok: true}
	}
	line, _ := strconv.Atoi(ref[idx+1:])
	return position{file: ref[:idx], line: line, ok: true}
}

func sortedEntries(entries Entries) []*Entry {
	list := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}

	sort.SliceStable(list, func(i, j int) bool {
		pi, pj := firstReference(list[i]), firstReference(list[j])
		if pi.ok != pj.ok {
			return pi.ok
		}
		if pi.file != pj.file {
			return pi.file < pj.file
		}
		if pi.line != pj.line {
			return pi.line < pj.line
		}
		return list[i].MsgID < list[j].MsgID
	})
	return list
}
