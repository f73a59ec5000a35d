package parser

import (
	"context"
	"errors"
	"testing"

	"jsxgettext/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() Options {
	return Options{
		Keywords:   []string{"gettext", "ngettext"},
		CommentTag: CommentPattern(DefaultCommentTag),
	}
}

func extract(t *testing.T, src string, opts Options) catalog.Entries {
	t.Helper()
	entries, err := Extract(context.Background(), "src/app.js", []byte(src), opts)
	require.NoError(t, err)
	return entries
}

func TestExtractSingular(t *testing.T) {
	entries := extract(t, `var msg = gettext("Hello %s");`, defaultOptions())

	require.Len(t, entries, 1)
	assert.Equal(t, &catalog.Entry{
		MsgID:  "Hello %s",
		MsgStr: []string{""},
		Comments: &catalog.Comments{
			Reference: "src/app.js:1",
			Flag:      "javascript-format",
		},
	}, entries["Hello %s"])
}

func TestExtractPlural(t *testing.T) {
	src := `
var label = ngettext("One file", "%d files", count);
var odd = ngettext("Lonely", name, count);
`
	entries := extract(t, src, defaultOptions())

	require.Len(t, entries, 2)

	plural := entries["One file"]
	require.NotNil(t, plural)
	assert.Equal(t, "%d files", plural.MsgIDPlural)
	assert.Equal(t, []string{"", ""}, plural.MsgStr)
	assert.Equal(t, "src/app.js:2", plural.Comments.Reference)
	assert.Equal(t, "javascript-format", plural.Comments.Flag)

	// a non-literal plural degrades to a singular message
	singular := entries["Lonely"]
	require.NotNil(t, singular)
	assert.Equal(t, "", singular.MsgIDPlural)
	assert.Equal(t, []string{""}, singular.MsgStr)
}

func TestExtractCallForms(t *testing.T) {
	src := `
gettext("plain");
i18n.gettext("member");
gettext.call(this, "call");
gettext("con" + "cat" + 'enated');
log(gettext("nested"));
other("ignored");
gettext(variable);
`
	entries := extract(t, src, defaultOptions())

	assert.ElementsMatch(t,
		[]string{"plain", "member", "call", "concatenated", "nested"},
		keys(entries))
	assert.Equal(t, "src/app.js:4", entries["call"].Comments.Reference)
}

func TestExtractMarkup(t *testing.T) {
	src := `function View(props) {
  return (
    <>
      <input placeholder={gettext("Search")} title="static" />
      <p className="note">
        Plain text
        {gettext("Child")}
      </p>
      <Button {...{label: gettext("Spread")}} />
      <div>{/* empty */}</div>
    </>
  );
}
`
	entries := extract(t, src, defaultOptions())

	assert.ElementsMatch(t, []string{"Search", "Child", "Spread"}, keys(entries))
	assert.Equal(t, "src/app.js:4", entries["Search"].Comments.Reference)
	assert.Equal(t, "src/app.js:7", entries["Child"].Comments.Reference)
	assert.Equal(t, "src/app.js:9", entries["Spread"].Comments.Reference)
}

func TestExtractComments(t *testing.T) {
	src := `// L10n: greeting on the home page
gettext("Welcome");

// an ordinary comment
gettext("Untagged");

/// doc style note
gettext("Doc");

gettext("Inline"); /* L10n: same line */

// L10n: too far away

gettext("Distant");

// L10n: first
gettext("Both"); // L10n: second

/* L10n: spans
     two lines */ gettext("Block");
`
	entries := extract(t, src, defaultOptions())

	tests := []struct {
		msgid string
		want  string
	}{
		{msgid: "Welcome", want: "L10n: greeting on the home page"},
		{msgid: "Untagged", want: ""},
		{msgid: "Doc", want: "doc style note"},
		{msgid: "Inline", want: "L10n: same line"},
		{msgid: "Distant", want: ""},
		{msgid: "Both", want: "L10n: first\nL10n: second"},
		{msgid: "Block", want: "L10n: spans\ntwo lines"},
	}

	for _, tt := range tests {
		t.Run(tt.msgid, func(t *testing.T) {
			e := entries[tt.msgid]
			require.NotNil(t, e)
			assert.Equal(t, tt.want, e.Comments.Extracted)
		})
	}
}

func TestExtractCommentTag(t *testing.T) {
	src := `// TRANSLATORS: custom tag
gettext("Custom");
// L10n: default tag
gettext("Default");
`
	opts := defaultOptions()
	opts.CommentTag = CommentPattern("TRANSLATORS:")
	entries := extract(t, src, opts)

	assert.Equal(t, "TRANSLATORS: custom tag", entries["Custom"].Comments.Extracted)
	assert.Equal(t, "", entries["Default"].Comments.Extracted)

	opts.CommentTag = nil
	entries = extract(t, src, opts)
	assert.Equal(t, "", entries["Custom"].Comments.Extracted)
}

func TestExtractMarkupComment(t *testing.T) {
	src := `const el = (
  <p>
    {/* L10n: inside markup */}
    {gettext("Marked")}
  </p>
);
`
	entries := extract(t, src, defaultOptions())
	require.Contains(t, entries, "Marked")
	assert.Equal(t, "L10n: inside markup", entries["Marked"].Comments.Extracted)
}

func TestExtractMergesDuplicatesWithinFile(t *testing.T) {
	src := `// L10n: first use
gettext("Save");
gettext("Other");
// L10n: second use
gettext("Save");
`
	entries := extract(t, src, defaultOptions())

	require.Len(t, entries, 2)
	save := entries["Save"]
	assert.Equal(t, "src/app.js:2\nsrc/app.js:5", save.Comments.Reference)
	assert.Equal(t, "L10n: first use\nL10n: second use", save.Comments.Extracted)
}

func TestExtractKeywords(t *testing.T) {
	src := `
_("underscore");
n_("apple", "apples", n);
gettext("not configured");
`
	opts := defaultOptions()
	opts.Keywords = []string{"_", "n_"}
	entries := extract(t, src, opts)

	assert.ElementsMatch(t, []string{"underscore", "apple"}, keys(entries))
	assert.Equal(t, "apples", entries["apple"].MsgIDPlural)
}

func TestExtractDefaultKeywords(t *testing.T) {
	entries := extract(t, `ngettext("a", "b", 2); gettext("c");`, Options{})
	assert.ElementsMatch(t, []string{"a", "c"}, keys(entries))
	assert.Equal(t, "", entries["c"].Comments.Extracted)
}

func TestExtractStrict(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		argument string
		source   string
	}{
		{name: "identifier", src: "\ngettext(label);", line: 2, argument: "(identifier)", source: "label"},
		{name: "template", src: "gettext(`x ${y}`);", line: 1, source: "`x ${y}`"},
		{name: "missing argument", src: "gettext();", line: 1, argument: "undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			opts.Strict = true

			_, err := Extract(context.Background(), "src/app.js", []byte(tt.src), opts)
			require.ErrorIs(t, err, ErrUnparseableArgument)

			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, "src/app.js", argErr.File)
			assert.Equal(t, tt.line, argErr.Line)
			assert.Equal(t, "gettext", argErr.Function)
			assert.Equal(t, tt.source, argErr.Source)
			if tt.argument != "" {
				assert.Equal(t, tt.argument, argErr.Argument)
			}
		})
	}
}

func TestExtractNonStrictSkips(t *testing.T) {
	entries := extract(t, "gettext(label);\ngettext(`tpl`);\ngettext(\"ok\");", defaultOptions())
	assert.Equal(t, []string{"ok"}, keys(entries))
}

func TestExtractSkipsEmptyMsgID(t *testing.T) {
	entries := extract(t, `gettext(""); gettext("kept");`, defaultOptions())
	assert.Equal(t, []string{"kept"}, keys(entries))
}

func TestExtractHashbang(t *testing.T) {
	src := "#!/usr/bin/env node\n// L10n: cli banner\ngettext(\"Usage\");\n"
	entries := extract(t, src, defaultOptions())

	require.Contains(t, entries, "Usage")
	assert.Equal(t, "src/app.js:3", entries["Usage"].Comments.Reference)
	assert.Equal(t, "L10n: cli banner", entries["Usage"].Comments.Extracted)
}

func TestExtractSyntaxError(t *testing.T) {
	_, err := Extract(context.Background(), "src/broken.js", []byte("var a = 1;\ngettext(\"a\"\n"), defaultOptions())
	require.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "src/broken.js")
}

func TestCommentPattern(t *testing.T) {
	re := CommentPattern("")
	assert.True(t, re.MatchString(" L10n: x"))
	assert.True(t, re.MatchString("/ doc"))
	assert.False(t, re.MatchString(" note L10n: x"))

	custom := CommentPattern("i18n(")
	assert.True(t, custom.MatchString("i18n( literal paren"))
	assert.False(t, custom.MatchString("i18n"))
}

func keys(entries catalog.Entries) []string {
	out := make([]string, 0, len(entries))
	for k := range entries {
		out = append(out, k)
	}
	return out
}
