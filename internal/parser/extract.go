package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"jsxgettext/internal/catalog"
	"jsxgettext/internal/interpolation"
	"jsxgettext/internal/textutil"

	"github.com/rs/zerolog/log"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

var hashbang = regexp.MustCompile(`\A#![^\n]*`)

// comment is a developer comment eligible for attachment.
type comment struct {
	line int
	text string
}

type extraction struct {
	file     string
	src      []byte
	strict   bool
	keywords map[string]struct{}
	comments []comment
	entries  catalog.Entries
}

// Extract parses a JavaScript or JSX source file and returns the messages of
// every translation call, keyed by msgid. Repeated msgids within the file are
// merged, combining their references and comments.
func Extract(ctx context.Context, filename string, source []byte, opts Options) (catalog.Entries, error) {
	// blank an interpreter line; the newline stays so line numbers hold
	src := hashbang.ReplaceAll(source, nil)

	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s:%d", ErrSyntax, filename, errorLine(root))
	}

	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	x := &extraction{
		file:     filename,
		src:      src,
		strict:   opts.Strict,
		keywords: make(map[string]struct{}, len(keywords)),
		entries:  make(catalog.Entries),
	}
	for _, k := range keywords {
		x.keywords[k] = struct{}{}
	}
	if opts.CommentTag != nil {
		x.comments = collectComments(root, src, opts.CommentTag)
	}

	w := newWalker(x.call)
	w.walk(root)
	if w.err != nil {
		return nil, w.err
	}

	return x.entries, nil
}

func (x *extraction) call(n *sitter.Node) error {
	callee, ok := ResolveCallee(n, x.src)
	if !ok {
		return nil
	}
	if _, ok := x.keywords[callee.Name]; !ok {
		return nil
	}

	line := int(n.StartPoint().Row) + 1
	args := callee.Args

	entry := &catalog.Entry{}
	switch {
	case strings.HasPrefix(callee.Name, "n") && len(args) >= 2 && IsString(args[0]) && IsString(args[1]):
		entry.MsgID = ExtractString(args[0], x.src)
		entry.MsgIDPlural = ExtractString(args[1], x.src)
		entry.MsgStr = []string{"", ""}
	case len(args) >= 1 && IsString(args[0]):
		entry.MsgID = ExtractString(args[0], x.src)
		entry.MsgStr = []string{""}
	default:
		if x.strict {
			return x.argumentError(callee, args, line)
		}
		log.Debug().Str("file", x.file).Int("line", line).Str("function", callee.Name).Msg("Skipping call without static string argument")
		return nil
	}

	if entry.MsgID == "" {
		log.Warn().Str("file", x.file).Int("line", line).Msg("Empty msgid is reserved for the catalog header, skipping")
		return nil
	}

	entry.Comments = &catalog.Comments{
		Extracted: x.commentsFor(line),
		Reference: fmt.Sprintf("%s:%d", x.file, line),
		Flag:      interpolation.Flag(entry.MsgID, entry.MsgIDPlural),
	}

	if existing, ok := x.entries[entry.MsgID]; ok {
		x.entries[entry.MsgID] = catalog.MergeTranslation(existing, entry)
	} else {
		x.entries[entry.MsgID] = entry
	}

	log.Debug().Str("file", x.file).Int("line", line).Str("msgid", textutil.Truncate(entry.MsgID, 40)).Msg("Extracted message")
	return nil
}

func (x *extraction) argumentError(callee Callee, args []*sitter.Node, line int) error {
	argErr := &ArgumentError{
		File:     x.file,
		Line:     line,
		Function: callee.Name,
		Argument: "undefined",
	}
	if len(args) > 0 {
		argErr.Argument = args[0].String()
		argErr.Source = args[0].Content(x.src)
	}
	return argErr
}

// commentsFor joins the comments on the call's line and the line above.
func (x *extraction) commentsFor(line int) string {
	var texts []string
	for _, c := range x.comments {
		if c.line == line || c.line == line-1 {
			texts = append(texts, c.text)
		}
	}
	return strings.Join(texts, "\n")
}

// collectComments returns, in source order, the text of the comments matching
// tag.
func collectComments(root *sitter.Node, src []byte, tag *regexp.Regexp) []comment {
	var comments []comment

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == nodeComment {
			body := commentBody(n.Content(src))
			if !tag.MatchString(body) {
				return
			}
			text := commentText(body)
			if text == "" {
				return
			}
			comments = append(comments, comment{line: int(n.StartPoint().Row) + 1, text: text})
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c != nil {
				visit(c)
			}
		}
	}
	visit(root)

	return comments
}

// commentText drops one leading "/" and trims every line of body, skipping
// blank lines. The result reads back unchanged from "#." lines.
func commentText(body string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimPrefix(body, "/"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func commentBody(raw string) string {
	switch {
	case strings.HasPrefix(raw, "//"):
		return raw[2:]
	case strings.HasPrefix(raw, "/*"):
		return strings.TrimSuffix(raw[2:], "*/")
	}
	return raw
}

// errorLine locates the first ERROR or MISSING node below n.
func errorLine(n *sitter.Node) int {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if c.Type() == nodeError || c.IsMissing() {
			return int(c.StartPoint().Row) + 1
		}
		if c.HasError() {
			return errorLine(c)
		}
	}
	return int(n.StartPoint().Row) + 1
}
