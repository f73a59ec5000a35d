// Package extractor runs extraction over a set of sources and folds the
// results into a single catalog, optionally joined with an existing one.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"jsxgettext/internal/cache"
	"jsxgettext/internal/catalog"
	"jsxgettext/internal/parser"
	"jsxgettext/internal/textutil"

	"github.com/rs/zerolog/log"
)

// DefaultOutput is the catalog file name used when none is configured.
const DefaultOutput = "messages.po"

// ErrConfig reports an existing catalog that cannot be used as a merge base.
var ErrConfig = errors.New("invalid configuration")

// Source is a file name and its text.
type Source struct {
	Name string
	Text []byte
}

// Options configure a run.
type Options struct {
	// JoinExisting merges the results into the catalog at OutputDir/Output.
	JoinExisting bool
	Output       string
	OutputDir    string
	// Keywords are additional translation function names. Each also gets an
	// "n"-prefixed plural variant.
	Keywords []string
	// AddComments is the tag marking comments for translators.
	AddComments string
	// Sanity makes unparseable translation arguments fatal.
	Sanity           bool
	ProjectIDVersion string
	ReportBugsTo     string
	Now              func() time.Time
	Cache            cache.Store
}

// Extractor turns sources into a catalog.
type Extractor struct {
	opts     Options
	keywords []string
	parse    parser.Options
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	keywords := keywordList(opts.Keywords)
	return &Extractor{
		opts:     opts,
		keywords: keywords,
		parse: parser.Options{
			Keywords:   keywords,
			CommentTag: parser.CommentPattern(opts.AddComments),
			Strict:     opts.Sanity,
		},
	}
}

// Keywords returns the function names treated as translation calls.
func (e *Extractor) Keywords() []string {
	return append([]string(nil), e.keywords...)
}

// OutputPath is the location of the catalog joined by JoinExisting.
func (e *Extractor) OutputPath() string {
	return filepath.Join(e.opts.OutputDir, e.opts.Output)
}

func keywordList(extra []string) []string {
	if len(extra) == 0 {
		return append([]string(nil), parser.DefaultKeywords...)
	}
	seen := make(map[string]bool, 2*len(extra))
	var keywords []string
	add := func(k string) {
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keywords = append(keywords, k)
	}
	for _, k := range extra {
		add(k)
		add("n" + k)
	}
	return keywords
}

// Run extracts every source in order and returns the resulting catalog.
// Sources are processed sequentially and the merge is order-sensitive only in
// the order of the comment lines it accumulates.
func (e *Extractor) Run(ctx context.Context, sources []Source) (*catalog.Catalog, error) {
	cat, err := e.base()
	if err != nil {
		return nil, err
	}

	loaded := cat.Default()
	acc := loaded.Clone()
	if acc == nil {
		acc = make(catalog.Entries)
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := e.extract(ctx, src)
		if err != nil {
			return nil, err
		}
		acc = catalog.MergeTranslations(acc, entries)
		log.Debug().Str("file", src.Name).Int("entries", len(entries)).Msg("Merged file")
	}

	if e.opts.JoinExisting && !reflect.DeepEqual(acc, loaded) {
		if cat.Headers == nil {
			cat.Headers = make(map[string]string)
		}
		cat.Headers[catalog.HeaderCreationDate] = catalog.FormatTimestamp(e.opts.Now())
	}
	cat.SetDefault(acc)

	log.Info().Int("sources", len(sources)).Int("entries", len(acc)).Msg("Extraction complete")
	return cat, nil
}

// base loads the catalog to join or creates a fresh one.
func (e *Extractor) base() (*catalog.Catalog, error) {
	if e.opts.JoinExisting {
		path := e.OutputPath()
		cat, err := catalog.Load(path)
		switch {
		case err == nil:
			if err := cat.Validate(); err != nil {
				return nil, e.repairError(path, err)
			}
			log.Info().Str("path", path).Int("entries", len(cat.Default())).Msg("Joining existing catalog")
			return cat, nil
		case errors.Is(err, catalog.ErrNoCatalog):
			log.Warn().Err(err).Str("path", path).Msg("No usable catalog to join, starting fresh")
		default:
			return nil, e.repairError(path, err)
		}
	}

	headers := catalog.DefaultHeaders(e.opts.ProjectIDVersion, e.opts.ReportBugsTo, e.opts.Now())
	return catalog.New(catalog.DefaultCharset, headers), nil
}

func (e *Extractor) repairError(path string, err error) error {
	return fmt.Errorf("%w: catalog %s cannot be joined (%w); repair it with msguniq or msgfmt -c", ErrConfig, path, err)
}

func (e *Extractor) extract(ctx context.Context, src Source) (catalog.Entries, error) {
	if e.opts.Cache == nil {
		return parser.Extract(ctx, src.Name, src.Text, e.parse)
	}

	key := e.cacheKey(src)
	if entries, ok := e.opts.Cache.Get(ctx, key); ok {
		log.Debug().Str("file", src.Name).Msg("Cache hit")
		return entries, nil
	}

	entries, err := parser.Extract(ctx, src.Name, src.Text, e.parse)
	if err != nil {
		return nil, err
	}
	if err := e.opts.Cache.Set(ctx, key, entries); err != nil {
		log.Warn().Err(err).Str("file", src.Name).Msg("Failed to cache extraction")
	}
	return entries, nil
}

// cacheKey covers every input that changes what Extract returns.
func (e *Extractor) cacheKey(src Source) string {
	return textutil.Hash(
		src.Name,
		string(src.Text),
		e.parse.CommentTag.String(),
		strings.Join(e.keywords, ","),
		strconv.FormatBool(e.parse.Strict),
	)
}
