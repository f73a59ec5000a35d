package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"jsxgettext/internal/cache"
	"jsxgettext/internal/catalog"
	"jsxgettext/internal/config"
	"jsxgettext/internal/extractor"
	"jsxgettext/internal/filewalker"
	"jsxgettext/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// stdoutName selects standard output as the catalog destination.
const stdoutName = "-"

type extractFlags struct {
	output           string
	outputDir        string
	joinExisting     bool
	keywords         []string
	addComments      string
	sanity           bool
	projectIDVersion string
	reportBugsTo     string
	workers          int
	cacheDSN         string
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		flags   extractFlags
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "jsxgettext [flags] <file|dir>...",
		Short: "Extract gettext messages from JavaScript and JSX sources",
		Long: `Scans JavaScript and JSX files for calls to translation functions
(gettext, ngettext and any configured keywords) and writes the messages to a
PO catalog. With --join-existing the messages are merged into an existing
catalog, keeping its translations and translator comments.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.OutOrStdout(), flags, args)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	f := rootCmd.Flags()
	f.StringVarP(&flags.output, "output", "o", cfg.Output, `Catalog file name, "-" for standard output`)
	f.StringVarP(&flags.outputDir, "output-dir", "p", cfg.OutputDir, "Directory of the catalog file")
	f.BoolVarP(&flags.joinExisting, "join-existing", "j", false, "Merge messages into the existing catalog")
	f.StringArrayVarP(&flags.keywords, "keyword", "k", cfg.Keywords, "Additional translation function name (repeatable)")
	f.StringVarP(&flags.addComments, "add-comments", "c", cfg.AddComments, "Tag marking comments for translators")
	f.BoolVarP(&flags.sanity, "sanity", "s", false, "Fail on translation calls without a static string argument")
	f.StringVar(&flags.projectIDVersion, "project-id-version", cfg.ProjectIDVersion, "Project-Id-Version header of a new catalog")
	f.StringVar(&flags.reportBugsTo, "report-bugs-to", cfg.ReportBugsTo, "Report-Msgid-Bugs-To header of a new catalog")
	f.IntVar(&flags.workers, "workers", cfg.WorkerCount, "Number of concurrent file readers")
	f.StringVar(&flags.cacheDSN, "cache-dsn", cfg.DatabaseURL, "PostgreSQL URL of the extraction cache")

	rootCmd.AddCommand(mergeCmd())

	return rootCmd
}

func mergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <existing.po> <new.po>",
		Short: "Merge the messages of one catalog into another",
		Long: `Adds the messages of the second catalog to the first. Translations,
translator comments and headers of the first catalog are kept; references
and extracted comments are combined.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.OutOrStdout(), args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", stdoutName, `Destination file, "-" for standard output`)

	return cmd
}

func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// openCache connects the PostgreSQL extraction cache. An empty DSN disables
// caching.
func openCache(ctx context.Context, dsn string) (*cache.ExtractionCache, func(), error) {
	if dsn == "" {
		return nil, func() {}, nil
	}

	pgPool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	c := cache.NewExtractionCache(pgPool)
	if err := c.EnsureSchema(ctx); err != nil {
		pgPool.Close()
		return nil, nil, err
	}
	return c, pgPool.Close, nil
}

// runExtract handles the root command.
func runExtract(stdout io.Writer, flags extractFlags, paths []string) error {
	ctx, cancel := setupContext()
	defer cancel()

	entries, err := filewalker.NewWalker().Walk(paths...)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !filewalker.SupportedExtensions[entry.Ext] {
			log.Warn().Str("file", entry.Path).Str("ext", entry.Ext).Msg("Unrecognized extension, parsing as JavaScript")
		}
	}

	sources, err := readSources(ctx, flags.workers, entries)
	if err != nil {
		return err
	}

	opts := extractor.Options{
		JoinExisting:     flags.joinExisting,
		Output:           flags.output,
		OutputDir:        flags.outputDir,
		Keywords:         flags.keywords,
		AddComments:      flags.addComments,
		Sanity:           flags.sanity,
		ProjectIDVersion: flags.projectIDVersion,
		ReportBugsTo:     flags.reportBugsTo,
	}

	extractionCache, closeCache, err := openCache(ctx, flags.cacheDSN)
	if err != nil {
		return err
	}
	defer closeCache()
	if extractionCache != nil {
		opts.Cache = extractionCache
	}

	ex := extractor.New(opts)
	log.Debug().Strs("keywords", ex.Keywords()).Msg("Translation functions")

	cat, err := ex.Run(ctx, sources)
	if err != nil {
		return err
	}

	if flags.output == stdoutName {
		return cat.Write(stdout)
	}

	path := ex.OutputPath()
	if err := cat.WriteFile(path); err != nil {
		return err
	}
	log.Info().Str("output", path).Int("entries", len(cat.Default())).Msg("Catalog written")
	return nil
}

// readSources loads files concurrently and returns them in input order.
func readSources(ctx context.Context, workers int, entries []filewalker.FileEntry) ([]extractor.Source, error) {
	readPool := worker.NewPool[filewalker.FileEntry, []byte](workers,
		func(ctx context.Context, entry filewalker.FileEntry) ([]byte, error) {
			data, err := os.ReadFile(entry.Path)
			if err != nil {
				return nil, fmt.Errorf("read source: %w", err)
			}
			log.Debug().Str("file", entry.Path).Str("ext", entry.Ext).Int("bytes", len(data)).Msg("Read source")
			return data, nil
		},
	)

	results := readPool.Execute(ctx, entries)
	sources := make([]extractor.Source, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		sources = append(sources, extractor.Source{Name: r.Input.Path, Text: r.Result})
	}
	return sources, nil
}

// runMerge handles the `merge` command.
func runMerge(stdout io.Writer, existingPath, newPath, output string) error {
	existing, err := catalog.Load(existingPath)
	if err != nil {
		return err
	}
	incoming, err := catalog.Load(newPath)
	if err != nil {
		return err
	}

	for ctx, entries := range incoming.Translations {
		if existing.Translations == nil {
			existing.Translations = make(map[string]catalog.Entries)
		}
		existing.Translations[ctx] = catalog.MergeTranslations(existing.Translations[ctx], entries)
	}

	log.Info().
		Str("existing", existingPath).
		Str("new", newPath).
		Int("entries", len(existing.Default())).
		Msg("Catalogs merged")

	if output == stdoutName {
		return existing.Write(stdout)
	}
	return existing.WriteFile(output)
}
