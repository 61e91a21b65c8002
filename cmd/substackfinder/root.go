package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/substackfinder/pkg/config"
	"github.com/codeGROOVE-dev/substackfinder/pkg/discover"
	"github.com/codeGROOVE-dev/substackfinder/pkg/export"
	"github.com/codeGROOVE-dev/substackfinder/pkg/finder"
	"github.com/codeGROOVE-dev/substackfinder/pkg/httpclient"
	"github.com/codeGROOVE-dev/substackfinder/pkg/keyword"
	"github.com/codeGROOVE-dev/substackfinder/pkg/substack"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	urls       []string
	urlsFile   string
	debug      bool
	verbose    bool
	noExport   bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "substackfinder",
		Short: "Find Substack publications by keywords in their bio",
		Long: `Discovers Substack publications from category and leaderboard pages (or a
supplied list), reads each page's bio metadata, and keeps those whose bio or
name contains at least one configured keyword.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFinder(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "config.json", "path to config file (json, yaml or toml)")
	flags.StringSliceVar(&opts.urls, "urls", nil, "specific publication URLs to check (bypasses discovery)")
	flags.StringVar(&opts.urlsFile, "urls-file", "", "file containing publication URLs, one per line (bypasses discovery)")
	flags.BoolVar(&opts.noExport, "no-export", false, "do not write result files")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging (same as --debug)")

	cmd.AddCommand(newDemoCommand(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "substackfinder %s\n", version)
		},
	})
	return cmd
}

func newLogger(w io.Writer, opts *rootOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.debug || opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runFinder(ctx context.Context, stdout, stderr io.Writer, opts *rootOptions) error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load() //nolint:errcheck // missing .env is fine

	// Everything that can fail on bad input happens before the first request.
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	formats, err := cfg.Formats()
	if err != nil {
		return err
	}
	explicit, err := explicitURLs(opts)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, opts)
	hc := httpclient.New(cfg.FetchTimeout())

	extractor, err := substack.New(ctx,
		substack.WithHTTPClient(hc),
		substack.WithLogger(logger),
		substack.WithMaxRetries(cfg.MaxRetries),
		substack.WithRateLimit(cfg.RateLimit()),
	)
	if err != nil {
		return err
	}
	disc := discover.New(hc,
		discover.WithLogger(logger),
		discover.WithPacer(httpclient.NewPacer(cfg.RateLimit())),
	)

	f := finder.New(keyword.New(cfg.Keywords, cfg.CaseSensitive), extractor,
		finder.WithDiscoverer(disc),
		finder.WithSources(cfg.DiscoverySources.ExplorePage, cfg.DiscoverySources.Leaderboard),
		finder.WithExploreLimit(cfg.ExploreLimit),
		finder.WithMaxProfiles(cfg.MaxProfiles),
		finder.WithLogger(logger),
		finder.WithProgress(progressPrinter(stderr)),
	)

	printBanner(stdout, "Substack Profile Finder", cfg.Keywords, cfg.MaxProfiles)

	urls := f.Candidates(ctx, explicit)
	fmt.Fprintf(stdout, "\nDiscovered %d unique profiles to scan.\n", len(urls))
	if len(urls) == 0 {
		fmt.Fprintln(stdout, "\nNo URLs discovered to scan.")
		return nil
	}

	rep, err := f.Run(ctx, urls)
	if err != nil {
		return fmt.Errorf("run interrupted after %d profiles: %w", rep.Scanned, err)
	}

	printReport(stdout, rep)
	if len(rep.Matched) == 0 || opts.noExport {
		return nil
	}

	paths, err := export.New(cfg.OutputDir, formats, export.WithLogger(logger)).Export(ctx, rep.Matched, rep.FinishedAt)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(stdout, "✓ Exported: %s\n", p)
	}
	return nil
}

// explicitURLs gathers URLs from --urls and --urls-file.
func explicitURLs(opts *rootOptions) ([]string, error) {
	var urls []string
	for _, u := range opts.urls {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if opts.urlsFile == "" {
		return urls, nil
	}
	f, err := os.Open(opts.urlsFile)
	if err != nil {
		return nil, fmt.Errorf("open urls file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read only
	fromFile, err := readURLs(f)
	if err != nil {
		return nil, fmt.Errorf("read urls file: %w", err)
	}
	return append(urls, fromFile...), nil
}

// readURLs reads one URL per line, skipping blank lines and # comments.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

func progressPrinter(w io.Writer) func(finder.Progress) {
	return func(p finder.Progress) {
		switch p.State {
		case finder.StateMatched:
			fmt.Fprintf(w, "[%d/%d] ✓ %s (%s)\n", p.Index, p.Total, p.URL, strings.Join(p.Keywords, ", "))
		default:
			fmt.Fprintf(w, "[%d/%d] - %s: %s\n", p.Index, p.Total, p.URL, p.Reason)
		}
	}
}

func elapsed(rep *finder.Report) time.Duration {
	return rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond)
}
