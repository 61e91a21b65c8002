package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/substackfinder/pkg/demo"
	"github.com/codeGROOVE-dev/substackfinder/pkg/export"
	"github.com/codeGROOVE-dev/substackfinder/pkg/finder"
	"github.com/codeGROOVE-dev/substackfinder/pkg/keyword"
)

const demoPrefix = "demo_substack_profiles"

type demoOptions struct {
	keywords      []string
	outputDir     string
	caseSensitive bool
	noExport      bool
}

func newDemoCommand(root *rootOptions) *cobra.Command {
	opts := &demoOptions{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the finder over built-in sample publications without network access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			stdout := cmd.OutOrStdout()
			logger := newLogger(cmd.ErrOrStderr(), root)

			now := time.Now()
			extractor := demo.NewExtractor(demo.Profiles(now))
			urls := extractor.URLs()

			f := finder.New(keyword.New(opts.keywords, opts.caseSensitive), extractor,
				finder.WithMaxProfiles(len(urls)),
				finder.WithLogger(logger),
				finder.WithProgress(progressPrinter(cmd.ErrOrStderr())),
			)

			printBanner(stdout, "Substack Profile Finder - DEMO MODE", opts.keywords, len(urls))
			fmt.Fprintf(stdout, "Demo profiles to scan: %d\n", len(urls))

			rep, err := f.Run(ctx, urls)
			if err != nil {
				return err
			}
			printReport(stdout, rep)
			fmt.Fprintf(stdout, "Total matches: %d out of %d profiles\n", len(rep.Matched), len(urls))

			if opts.noExport || len(rep.Matched) == 0 {
				return nil
			}
			paths, err := export.New(opts.outputDir, []export.Format{export.JSON, export.CSV},
				export.WithPrefix(demoPrefix), export.WithLogger(logger)).Export(ctx, rep.Matched, now)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(stdout, "✓ Demo results exported: %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.keywords, "keywords", demo.Keywords, "keywords to match")
	cmd.Flags().BoolVar(&opts.caseSensitive, "case-sensitive", false, "match keywords case-sensitively")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "results", "directory for exported files")
	cmd.Flags().BoolVar(&opts.noExport, "no-export", false, "do not write result files")
	return cmd
}
