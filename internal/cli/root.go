// Package cli is the cobra-based command surface. Ground: teacher's
// internal/cli/root.go (cobra.Command wiring, flag-to-config-builder
// overlay, RunE error handling), generalized from the docs-crawler's
// "fetch docs" command to an "audit" command over SPEC_FULL.md's engine.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/seoauditor/engine/internal/audit"
	"github.com/seoauditor/engine/internal/config"
	"github.com/seoauditor/engine/internal/metadata"
	"github.com/seoauditor/engine/internal/storage"
)

// NewRootCommand builds the top-level "auditor" cobra command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "auditor",
		Short: "SEO website audit engine",
	}
	root.AddCommand(newAuditCommand())
	return root
}

func newAuditCommand() *cobra.Command {
	var (
		configFile    string
		maxPages      int
		respectRobots bool
		concurrency   int
		perHostRPS    float64
		output        string
	)

	cmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Crawl a site and produce an SEO audit report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := config.WithDefault().WithConfigFile(configFile)
			if maxPages > 0 {
				builder = builder.WithMaxPages(maxPages)
			}
			builder = builder.WithRespectRobots(respectRobots)
			if concurrency > 0 {
				builder = builder.WithConcurrency(concurrency)
			}
			if perHostRPS > 0 {
				builder = builder.WithPerHostRPS(perHostRPS)
			}

			cfg, err := builder.Build()
			if err != nil {
				return err
			}

			sink := metadata.NewRecorder(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil)))
			engine := audit.New(cfg, sink)

			var maxPagesPtr *int
			if maxPages > 0 {
				maxPagesPtr = &maxPages
			}

			rep, err := engine.Run(cmd.Context(), audit.Request{
				URL:           args[0],
				MaxPages:      maxPagesPtr,
				RespectRobots: respectRobots,
			})
			if err != nil {
				return err
			}

			if output != "" {
				sink := storage.NewSink(output)
				path, werr := sink.Write(rep)
				if werr != nil {
					return werr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", path)
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a JSON config file")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "page budget override (0 = use default)")
	cmd.Flags().BoolVar(&respectRobots, "respect-robots", false, "honor robots.txt disallow/crawl-delay directives")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "in-flight fetch worker count override (0 = use default)")
	cmd.Flags().Float64Var(&perHostRPS, "per-host-rps", 0, "per-host request rate override (0 = use default)")
	cmd.Flags().StringVar(&output, "output", "", "directory to write the report JSON to, instead of stdout")

	return cmd
}

// Execute runs the root command against os.Args, exiting the process on
// failure (the teacher's root main.go does the same).
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
