package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"godge/adapters/csvtable"
	"godge/adapters/stats/dge"
	"godge/app"
	"godge/domain/core"
	"godge/domain/expression"
	"godge/internal/config"
	"godge/internal/container"
	"godge/internal/interactive"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "godge",
		Short:        "Differential gene expression between two cell types",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newMethodsCmd(),
		newInteractiveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for bad input, 3 for unreadable or unwritable files, 1 otherwise
func exitCode(err error) int {
	switch {
	case core.IsInputError(err), core.IsUnsupportedMethod(err):
		return 2
	case core.IsFileAccessError(err):
		return 3
	default:
		return 1
	}
}

func newRunCmd() *cobra.Command {
	var first, second, out, method, variance, align string
	var seed int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare two expression tables gene by gene",
		Long: `Run the CI overlap test, the two-sample z-test, optional multiple comparison
correction and the resampled mean difference for every gene.

The result table is printed as CSV; with --out it is also saved.

Example: godge run --first b_cells.csv --second nk_cells.csv --method fdr_bh --out results --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				appConfig.Analysis.Seed = &seed
			}
			if variance != "" {
				mode, err := dge.ParseVarianceMode(variance)
				if err != nil {
					return err
				}
				appConfig.Analysis.Variance = mode
			}
			if align != "" {
				mode, err := expression.ParseAlignMode(align)
				if err != nil {
					return err
				}
				appConfig.Analysis.Align = mode
			}

			return runAnalysis(cmd.Context(), appConfig, app.AnalysisRequest{
				FirstPath:  first,
				SecondPath: second,
				SaveAs:     out,
			}, method)
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "CSV table for the first cell type")
	cmd.Flags().StringVar(&second, "second", "", "CSV table for the second cell type")
	cmd.Flags().StringVar(&out, "out", "", "Result name to save (CSV file stem or PostgreSQL table)")
	cmd.Flags().StringVar(&method, "method", "", "Multiple comparison correction method")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for the resampled mean difference")
	cmd.Flags().StringVar(&variance, "variance", "", "z-test variance: pooled|unequal")
	cmd.Flags().StringVar(&align, "align", "", "Gene alignment: strict|intersect")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("second")

	return cmd
}

func runAnalysis(ctx context.Context, appConfig *config.Config, req app.AnalysisRequest, method string) error {
	appContainer, err := container.Open(ctx, appConfig)
	if err != nil {
		return err
	}
	defer appContainer.Shutdown(ctx)

	req.Options = appContainer.AnalysisOptions(method)
	resp, err := appContainer.Analysis.Run(ctx, req)
	if err != nil {
		return err
	}

	if err := csvtable.Write(os.Stdout, resp.Results); err != nil {
		return err
	}
	if resp.SavedTo != "" {
		fmt.Fprintf(os.Stderr, "Results saved to %s\n", resp.SavedTo)
	}
	return nil
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List supported multiple comparison correction methods",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tALIASES")
			for _, m := range dge.SupportedMethods() {
				fmt.Fprintf(w, "%s\t%s\n", m, dge.Aliases(m))
			}
			w.Flush()
		},
	}
}

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for input files, output name and method, repeating until you quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			appContainer, err := container.Open(cmd.Context(), appConfig)
			if err != nil {
				return err
			}
			defer appContainer.Shutdown(cmd.Context())

			loop := interactive.NewLoop(appContainer.Analysis, appContainer.AnalysisOptions(""), cmd.InOrStdin(), cmd.OutOrStdout())
			return loop.Run(cmd.Context())
		},
	}
}
