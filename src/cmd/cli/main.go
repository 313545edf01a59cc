// Package main provides the debugassist CLI.
// It orchestrates the corpus pipeline, training, diagnosis and the
// interactive browser using the Cobra framework.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"debugassist/src/config"
	"debugassist/src/corpus"
	"debugassist/src/diagnose"
	"debugassist/src/logger"
	"debugassist/src/mcp"
	"debugassist/src/pipeline"
	"debugassist/src/rules"
	"debugassist/src/sanitize"
	"debugassist/src/traceback"
	"debugassist/src/trainer"
	"debugassist/src/tui"
)

var (
	appConfig *config.Config
	log       logger.Logger

	// diagnose / view flags
	errorTextFlag string
	codeFlag      string
	topKFlag      int
	tuiFlag       bool

	// dataset flags
	totalFlag    int
	perClassFlag int
	seedFlag     int64
	outFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "debugassist",
	Short: "Diagnose Python error reports",
	Long: `debugassist classifies pasted Python errors and tracebacks into error
families, suggests a fix checklist from the playbooks and retrieves
similar solved cases from the corpus.

Typical workflow:
  debugassist dataset          # build the labeled corpus
  debugassist train            # fit the vectorizer and the classifier
  debugassist diagnose -t ...  # diagnose an error report`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		appConfig = config.LoadFromEnv()
		log = logger.NewConsoleLogger()
	},
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Diagnose an error report and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tuiFlag {
			log = logger.NewSilentLogger()
		}
		report, err := runDiagnosis()
		if err != nil {
			return err
		}
		if tuiFlag {
			return tui.Start(report)
		}
		if trace, ok := traceback.Parse(sanitize.Clean(errorTextFlag)); ok {
			fmt.Printf("Parsed traceback: %s", trace.ExceptionLine())
			if origin, ok := trace.Origin(); ok {
				fmt.Printf(" (at %s:%d)", origin.File, origin.Line)
			}
			fmt.Println()
		}
		fmt.Print(formatReport(report))
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Diagnose an error report and browse the result interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Logs would corrupt the alternate screen.
		log = logger.NewSilentLogger()
		report, err := runDiagnosis()
		if err != nil {
			return err
		}
		return tui.Start(report)
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier from the corpus and save the artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := trainer.Run(appConfig, trainer.Options{}, log)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(result.Report.String())
		fmt.Printf("\nvocabulary: %d terms, train/test: %d/%d\n",
			result.VocabularySize, result.TrainSize, result.TestSize)
		fmt.Printf("artifacts written to %s\n", appConfig.DataDir)
		return nil
	},
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Generate the labeled corpus and export it as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := corpus.GenerateOptions{Seed: seedFlag}
		if perClassFlag > 0 {
			opts.PerClass = perClassFlag
		} else {
			opts.Total = totalFlag
		}

		ctx := context.Background()
		ds, err := pipeline.Open(ctx, appConfig, log)
		if err != nil {
			return err
		}
		defer ds.Close()

		runID, stored, err := ds.Run(ctx, opts)
		if err != nil {
			return fmt.Errorf("dataset run %s failed after %d cases: %w", runID, stored, err)
		}

		path := outFlag
		if path == "" {
			path = appConfig.CorpusPath()
		}
		rows, err := ds.ExportCSV(ctx, path)
		if err != nil {
			return err
		}
		fmt.Printf("run %s: stored %d cases, wrote %d rows to %s\n", runID, stored, rows, path)
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the deterministic rule table in evaluation order",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(formatRules(rules.Rules()))
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve diagnosis tools over MCP on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; logs must not mix in.
		log = logger.NewSilentLogger()
		engine, err := diagnose.LoadEngine(appConfig, log)
		if err != nil {
			return err
		}
		return mcp.NewServer(engine).Run()
	},
}

func runDiagnosis() (*diagnose.Report, error) {
	text := sanitize.Clean(errorTextFlag)
	if text == "" {
		return nil, fmt.Errorf("--text must not be empty")
	}
	engine, err := diagnose.LoadEngine(appConfig, log)
	if err != nil {
		return nil, err
	}
	return engine.Diagnose(text, codeFlag, topKFlag)
}

// formatReport renders a diagnosis for plain terminal output.
func formatReport(r *diagnose.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Predicted family: %s (via %s", r.Prediction.Family, r.Prediction.Method)
	if r.Prediction.Confidence != nil {
		fmt.Fprintf(&b, ", confidence=%.2f", *r.Prediction.Confidence)
	}
	b.WriteString(")\n")

	if r.LowConfidence {
		b.WriteString("\nLow confidence. Likely candidates:\n")
		for _, cl := range r.Checklists {
			fmt.Fprintf(&b, "\nFix checklist (%s) (score: %.2f):\n", cl.Family, cl.Score)
			writeChecklistItems(&b, cl.Items)
		}
		b.WriteString("\nPaste the exact error/traceback output from your terminal to improve accuracy.\n")
		return b.String()
	}

	for _, cl := range r.Checklists {
		b.WriteString("\nFix checklist:\n")
		writeChecklistItems(&b, cl.Items)
	}

	if len(r.SimilarCases) > 0 {
		b.WriteString("\nSimilar solved cases:\n")
		for i, c := range r.SimilarCases {
			fmt.Fprintf(&b, "%d. [%.3f] (%s) %s\n", i+1, c.Score, c.ErrorFamily, firstLine(c.ErrorText))
			fmt.Fprintf(&b, "   Fix: %s\n", c.FixText)
		}
	}

	return b.String()
}

// formatRules renders the rule table, one rule per line. The line number
// doubles as the evaluation order: the first matching rule wins.
func formatRules(table []rules.Rule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%3s  %-18s %s\n", "#", "family", "pattern")
	for i, r := range table {
		fmt.Fprintf(&b, "%3d  %-18s %s\n", i+1, r.Family, r.Pattern.String())
	}
	return b.String()
}

func writeChecklistItems(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("(No playbook suggestions for this category yet.)\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func init() {
	for _, cmd := range []*cobra.Command{diagnoseCmd, viewCmd} {
		cmd.Flags().StringVarP(&errorTextFlag, "text", "t", "", "error report text (required)")
		cmd.Flags().StringVarP(&codeFlag, "code", "c", "", "optional code snippet for extra context")
		cmd.Flags().IntVarP(&topKFlag, "top-k", "k", diagnose.DefaultTopK, "number of similar cases to retrieve")
		cmd.MarkFlagRequired("text")
	}
	diagnoseCmd.Flags().BoolVar(&tuiFlag, "tui", false, "browse the result interactively")

	datasetCmd.Flags().IntVar(&totalFlag, "total", 500, "total cases to generate, spread across families")
	datasetCmd.Flags().IntVar(&perClassFlag, "per-class", 0, "cases per family (overrides --total when set)")
	datasetCmd.Flags().Int64Var(&seedFlag, "seed", 42, "random seed for the generator")
	datasetCmd.Flags().StringVarP(&outFlag, "out", "o", "", "CSV output path (default: <data-dir>/cases.csv)")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
