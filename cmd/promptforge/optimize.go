package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meridianai/promptforge/internal/app"
	"github.com/meridianai/promptforge/internal/config"
	"github.com/meridianai/promptforge/internal/orchestrator"
)

var optimizeCategory string

var optimizeCmd = &cobra.Command{
	Use:   "optimize [prompt]",
	Short: "Run the full optimisation pipeline over a single prompt and render the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeCategory, "category", "c", "creative", "prompt category")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	_ = viper.GetString("config")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	core, err := app.Startup(cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	record := core.Orchestrator.Optimize(context.Background(), args[0], optimizeCategory)

	fmt.Print(renderRecord(record))
	return nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	scoreStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D787"))
)

func renderRecord(record *orchestrator.Record) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# Optimization Result (%s)\n\n", record.WorkflowMode)

	section(&md, "Deconstruction", record.Deconstruction)
	section(&md, "Diagnosis", record.Diagnosis)
	section(&md, "Optimized Prompt", record.OptimizedPrompt)
	section(&md, "Sample Output", record.SampleOutput)
	section(&md, "Evaluation", record.Evaluation)

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	rendered := md.String()
	if err == nil {
		if out, renderErr := renderer.Render(md.String()); renderErr == nil {
			rendered = out
		}
	}

	var footer strings.Builder
	if record.QualityScore != nil {
		footer.WriteString(scoreStyle.Render(fmt.Sprintf("Quality score: %d/100", *record.QualityScore)) + "\n")
	}
	for _, e := range record.Errors {
		footer.WriteString(warnStyle.Render("warning: "+e) + "\n")
	}

	return rendered + "\n" + footer.String()
}

func section(md *strings.Builder, title string, content *string) {
	md.WriteString(headingStyle.Render("## "+title) + "\n\n")
	if content == nil {
		md.WriteString("_not available_\n\n")
		return
	}
	md.WriteString(*content + "\n\n")
}
