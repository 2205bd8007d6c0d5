package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rtconsole/calc"
	"rtconsole/cases"
	"rtconsole/config"
	"rtconsole/model"
	"rtconsole/ui"
)

func newMatchCmd() *cobra.Command {
	var (
		catalogPath string
		direction   string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "match <text...>",
		Short: "Suggest a case type for a customer request",
		Long:  "Runs the case matcher against the case catalog and prints the first matching case type.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, strings.Join(args, " "), catalogPath, direction, jsonOut)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "case catalog file (JSON or YAML); empty uses the built-in catalog")
	cmd.Flags().StringVar(&direction, "direction", config.MatchLabelContainsRequest, "match direction: label_contains_request or request_contains_label")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the suggest_case arguments as JSON")
	return cmd
}

func runMatch(cmd *cobra.Command, text, catalogPath, direction string, jsonOut bool) error {
	switch direction {
	case config.MatchLabelContainsRequest, config.MatchRequestContainsLabel:
	default:
		return fmt.Errorf("unknown match direction %q", direction)
	}

	catalog, err := cases.Load(config.ExpandPath(catalogPath))
	if err != nil {
		return fmt.Errorf("failed to load case catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	suggestion, ok := cases.Match(text, catalog, cases.Direction(direction))
	if !ok {
		fmt.Fprintln(out, "no match")
		return nil
	}

	if jsonOut {
		return writeJSON(out, suggestion)
	}
	fmt.Fprintf(out, "%s\n  %s\n", suggestion.CaseName, suggestion.CaseDescription)
	return nil
}

func newRenderCmd() *cobra.Command {
	var (
		width int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "render <name> <arguments-json>",
		Short: "Render one function call output widget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], args[1], width, raw)
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 80, "widget width in columns")
	cmd.Flags().BoolVar(&raw, "raw", false, "append the raw output JSON")
	return cmd
}

func runRender(cmd *cobra.Command, name, arguments string, width int, raw bool) error {
	if width < 20 {
		return fmt.Errorf("width must be at least 20, got %d", width)
	}

	widget := ui.RenderOutput(model.FunctionCallOutput{
		Type:      model.ItemFunctionCall,
		Status:    "completed",
		Name:      name,
		CallID:    "call_cli",
		Arguments: arguments,
	})
	fmt.Fprintln(cmd.OutOrStdout(), widget.View(width, raw))

	if widget.Err != nil {
		return widget.Err
	}
	return nil
}

func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc <expression...>",
		Short: "Evaluate an arithmetic expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, strings.Join(args, " "))
		},
	}
}

func runCalc(cmd *cobra.Command, expression string) error {
	v, err := calc.Evaluate(expression)
	if err != nil {
		return fmt.Errorf("cannot evaluate %q: %w", expression, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

func newPromptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompts [category]",
		Short: "List example prompt categories or the phrases in one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			return runPrompts(cmd, category)
		},
	}
}

func runPrompts(cmd *cobra.Command, category string) error {
	out := cmd.OutOrStdout()
	categories := model.PromptCategories()

	if category == "" {
		for _, c := range categories {
			fmt.Fprintf(out, "%-20s %s (%d)\n", c.Key, c.Label, len(c.Phrases))
		}
		return nil
	}

	for _, c := range categories {
		if strings.EqualFold(c.Key, category) {
			for _, phrase := range c.Phrases {
				fmt.Fprintln(out, phrase)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown prompt category %q", category)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
