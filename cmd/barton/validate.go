package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"barton-hq/meridian/pkg/cli"
	"barton-hq/meridian/pkg/numbering"
	"barton-hq/meridian/pkg/registry"
)

var validateFlags struct {
	grammar  string
	registry string
	siblings string
	format   string
}

var validateCmd = &cobra.Command{
	Use:   "validate <identifier> [identifier...]",
	Short: "Validate doctrine identifiers",
	Long: `Validate doctrine identifiers for grammar and registry compliance.

The validate command parses each identifier and runs the full validation
pass against the schema registry:
  - Grammar validation (segment count, canonical integer form)
  - Database and sub-hive scope registration
  - Section range and altitude checks
  - Sequence uniqueness and gap analysis against --siblings

Examples:
  # Validate a Barton identifier
  barton validate 1.5.3.30.0

  # Validate a UDNS identifier
  barton validate 20.orchestration.render.execute --grammar udns

  # Check sequence assignment against existing siblings
  barton validate 2.1.0.0.3 --siblings 0,1,2

  # JSON output for CI/CD
  barton validate 1.5.3.30.0 --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateIdentifiers,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.grammar, "grammar", "g", "barton", "identifier grammar: barton, udns")
	validateCmd.Flags().StringVar(&validateFlags.registry, "registry", "", "registry file (built-in catalog if not set)")
	validateCmd.Flags().StringVar(&validateFlags.siblings, "siblings", "", "existing sibling sequence numbers, comma-separated")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func validateIdentifiers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	grammar, err := numbering.ParseGrammar(validateFlags.grammar)
	if err != nil {
		return fmt.Errorf("invalid --grammar: %w", err)
	}

	reg, err := resolveRegistry(validateFlags.registry, cfg)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	siblings, err := parseSiblings(validateFlags.siblings)
	if err != nil {
		return fmt.Errorf("invalid --siblings: %w", err)
	}

	results := make([]IdentifierResult, 0, len(args))
	for _, raw := range args {
		results = append(results, validateIdentifier(reg, raw, grammar, siblings))
	}

	// Output results
	if validateFlags.format == "json" {
		return outputValidateJSON(results)
	}
	return outputValidateText(results)
}

// IdentifierResult represents the validation result for a single identifier.
type IdentifierResult struct {
	Identifier string              `json:"identifier"`
	Grammar    string              `json:"grammar"`
	Valid      bool                `json:"valid"`
	Scope      string              `json:"scope,omitempty"`
	Errors     []IdentifierFinding `json:"errors,omitempty"`
	Warnings   []IdentifierFinding `json:"warnings,omitempty"`
}

// IdentifierFinding represents a single validation error or warning.
type IdentifierFinding struct {
	Segment    int    `json:"segment,omitempty"`
	Type       string `json:"type,omitempty"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Suggestion string `json:"suggestion,omitempty"`
}

func validateIdentifier(reg *registry.Registry, raw string, grammar numbering.Grammar, siblings []int) IdentifierResult {
	result := IdentifierResult{
		Identifier: raw,
		Grammar:    string(grammar),
		Valid:      true,
	}

	id, err := numbering.Parse(raw, grammar)
	if err != nil {
		result.Valid = false
		var numErr *numbering.Error
		if errors.As(err, &numErr) {
			result.Errors = append(result.Errors, findingFromError(numErr))
		} else {
			result.Errors = append(result.Errors, IdentifierFinding{
				Message:  err.Error(),
				Severity: string(numbering.SeverityError),
			})
		}
		return result
	}

	result.Scope = id.Scope()

	v := numbering.NewValidator(reg)
	list := v.Validate(id, siblings)
	for _, e := range list.Errors {
		finding := findingFromError(e)
		if e.Severity == numbering.SeverityWarning {
			result.Warnings = append(result.Warnings, finding)
			continue
		}
		result.Valid = false
		result.Errors = append(result.Errors, finding)
	}

	return result
}

func findingFromError(e *numbering.Error) IdentifierFinding {
	return IdentifierFinding{
		Segment:    e.Segment + 1, // one-based for display, 0 means whole identifier
		Type:       string(e.Type),
		Message:    e.Message,
		Severity:   string(e.Severity),
		Suggestion: e.Suggestion,
	}
}

// parseSiblings parses the --siblings flag into sequence numbers.
func parseSiblings(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	siblings := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("sequence number %q is not an integer", part)
		}
		siblings = append(siblings, n)
	}
	return siblings, nil
}

func outputValidateText(results []IdentifierResult) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.Identifier)

		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			fmt.Printf("✓ Grammar valid (%s)\n", result.Grammar)
			fmt.Printf("✓ Scope %s registered\n", result.Scope)
		}

		for _, err := range result.Errors {
			fmt.Printf("✗ Error: %s", err.Message)
			if err.Segment > 0 {
				fmt.Printf(" (segment %d)", err.Segment)
			}
			if err.Type != "" {
				fmt.Printf(" [%s]", err.Type)
			}
			fmt.Println()
			if err.Suggestion != "" {
				fmt.Printf("  = suggestion: %s\n", err.Suggestion)
			}
			totalErrors++
		}

		for _, warn := range result.Warnings {
			fmt.Printf("⚠  Warning: %s", warn.Message)
			if warn.Segment > 0 {
				fmt.Printf(" (segment %d)", warn.Segment)
			}
			fmt.Println()
			if warn.Suggestion != "" {
				fmt.Printf("  = suggestion: %s\n", warn.Suggestion)
			}
			totalWarnings++
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)

	if totalErrors > 0 {
		return cli.NewCommandError("validate", fmt.Errorf("validation failed"))
	}

	return nil
}

func outputValidateJSON(results []IdentifierResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid {
			return cli.NewCommandError("validate", fmt.Errorf("validation failed"))
		}
	}
	return nil
}
