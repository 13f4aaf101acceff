package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"barton-hq/meridian/pkg/cli"
	"barton-hq/meridian/pkg/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and check schema registries",
	Long: `Inspect the catalog a validator runs against, or check a registry
source file for structural defects before rolling it out.

Examples:
  barton registry inspect
  barton registry inspect --registry doctrine/registry.yaml --format csv
  barton registry check --registry doctrine/registry.yaml`,
}

var registryInspectFlags struct {
	registry string
	format   string
}

var registryInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the catalog of a schema registry",
	Long: `Print the databases, sub-hives, section categories, and altitudes a
registry permits. Without --registry the built-in doctrine catalog is
shown.`,
	RunE: runRegistryInspect,
}

var registryCheckFlags struct {
	registry string
}

var registryCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a registry source file for structural defects",
	Long: `Load a registry source file and report the first structural defect:
unknown fields, duplicate codes, overlapping section ranges, or an
unsupported schema version. A clean load prints the content version.

Without --registry the configured registry path is checked; with no
configured path the built-in catalog is reported.`,
	Args: cobra.NoArgs,
	RunE: runRegistryCheck,
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryInspectCmd)
	registryCmd.AddCommand(registryCheckCmd)

	registryInspectCmd.Flags().StringVarP(&registryInspectFlags.registry, "registry", "r", "", "registry file (built-in catalog when unset)")
	registryInspectCmd.Flags().StringVarP(&registryInspectFlags.format, "format", "f", "text", "output format: text, json, or csv")

	registryCheckCmd.Flags().StringVarP(&registryCheckFlags.registry, "registry", "r", "", "registry file to check (configured path when unset)")
}

// registryView is the inspectable projection of a registry. It serializes
// to JSON directly and satisfies cli.RowMarshaler for CSV output.
type registryView struct {
	SchemaVersion string                  `json:"schemaVersion"`
	Version       string                  `json:"version"`
	Databases     []registry.Database     `json:"databases"`
	SubSubHiveMin int                     `json:"subSubHiveMin"`
	SubSubHiveMax int                     `json:"subSubHiveMax"`
	Sections      []registry.SectionRange `json:"sections"`
	Altitudes     []registry.Altitude     `json:"altitudes"`
}

func newRegistryView(reg *registry.Registry) *registryView {
	min, max := reg.SubSubHiveRange()
	return &registryView{
		SchemaVersion: reg.SchemaVersion(),
		Version:       reg.Version(),
		Databases:     reg.Databases(),
		SubSubHiveMin: min,
		SubSubHiveMax: max,
		Sections:      reg.Sections(),
		Altitudes:     reg.Altitudes(),
	}
}

// CSVHeader implements cli.RowMarshaler.
func (v *registryView) CSVHeader() []string {
	return []string{"kind", "code", "name"}
}

// CSVRows implements cli.RowMarshaler. The catalog flattens to one row
// per entry; sub-hive codes are qualified by their database.
func (v *registryView) CSVRows() [][]string {
	var rows [][]string
	for _, db := range v.Databases {
		rows = append(rows, []string{"database", strconv.Itoa(db.Code), db.Name})
		for _, sh := range db.SubHives {
			rows = append(rows, []string{"sub_hive", fmt.Sprintf("%d.%02d", db.Code, sh.Code), sh.Name})
		}
	}
	rows = append(rows, []string{"sub_sub_hive", fmt.Sprintf("%d-%d", v.SubSubHiveMin, v.SubSubHiveMax), "open range"})
	for _, s := range v.Sections {
		rows = append(rows, []string{"section", fmt.Sprintf("%d-%d", s.Min, s.Max), s.Category})
	}
	for _, a := range v.Altitudes {
		rows = append(rows, []string{"altitude", strconv.Itoa(a.Code), a.Name})
	}
	return rows
}

func runRegistryInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := resolveRegistry(registryInspectFlags.registry, cfg)
	if err != nil {
		return cli.NewCommandError("registry inspect", err)
	}
	view := newRegistryView(reg)

	switch registryInspectFlags.format {
	case "json", "csv":
		formatter := cli.NewFormatter(cli.OutputFormat(registryInspectFlags.format))
		if err := formatter.FormatTo(os.Stdout, view); err != nil {
			return cli.NewCommandError("registry inspect", err)
		}
		return nil
	default:
		printRegistryText(view)
		return nil
	}
}

func printRegistryText(view *registryView) {
	fmt.Printf("Registry %s (schema %s)\n\n", view.Version, view.SchemaVersion)

	fmt.Println("Databases:")
	for _, db := range view.Databases {
		fmt.Printf("  %d  %s\n", db.Code, db.Name)
		for _, sh := range db.SubHives {
			fmt.Printf("     .%02d  %s\n", sh.Code, sh.Name)
		}
	}

	fmt.Printf("\nSub-sub-hives: %d-%d\n", view.SubSubHiveMin, view.SubSubHiveMax)

	fmt.Println("\nSections:")
	for _, s := range view.Sections {
		fmt.Printf("  %2d-%-2d  %s\n", s.Min, s.Max, s.Category)
	}

	fmt.Println("\nAltitudes:")
	for _, a := range view.Altitudes {
		fmt.Printf("  %d  %s\n", a.Code, a.Name)
	}
}

func runRegistryCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := registryCheckFlags.registry
	if path == "" {
		path = cfg.Registry.Path
	}
	if path == "" {
		reg := registry.Default()
		fmt.Println("No registry file configured; built-in catalog in use")
		fmt.Printf("✓ Content version %s\n", reg.Version())
		return nil
	}

	fmt.Printf("Checking %s...\n", path)

	reg, err := registry.Load(path)
	if err != nil {
		var loadErr *registry.LoadError
		if errors.As(err, &loadErr) {
			if loadErr.Line > 0 {
				fmt.Fprintf(os.Stderr, "✗ %s (line %d)\n", loadErr.Message, loadErr.Line)
			} else {
				fmt.Fprintf(os.Stderr, "✗ %s\n", loadErr.Message)
			}
			if loadErr.Err != nil {
				fmt.Fprintf(os.Stderr, "  cause: %v\n", loadErr.Err)
			}
		}
		return cli.NewCommandError("registry check", err)
	}

	fmt.Printf("✓ Registry loads cleanly\n")
	fmt.Printf("✓ %d database(s), %d section range(s), %d altitude(s)\n",
		len(reg.Databases()), len(reg.Sections()), len(reg.Altitudes()))
	fmt.Printf("✓ Content version %s\n", reg.Version())
	return nil
}
