package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"barton-hq/meridian/pkg/cli"
	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/registry"
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Format and convert payload envelopes",
	Long: `Wrap doctrine payloads into canonical envelopes, render them for a
storage backend, and convert records between backend dialects.

Examples:
  barton envelope format --source-id 1.5.3.30.0 --payload payload.yaml --target vault
  barton envelope convert --from staging --to warehouse record.json`,
}

var envelopeFormatFlags struct {
	sourceID      string
	processID     string
	payload       string
	target        string
	agent         string
	blueprint     string
	schemaVersion string
	out           string
}

var envelopeFormatCmd = &cobra.Command{
	Use:   "format",
	Short: "Build an envelope and render it as a backend record",
	Long: `Wrap a payload into a canonical envelope stamped with the agent
identity and render it as a JSON record for the chosen backend target.

The payload is read from the --payload YAML file; without one the
envelope carries a null payload. The process identifier defaults to a
fresh UUID, so repeated invocations produce distinct records.`,
	Args: cobra.NoArgs,
	RunE: runEnvelopeFormat,
}

var envelopeConvertFlags struct {
	from string
	to   string
	out  string
}

var envelopeConvertCmd = &cobra.Command{
	Use:   "convert [record.json]",
	Short: "Convert a backend record to another backend's dialect",
	Long: `Parse a JSON record in one backend's dialect back into a canonical
envelope and re-render it for another backend. Conversion is lossless:
the canonical envelope carries every field all three backends need.

The record is read from the given file, or from stdin when no file is
named.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnvelopeConvert,
}

func init() {
	rootCmd.AddCommand(envelopeCmd)
	envelopeCmd.AddCommand(envelopeFormatCmd)
	envelopeCmd.AddCommand(envelopeConvertCmd)

	envelopeFormatCmd.Flags().StringVar(&envelopeFormatFlags.sourceID, "source-id", "", "source identifier of the payload (required)")
	envelopeFormatCmd.Flags().StringVar(&envelopeFormatFlags.processID, "process-id", "", "process identifier (defaults to a fresh UUID)")
	envelopeFormatCmd.Flags().StringVarP(&envelopeFormatFlags.payload, "payload", "p", "", "YAML payload file (defaults to a null payload)")
	envelopeFormatCmd.Flags().StringVarP(&envelopeFormatFlags.target, "target", "t", string(envelope.TargetStaging), "backend target: staging, vault, or warehouse")
	envelopeFormatCmd.Flags().StringVar(&envelopeFormatFlags.agent, "agent", "barton-cli", "agent identity stamped into the execution signature")
	envelopeFormatCmd.Flags().StringVar(&envelopeFormatFlags.blueprint, "blueprint", "", "blueprint identity (defaults to \"default\")")
	envelopeFormatCmd.Flags().StringVar(&envelopeFormatFlags.schemaVersion, "schema-version", registry.CurrentSchemaVersion, "registry schema version in force")
	envelopeFormatCmd.Flags().StringVarP(&envelopeFormatFlags.out, "out", "o", "", "write the record to a file instead of stdout")

	envelopeConvertCmd.Flags().StringVar(&envelopeConvertFlags.from, "from", "", "dialect the record is currently in (required)")
	envelopeConvertCmd.Flags().StringVar(&envelopeConvertFlags.to, "to", "", "dialect to convert the record into (required)")
	envelopeConvertCmd.Flags().StringVarP(&envelopeConvertFlags.out, "out", "o", "", "write the converted record to a file instead of stdout")
}

func runEnvelopeFormat(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	if envelopeFormatFlags.sourceID == "" {
		return cli.NewCommandError("envelope format", fmt.Errorf("--source-id is required"))
	}

	target, err := parseTarget(envelopeFormatFlags.target)
	if err != nil {
		return cli.NewCommandError("envelope format", err)
	}

	payload := envelope.NullValue()
	if envelopeFormatFlags.payload != "" {
		data, err := os.ReadFile(envelopeFormatFlags.payload)
		if err != nil {
			return cli.NewCommandError("envelope format", fmt.Errorf("failed to read payload: %w", err))
		}
		if err := yaml.Unmarshal(data, &payload); err != nil {
			return cli.NewCommandError("envelope format",
				fmt.Errorf("failed to parse payload %s: %w", envelopeFormatFlags.payload, err))
		}
	}

	processID := envelopeFormatFlags.processID
	if processID == "" {
		processID = uuid.NewString()
	}

	formatter := envelope.NewFormatter(envelope.FormatterConfig{
		AgentID:       envelopeFormatFlags.agent,
		BlueprintID:   envelopeFormatFlags.blueprint,
		SchemaVersion: envelopeFormatFlags.schemaVersion,
	})

	env := formatter.ToEnvelope(envelopeFormatFlags.sourceID, processID, payload)
	record, err := formatter.FormatFor(env, target)
	if err != nil {
		return cli.NewCommandError("envelope format", err)
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return cli.NewCommandError("envelope format", err)
	}
	return writeOutput(envelopeFormatFlags.out, append(out, '\n'))
}

func runEnvelopeConvert(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	from, err := parseTarget(envelopeConvertFlags.from)
	if err != nil {
		return cli.NewCommandError("envelope convert", fmt.Errorf("--from: %w", err))
	}
	to, err := parseTarget(envelopeConvertFlags.to)
	if err != nil {
		return cli.NewCommandError("envelope convert", fmt.Errorf("--to: %w", err))
	}

	var data []byte
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return cli.NewCommandError("envelope convert", fmt.Errorf("failed to read record: %w", err))
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return cli.NewCommandError("envelope convert", fmt.Errorf("failed to read record from stdin: %w", err))
		}
	}

	converted, err := envelope.Convert(data, from, to)
	if err != nil {
		return cli.NewCommandError("envelope convert", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, converted, "", "  "); err != nil {
		return cli.NewCommandError("envelope convert", err)
	}
	pretty.WriteByte('\n')
	return writeOutput(envelopeConvertFlags.out, pretty.Bytes())
}

func parseTarget(raw string) (envelope.Target, error) {
	target := envelope.Target(raw)
	if !target.Valid() {
		names := make([]string, 0, len(envelope.Targets()))
		for _, t := range envelope.Targets() {
			names = append(names, string(t))
		}
		return "", fmt.Errorf("unknown target %q (valid: %s)", raw, strings.Join(names, ", "))
	}
	return target, nil
}

// writeOutput sends rendered bytes to the named file, or stdout when the
// name is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
