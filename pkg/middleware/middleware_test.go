package middleware

import (
	"errors"
	"testing"
	"time"

	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/envelope"
	"barton-hq/meridian/pkg/numbering"
	"barton-hq/meridian/pkg/registry"
)

func testTool() *Tool {
	return ForCaller("intake-gateway", Config{
		Registry:    registry.Default(),
		BlueprintID: "digest-v2",
		Clock: func() time.Time {
			return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		},
	})
}

func TestCreatePayloadSignsAsCaller(t *testing.T) {
	tool := testTool()
	env := tool.CreatePayload("1.3.0.10.0", "20.orchestration.render.execute",
		envelope.MapValue(map[string]envelope.Value{"subject": envelope.StringValue("digest")}))

	want := envelope.ComputeSignature("intake-gateway", "digest-v2", registry.CurrentSchemaVersion)
	if env.ExecutionSignature != want {
		t.Errorf("ExecutionSignature = %q, want %q", env.ExecutionSignature, want)
	}
	if env.Validated {
		t.Error("fresh envelope Validated = true, want false")
	}
}

func TestValidateTagsReportWithCaller(t *testing.T) {
	tool := testTool()
	env := tool.CreatePayload("1.3.0.10.0", "20.orchestration.render.execute", envelope.NullValue())

	report := tool.Validate(env)
	if report.Caller != "intake-gateway" {
		t.Errorf("report caller = %q, want %q", report.Caller, "intake-gateway")
	}
	if report.Status != compliance.StatusPass {
		t.Errorf("Status = %v, want PASS (findings: %v)", report.Status, report.Findings)
	}
}

func TestValidateForEachBackend(t *testing.T) {
	tool := testTool()
	env := tool.CreatePayload("1.3.0.10.0", "20.orchestration.render.execute",
		envelope.MapValue(map[string]envelope.Value{"subject": envelope.StringValue("digest")}))

	flows := []struct {
		name     string
		validate func(envelope.Envelope) (*envelope.Record, *compliance.Report, error)
		target   envelope.Target
	}{
		{name: "staging", validate: tool.ValidateForStaging, target: envelope.TargetStaging},
		{name: "vault", validate: tool.ValidateForVault, target: envelope.TargetVault},
		{name: "warehouse", validate: tool.ValidateForWarehouse, target: envelope.TargetWarehouse},
	}

	for _, flow := range flows {
		t.Run(flow.name, func(t *testing.T) {
			record, report, err := flow.validate(env)
			if err != nil {
				t.Fatalf("validate error = %v", err)
			}
			if !report.Passed() {
				t.Fatalf("report failed: %v", report.Findings)
			}
			if record == nil {
				t.Fatal("record = nil on passing report")
			}
			if record.Target() != flow.target {
				t.Errorf("record target = %v, want %v", record.Target(), flow.target)
			}
			if !record.Envelope().Validated {
				t.Error("rendered envelope not marked validated")
			}
		})
	}
}

func TestValidateForFailingEnvelopeProducesNoRecord(t *testing.T) {
	tool := testTool()
	env := tool.CreatePayload("1.6.3.30.0", "20.orchestration.render.execute", envelope.NullValue())

	record, report, err := tool.ValidateForStaging(env)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if report.Passed() {
		t.Fatal("report passed for unknown sub-hive")
	}
	if record != nil {
		t.Errorf("record = %v, want nil on failing report", record)
	}
}

func TestValidateForReservedPayloadKey(t *testing.T) {
	tool := testTool()
	env := tool.CreatePayload("1.3.0.10.0", "20.orchestration.render.execute",
		envelope.MapValue(map[string]envelope.Value{"sourceId": envelope.StringValue("smuggled")}))

	record, report, err := tool.ValidateForVault(env)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if report.Passed() {
		t.Fatal("report passed despite reserved payload key")
	}
	if record != nil {
		t.Errorf("record = %v, want nil on failing report", record)
	}
}

func TestValidateForReservedKeyWithoutStructuralRule(t *testing.T) {
	// Without the structural rule the envelope passes evaluation; the
	// formatter still refuses the reserved key at rendering time.
	tool := ForCaller("intake-gateway", Config{
		Registry:    registry.Default(),
		BlueprintID: "digest-v2",
		Rules:       []compliance.Rule{compliance.OwnershipRule()},
	})
	env := tool.CreatePayload("1.3.0.10.0", "20.orchestration.render.execute",
		envelope.MapValue(map[string]envelope.Value{"sourceId": envelope.StringValue("smuggled")}))

	record, report, err := tool.ValidateForVault(env)
	var fieldErr *envelope.IncompatibleFieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("error = %v, want IncompatibleFieldError", err)
	}
	if record != nil {
		t.Error("record produced despite reserved key collision")
	}
	if report == nil || !report.Passed() {
		t.Error("compliance report should still be returned and pass")
	}
}

func TestValidateIdentifier(t *testing.T) {
	tool := testTool()

	if report := tool.ValidateIdentifier("1.5.3.30.0", numbering.GrammarBarton); !report.Passed() {
		t.Errorf("valid identifier failed: %v", report.Findings)
	}
	if report := tool.ValidateIdentifier("1.6.3.30.0", numbering.GrammarBarton); report.Passed() {
		t.Error("unknown scope passed validation")
	}
}
