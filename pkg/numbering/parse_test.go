package numbering

import (
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		grammar Grammar
	}{
		{name: "doctrine entry", raw: "1.5.3.30.0", grammar: GrammarBarton},
		{name: "zero segments", raw: "1.1.0.0.0", grammar: GrammarBarton},
		{name: "large sequence", raw: "2.4.99.49.12345", grammar: GrammarBarton},
		{name: "udns diagnostic", raw: "20.orchestrator.sync.start", grammar: GrammarUDNS},
		{name: "udns numeric tokens", raw: "10.mod1.sub2.act3", grammar: GrammarUDNS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.raw, tt.grammar)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v, want nil", tt.raw, err)
			}
			if got := id.String(); got != tt.raw {
				t.Errorf("String() = %q, want round-trip to %q", got, tt.raw)
			}
			if got := id.Grammar(); got != tt.grammar {
				t.Errorf("Grammar() = %q, want %q", got, tt.grammar)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		grammar Grammar
	}{
		{name: "empty string", raw: "", grammar: GrammarBarton},
		{name: "too few segments", raw: "1.5.3.30", grammar: GrammarBarton},
		{name: "too many segments", raw: "1.5.3.30.0.7", grammar: GrammarBarton},
		{name: "non-numeric segment", raw: "1.5.x.30.0", grammar: GrammarBarton},
		{name: "empty segment", raw: "1..3.30.0", grammar: GrammarBarton},
		{name: "leading zero", raw: "01.5.3.30.0", grammar: GrammarBarton},
		{name: "negative segment", raw: "1.-5.3.30.0", grammar: GrammarBarton},
		{name: "plus sign", raw: "1.+5.3.30.0", grammar: GrammarBarton},
		{name: "whitespace segment", raw: "1. 5.3.30.0", grammar: GrammarBarton},
		{name: "udns wrong arity", raw: "20.orchestrator.sync", grammar: GrammarUDNS},
		{name: "udns non-numeric altitude", raw: "high.orchestrator.sync.start", grammar: GrammarUDNS},
		{name: "udns empty altitude", raw: ".orchestrator.sync.start", grammar: GrammarUDNS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.raw, tt.grammar)
			if err == nil {
				t.Fatalf("Parse(%q) error = nil, want MalformedIdentifier", tt.raw)
			}
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("Parse(%q) error type = %T, want *Error", tt.raw, err)
			}
			if perr.Type != ErrorTypeMalformedIdentifier {
				t.Errorf("error type = %s, want %s", perr.Type, ErrorTypeMalformedIdentifier)
			}
			if !id.IsZero() {
				t.Errorf("Parse(%q) returned a partially populated identifier: %v", tt.raw, id)
			}
		})
	}
}

func TestParseUnknownGrammar(t *testing.T) {
	_, err := Parse("1.5.3.30.0", Grammar("dewey"))
	if err == nil {
		t.Fatal("Parse() error = nil, want unknown grammar error")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Parse() error type = %T, want *Error", err)
	}
	if perr.Type != ErrorTypeMalformedIdentifier {
		t.Errorf("error type = %s, want %s", perr.Type, ErrorTypeMalformedIdentifier)
	}
}

func TestParseSegmentAccessors(t *testing.T) {
	id, err := Parse("1.5.3.30.7", GrammarBarton)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := id.Database(); got != 1 {
		t.Errorf("Database() = %d, want 1", got)
	}
	if got := id.SubHive(); got != 5 {
		t.Errorf("SubHive() = %d, want 5", got)
	}
	if got := id.SubSubHive(); got != 3 {
		t.Errorf("SubSubHive() = %d, want 3", got)
	}
	if got := id.Section(); got != 30 {
		t.Errorf("Section() = %d, want 30", got)
	}
	if got := id.Sequence(); got != 7 {
		t.Errorf("Sequence() = %d, want 7", got)
	}
	if got := id.Scope(); got != "1.5.3.30" {
		t.Errorf("Scope() = %q, want %q", got, "1.5.3.30")
	}

	udns, err := Parse("20.orchestrator.sync.start", GrammarUDNS)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := udns.Altitude(); got != 20 {
		t.Errorf("Altitude() = %d, want 20", got)
	}
	if got := udns.Module(); got != "orchestrator" {
		t.Errorf("Module() = %q, want %q", got, "orchestrator")
	}
	if got := udns.Submodule(); got != "sync" {
		t.Errorf("Submodule() = %q, want %q", got, "sync")
	}
	if got := udns.Action(); got != "start" {
		t.Errorf("Action() = %q, want %q", got, "start")
	}
}

func TestMustParsePanicsOnMalformed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse() did not panic on malformed input")
		}
	}()
	MustParse("not.an.identifier", GrammarBarton)
}

func TestGrammarArity(t *testing.T) {
	if got := GrammarBarton.Arity(); got != 5 {
		t.Errorf("GrammarBarton.Arity() = %d, want 5", got)
	}
	if got := GrammarUDNS.Arity(); got != 4 {
		t.Errorf("GrammarUDNS.Arity() = %d, want 4", got)
	}
	if got := Grammar("bogus").Arity(); got != 0 {
		t.Errorf("unknown grammar Arity() = %d, want 0", got)
	}
}

func TestParseGrammar(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Grammar
		wantErr bool
	}{
		{name: "barton", input: "barton", want: GrammarBarton},
		{name: "udns", input: "udns", want: GrammarUDNS},
		{name: "unknown", input: "dewey", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGrammar(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGrammar(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGrammar(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
