// Package numbering implements the doctrine identifier grammars and their
// validator. It parses dotted hierarchical codes and checks them against a
// schema registry, accumulating every violation instead of stopping at the
// first one.
//
// # Grammars
//
// Two grammar variants exist:
//
//   - Barton numbering: five integer segments
//     database.subHive.subSubHive.section.sequence (e.g. "1.5.3.30.0")
//   - UDNS: four segments altitude.module.submodule.action where altitude
//     is an integer level and the remaining segments are free-form tokens
//     (e.g. "20.orchestrator.sync.start")
//
// Segments are separated by "." and integer segments must be written in
// canonical decimal form (no signs, no leading zeros). Parsing is strict:
// a string either yields a fully populated Identifier or a
// MalformedIdentifier error, never a partial result.
//
// # Validation
//
// Validation is a separate pass over an already parsed Identifier. The
// Validator checks each segment against the registry (registered database
// codes, sub-hives under their database, section category ranges, altitude
// levels) and finally checks sequence assignment against the sibling
// sequences the caller supplies. All findings accumulate into an ErrorList:
//
//	id, err := numbering.Parse("1.5.3.30.0", numbering.GrammarBarton)
//	if err != nil {
//	    // malformed input, no Identifier available
//	}
//	v := numbering.NewValidator(registry.Default())
//	if list := v.Validate(id, nil); list.HasErrors() {
//	    for _, e := range list.Errors {
//	        fmt.Println(e.Message)
//	    }
//	}
//
// Sequence checks are advisory by design: a duplicate sequence within a
// scope is an error, but gaps and out-of-order assignments only produce
// warnings so that concurrently authored doctrine entries never block each
// other.
//
// # Thread Safety
//
// Identifier values are immutable. A Validator holds only a registry
// reference and is safe for concurrent use once constructed.
package numbering
