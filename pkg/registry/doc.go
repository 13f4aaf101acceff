// Package registry holds the schema registry: the catalog of permitted
// identifier segment values, ranges, and section categories that the
// numbering validator checks against.
//
// A Registry is loaded once at process start, either from a YAML source
// via Load or as the builtin doctrine catalog via Default. Loading fails
// fast with a *LoadError on any structural defect (duplicate codes,
// overlapping section ranges, non-monotonic bounds, incompatible schema
// version). After a successful load the Registry is immutable and safe to
// share across goroutines without locking.
//
// The registry is a pure lookup table. No validation logic lives here;
// the validator in pkg/numbering owns the rules and queries this catalog
// through SegmentRule, CategoryFor, and the typed accessors.
//
// # Source Format
//
//	schema_version: "1.0.0"
//	databases:
//	  - code: 1
//	    name: command
//	    sub_hives:
//	      - code: 1
//	        name: clients
//	sub_sub_hive:
//	  min: 0
//	  max: 99
//	sections:
//	  - min: 30
//	    max: 39
//	    category: compliance
//	altitudes:
//	  - code: 20
//	    name: operational
//
// Every registry carries a content version, a 16 character hash over the
// loaded catalog. Two registries with identical content always report the
// same version, which lets audit records pin the exact rule set they were
// produced under.
package registry
