package registry

// CurrentSchemaVersion is the catalog format version this build writes and
// the version the builtin registry declares.
const CurrentSchemaVersion = "1.0.0"

// Default returns the builtin doctrine registry: two databases with their
// named sub-hives, the 0-99 sub-sub-hive range, the five section
// categories covering 0-49, and the five UDNS altitude levels.
//
// Default never fails and always returns a fresh value, so callers may
// use it without a registry file and still share it freely.
func Default() *Registry {
	reg := &Registry{
		schemaVersion: CurrentSchemaVersion,
		databases: []Database{
			{
				Code: 1,
				Name: "command",
				SubHives: []SubHive{
					{Code: 1, Name: "clients"},
					{Code: 2, Name: "operations"},
					{Code: 3, Name: "doctrine"},
					{Code: 4, Name: "personnel"},
					{Code: 5, Name: "finance"},
				},
			},
			{
				Code: 2,
				Name: "marketing",
				SubHives: []SubHive{
					{Code: 1, Name: "campaigns"},
					{Code: 2, Name: "audiences"},
					{Code: 3, Name: "content"},
					{Code: 4, Name: "analytics"},
				},
			},
		},
		subSubMin: defaultSubSubMin,
		subSubMax: defaultSubSubMax,
		sections: []SectionRange{
			{Min: 0, Max: 9, Category: "structure"},
			{Min: 10, Max: 19, Category: "process"},
			{Min: 20, Max: 29, Category: "data"},
			{Min: 30, Max: 39, Category: "compliance"},
			{Min: 40, Max: 49, Category: "messaging"},
		},
		altitudes: []Altitude{
			{Code: 10, Name: "ground"},
			{Code: 20, Name: "operational"},
			{Code: 30, Name: "tactical"},
			{Code: 40, Name: "strategic"},
			{Code: 50, Name: "vision"},
		},
	}
	reg.finalize()
	return reg
}
