package edgepat

// Database names.
const (
	DatabaseNeo4j = "neo4j"
)

// Output formats accepted by the CLI.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputDDL  = "ddl"
)
