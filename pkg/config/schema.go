package config

//go:generate go run ../../tools/schema-generator -o ../../schema/textpatch.schema.json

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema reflects the JSON schema of the manifest format.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Manifest{})
	schema.Title = "textpatch manifest"
	schema.Description = "Guarded text substitutions applied by textpatch."
	return schema
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
