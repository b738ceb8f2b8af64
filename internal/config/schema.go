package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// configSchema is the compiled JSON Schema for .plpstats.yaml.
var configSchema = func() *jsonschema.Schema {
	sch, err := compileSchema("config.schema.json", schemaJSON)
	if err != nil {
		panic(err)
	}
	return sch
}()

func compileSchema(name, raw string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("adding %s: %w", name, err)
	}
	return c.Compile(name)
}

// Validate checks raw YAML config bytes against the config schema and returns
// one message per violation, prefixed with its location.
func Validate(data []byte) []string {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if doc == nil {
		// empty file
		return nil
	}

	err := configSchema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	return leafMessages(ve, nil)
}

// leafMessages flattens a validation error tree into "/path: message" lines,
// one per leaf, in tree order.
func leafMessages(ve *jsonschema.ValidationError, out []string) []string {
	for _, cause := range ve.Causes {
		out = leafMessages(cause, out)
	}
	if len(ve.Causes) > 0 {
		return out
	}
	return append(out, fmt.Sprintf("/%s: %s",
		strings.Join(ve.InstanceLocation, "/"),
		ve.ErrorKind.LocalizedString(defaultPrinter)))
}
