package udf

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec decodes the raw bytes a Watcher emits into a Source's value type.
type Codec interface {
	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type, reported in source signals.
	ContentType() string
}

// JSONCodec decodes JSON. It is the default Source codec.
type JSONCodec struct{}

// Unmarshal decodes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec decodes YAML, which also accepts JSON documents.
type YAMLCodec struct{}

// Unmarshal decodes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)
