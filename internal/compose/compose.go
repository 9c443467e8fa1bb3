// Package compose reads the two docker-compose fields this tool touches
// (services[*].secrets and the top-level secrets mapping) and derives
// the override fragment that turns stored secrets into environment-backed
// compose secrets.
package compose

import (
	"encoding/json"
	"fmt"
	"os"

	sterrors "github.com/systmms/ssmtree/internal/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// File models a compose document restricted to the fields we read and
// write. Everything else in the input file is left for docker compose
// itself; merging happens through the -f override mechanism, never here.
type File struct {
	Services map[string]Service          `yaml:"services"`
	Secrets  map[string]SecretDefinition `yaml:"secrets,omitempty"`
}

// Service carries only the secret references of one service
type Service struct {
	Secrets []ServiceSecret `yaml:"secrets,omitempty"`
}

// ServiceSecret is one secret reference: either a bare name or a detail
// record with a source and optional mount attributes.
type ServiceSecret struct {
	Source string
	Target string
	UID    string
	GID    string
	Mode   *uint32

	// bare records that the reference was a plain string, so it
	// round-trips back to one.
	bare bool
}

// serviceSecretDetail is the YAML shape of a detailed reference
type serviceSecretDetail struct {
	Source string  `yaml:"source"`
	Target string  `yaml:"target,omitempty"`
	UID    string  `yaml:"uid,omitempty"`
	GID    string  `yaml:"gid,omitempty"`
	Mode   *uint32 `yaml:"mode,omitempty"`
}

// UnmarshalYAML accepts both reference forms
func (s *ServiceSecret) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Source = node.Value
		s.bare = true
		return nil
	}

	var detail serviceSecretDetail
	if err := node.Decode(&detail); err != nil {
		return err
	}
	s.Source = detail.Source
	s.Target = detail.Target
	s.UID = detail.UID
	s.GID = detail.GID
	s.Mode = detail.Mode
	return nil
}

// MarshalYAML emits the same form the reference was read in
func (s ServiceSecret) MarshalYAML() (interface{}, error) {
	if s.bare {
		return s.Source, nil
	}
	return serviceSecretDetail{
		Source: s.Source,
		Target: s.Target,
		UID:    s.UID,
		GID:    s.GID,
		Mode:   s.Mode,
	}, nil
}

// SecretDefinition is a top-level secret: file-backed, environment-backed
// or external. Exactly one of the fields is set.
type SecretDefinition struct {
	File        string `yaml:"file,omitempty"`
	Environment string `yaml:"environment,omitempty"`
	External    *bool  `yaml:"external,omitempty"`
}

// composeSchema validates the touched fields before decoding, the same
// YAML-to-JSON round-trip used for other schema checks. Fields outside
// services/secrets pass through unvalidated.
const composeSchema = `{
  "type": "object",
  "required": ["services"],
  "properties": {
    "services": {
      "type": "object",
      "additionalProperties": {
        "type": ["object", "null"],
        "properties": {
          "secrets": {
            "type": "array",
            "items": {
              "oneOf": [
                {"type": "string"},
                {
                  "type": "object",
                  "required": ["source"],
                  "properties": {
                    "source": {"type": "string"},
                    "target": {"type": "string"},
                    "uid": {"type": "string"},
                    "gid": {"type": "string"},
                    "mode": {"type": "integer"}
                  }
                }
              ]
            }
          }
        }
      }
    },
    "secrets": {
      "type": ["object", "null"],
      "additionalProperties": {
        "type": ["object", "null"],
        "properties": {
          "file": {"type": "string"},
          "environment": {"type": "string"},
          "external": {"type": "boolean"}
        }
      }
    }
  }
}`

// Parse reads and validates a compose file. Any parse or schema failure
// aborts here, before the first store request.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sterrors.UserError{
			Message:    fmt.Sprintf("Failed to read compose file %s", path),
			Details:    err.Error(),
			Suggestion: "Check that the file exists and is readable",
			Err:        err,
		}
	}

	if err := validate(data); err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, sterrors.ConfigError{
			Field:      path,
			Message:    "invalid compose YAML: " + err.Error(),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}
	return &file, nil
}

// validate checks the touched compose fields against the embedded schema
func validate(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return sterrors.ConfigError{
			Message:    "invalid compose YAML: " + err.Error(),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert compose document for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(composeSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("compose schema validation error: %w", err)
	}

	if !result.Valid() {
		msg := "compose file does not match the expected schema:"
		for _, desc := range result.Errors() {
			msg += "\n  - " + desc.String()
		}
		return sterrors.ConfigError{
			Message:    msg,
			Suggestion: "Check the services and secrets sections against the compose file reference",
		}
	}
	return nil
}

// Marshal renders a compose document as YAML
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
