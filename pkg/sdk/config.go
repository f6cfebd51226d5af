package sdk

import (
	"encoding/json"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// SkillConfig is the per-skill configuration after schema validation.
type SkillConfig struct {
	values map[string]any
}

// GenerateSchema returns the JSON schema of the config struct T.
func GenerateSchema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	var v T
	data, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		panic(errors.Wrap(err, "failed to marshal generated schema"))
	}
	return string(data)
}

// NewSkillConfig validates values against schema. An empty schema accepts
// anything. A nil map validates as an empty object.
func NewSkillConfig(schema string, values map[string]any) (SkillConfig, error) {
	if values == nil {
		values = map[string]any{}
	}
	if schema == "" {
		return SkillConfig{values: values}, nil
	}

	var s gjsonschema.Schema
	if err := json.Unmarshal([]byte(schema), &s); err != nil {
		return SkillConfig{}, errors.Wrap(err, "invalid config schema")
	}
	resolved, err := s.Resolve(&gjsonschema.ResolveOptions{})
	if err != nil {
		return SkillConfig{}, errors.Wrap(err, "failed to resolve config schema")
	}

	// Validate works on plain JSON values, so normalize what viper produced.
	data, err := json.Marshal(values)
	if err != nil {
		return SkillConfig{}, errors.Wrap(err, "failed to encode config")
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return SkillConfig{}, errors.Wrap(err, "failed to decode config")
	}
	if err := resolved.Validate(instance); err != nil {
		return SkillConfig{}, errors.Wrap(err, "config does not match schema")
	}
	return SkillConfig{values: values}, nil
}

// Decode copies the config into out, matching fields by their json tag.
func (c SkillConfig) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create config decoder")
	}
	if err := decoder.Decode(c.values); err != nil {
		return errors.Wrap(err, "failed to decode skill config")
	}
	return nil
}

// IsEmpty reports whether no option was set.
func (c SkillConfig) IsEmpty() bool {
	return len(c.values) == 0
}
