package sdk

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

// OutputMode distinguishes the single primary output of a run from attachments.
type OutputMode string

const (
	OutputModePrimary    OutputMode = "primary"
	OutputModeAttachment OutputMode = "attachment"
)

// Output is the result of one command.
type Output struct {
	Title    string     `json:"title"`
	Mode     OutputMode `json:"mode"`
	Blocks   []Block    `json:"blocks"`
	Metadata []Metadata `json:"metadata"`
}

// NewOutput returns an empty primary output.
func NewOutput(title string) Output {
	return Output{Title: title, Mode: OutputModePrimary}
}

// AddBlock returns a copy with the blocks appended.
func (o Output) AddBlock(blocks ...Block) Output {
	o.Blocks = append(append([]Block{}, o.Blocks...), blocks...)
	return o
}

// AddMetadata returns a copy with the metadata appended.
func (o Output) AddMetadata(metadata ...Metadata) Output {
	o.Metadata = append(append([]Metadata{}, o.Metadata...), metadata...)
	return o
}

// SetMode returns a copy with the mode replaced.
func (o Output) SetMode(mode OutputMode) Output {
	o.Mode = mode
	return o
}

// IsPrimary reports whether the output competes for the primary slot.
// An unset mode counts as primary.
func (o Output) IsPrimary() bool {
	return o.Mode == "" || o.Mode == OutputModePrimary
}

type rawOutput struct {
	Title    string            `json:"title"`
	Mode     OutputMode        `json:"mode"`
	Blocks   []json.RawMessage `json:"blocks"`
	Metadata []json.RawMessage `json:"metadata"`
}

// MarshalJSON writes blocks and metadata with their type discriminator.
func (o Output) MarshalJSON() ([]byte, error) {
	mode := o.Mode
	if mode == "" {
		mode = OutputModePrimary
	}
	raw := rawOutput{
		Title:    o.Title,
		Mode:     mode,
		Blocks:   make([]json.RawMessage, 0, len(o.Blocks)),
		Metadata: make([]json.RawMessage, 0, len(o.Metadata)),
	}
	for _, b := range o.Blocks {
		data, err := marshalTagged(b.BlockType(), b)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal %s block", b.BlockType())
		}
		raw.Blocks = append(raw.Blocks, data)
	}
	for _, m := range o.Metadata {
		data, err := marshalTagged(m.MetadataType(), m)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal %s metadata", m.MetadataType())
		}
		raw.Metadata = append(raw.Metadata, data)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON restores blocks and metadata from their type discriminator.
// Unknown types are skipped.
func (o *Output) UnmarshalJSON(data []byte) error {
	var raw rawOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Title = raw.Title
	o.Mode = raw.Mode
	o.Blocks = nil
	o.Metadata = nil

	for _, item := range raw.Blocks {
		v, err := unmarshalTagged(item, blockTypeRegistry)
		if err != nil {
			return errors.Wrap(err, "failed to unmarshal block")
		}
		if v != nil {
			o.Blocks = append(o.Blocks, v.(Block))
		}
	}
	for _, item := range raw.Metadata {
		v, err := unmarshalTagged(item, metadataTypeRegistry)
		if err != nil {
			return errors.Wrap(err, "failed to unmarshal metadata")
		}
		if v != nil {
			o.Metadata = append(o.Metadata, v.(Metadata))
		}
	}
	return nil
}

func marshalTagged(kind string, v any) (json.RawMessage, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typeField, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	fields["type"] = typeField
	return json.Marshal(fields)
}

func unmarshalTagged(data json.RawMessage, registry map[string]reflect.Type) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	t, ok := registry[head.Type]
	if !ok {
		return nil, nil
	}
	ptr := reflect.New(t)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, errors.Wrapf(err, "invalid %s payload", head.Type)
	}
	return ptr.Elem().Interface(), nil
}
