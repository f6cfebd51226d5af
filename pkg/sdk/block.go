package sdk

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

// Block is one renderable piece of an Output.
type Block interface {
	BlockType() string
}

// Block type identifiers used as the JSON discriminator.
const (
	BlockTypeComment     = "comment"
	BlockTypeData        = "data"
	BlockTypeSpoiler     = "spoiler"
	BlockTypeCommandList = "command_list"
	BlockTypePreview     = "preview"
)

var blockTypeRegistry = map[string]reflect.Type{
	BlockTypeComment:     reflect.TypeOf(Comment{}),
	BlockTypeData:        reflect.TypeOf(Data{}),
	BlockTypeSpoiler:     reflect.TypeOf(Spoiler{}),
	BlockTypeCommandList: reflect.TypeOf(CommandList{}),
	BlockTypePreview:     reflect.TypeOf(Preview{}),
}

// Comment is a short human readable remark.
type Comment struct {
	Title     string `json:"title,omitempty"`
	Text      string `json:"text"`
	MediaType string `json:"media_type"`
}

// NewComment returns a plain text comment.
func NewComment(text string) Comment {
	return Comment{Text: text, MediaType: DefaultMediaType}
}

func (Comment) BlockType() string { return BlockTypeComment }

// Data is the payload produced by a command.
type Data struct {
	Data      Bytes  `json:"data"`
	Title     string `json:"title,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	MediaType string `json:"media_type"`
}

// NewData returns an opaque binary payload.
func NewData(data []byte) Data {
	return Data{Data: Bytes(data), MediaType: "application/octet-stream"}
}

// NewTextData returns a plain text payload.
func NewTextData(text string) Data {
	return Data{Data: Bytes(text), MediaType: DefaultMediaType}
}

// NewJSONData returns the indented JSON encoding of v.
func NewJSONData(v any) (Data, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Data{}, errors.Wrap(err, "failed to encode json data")
	}
	return Data{Data: Bytes(data), MediaType: "application/json"}, nil
}

func (Data) BlockType() string { return BlockTypeData }

// Spoiler is a secret value that adapters should hide until requested.
type Spoiler struct {
	Title string `json:"title"`
	Data  Bytes  `json:"data"`
}

func (Spoiler) BlockType() string { return BlockTypeSpoiler }

// CommandList offers follow-up requests the user may try.
type CommandList struct {
	Title    string   `json:"title,omitempty"`
	Commands []string `json:"commands"`
}

func (CommandList) BlockType() string { return BlockTypeCommandList }

// Preview is a compact rendering hint such as a color swatch.
type Preview struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (Preview) BlockType() string { return BlockTypePreview }

// Metadata is a side channel hint attached to an Output.
type Metadata interface {
	MetadataType() string
}

// Metadata type identifiers used as the JSON discriminator.
const (
	MetadataTypeDocs  = "docs"
	MetadataTypeShare = "share"
	MetadataTypeValue = "value"
	MetadataTypeColor = "color"
)

var metadataTypeRegistry = map[string]reflect.Type{
	MetadataTypeDocs:  reflect.TypeOf(Docs{}),
	MetadataTypeShare: reflect.TypeOf(Share{}),
	MetadataTypeValue: reflect.TypeOf(Value{}),
	MetadataTypeColor: reflect.TypeOf(Color{}),
}

// Docs links to documentation for the result.
type Docs struct {
	URL string `json:"url"`
}

func (Docs) MetadataType() string { return MetadataTypeDocs }

// Share links to a shareable rendering of the result.
type Share struct {
	URL string `json:"url"`
}

func (Share) MetadataType() string { return MetadataTypeShare }

// Value carries the machine readable result.
type Value struct {
	Value any `json:"value"`
}

func (Value) MetadataType() string { return MetadataTypeValue }

// Color carries a CSS color.
type Color struct {
	Color string `json:"color"`
}

func (Color) MetadataType() string { return MetadataTypeColor }
