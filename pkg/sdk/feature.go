package sdk

import "fmt"

// Feature is a named signal attached to a token position. Pos is the relative
// offset of the token the feature was borrowed from (0 for the token itself).
// NonEntity marks structural features such as stop words.
type Feature struct {
	Name      string `json:"name"`
	NonEntity bool   `json:"non_entity,omitempty"`
	Pos       int    `json:"pos,omitempty"`
}

// String renders the attribute key fed to the tagger.
func (f Feature) String() string {
	return fmt.Sprintf("%s@%d", f.Name, f.Pos)
}

// HasNonEntity reports whether any feature in the list is a non-entity feature.
func HasNonEntity(features []Feature) bool {
	for _, f := range features {
		if f.NonEntity {
			return true
		}
	}
	return false
}
