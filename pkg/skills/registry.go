// Package skills holds the static table of bundled skills. The order of the
// table is the registration order used for training, digesting and
// equal-priority tie breaks.
package skills

import (
	"github.com/yozuk/yozuk-sub000/pkg/model"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/skills/base64"
	"github.com/yozuk/yozuk-sub000/pkg/skills/dice"
	"github.com/yozuk/yozuk-sub000/pkg/skills/digest"
	"github.com/yozuk/yozuk-sub000/pkg/skills/english"
	"github.com/yozuk/yozuk-sub000/pkg/skills/numeric"
	"github.com/yozuk/yozuk-sub000/pkg/skills/uuid"
)

// KeyPrefix prefixes every skill key.
const KeyPrefix = "yozuk-skill-"

// ModelRootID seeds the registry digest.
const ModelRootID = "wX1dpA9hksOooO4DGfMNp"

// NamedSkillEntry is a skill entry with its key.
type NamedSkillEntry struct {
	Key   string
	Entry sdk.SkillEntry
}

// Skills is the compiled skill registry.
var Skills = []NamedSkillEntry{
	{Key: KeyPrefix + "english", Entry: english.Entry},
	{Key: KeyPrefix + "base64", Entry: base64.Entry},
	{Key: KeyPrefix + "digest", Entry: digest.Entry},
	{Key: KeyPrefix + "dice", Entry: dice.Entry},
	{Key: KeyPrefix + "numeric", Entry: numeric.Entry},
	{Key: KeyPrefix + "uuid", Entry: uuid.Entry},
}

// Digest returns the digest of entries, in order.
func Digest(entries []NamedSkillEntry) [model.DigestLength]byte {
	ids := make([][sdk.ModelIDLength]byte, len(entries))
	for i, e := range entries {
		ids[i] = e.Entry.ModelID
	}
	return model.Digest([]byte(ModelRootID), ids...)
}

// Keys returns the keys of entries, in order.
func Keys(entries []NamedSkillEntry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the entry registered under key.
func Lookup(entries []NamedSkillEntry, key string) (NamedSkillEntry, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return NamedSkillEntry{}, false
}

// FilterByAllowlist keeps the entries named in allowed, in registry order.
// An empty allowlist keeps everything. Names may omit the key prefix.
func FilterByAllowlist(entries []NamedSkillEntry, allowed []string) []NamedSkillEntry {
	if len(allowed) == 0 {
		return entries
	}
	set := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		set[name] = struct{}{}
		set[KeyPrefix+name] = struct{}{}
	}
	var filtered []NamedSkillEntry
	for _, e := range entries {
		if _, ok := set[e.Key]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
