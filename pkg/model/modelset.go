// Package model packages the per-skill tagger models into a single
// digest-protected blob and applies them to token sequences.
package model

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"io"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

const (
	// DigestLength is the size of the trailing registry digest.
	DigestLength = sha1.Size
	headerPrefix = 4
)

var (
	// ErrDigestMismatch means the model was built for a different skill registry.
	ErrDigestMismatch = errors.New("model digest does not match the skill registry")
	// ErrCorrupt means the model data is truncated or malformed.
	ErrCorrupt = errors.New("model data is corrupt")
)

// Digest chains the model ids of a registry into a 20 byte fingerprint,
// starting from the root id.
func Digest(root []byte, ids ...[sdk.ModelIDLength]byte) [DigestLength]byte {
	sum := root
	for _, id := range ids {
		prev := sha1.Sum(sum)
		buf := make([]byte, 0, len(id)+len(prev))
		buf = append(buf, id[:]...)
		buf = append(buf, prev[:]...)
		next := sha1.Sum(buf)
		sum = next[:]
	}
	return sha1.Sum(sum)
}

type indexEntry struct {
	Key   string `cbor:"1,keyasint"`
	Start int    `cbor:"2,keyasint"`
	End   int    `cbor:"3,keyasint"`
}

// ModelSet maps skill keys to their trained model blobs. Keys are sorted so
// lookups use binary search.
type ModelSet struct {
	index []indexEntry
	data  []byte
}

// NewModelSet packs blobs for the given keys. Keys without a blob get an empty range.
func NewModelSet(keys []string, blobs map[string][]byte) *ModelSet {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	ms := &ModelSet{index: make([]indexEntry, 0, len(sorted))}
	var buf bytes.Buffer
	for _, key := range sorted {
		start := buf.Len()
		buf.Write(blobs[key])
		ms.index = append(ms.index, indexEntry{Key: key, Start: start, End: buf.Len()})
	}
	ms.data = buf.Bytes()
	return ms
}

// Load parses a packaged model set and verifies its trailing digest.
func Load(data []byte, digest [DigestLength]byte) (*ModelSet, error) {
	if len(data) < headerPrefix+DigestLength {
		return nil, errors.Wrap(ErrCorrupt, "model data is too short")
	}
	body, trailer := data[:len(data)-DigestLength], data[len(data)-DigestLength:]
	if !bytes.Equal(trailer, digest[:]) {
		return nil, ErrDigestMismatch
	}

	headerLen := int(binary.BigEndian.Uint32(body[:headerPrefix]))
	if headerLen > len(body)-headerPrefix {
		return nil, errors.Wrap(ErrCorrupt, "index length exceeds model size")
	}

	var index []indexEntry
	if err := cbor.Unmarshal(body[headerPrefix:headerPrefix+headerLen], &index); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "failed to decode index: %v", err)
	}

	blobs := body[headerPrefix+headerLen:]
	for i, entry := range index {
		if entry.Start < 0 || entry.End < entry.Start || entry.End > len(blobs) {
			return nil, errors.Wrapf(ErrCorrupt, "invalid range for %q", entry.Key)
		}
		if i > 0 && index[i-1].Key >= entry.Key {
			return nil, errors.Wrapf(ErrCorrupt, "index is not sorted at %q", entry.Key)
		}
	}
	return &ModelSet{index: index, data: blobs}, nil
}

// Write serializes the model set followed by digest.
func (m *ModelSet) Write(w io.Writer, digest [DigestLength]byte) error {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return errors.Wrap(err, "failed to create cbor encoder")
	}
	header, err := em.Marshal(m.index)
	if err != nil {
		return errors.Wrap(err, "failed to encode model index")
	}

	var prefix [headerPrefix]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(header)))
	for _, chunk := range [][]byte{prefix[:], header, m.data, digest[:]} {
		if _, err := w.Write(chunk); err != nil {
			return errors.Wrap(err, "failed to write model set")
		}
	}
	return nil
}

// Bytes returns the serialized model set followed by digest.
func (m *ModelSet) Bytes(digest [DigestLength]byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf, digest); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetIndex returns the position of key in the sorted key list.
func (m *ModelSet) GetIndex(key string) (int, bool) {
	i := sort.Search(len(m.index), func(i int) bool { return m.index[i].Key >= key })
	if i < len(m.index) && m.index[i].Key == key {
		return i, true
	}
	return 0, false
}

// Get returns the model blob of key. Absent keys and empty ranges report false.
func (m *ModelSet) Get(key string) ([]byte, bool) {
	i, ok := m.GetIndex(key)
	if !ok {
		return nil, false
	}
	entry := m.index[i]
	if entry.Start == entry.End {
		return nil, false
	}
	return m.data[entry.Start:entry.End], true
}

// Keys returns the sorted key list.
func (m *ModelSet) Keys() []string {
	keys := make([]string, len(m.index))
	for i, entry := range m.index {
		keys[i] = entry.Key
	}
	return keys
}

// Len returns the number of keys.
func (m *ModelSet) Len() int {
	return len(m.index)
}
