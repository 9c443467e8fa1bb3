// Package chunk maps arbitrary-size payloads onto bounded-size Parameter
// Store values. A payload that fits the chunk size is stored verbatim at
// its base key; anything larger is split into consecutive slices stored
// at <base>.part0, <base>.part1, ... . Decoding regroups fetched entries
// by base key and reassembles them in index order.
package chunk

import (
	"sort"
	"strconv"
	"strings"
)

// PartSuffix is the reserved key suffix that marks one slice of a split
// payload. It is an encoding artifact: logical paths never contain it.
const PartSuffix = ".part"

// Part is one stored slice of a payload
type Part struct {
	Key   string
	Value string
}

// Encode splits content into parts of at most chunkSize bytes each.
// Content that fits in a single chunk is emitted under baseKey itself,
// with no part suffix. Concatenating the emitted values in order always
// reproduces content exactly.
func Encode(content []byte, baseKey string, chunkSize int) []Part {
	if chunkSize < 1 {
		chunkSize = 1
	}

	if len(content) <= chunkSize {
		return []Part{{Key: baseKey, Value: string(content)}}
	}

	parts := make([]Part, 0, (len(content)+chunkSize-1)/chunkSize)
	for i := 0; i*chunkSize < len(content); i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(content) {
			end = len(content)
		}
		parts = append(parts, Part{
			Key:   baseKey + PartSuffix + strconv.Itoa(i),
			Value: string(content[start:end]),
		})
	}
	return parts
}

// ParseKey derives the base key and chunk index from a stored key.
// A key is a chunk only when it ends in ".part<N>" with N a non-negative
// decimal integer; any key where that parse fails is its own base with
// index 0. The parse happens once here, at the store boundary, so the
// rest of the code never re-derives suffixes ad hoc.
func ParseKey(key string) (base string, index int) {
	i := strings.LastIndex(key, PartSuffix)
	if i < 0 {
		return key, 0
	}

	n, err := strconv.Atoi(key[i+len(PartSuffix):])
	if err != nil || n < 0 {
		// Looks like a part marker but isn't one ("x.partY", "x.part-1"):
		// the whole key is the base.
		return key, 0
	}
	return key[:i], n
}

// indexed pairs a part's value with its parsed chunk index for sorting
type indexed struct {
	index int
	value string
}

// Decode reassembles payloads from an unordered set of fetched parts.
// Parts are grouped by parsed base key and concatenated in ascending
// index order. Duplicate indices are a store-consistency anomaly the
// codec cannot prevent; the stable sort keeps both occurrences, so the
// later-listed duplicate lands after the earlier one. Decode never fails
// on malformed keys.
func Decode(parts []Part) map[string]string {
	groups := make(map[string][]indexed)
	for _, p := range parts {
		base, idx := ParseKey(p.Key)
		groups[base] = append(groups[base], indexed{index: idx, value: p.Value})
	}

	out := make(map[string]string, len(groups))
	for base, chunks := range groups {
		sort.SliceStable(chunks, func(i, j int) bool {
			return chunks[i].index < chunks[j].index
		})
		var sb strings.Builder
		for _, c := range chunks {
			sb.WriteString(c.value)
		}
		out[base] = sb.String()
	}
	return out
}
