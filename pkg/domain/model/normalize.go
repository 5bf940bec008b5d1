package model

import (
	"sort"
	"strings"
)

// Normalizer rewrites free-form source values to the canonical labels a
// destination schema accepts. Source boards accumulate legacy spellings
// (e.g. "Gallery Talk, Tabling") that must map onto the destination's fixed
// label set ("Tabling/Gallery Talk"). Normalization is best-effort: an
// unmapped value passes through unchanged rather than blocking submission.
type Normalizer struct {
	aliases map[string]string
	folded  map[string]string
}

// NewNormalizer builds a Normalizer from an alias table keyed by source value.
// Case-insensitive lookups go through a pre-folded copy of the table; when two
// alias keys fold to the same string, the lexicographically smaller key wins.
func NewNormalizer(aliases map[string]string) *Normalizer {
	n := &Normalizer{
		aliases: make(map[string]string, len(aliases)),
		folded:  make(map[string]string, len(aliases)),
	}

	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		n.aliases[k] = aliases[k]
		lower := strings.ToLower(k)
		if _, ok := n.folded[lower]; !ok {
			n.folded[lower] = aliases[k]
		}
	}
	return n
}

// Normalize resolves raw against the alias table first (exact match, then
// case-insensitive), then against the canonical label set (case-insensitive).
// If nothing matches, the trimmed raw value is returned unchanged.
func (n *Normalizer) Normalize(raw string, canonical []string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	if mapped, ok := n.aliases[trimmed]; ok {
		return mapped
	}
	if mapped, ok := n.folded[strings.ToLower(trimmed)]; ok {
		return mapped
	}

	for _, label := range canonical {
		if strings.EqualFold(label, trimmed) {
			return label
		}
	}

	return trimmed
}
