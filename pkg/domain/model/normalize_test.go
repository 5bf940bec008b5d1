package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
)

func TestNormalize_AliasTable(t *testing.T) {
	n := model.NewNormalizer(map[string]string{
		"Gallery Talk, Tabling": "Tabling/Gallery Talk",
		"Tabling, Gallery Talk": "Tabling/Gallery Talk",
	})
	canonical := []string{"Tour", "Tabling/Gallery Talk", "Workshop"}

	gt.Value(t, n.Normalize("Gallery Talk, Tabling", canonical)).Equal("Tabling/Gallery Talk")
	gt.Value(t, n.Normalize("  Gallery Talk, Tabling  ", canonical)).Equal("Tabling/Gallery Talk")
	gt.Value(t, n.Normalize("gallery talk, tabling", canonical)).Equal("Tabling/Gallery Talk")
}

func TestNormalize_FoldCollision(t *testing.T) {
	// Two alias keys that fold to the same string must resolve the same way
	// every run: the lexicographically smaller key wins.
	n := model.NewNormalizer(map[string]string{
		"TOUR": "Guided Tour",
		"tour": "Walking Tour",
	})

	for i := 0; i < 20; i++ {
		gt.Value(t, n.Normalize("Tour", nil)).Equal("Guided Tour")
	}
	// Exact matches still take precedence over the folded table.
	gt.Value(t, n.Normalize("tour", nil)).Equal("Walking Tour")
	gt.Value(t, n.Normalize("TOUR", nil)).Equal("Guided Tour")
}

func TestNormalize_CanonicalCaseFold(t *testing.T) {
	n := model.NewNormalizer(nil)
	canonical := []string{"Tour", "Workshop"}

	// Case-insensitive hit against the canonical labels returns the
	// canonical spelling.
	gt.Value(t, n.Normalize("tour", canonical)).Equal("Tour")
	gt.Value(t, n.Normalize("WORKSHOP", canonical)).Equal("Workshop")
}

func TestNormalize_PassThrough(t *testing.T) {
	n := model.NewNormalizer(nil)

	// A miss is not an error; the trimmed raw value passes through.
	gt.Value(t, n.Normalize("  Lecture ", []string{"Tour"})).Equal("Lecture")
	gt.Value(t, n.Normalize("", []string{"Tour"})).Equal("")
}

func TestNormalize_Idempotent(t *testing.T) {
	n := model.NewNormalizer(map[string]string{
		"Gallery Talk, Tabling": "Tabling/Gallery Talk",
	})
	canonical := []string{"Tabling/Gallery Talk"}

	once := n.Normalize("Gallery Talk, Tabling", canonical)
	gt.Value(t, n.Normalize(once, canonical)).Equal(once)
}
