package pricing

import (
	"github.com/rickgao/market-pricer/internal/model"
)

// Variant is how an item is leveled.
type Variant string

const (
	VariantRegular Variant = "regular"
	VariantMod     Variant = "mod"
	VariantArcane  Variant = "arcane"
)

// Arcane max ranks.
const (
	ArcaneMaxRank       = 5
	LegacyArcaneMaxRank = 3
)

// legacyArcanes cap at rank 3 instead of 5.
var legacyArcanes = map[string]bool{
	"arcane_resistance":  true,
	"arcane_warmth":      true,
	"arcane_null_strike": true,
	"arcane_deflection":  true,
	"arcane_aegis":       true,
}

// Classification says which orders of an item are comparable.
type Classification struct {
	Variant Variant
	MaxRank int
}

// Leveled reports whether only max-rank orders are comparable.
func (c Classification) Leveled() bool {
	return c.Variant != VariantRegular
}

// Comparable reports whether an order of the classified item may be compared.
func (c Classification) Comparable(o model.MarketOrder) bool {
	if !c.Leveled() {
		return true
	}
	if c.MaxRank <= 0 {
		return false
	}
	return o.Rank != nil && *o.Rank == c.MaxRank
}

// Classify determines an item's variant and max rank from its tags.
func Classify(item model.Item) (Classification, error) {
	if item.Tags == nil {
		return Classification{}, &model.ValidationError{Field: "item.tags", Value: item.Key, Reason: "missing tag list"}
	}

	switch {
	case item.HasTag("mod"):
		return Classification{Variant: VariantMod, MaxRank: item.ModMaxRank}, nil
	case item.HasTag("arcane"):
		maxRank := ArcaneMaxRank
		if legacyArcanes[item.Key] {
			maxRank = LegacyArcaneMaxRank
		}
		return Classification{Variant: VariantArcane, MaxRank: maxRank}, nil
	default:
		return Classification{Variant: VariantRegular}, nil
	}
}
