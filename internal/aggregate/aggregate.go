// Package aggregate derives category and sub-category percentages of the
// grand total from evaluation values, for the breakdown chart.
package aggregate

import (
	"sort"

	"github.com/solatis/tallyboard/internal/catalog"
	"github.com/solatis/tallyboard/internal/evalcache"
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Category aggregation.
 *
 * Percentages are derived on every call from the evaluation cache and the
 * static index; nothing is stored independently of its source evaluation.
 * Categories with a non-numeric or missing evaluation are dropped, not
 * zero-filled. Sub-category percentages are computed against the parent
 * category's value, not the grand total.
 *
 * Zero grand total: every category is omitted rather than dividing by
 * zero, so no non-finite percentage ever leaves this package.
 */

// SubShare is one sub-category slice of its parent category.
type SubShare struct {
	Name    types.RuleName
	Value   float64
	Percent float64
}

// CategoryShare is one category slice of the grand total.
type CategoryShare struct {
	Name    string
	Value   float64
	Percent float64
	Subs    []SubShare
}

// Breakdown computes the chart data: per-category percent of the grand
// total, per-sub-category percent of the parent category, both sorted by
// descending percent (stable for ties).
func Breakdown(cache *evalcache.Cache, index catalog.Index) []CategoryShare {
	total := numericValue(cache, index.GrandTotal)
	if total == 0 {
		return nil
	}

	var shares []CategoryShare
	for _, category := range index.Categories {
		eval, ok := cache.Get(types.RuleName(category.Name))
		if !ok {
			continue
		}
		value, ok := eval.NodeValue.AsNumber()
		if !ok {
			continue
		}

		share := CategoryShare{
			Name:    category.Name,
			Value:   value,
			Percent: 100 * value / total,
			Subs:    subShares(cache, category, value),
		}
		shares = append(shares, share)
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percent > shares[j].Percent
	})
	return shares
}

// subShares computes the nested slices scoped to the parent category value.
func subShares(cache *evalcache.Cache, category catalog.Category, categoryValue float64) []SubShare {
	if categoryValue == 0 {
		return nil
	}

	var subs []SubShare
	for _, name := range category.SubCategories {
		eval, ok := cache.Get(name)
		if !ok {
			continue
		}
		value, ok := eval.NodeValue.AsNumber()
		if !ok {
			continue
		}
		subs = append(subs, SubShare{
			Name:    name,
			Value:   value,
			Percent: 100 * value / categoryValue,
		})
	}

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Percent > subs[j].Percent
	})
	return subs
}

// numericValue returns the evaluated number for a rule, or 0 when the
// evaluation is absent or non-numeric.
func numericValue(cache *evalcache.Cache, name types.RuleName) float64 {
	eval, ok := cache.Get(name)
	if !ok {
		return 0
	}
	v, _ := eval.NodeValue.AsNumber()
	return v
}
