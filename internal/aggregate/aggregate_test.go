package aggregate

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/tallyboard/internal/catalog"
	"github.com/solatis/tallyboard/internal/evalcache"
	"github.com/solatis/tallyboard/internal/types"
)

func testIndex() catalog.Index {
	return catalog.Index{
		GrandTotal: "bilan",
		Categories: []catalog.Category{
			{Name: "transport", SubCategories: []types.RuleName{"transport . voiture", "transport . avion"}},
			{Name: "alimentation"},
			{Name: "logement"},
		},
	}
}

func numCache(values map[types.RuleName]float64) *evalcache.Cache {
	cache := evalcache.NewCache()
	for name, v := range values {
		cache.ApplyOne(name, types.Evaluation{NodeValue: types.Num(v)})
	}
	return cache
}

func TestBreakdown_PercentOfGrandTotal(t *testing.T) {
	cache := numCache(map[types.RuleName]float64{
		"bilan":        200,
		"transport":    150,
		"alimentation": 50,
	})

	shares := Breakdown(cache, testIndex())
	if len(shares) != 2 {
		t.Fatalf("shares = %d, want 2 (logement has no evaluation)", len(shares))
	}

	if shares[0].Name != "transport" || shares[0].Percent != 75 {
		t.Errorf("shares[0] = %s %v%%, want transport 75%%", shares[0].Name, shares[0].Percent)
	}
	if shares[1].Name != "alimentation" || shares[1].Percent != 25 {
		t.Errorf("shares[1] = %s %v%%, want alimentation 25%%", shares[1].Name, shares[1].Percent)
	}
}

func TestBreakdown_SortedByDescendingPercent(t *testing.T) {
	cache := numCache(map[types.RuleName]float64{
		"bilan":        100,
		"transport":    20,
		"alimentation": 50,
		"logement":     30,
	})

	shares := Breakdown(cache, testIndex())
	if len(shares) != 3 {
		t.Fatalf("shares = %d, want 3", len(shares))
	}
	for i := 1; i < len(shares); i++ {
		if shares[i-1].Percent < shares[i].Percent {
			t.Fatalf("not descending at %d: %v%% then %v%%", i, shares[i-1].Percent, shares[i].Percent)
		}
	}
	if shares[0].Name != "alimentation" {
		t.Errorf("largest share = %s, want alimentation", shares[0].Name)
	}
}

func TestBreakdown_SubSharesScopedToParentCategory(t *testing.T) {
	// A sub-category worth 50 inside a category worth 50 is 100% of the
	// category, regardless of the grand total.
	cache := numCache(map[types.RuleName]float64{
		"bilan":               400,
		"transport":           50,
		"transport . voiture": 50,
		"transport . avion":   0,
	})

	shares := Breakdown(cache, testIndex())
	if len(shares) != 1 {
		t.Fatalf("shares = %d, want 1", len(shares))
	}

	subs := shares[0].Subs
	if len(subs) != 2 {
		t.Fatalf("subs = %d, want 2", len(subs))
	}
	if subs[0].Name != "transport . voiture" || subs[0].Percent != 100 {
		t.Errorf("subs[0] = %s %v%%, want transport . voiture 100%%", subs[0].Name, subs[0].Percent)
	}
	if subs[1].Percent != 0 {
		t.Errorf("subs[1].Percent = %v, want 0", subs[1].Percent)
	}
}

func TestBreakdown_ZeroGrandTotalOmitsEverything(t *testing.T) {
	cache := numCache(map[types.RuleName]float64{
		"bilan":     0,
		"transport": 150,
	})

	if shares := Breakdown(cache, testIndex()); shares != nil {
		t.Errorf("Breakdown() = %v, want nil at zero grand total", shares)
	}
}

func TestBreakdown_MissingGrandTotalOmitsEverything(t *testing.T) {
	cache := numCache(map[types.RuleName]float64{"transport": 150})

	if shares := Breakdown(cache, testIndex()); shares != nil {
		t.Errorf("Breakdown() = %v, want nil without grand total", shares)
	}
}

func TestBreakdown_NonNumericCategoryDropped(t *testing.T) {
	cache := numCache(map[types.RuleName]float64{
		"bilan":        100,
		"alimentation": 40,
	})
	cache.ApplyOne("transport", types.Evaluation{NodeValue: types.Str("indisponible")})
	cache.ApplyOne("logement", types.Evaluation{NodeValue: types.Empty()})

	shares := Breakdown(cache, testIndex())
	if len(shares) != 1 {
		t.Fatalf("shares = %d, want 1 (non-numeric categories dropped)", len(shares))
	}
	if shares[0].Name != "alimentation" {
		t.Errorf("shares[0] = %s, want alimentation", shares[0].Name)
	}
}

// No matter what the engine reports, percentages leaving this package are
// finite.
func TestBreakdown_PropertyPercentagesAlwaysFinite(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("no NaN or Inf percent", prop.ForAll(
		func(total, transport, voiture, avion, alimentation float64) bool {
			cache := numCache(map[types.RuleName]float64{
				"bilan":               total,
				"transport":           transport,
				"transport . voiture": voiture,
				"transport . avion":   avion,
				"alimentation":        alimentation,
			})

			for _, share := range Breakdown(cache, testIndex()) {
				if math.IsNaN(share.Percent) || math.IsInf(share.Percent, 0) {
					return false
				}
				for _, sub := range share.Subs {
					if math.IsNaN(sub.Percent) || math.IsInf(sub.Percent, 0) {
						return false
					}
				}
			}
			return true
		},
		gen.Float64Range(-1e9, 1e9),
		gen.Float64Range(-1e9, 1e9),
		gen.Float64Range(-1e9, 1e9),
		gen.Float64Range(-1e9, 1e9),
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}
