package evalcache

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/tallyboard/internal/types"
)

func TestCache_ApplyOneOverwrites(t *testing.T) {
	cache := NewCache()
	cache.ApplyOne("bilan", types.Evaluation{NodeValue: types.Num(1)})
	cache.ApplyOne("bilan", types.Evaluation{NodeValue: types.Num(2)})

	eval, ok := cache.Get("bilan")
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if v, _ := eval.NodeValue.AsNumber(); v != 2 {
		t.Errorf("value = %v, want 2 (last write wins)", v)
	}
}

func TestCache_ApplyOneReplacesWholeEntry(t *testing.T) {
	cache := NewCache()
	cache.ApplyOne("bilan", types.Evaluation{
		NodeValue:        types.Num(1),
		MissingVariables: []types.RuleName{"transport . avion"},
		IsNullable:       true,
	})
	cache.ApplyOne("bilan", types.Evaluation{NodeValue: types.Num(2)})

	eval, _ := cache.Get("bilan")
	if len(eval.MissingVariables) != 0 {
		t.Error("MissingVariables merged instead of replaced")
	}
	if eval.IsNullable {
		t.Error("IsNullable merged instead of replaced")
	}
}

func TestCache_ApplyManyDuplicateKeyLastWins(t *testing.T) {
	cache := NewCache()
	cache.ApplyMany([]Entry{
		{Name: "bilan", Evaluation: types.Evaluation{NodeValue: types.Num(1)}},
		{Name: "transport", Evaluation: types.Evaluation{NodeValue: types.Num(10)}},
		{Name: "bilan", Evaluation: types.Evaluation{NodeValue: types.Num(3)}},
	})

	eval, _ := cache.Get("bilan")
	if v, _ := eval.NodeValue.AsNumber(); v != 3 {
		t.Errorf("bilan = %v, want 3 (last occurrence in batch wins)", v)
	}
	eval, _ = cache.Get("transport")
	if v, _ := eval.NodeValue.AsNumber(); v != 10 {
		t.Errorf("transport = %v, want 10", v)
	}
}

func TestCache_GetAbsentBeforeFirstResponse(t *testing.T) {
	cache := NewCache()
	if _, ok := cache.Get("bilan"); ok {
		t.Error("Get() ok = true before any engine response, want false")
	}
	if cache.Lookup("bilan") != nil {
		t.Error("Lookup() != nil before any engine response")
	}
}

func TestCache_LookupReturnsCopy(t *testing.T) {
	cache := NewCache()
	cache.ApplyOne("bilan", types.Evaluation{NodeValue: types.Num(1)})

	ptr := cache.Lookup("bilan")
	ptr.NodeValue = types.Num(99)

	eval, _ := cache.Get("bilan")
	if v, _ := eval.NodeValue.AsNumber(); v != 1 {
		t.Error("mutating the Lookup result leaked into the cache")
	}
}

// Last-write-wins must hold for any interleaving of the one and many
// channels: the final value for a key is the last applied, regardless of
// which channel carried each update.
func TestCache_PropertyLastWriteWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("final value is the last applied", prop.ForAll(
		func(values []float64, viaBatch []bool) bool {
			if len(values) == 0 {
				return true
			}

			cache := NewCache()
			for i, v := range values {
				eval := types.Evaluation{NodeValue: types.Num(v)}
				batch := len(viaBatch) > 0 && viaBatch[i%len(viaBatch)]
				if batch {
					cache.ApplyMany([]Entry{{Name: "bilan", Evaluation: eval}})
				} else {
					cache.ApplyOne("bilan", eval)
				}
			}

			eval, ok := cache.Get("bilan")
			if !ok {
				return false
			}
			got, _ := eval.NodeValue.AsNumber()
			return got == values[len(values)-1]
		},
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
