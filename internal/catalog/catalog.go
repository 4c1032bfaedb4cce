// Package catalog loads the static rule metadata and UI index supplied once
// at startup and immutable for the process lifetime.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Startup catalog.
 *
 * Two YAML documents feed the catalog:
 *   - rules file: RuleName -> metadata (title, unit, question, possibilities)
 *   - UI file: ordered categories with question groups and sub-category
 *     names, plus the designated grand-total rule
 *
 * Every name referenced by the UI index must exist in the rules file; the
 * core never invents rule names. The (rule, possibility) lookup table is
 * resolved once here, not recomputed per render.
 */

// Category is one chart/questions category: an ordered list of question
// groups plus the sub-category rules used for nested aggregation.
type Category struct {
	Name          string
	Groups        [][]types.RuleName
	SubCategories []types.RuleName
}

// Index is the static UI structure: declared category display order and the
// grand-total rule whose value is the denominator for category percentages.
type Index struct {
	Categories []Category
	GrandTotal types.RuleName
}

// Catalog holds the immutable rule metadata set and UI index.
type Catalog struct {
	rules         map[types.RuleName]types.RawRule
	names         []types.RuleName
	index         Index
	possibilities map[possibilityKey]types.Possibility
}

type possibilityKey struct {
	rule  types.RuleName
	value string
}

// YAML wire shapes. Kept local; the rest of the system only sees
// types.RawRule and Index.
type rawRuleYAML struct {
	Title         string `yaml:"title"`
	Unit          string `yaml:"unit"`
	Description   string `yaml:"description"`
	Question      string `yaml:"question"`
	Possibilities []struct {
		Value string `yaml:"value"`
		Title string `yaml:"title"`
	} `yaml:"possibilities"`
}

type indexYAML struct {
	Categories []struct {
		Name          string     `yaml:"name"`
		Groups        [][]string `yaml:"groups"`
		SubCategories []string   `yaml:"sub-categories"`
	} `yaml:"categories"`
	GrandTotal string `yaml:"grand-total"`
}

// Load reads and validates the rules and UI index files.
// Any shape mismatch is a catalog decode error; a UI index entry naming an
// uncataloged rule is ErrUnknownRule. Both are fatal at startup since
// nothing can run without a catalog.
func Load(rulesPath, uiPath string) (*Catalog, error) {
	rulesData, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	uiData, err := os.ReadFile(uiPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read UI index file: %w", err)
	}
	return Parse(rulesData, uiData)
}

// Parse builds a catalog from raw YAML documents.
func Parse(rulesData, uiData []byte) (*Catalog, error) {
	var rawRules map[string]rawRuleYAML
	if err := yaml.Unmarshal(rulesData, &rawRules); err != nil {
		return nil, fmt.Errorf("%w: rules: %v", types.ErrDecodeCatalog, err)
	}
	if len(rawRules) == 0 {
		return nil, fmt.Errorf("%w: rules file declares no rules", types.ErrDecodeCatalog)
	}

	var rawIndex indexYAML
	if err := yaml.Unmarshal(uiData, &rawIndex); err != nil {
		return nil, fmt.Errorf("%w: ui index: %v", types.ErrDecodeCatalog, err)
	}
	if rawIndex.GrandTotal == "" {
		return nil, fmt.Errorf("%w: ui index declares no grand-total rule", types.ErrDecodeCatalog)
	}

	cat := &Catalog{
		rules:         make(map[types.RuleName]types.RawRule, len(rawRules)),
		possibilities: make(map[possibilityKey]types.Possibility),
	}

	for name, raw := range rawRules {
		rule := types.RawRule{
			Name:        types.RuleName(name),
			Title:       raw.Title,
			Unit:        raw.Unit,
			Description: raw.Description,
			Question:    raw.Question,
		}
		for _, p := range raw.Possibilities {
			pos := types.Possibility{Value: p.Value, Title: p.Title}
			rule.Possibilities = append(rule.Possibilities, pos)
			cat.possibilities[possibilityKey{rule.Name, p.Value}] = pos
		}
		cat.rules[rule.Name] = rule
		cat.names = append(cat.names, rule.Name)
	}

	// Deterministic name order for evaluateAll requests and iteration.
	sort.Slice(cat.names, func(i, j int) bool { return cat.names[i] < cat.names[j] })

	index, err := cat.buildIndex(rawIndex)
	if err != nil {
		return nil, err
	}
	cat.index = index

	return cat, nil
}

// buildIndex converts the YAML index into typed form, rejecting references
// to rules absent from the metadata set.
func (c *Catalog) buildIndex(raw indexYAML) (Index, error) {
	index := Index{GrandTotal: types.RuleName(raw.GrandTotal)}

	if _, ok := c.rules[index.GrandTotal]; !ok {
		return Index{}, fmt.Errorf("%w: grand-total %q", types.ErrUnknownRule, raw.GrandTotal)
	}

	for _, rc := range raw.Categories {
		// The category name doubles as the rule whose evaluation feeds the
		// breakdown, so it must be cataloged like any other reference.
		if _, ok := c.rules[types.RuleName(rc.Name)]; !ok {
			return Index{}, fmt.Errorf("%w: category %q", types.ErrUnknownRule, rc.Name)
		}
		category := Category{Name: rc.Name}
		for _, group := range rc.Groups {
			var names []types.RuleName
			for _, q := range group {
				name := types.RuleName(q)
				if _, ok := c.rules[name]; !ok {
					return Index{}, fmt.Errorf("%w: question %q in category %q", types.ErrUnknownRule, q, rc.Name)
				}
				names = append(names, name)
			}
			category.Groups = append(category.Groups, names)
		}
		for _, sub := range rc.SubCategories {
			name := types.RuleName(sub)
			if _, ok := c.rules[name]; !ok {
				return Index{}, fmt.Errorf("%w: sub-category %q in category %q", types.ErrUnknownRule, sub, rc.Name)
			}
			category.SubCategories = append(category.SubCategories, name)
		}
		index.Categories = append(index.Categories, category)
	}

	return index, nil
}

// Rule returns the metadata for a name.
func (c *Catalog) Rule(name types.RuleName) (types.RawRule, bool) {
	r, ok := c.rules[name]
	return r, ok
}

// Has reports whether the name exists in the metadata set.
func (c *Catalog) Has(name types.RuleName) bool {
	_, ok := c.rules[name]
	return ok
}

// Names returns every known rule name in deterministic (sorted) order.
// Callers must not mutate the returned slice.
func (c *Catalog) Names() []types.RuleName {
	return c.names
}

// Index returns the static UI structure.
func (c *Catalog) Index() Index {
	return c.index
}

// Possibility resolves a declared one-of option for a rule.
func (c *Catalog) Possibility(rule types.RuleName, value string) (types.Possibility, bool) {
	p, ok := c.possibilities[possibilityKey{rule, value}]
	return p, ok
}

// Len returns the number of cataloged rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}
