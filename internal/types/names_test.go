package types

import "testing"

func TestRuleName_Addressing(t *testing.T) {
	tests := []struct {
		name     RuleName
		category string
		leaf     string
		parent   RuleName
	}{
		{"transport . voiture . km", "transport", "km", "transport . voiture"},
		{"transport . voiture", "transport", "voiture", "transport"},
		{"bilan", "bilan", "bilan", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := tt.name.Category(); got != tt.category {
				t.Errorf("Category() = %q, want %q", got, tt.category)
			}
			if got := tt.name.Leaf(); got != tt.leaf {
				t.Errorf("Leaf() = %q, want %q", got, tt.leaf)
			}
			if got := tt.name.Parent(); got != tt.parent {
				t.Errorf("Parent() = %q, want %q", got, tt.parent)
			}
		})
	}
}

func TestRuleName_InCategory(t *testing.T) {
	name := RuleName("transport . avion")
	if !name.InCategory("transport") {
		t.Error("InCategory(transport) = false, want true")
	}
	if name.InCategory("logement") {
		t.Error("InCategory(logement) = true, want false")
	}
}
