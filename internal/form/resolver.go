// Package form derives the input control for each question rule from
// declared rule metadata and current evaluation state.
package form

import (
	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Form-control resolution.
 *
 * Resolve is a pure function of (rule metadata, situation value if any,
 * evaluation if any). Resolution order, first match wins:
 *
 *   1. declared one-of enumeration        -> Choice
 *   2. unit is literally "%"              -> PercentSlider (0..100)
 *   3. concrete situation value           -> control matching the variant, committed
 *   4. no situation value, non-empty eval -> control matching the variant, as default
 *   5. situation Empty + eval default     -> same as 4
 *   6. situation Empty, no usable eval    -> Inert
 *   7. fallback                           -> Inert
 *
 * Nullability gates enabled/disabled independently: it never changes which
 * control kind was chosen.
 *
 * One rule is special-cased by identity: the transport parts total renders
 * as a read-only validation indicator (green at exactly 100, red with the
 * formatted percentage otherwise) instead of an input.
 */

// TotalPartsRule is the aggregate rule rendered as a validation indicator
// rather than an input.
const TotalPartsRule = types.RuleName("transport . parts totales")

// ControlKind enumerates the resolvable control variants.
type ControlKind int

const (
	KindInert ControlKind = iota
	KindChoice
	KindPercentSlider
	KindNumber
	KindText
	KindCheckbox
	KindTotalIndicator
)

// String returns the control kind name for diagnostics.
func (k ControlKind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindPercentSlider:
		return "percent-slider"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindCheckbox:
		return "checkbox"
	case KindTotalIndicator:
		return "total-indicator"
	default:
		return "inert"
	}
}

// Control is the resolved presentation for one question rule.
type Control struct {
	Kind ControlKind

	// Value seeds the control. Committed is true when it comes from the
	// situation (an explicit answer), false when it is the engine's default
	// rendered as an overridable placeholder.
	Value     types.NodeValue
	Committed bool

	// Options are the declared possibilities for Choice controls, in
	// declaration order. Selected is the pre-selected possibility value;
	// SelectedTitle its display title, filled by the caller from the
	// catalog's resolved lookup when the selection is declared.
	Options       []types.Possibility
	Selected      string
	SelectedTitle string

	// Min and Max bound PercentSlider controls.
	Min float64
	Max float64

	// Disabled mirrors the evaluation's nullability; it is set without
	// changing the chosen kind.
	Disabled bool

	// TotalOK and TotalText carry the parts-total indicator state: OK at
	// exactly 100, otherwise the locale-formatted percentage.
	TotalOK   bool
	TotalText string
}

// Resolve derives the control for a rule. situation is nil when the user has
// given no explicit answer; eval is nil until the engine has responded once
// for this rule.
func Resolve(rule types.RawRule, situation *types.NodeValue, eval *types.Evaluation) Control {
	control := resolveKind(rule, situation, eval)
	if eval != nil && eval.IsNullable {
		control.Disabled = true
	}
	return control
}

func resolveKind(rule types.RawRule, situation *types.NodeValue, eval *types.Evaluation) Control {
	if rule.Name == TotalPartsRule {
		return resolveTotalIndicator(eval)
	}

	if rule.HasPossibilities() {
		return resolveChoice(rule, situation, eval)
	}

	if rule.Unit == "%" {
		return resolveSlider(situation, eval)
	}

	if situation != nil && !situation.IsEmpty() {
		return Control{Kind: kindForValue(*situation), Value: *situation, Committed: true}
	}

	// Covers both the no-answer case and an explicit Empty answer: the
	// engine's default is shown as an overridable placeholder.
	if eval != nil && !eval.NodeValue.IsEmpty() {
		return Control{Kind: kindForValue(eval.NodeValue), Value: eval.NodeValue}
	}

	return Control{Kind: KindInert}
}

// resolveChoice pre-selects from the situation first, else the evaluation.
// A declared enumeration always wins, even when the evaluation disagrees in
// shape.
func resolveChoice(rule types.RawRule, situation *types.NodeValue, eval *types.Evaluation) Control {
	control := Control{Kind: KindChoice, Options: rule.Possibilities}
	if situation != nil {
		if s, ok := situation.AsString(); ok {
			control.Selected = s
			control.Value = *situation
			control.Committed = true
			return control
		}
	}
	if eval != nil {
		if s, ok := eval.NodeValue.AsString(); ok {
			control.Selected = s
			control.Value = eval.NodeValue
		}
	}
	return control
}

// resolveSlider seeds from the situation first, else the evaluation.
func resolveSlider(situation *types.NodeValue, eval *types.Evaluation) Control {
	control := Control{Kind: KindPercentSlider, Min: 0, Max: 100}
	if situation != nil && !situation.IsEmpty() {
		control.Value = *situation
		control.Committed = true
		return control
	}
	if eval != nil {
		control.Value = eval.NodeValue
	}
	return control
}

// resolveTotalIndicator special-cases the parts total: success at exactly
// 100, error with the formatted percentage otherwise.
func resolveTotalIndicator(eval *types.Evaluation) Control {
	control := Control{Kind: KindTotalIndicator}
	if eval == nil {
		return control
	}
	control.Value = eval.NodeValue
	if v, ok := eval.NodeValue.AsNumber(); ok {
		if v == 100 {
			control.TotalOK = true
		} else {
			control.TotalText = FormatPercent(v)
		}
	}
	return control
}

// kindForValue maps a concrete value variant to its editable control.
func kindForValue(v types.NodeValue) ControlKind {
	switch v.Kind() {
	case types.ValueNum:
		return KindNumber
	case types.ValueStr:
		return KindText
	case types.ValueBool:
		return KindCheckbox
	default:
		return KindInert
	}
}
