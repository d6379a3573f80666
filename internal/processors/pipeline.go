package processors

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/h2k"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
)

// Ensure StagePipeline implements the interface.
var _ driven.Pipeline = (*StagePipeline)(nil)

// StagePipeline chains processors and runs them in order.
type StagePipeline struct {
	stages []driven.Processor
}

// NewPipeline creates a pipeline with the given stages. Stages execute in
// the order provided.
func NewPipeline(stages ...driven.Processor) *StagePipeline {
	return &StagePipeline{stages: stages}
}

// Default returns the standard pipeline in its documented order:
// Building, Weather, Enclosure, Systems.
func Default(reg *mappings.Registry) *StagePipeline {
	return NewPipeline(
		NewBuilding(reg),
		NewWeather(reg),
		NewEnclosure(reg),
		NewSystems(reg),
	)
}

// Run executes the stages in order. The first stage error aborts the run;
// the wrapping preserves errors.As so the caller can classify it.
func (p *StagePipeline) Run(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	for _, stage := range p.stages {
		if err := stage.Process(src, state, target); err != nil {
			return fmt.Errorf("%s stage: %w", stage.Name(), err)
		}
	}
	return nil
}

// Len returns the number of stages.
func (p *StagePipeline) Len() int {
	return len(p.stages)
}

// applyScalar maps one scalar source field through its mapping rule into
// the target document. Absent fields fall back to the rule default (with a
// warning) or, for required fields with no default, fail the document.
func applyScalar(reg *mappings.Registry, dom, field, category string,
	src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {

	rule, ok := reg.Lookup(dom, field)
	if !ok {
		return nil
	}

	raw, found := src.Value(field)
	if !found {
		return applyAbsent(rule, field, category, state, target)
	}

	val, err := rule.Apply(raw)
	if err != nil {
		return handleApplyError(rule, field, category, raw, err, state, target)
	}

	target.Set(rule.Target, val)
	return nil
}

// applyAbsent resolves a missing source field against the rule's default
// and required flag.
func applyAbsent(rule *mappings.Rule, field, category string,
	state *domain.ModelState, target *hpxml.Document) error {

	if rule.Default != "" {
		state.AddWarning(domain.WarnDefaultApplied, field,
			fmt.Sprintf("source field absent, using default %q", rule.Default))
		target.Set(rule.Target, rule.Default)
		return nil
	}
	if rule.Required {
		return &domain.TranslationError{
			Type:     "MissingRequiredField_" + leaf(field),
			Category: category,
			Field:    field,
			Message:  "required source field is absent and the mapping table has no default",
		}
	}
	return nil
}

// handleApplyError resolves a conversion failure: unknown enum values fall
// back to the default with a warning; anything else is recorded and the
// field skipped unless the rule is required.
func handleApplyError(rule *mappings.Rule, field, category, raw string, err error,
	state *domain.ModelState, target *hpxml.Document) error {

	if rule.Default != "" {
		state.AddWarning(domain.WarnUnknownEnumValue, field,
			fmt.Sprintf("value %q has no mapping, using default %q", raw, rule.Default))
		target.Set(rule.Target, rule.Default)
		return nil
	}
	if rule.Required {
		return &domain.TranslationError{
			Type:     "Validation_Unmappable_" + leaf(field),
			Category: category,
			Field:    field,
			Message:  err.Error(),
		}
	}
	state.AddError(domain.WarnUnknownEnumValue, field, err.Error())
	return nil
}

// leaf returns the last segment of a source path, used in failure types.
func leaf(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ensureChild walks a slash-separated path below an element, creating
// missing intermediates, and returns the final element. Used by stages that
// build repeated components from rule targets expressed relative to the
// component root.
func ensureChild(el *etree.Element, path string) *etree.Element {
	for _, tag := range strings.Split(path, "/") {
		if tag == "" {
			continue
		}
		child := el.SelectElement(tag)
		if child == nil {
			child = el.CreateElement(tag)
		}
		el = child
	}
	return el
}

// setRelative strips the component prefix from a rule target (for example
// "Wall/Area" relative to a Wall element) and sets the text at the
// remaining path.
func setRelative(el *etree.Element, ruleTarget, value string) {
	rel := ruleTarget
	if i := strings.Index(ruleTarget, "/"); i >= 0 {
		rel = ruleTarget[i+1:]
	}
	ensureChild(el, rel).SetText(value)
}
