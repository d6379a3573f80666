// Package mappings loads the declarative field-correspondence tables that
// drive the translation pipeline. Tables are TOML files, one per functional
// domain, validated and frozen at process start; a malformed table aborts
// the process before any document is touched.
package mappings

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/mappings/tables"
)

// tableFile is the on-disk shape of one mapping table.
type tableFile struct {
	Domain string `toml:"domain"`
	Rules  []Rule `toml:"rule"`
}

// Registry is the immutable set of loaded mapping tables. It is built once
// at startup and shared read-only across all workers; no synchronisation is
// needed for reads.
type Registry struct {
	// rules preserves declaration order per domain; lookup resolves a
	// source path to exactly one rule (duplicates are rejected at load,
	// so "first matching rule wins" holds trivially).
	rules map[string][]*Rule
	index map[string]map[string]*Rule
}

// Default loads the registry from the embedded tables.
func Default() (*Registry, error) {
	return Load(tables.FS)
}

// Load reads every *.toml table from fsys, validates it, and builds the
// registry. Any malformed table yields a *domain.ConfigError; callers must
// treat that as fatal.
func Load(fsys fs.FS) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, &domain.ConfigError{Table: ".", Reason: "reading tables: " + err.Error()}
	}

	// Deterministic load order.
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, &domain.ConfigError{Table: ".", Reason: "no mapping tables found"}
	}

	r := &Registry{
		rules: make(map[string][]*Rule),
		index: make(map[string]map[string]*Rule),
	}

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &domain.ConfigError{Table: name, Reason: "reading: " + err.Error()}
		}

		var tf tableFile
		if err := toml.Unmarshal(data, &tf); err != nil {
			return nil, &domain.ConfigError{Table: name, Reason: "decoding: " + err.Error()}
		}

		if tf.Domain == "" {
			return nil, &domain.ConfigError{Table: name, Reason: "missing domain"}
		}
		if len(tf.Rules) == 0 {
			return nil, &domain.ConfigError{Table: name, Reason: "table declares no rules"}
		}

		for i := range tf.Rules {
			rule := &tf.Rules[i]
			if err := validateRule(rule); err != nil {
				return nil, &domain.ConfigError{Table: name, Reason: err.Error()}
			}
			if err := r.add(tf.Domain, rule); err != nil {
				return nil, &domain.ConfigError{Table: name, Reason: err.Error()}
			}
		}
	}

	return r, nil
}

// validateRule checks required rule attributes and builds the enum index.
func validateRule(rule *Rule) error {
	if rule.Source == "" {
		return fmt.Errorf("rule has no source path")
	}
	if rule.Target == "" {
		return fmt.Errorf("rule %s has no target path", rule.Source)
	}
	if !rule.Convert.IsValid() {
		return fmt.Errorf("rule %s: unknown conversion kind %q", rule.Source, rule.Convert)
	}

	switch rule.Convert {
	case KindScale:
		if rule.Factor == 0 {
			return fmt.Errorf("rule %s: scale rule requires a non-zero factor", rule.Source)
		}
	case KindEnum:
		if len(rule.Enum) == 0 {
			return fmt.Errorf("rule %s: enum rule declares no entries", rule.Source)
		}
		rule.enumIndex = make(map[string]string, len(rule.Enum))
		for _, e := range rule.Enum {
			if e.Key == "" {
				return fmt.Errorf("rule %s: enum entry has an empty key", rule.Source)
			}
			if _, dup := rule.enumIndex[e.Key]; dup {
				return fmt.Errorf("rule %s: duplicate enum key %q", rule.Source, e.Key)
			}
			rule.enumIndex[e.Key] = e.Value
		}
	}

	return nil
}

// add registers a rule under a domain, rejecting duplicate source paths.
func (r *Registry) add(dom string, rule *Rule) error {
	bymapping, ok := r.index[dom]
	if !ok {
		bymapping = make(map[string]*Rule)
		r.index[dom] = bymapping
	}
	if _, dup := bymapping[rule.Source]; dup {
		return fmt.Errorf("duplicate rule for source %s in domain %s", rule.Source, dom)
	}
	bymapping[rule.Source] = rule
	r.rules[dom] = append(r.rules[dom], rule)
	return nil
}

// Lookup returns the rule for a (domain, source field) pair.
func (r *Registry) Lookup(dom, field string) (*Rule, bool) {
	rule, ok := r.index[dom][field]
	return rule, ok
}

// Rules returns the rules of a domain in declaration order.
func (r *Registry) Rules(dom string) []*Rule {
	return r.rules[dom]
}

// Domains returns the loaded domain names, sorted.
func (r *Registry) Domains() []string {
	out := make([]string, 0, len(r.rules))
	for dom := range r.rules {
		out = append(out, dom)
	}
	sort.Strings(out)
	return out
}
