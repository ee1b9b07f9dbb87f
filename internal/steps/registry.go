// Package steps holds the wizard's step table: for every step, the system
// prompt sent to the model and the ordered input fields shown to the user.
// The table is closed. Loading fails unless it describes exactly the steps
// returned by Names.
package steps

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Name string

const (
	IdeaHelper  Name = "Idea Helper"
	SharpenIdea Name = "Sharpen Your Idea"
	Pricing     Name = "Pricing"
	Drafting    Name = "Drafting"
	Validation  Name = "Validation"
)

var order = []Name{IdeaHelper, SharpenIdea, Pricing, Drafting, Validation}

// Names returns the steps in menu order.
func Names() []Name {
	return append([]Name(nil), order...)
}

type Field struct {
	Key         string `yaml:"key" json:"key"`
	Label       string `yaml:"label" json:"label"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
}

type Step struct {
	Name   Name    `yaml:"name" json:"name"`
	Prompt string  `yaml:"prompt" json:"prompt"`
	Fields []Field `yaml:"fields" json:"fields"`
}

type file struct {
	Steps []Step `yaml:"steps"`
}

//go:embed steps.yaml
var defaultTable []byte

var defaultRegistry = MustLoad(defaultTable)

// Registry is immutable once loaded and safe for concurrent use.
type Registry struct {
	byName map[Name]Step
}

// Default returns the built-in registry.
func Default() *Registry { return defaultRegistry }

func MustLoad(data []byte) *Registry {
	r, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("steps: %v", err))
	}
	return r
}

// Open returns the built-in registry when path is empty, else the table at path.
func Open(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a step table from disk, e.g. an operator override of the prompts.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read steps file %s: %w", path, err)
	}
	return Load(b)
}

func Load(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse steps: %w", err)
	}
	known := make(map[Name]bool, len(order))
	for _, n := range order {
		known[n] = true
	}
	byName := make(map[Name]Step, len(f.Steps))
	for _, s := range f.Steps {
		if !known[s.Name] {
			return nil, fmt.Errorf("unknown step %q", s.Name)
		}
		if _, dup := byName[s.Name]; dup {
			return nil, fmt.Errorf("step %q defined twice", s.Name)
		}
		if strings.TrimSpace(s.Prompt) == "" {
			return nil, fmt.Errorf("step %q has no prompt", s.Name)
		}
		if len(s.Fields) == 0 {
			return nil, fmt.Errorf("step %q has no fields", s.Name)
		}
		seen := make(map[string]bool, len(s.Fields))
		for _, fd := range s.Fields {
			if strings.TrimSpace(fd.Key) == "" {
				return nil, fmt.Errorf("step %q has a field without key", s.Name)
			}
			if seen[fd.Key] {
				return nil, fmt.Errorf("step %q repeats field key %q", s.Name, fd.Key)
			}
			seen[fd.Key] = true
		}
		byName[s.Name] = s
	}
	for _, n := range order {
		if _, ok := byName[n]; !ok {
			return nil, fmt.Errorf("step %q is missing", n)
		}
	}
	return &Registry{byName: byName}, nil
}

// Lookup returns a copy of the named step.
func (r *Registry) Lookup(name string) (Step, bool) {
	s, ok := r.byName[Name(name)]
	if !ok {
		return Step{}, false
	}
	s.Fields = append([]Field(nil), s.Fields...)
	return s, true
}

// Prompt returns the system prompt of a step, or "" for unknown names.
func (r *Registry) Prompt(name string) string {
	return r.byName[Name(name)].Prompt
}

// Fields returns the ordered fields of a step, or an empty slice for unknown names.
func (r *Registry) Fields(name string) []Field {
	return append([]Field{}, r.byName[Name(name)].Fields...)
}

// Has reports whether key is one of the step's field keys.
func (r *Registry) Has(name, key string) bool {
	for _, f := range r.byName[Name(name)].Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Steps returns every step in menu order.
func (r *Registry) Steps() []Step {
	out := make([]Step, 0, len(order))
	for _, n := range order {
		s, _ := r.Lookup(string(n))
		out = append(out, s)
	}
	return out
}
