// Package playbook loads per-family remediation checklists from a YAML
// file and resolves them for a diagnosis. A playbook section carries a
// fixed checklist plus keyword-triggered extra tips that only surface when
// their trigger phrase appears in the pasted report.
package playbook

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"debugassist/src/contracts"
)

// Section is the playbook entry for one error family.
type Section struct {
	// Checklist is always shown for the family, in order.
	Checklist []string `yaml:"checklist"`
	// KeywordTips maps a trigger phrase to extra tips shown only when the
	// phrase occurs (case-insensitive) in the raw input.
	KeywordTips map[string][]string `yaml:"keyword_tips"`
}

// Book is the full playbook collection, keyed by family label.
type Book struct {
	sections map[string]Section
	// triggers preserves the YAML declaration order of keyword tips per
	// family, so suggestion order is stable across runs.
	triggers map[string][]string
}

// Load reads a playbook YAML file. A missing file is a fatal precondition:
// the error names the path so the caller can surface remediation steps.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("playbook file not found at %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes playbook YAML from memory.
func Parse(data []byte) (*Book, error) {
	// Decode through a yaml.Node first to keep keyword_tips in file order;
	// a plain map would randomize trigger evaluation order.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse playbook YAML: %w", err)
	}

	book := &Book{
		sections: make(map[string]Section),
		triggers: make(map[string][]string),
	}
	if len(root.Content) == 0 {
		return book, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("playbook YAML must be a mapping of family to section")
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		family := doc.Content[i].Value
		var section Section
		if err := doc.Content[i+1].Decode(&section); err != nil {
			return nil, fmt.Errorf("invalid playbook section for %q: %w", family, err)
		}
		book.sections[family] = section
		book.triggers[family] = tipOrder(doc.Content[i+1])
	}

	return book, nil
}

// tipOrder extracts the keyword_tips trigger phrases in declaration order.
func tipOrder(sectionNode *yaml.Node) []string {
	if sectionNode.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(sectionNode.Content); i += 2 {
		if sectionNode.Content[i].Value != "keyword_tips" {
			continue
		}
		tips := sectionNode.Content[i+1]
		if tips.Kind != yaml.MappingNode {
			return nil
		}
		var order []string
		for j := 0; j+1 < len(tips.Content); j += 2 {
			order = append(order, tips.Content[j].Value)
		}
		return order
	}
	return nil
}

// Families returns the families that have a playbook section.
func (b *Book) Families() []string {
	out := make([]string, 0, len(b.sections))
	for f := range b.sections {
		out = append(out, f)
	}
	return out
}

// Suggestions returns the ordered, de-duplicated remediation list for a
// family: the fixed checklist first, then any keyword tips whose trigger
// phrase appears case-insensitively in rawText. An unknown family yields
// an empty list, not an error.
func (b *Book) Suggestions(family contracts.ErrorFamily, rawText string) []string {
	section, ok := b.sections[string(family)]
	if !ok {
		return nil
	}

	var suggestions []string
	suggestions = append(suggestions, section.Checklist...)

	lowered := strings.ToLower(rawText)
	for _, trigger := range b.triggers[string(family)] {
		if strings.Contains(lowered, strings.ToLower(trigger)) {
			suggestions = append(suggestions, section.KeywordTips[trigger]...)
		}
	}

	seen := make(map[string]struct{}, len(suggestions))
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
