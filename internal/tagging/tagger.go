// Package tagging infers tags and a hub category from news text
package tagging

import (
	"regexp"
	"strings"
)

// Rule maps keywords to a tag. Category rules also classify an item.
type Rule struct {
	Tag      string
	Keywords []string
	Category bool
}

// DefaultRules are checked in order; the first matching category rule wins
var DefaultRules = []Rule{
	{Tag: "Firmware", Category: true, Keywords: []string{"betaflight", "inav", "emuflight", "blheli", "bluejay", "firmware"}},
	{Tag: "Radio", Category: true, Keywords: []string{"expresslrs", "elrs", "crossfire", "radiomaster", "edgetx", "opentx", "receiver"}},
	{Tag: "Local Stock", Category: true, Keywords: []string{"iraq", "baghdad", "erbil", "local stock", "in stock"}},
	{Tag: "Hardware", Category: true, Keywords: []string{"motor", "frame", "esc", "flight controller", "stack", "air unit", "vtx", "goggles", "propeller", "props"}},
	{Tag: "DJI", Keywords: []string{"dji"}},
	{Tag: "HD", Keywords: []string{"o3", "o4", "walksnail", "hdzero", "hd"}},
	{Tag: "Analog", Keywords: []string{"analog"}},
	{Tag: "Tutorial", Keywords: []string{"how to", "guide", "tutorial", "tips"}},
	{Tag: "Review", Keywords: []string{"review", "hands-on", "tested"}},
	{Tag: "Racing", Keywords: []string{"racing", "race", "multigp"}},
	{Tag: "Freestyle", Keywords: []string{"freestyle"}},
}

type compiledRule struct {
	Rule
	pattern *regexp.Regexp
}

type Tagger struct {
	rules []compiledRule
}

// New builds a tagger over DefaultRules
func New() *Tagger {
	return NewWithRules(DefaultRules)
}

func NewWithRules(rules []Rule) *Tagger {
	t := &Tagger{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		quoted := make([]string, len(r.Keywords))
		for i, k := range r.Keywords {
			quoted[i] = regexp.QuoteMeta(strings.ToLower(k))
		}
		t.rules = append(t.rules, compiledRule{
			Rule:    r,
			pattern: regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`),
		})
	}
	return t
}

// InferTags returns matching tags in rule order, never nil
func (t *Tagger) InferTags(title, content string) []string {
	text := strings.ToLower(title + " " + content)
	tags := make([]string, 0)
	for _, r := range t.rules {
		if r.pattern.MatchString(text) {
			tags = append(tags, r.Tag)
		}
	}
	return tags
}

// Category classifies text by the first matching category rule. The title is
// checked before the content so a headline decides.
func (t *Tagger) Category(title, content string) string {
	for _, text := range []string{title, content} {
		lower := strings.ToLower(text)
		for _, r := range t.rules {
			if r.Category && r.pattern.MatchString(lower) {
				return r.Tag
			}
		}
	}
	return ""
}
