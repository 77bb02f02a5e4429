package guidance

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordGroup is one note signal. The first group with a matching keyword
// fires; later groups are skipped.
type KeywordGroup struct {
	Keywords []string `yaml:"keywords"`
	Points   int      `yaml:"points"`
	Priority Level    `yaml:"priority"`
	Text     string   `yaml:"text"`
}

// FollowUpRules weight the follow-up date signal.
type FollowUpRules struct {
	OverdueBase   int `yaml:"overdueBase"`
	OverduePerDay int `yaml:"overduePerDay"`
	OverdueCap    int `yaml:"overdueCap"`
	Today         int `yaml:"today"`
	Tomorrow      int `yaml:"tomorrow"`
}

// InterestRules weight the interest level signal.
type InterestRules struct {
	Hot  int `yaml:"hot"`
	Warm int `yaml:"warm"`
}

// StalenessRules weight contact recency.
type StalenessRules struct {
	AfterHours int `yaml:"afterHours"`
	Stale      int `yaml:"stale"`
	Fresh      int `yaml:"fresh"`
}

// Rules are the weights and keyword groups behind the guidance score.
type Rules struct {
	FollowUp      FollowUpRules  `yaml:"followUp"`
	Interest      InterestRules  `yaml:"interest"`
	FollowUpStage int            `yaml:"followUpStage"`
	Notes         []KeywordGroup `yaml:"notes"`
	Staleness     StalenessRules `yaml:"staleness"`
	Retry         int            `yaml:"retry"`
}

// DefaultRules returns the production weights.
func DefaultRules() Rules {
	return Rules{
		FollowUp: FollowUpRules{
			OverdueBase:   100,
			OverduePerDay: 5,
			OverdueCap:    50,
			Today:         90,
			Tomorrow:      60,
		},
		Interest:      InterestRules{Hot: 40, Warm: 20},
		FollowUpStage: 15,
		Notes: []KeywordGroup{
			{Keywords: []string{"interested", "ready to visit", "wants to book"}, Points: 35, Priority: LevelHigh, Text: "Notes indicate strong interest"},
			{Keywords: []string{"call back", "callback", "asked to call"}, Points: 30, Priority: LevelHigh, Text: "Lead requested a callback"},
			{Keywords: []string{"site visit", "wants to see"}, Points: 25, Priority: LevelMedium, Text: "Site visit interest noted"},
			{Keywords: []string{"busy", "not reachable"}, Points: 10, Priority: LevelLow, Text: "Previously busy, retry now"},
		},
		Staleness: StalenessRules{AfterHours: 72, Stale: 25, Fresh: 20},
		Retry:     15,
	}
}

// LoadRules reads a YAML override file on top of DefaultRules. Keys missing
// from the file keep their defaults; a notes list replaces the default list.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read guidance rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules on top of DefaultRules.
func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("decode guidance rules: %w", err)
	}
	for i := range rules.Notes {
		for j, kw := range rules.Notes[i].Keywords {
			rules.Notes[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate rejects rules that could not have come from a sane config.
func (r Rules) Validate() error {
	points := []int{
		r.FollowUp.OverdueBase, r.FollowUp.OverduePerDay, r.FollowUp.OverdueCap,
		r.FollowUp.Today, r.FollowUp.Tomorrow, r.Interest.Hot, r.Interest.Warm,
		r.FollowUpStage, r.Staleness.Stale, r.Staleness.Fresh, r.Retry,
	}
	for _, p := range points {
		if p < 0 {
			return errors.New("guidance rules: points must not be negative")
		}
	}
	if r.Staleness.AfterHours <= 0 {
		return errors.New("guidance rules: staleness.afterHours must be positive")
	}
	for i, g := range r.Notes {
		if len(g.Keywords) == 0 {
			return fmt.Errorf("guidance rules: notes[%d] has no keywords", i)
		}
		if g.Points < 0 {
			return fmt.Errorf("guidance rules: notes[%d] points must not be negative", i)
		}
		if !g.Priority.valid() {
			return fmt.Errorf("guidance rules: notes[%d] priority %q is unknown", i, g.Priority)
		}
	}
	return nil
}
