package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/whatnext/backend/internal/types"
)

// Contract identifies which output format a completion was decoded with
type Contract int

const (
	// ContractRaw means nothing could be decoded and the whole text became the food
	ContractRaw Contract = iota
	ContractStructured
	ContractSections
)

func (c Contract) String() string {
	switch c {
	case ContractStructured:
		return "structured"
	case ContractSections:
		return "sections"
	default:
		return "raw"
	}
}

// ParsedOutput is a recommendation tagged with the contract that produced it
type ParsedOutput struct {
	Contract       Contract
	Recommendation types.Recommendation
}

// ParseOutput decodes a completion, trying the JSON contract first and the
// sectioned text contract second. It never fails: text that matches neither
// becomes the food verbatim.
func ParseOutput(raw string) ParsedOutput {
	if rec, ok := DecodeStructured(raw); ok {
		return ParsedOutput{Contract: ContractStructured, Recommendation: rec}
	}
	if rec, ok := ParseSections(raw); ok {
		return ParsedOutput{Contract: ContractSections, Recommendation: rec}
	}
	rec := types.NewRecommendation()
	rec.Food = raw
	return ParsedOutput{Contract: ContractRaw, Recommendation: rec}
}

// ParseRecommendation returns the recommendation contained in a completion
func ParseRecommendation(raw string) types.Recommendation {
	return ParseOutput(raw).Recommendation
}

// flexibleList accepts a JSON array of strings, a single string, or an array
// with numbers mixed in, which generators produce more often than they should.
// Strings are kept verbatim and in order; only null items are dropped.
type flexibleList []string

func (l *flexibleList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = flexibleList{}
		return nil
	}

	// Try a single string first
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = flexibleList{}
		if single != "" {
			*l = append(*l, single)
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a list, got %s", string(data))
	}

	out := make(flexibleList, 0, len(items))
	for _, item := range items {
		if string(item) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			// Numbers and other scalars keep their literal form
			s = string(item)
		}
		out = append(out, s)
	}
	*l = out
	return nil
}

type structuredPayload struct {
	Food        string       `json:"food"`
	Reason      string       `json:"reason"`
	Ingredients flexibleList `json:"ingredients"`
	Steps       flexibleList `json:"steps"`
}

// DecodeStructured reads the JSON contract. Markdown fences and chatter around the
// object are ignored, missing fields decode as empty, and fields are returned as
// decoded. When the object has no food the whole completion stands in for it.
func DecodeStructured(raw string) (types.Recommendation, bool) {
	body, err := extractObject(raw)
	if err != nil {
		return types.Recommendation{}, false
	}

	var payload structuredPayload
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&payload); err != nil {
		return types.Recommendation{}, false
	}

	rec := types.NewRecommendation()
	rec.Food = payload.Food
	if strings.TrimSpace(rec.Food) == "" {
		rec.Food = raw
	}
	rec.Reason = payload.Reason
	if payload.Ingredients != nil {
		rec.Ingredients = []string(payload.Ingredients)
	}
	if payload.Steps != nil {
		rec.Steps = []string(payload.Steps)
	}
	return rec, true
}

// extractObject returns the text from the first opening brace on. The decoder
// stops after the first JSON value, so anything trailing it is ignored.
func extractObject(raw string) (string, error) {
	text := stripCodeFence(strings.TrimSpace(raw))
	start := strings.Index(text, "{")
	if start < 0 {
		return "", errors.New("no JSON object found")
	}
	return text[start:], nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence along with any language tag
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

// section is the state of the sectioned text parser
type section int

const (
	sectionNone section = iota
	sectionFood
	sectionReason
	sectionIngredients
	sectionSteps
)

// headerRule is one transition of the parser. Prefix rules match the start of the
// line; the others match anywhere in it.
type headerRule struct {
	label  string
	prefix bool
	next   section
}

var headerRules = []headerRule{
	{label: "recommendation:", prefix: true, next: sectionFood},
	{label: "why:", prefix: true, next: sectionReason},
	{label: "ingredients:", prefix: false, next: sectionIngredients},
	{label: "steps:", prefix: false, next: sectionSteps},
}

// stepBullets are stripped from the front of step lines
const stepBullets = "-•*0123456789.) \t"

// matchHeader reports the section a trimmed line opens and the text that follows its label
func matchHeader(trimmed string) (section, string, bool) {
	for _, rule := range headerRules {
		if rule.prefix {
			n := len(rule.label)
			if len(trimmed) >= n && strings.EqualFold(trimmed[:n], rule.label) {
				return rule.next, strings.TrimSpace(trimmed[n:]), true
			}
			continue
		}
		if strings.Contains(strings.ToLower(trimmed), rule.label) {
			_, rest, _ := strings.Cut(trimmed, ":")
			return rule.next, strings.TrimSpace(rest), true
		}
	}
	return sectionNone, "", false
}

// ParseSections reads the labelled free text contract:
//
//	Recommendation: <food>
//	Why: <reason>
//	Ingredients: a, b, c
//	Steps:
//	- first
//	- second
//
// It reports false when no header appears anywhere in the text.
func ParseSections(raw string) (types.Recommendation, bool) {
	rec := types.NewRecommendation()
	state := sectionNone
	sawHeader := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if next, rest, ok := matchHeader(trimmed); ok {
			sawHeader = true
			state = next
			if rest == "" {
				continue
			}
			switch next {
			case sectionFood:
				rec.Food = rest
			case sectionReason:
				rec.Reason = rest
			case sectionIngredients:
				rec.Ingredients = splitIngredients(rest)
			case sectionSteps:
				rec.Steps = append(rec.Steps, rest)
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		switch state {
		case sectionFood:
			rec.Food = trimmed
		case sectionReason:
			if rec.Reason == "" {
				rec.Reason = trimmed
			} else {
				rec.Reason += " " + trimmed
			}
		case sectionSteps:
			if step := strings.TrimLeft(trimmed, stepBullets); step != "" {
				rec.Steps = append(rec.Steps, step)
			}
		}
	}

	if !sawHeader {
		return types.Recommendation{}, false
	}
	if rec.Food == "" {
		rec.Food = raw
	}
	return rec, true
}

func splitIngredients(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
