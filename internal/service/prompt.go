package service

import (
	"fmt"
	"strings"

	"github.com/pageza/whatnext/backend/internal/models"
	"github.com/pageza/whatnext/backend/internal/types"
)

const promptPreamble = `You are a food recommendation service. Your flow is as follows:
 1. Food is logged into a database over a period of time.
 2. The user asks you what they should eat next.
 3. The foods they have eaten are listed below, most recent first.
 4. Using mealEvent, time, and name, recommend ONE food based ONLY on previously eaten foods, or foods that are SIMILAR in nature.

Previous foods:
`

// RecommendationContract is the exact output format the generator is asked for
const RecommendationContract = `Respond with ONLY a valid JSON object in this exact format (no markdown, no code blocks, no extra text):
{
  "food": "one concise food recommendation",
  "reason": "short explanation referencing prior foods or patterns",
  "ingredients": ["ingredient1", "ingredient2", "ingredient3"],
  "steps": ["step 1", "step 2", "step 3"]
}`

// ComposePrompt builds the generation prompt for a history. It depends on nothing but
// its input, so equal histories always produce byte-identical prompts.
func ComposePrompt(entries []types.FoodEntry) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	for _, e := range entries {
		// One entry per line, whatever the stored name contains
		fmt.Fprintf(&b, "- name: %s, time: %02d:%02d, mealEvent: %s\n", models.CleanFoodName(e.Name), e.Hour, e.Minute, e.MealEvent)
	}
	b.WriteString("\n")
	b.WriteString(RecommendationContract)
	b.WriteString("\n")
	return b.String()
}
