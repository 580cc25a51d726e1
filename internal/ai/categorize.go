package ai

import (
	"context"
	"encoding/json"
	"strings"
)

const categorizeSystemPrompt = "You are a grocery shopping assistant. " +
	"Always respond with valid JSON only — no markdown, no prose outside the JSON."

const categorizePromptHeader = `You will receive a list of ingredients from one or more recipes (all in Polish).

Your tasks:
1. Merge similar ingredients and sum their quantities where possible.
   Examples: "2 ząbki czosnku" + "3 ząbki czosnku" → "5 ząbków czosnku"
             "1 cebula" + "1 cebula" → "2 cebule"
   If quantities cannot be summed (different units, vague amounts), keep both or list together sensibly.
2. Classify each merged ingredient into exactly one of these categories:
   `

const categorizePromptFooter = `

Return a JSON object where each key is a category name and the value is a list of merged ingredient strings.
Every category key must be present even if its list is empty.

Ingredients:
`

// Categorize merges and classifies shopping-list ingredient labels into the
// given category names. The returned map is the model output as-is; callers
// decide which category keys to honor.
func (c *Client) Categorize(ctx context.Context, categories, ingredients []string) (map[string][]string, error) {
	const op = "categorize"

	var prompt strings.Builder
	prompt.WriteString(categorizePromptHeader)
	for i, category := range categories {
		if i > 0 {
			prompt.WriteString(", ")
		}
		prompt.WriteString(`"`)
		prompt.WriteString(category)
		prompt.WriteString(`"`)
	}
	prompt.WriteString(categorizePromptFooter)
	for _, ingredient := range ingredients {
		prompt.WriteString("- ")
		prompt.WriteString(ingredient)
		prompt.WriteString("\n")
	}

	content, err := c.complete(ctx, op, c.categorizeModel, 0, categorizeSystemPrompt, prompt.String())
	if err != nil {
		return nil, err
	}

	var parsed map[string][]string
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, gatewayErr(op, err)
	}
	return parsed, nil
}
