package ai

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"przepisnik/models"
)

// DietLabels maps the canonical diet keys to the Polish wording used in
// adaptation prompts. Keys outside this map are treated as free-form
// instructions.
var DietLabels = map[string]string{
	"vegetarian":  "wegetariańskim (bez mięsa i ryb)",
	"vegan":       "wegańskim (bez produktów odzwierzęcych)",
	"dairy_free":  "bez nabiału (bez mleka, sera, masła, śmietany)",
	"gluten_free": "bez glutenu (bez pszenicy, żyta, jęczmienia, owsa)",
	"kosher":      "koszernym (zasady kaszrutu: bez wieprzowiny, bez owoców morza, bez mieszania mięsa z nabiałem)",
}

// CanonicalDiet reports whether key names one of the predefined diets.
func CanonicalDiet(key string) bool {
	_, ok := DietLabels[key]
	return ok
}

const adaptSystemPrompt = "You are a professional recipe adaptation assistant. " +
	"Given a Polish recipe, adapt it to a specified diet. " +
	"Preserve the dish's character as much as possible. " +
	"Always respond with valid JSON only — no markdown."

const adaptPromptRules = `.

Rules:
- Replace any non-compliant ingredients with the closest compliant Polish supermarket equivalent.
- If a core ingredient cannot be replaced (the dish would lose its identity), set "can_adapt": false
  and provide up to 3 alternative recipe suggestions in "alternatives": [{"title": "...", "reason": "..."}].
- If adaptation is possible, set "can_adapt": true and return full adapted recipe.
- Kosher rules: no mixing meat+dairy; no pork/shellfish; flag wine/vinegar/gelatin in substitutions.

Return JSON with exactly this shape:
{
  "can_adapt": true,
  "title_pl": "...",
  "ingredients_pl": ["..."],
  "steps_pl": ["..."],
  "notes": {},
  "alternatives": []
}
OR if cannot adapt:
{
  "can_adapt": false,
  "title_pl": null,
  "ingredients_pl": [],
  "steps_pl": [],
  "notes": {},
  "alternatives": [{"title": "...", "reason": "..."}]
}

`

// AdaptRequest carries the source recipe content and the diet wording the
// adaptation should follow. DietLabel is either a value from DietLabels or a
// free-form user instruction.
type AdaptRequest struct {
	DietLabel   string
	Title       string
	Ingredients models.IngredientList
	Steps       models.StringList
}

// Alternative suggests a replacement dish when a recipe cannot be adapted.
// Instruction, when present, can be fed back as a custom adaptation request.
type Alternative struct {
	Title       string `json:"title"`
	Reason      string `json:"reason"`
	Instruction string `json:"instruction,omitempty"`
}

// AdaptResult is the decoded adaptation outcome. When CanAdapt is false only
// Alternatives is populated.
type AdaptResult struct {
	CanAdapt      bool
	TitlePL       string
	IngredientsPL models.IngredientList
	StepsPL       models.StringList
	Notes         models.StringMap
	Alternatives  []Alternative
}

// Adapt asks the model to rework a recipe for a diet. The recipe content is
// appended to the prompt untouched so that its own braces cannot disturb the
// template.
func (c *Client) Adapt(ctx context.Context, req AdaptRequest) (AdaptResult, error) {
	const op = "adapt"

	var prompt strings.Builder
	prompt.WriteString("Adapt this Polish recipe to be ")
	prompt.WriteString(req.DietLabel)
	prompt.WriteString(adaptPromptRules)

	prompt.WriteString("Recipe title: ")
	prompt.WriteString(req.Title)
	prompt.WriteString("\nIngredients:\n")
	for _, ingredient := range req.Ingredients {
		prompt.WriteString("- ")
		prompt.WriteString(ingredient.Display())
		prompt.WriteString("\n")
	}
	prompt.WriteString("\nSteps:\n")
	for i, step := range req.Steps {
		prompt.WriteString(strconv.Itoa(i + 1))
		prompt.WriteString(". ")
		prompt.WriteString(step)
		prompt.WriteString("\n")
	}

	content, err := c.complete(ctx, op, c.adaptModel, 0.3, adaptSystemPrompt, prompt.String())
	if err != nil {
		return AdaptResult{}, err
	}

	var parsed struct {
		CanAdapt      *bool                 `json:"can_adapt"`
		TitlePL       string                `json:"title_pl"`
		IngredientsPL models.IngredientList `json:"ingredients_pl"`
		StepsPL       models.StringList     `json:"steps_pl"`
		Notes         models.StringMap      `json:"notes"`
		Alternatives  []Alternative         `json:"alternatives"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return AdaptResult{}, gatewayErr(op, err)
	}
	if parsed.CanAdapt == nil {
		return AdaptResult{}, gatewayErrf(op, "response is missing can_adapt")
	}

	result := AdaptResult{
		CanAdapt:      *parsed.CanAdapt,
		TitlePL:       strings.TrimSpace(parsed.TitlePL),
		IngredientsPL: parsed.IngredientsPL,
		StepsPL:       parsed.StepsPL,
		Notes:         parsed.Notes,
		Alternatives:  parsed.Alternatives,
	}

	if result.CanAdapt {
		if result.TitlePL == "" || len(result.IngredientsPL) == 0 || len(result.StepsPL) == 0 {
			return AdaptResult{}, gatewayErrf(op, "adaptable response is missing recipe fields")
		}
	}

	return result, nil
}
