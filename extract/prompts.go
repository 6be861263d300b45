package extract

import (
	"fmt"
	"strings"

	"github.com/calyptra/loom/ai"
)

const conceptResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "name": {
        "type": "string"
      },
      "type": {
        "type": "string"
      },
      "description": {
        "type": "string"
      },
      "relevance": {
        "type": "number",
        "minimum": 0.0,
        "maximum": 1.0
      },
      "related_concepts": {
        "type": "array",
        "items": {"type": "string"}
      }
    },
    "required": ["name", "type", "description", "relevance"],
    "additionalProperties": false
  }
}`

const conceptPromptTemplate = `Extract the key concepts from the given text and return them as JSON.

Output ONLY a valid JSON array which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening bracket [ and end
with the closing bracket ]. Your output must exactly follow this schema:

%s

Rules:
- Concept names must be 1-4 words, in their canonical form.
- Type field must match exactly one of the listed values: %s.
- Relevance is a number from 0.0 (peripheral) to 1.0 (central). Rate based on how essential the concept is for understanding the text.
- Description is one sentence defining the concept as the text uses it.
- related_concepts lists names of other concepts in your output this one connects to; omit or leave empty when none apply.
- Include only concepts that are explicitly mentioned or clearly implied by the text. Do not hallucinate.
- If no concepts can be identified, return [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the array.

Example:
Input: "Gradient descent minimizes the loss function by iteratively adjusting model weights."
Output:
[
  {"name":"gradient descent","type":"algorithm","description":"An iterative optimization method that adjusts weights to minimize loss.","relevance":0.9,"related_concepts":["loss function"]},
  {"name":"loss function","type":"abstract_concept","description":"The quantity a model minimizes during training.","relevance":0.8,"related_concepts":["gradient descent"]}
]`

const relationshipResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "source": {
        "type": "string"
      },
      "target": {
        "type": "string"
      },
      "type": {
        "type": "string"
      },
      "strength": {
        "type": "number",
        "minimum": 0.1,
        "maximum": 1.0
      },
      "description": {
        "type": "string"
      }
    },
    "required": ["source", "target", "type", "strength"],
    "additionalProperties": false
  }
}`

const relationshipPromptTemplate = `Identify relationships between the listed concepts, based on the document they were extracted from.

Concepts:
%s

Output ONLY a valid JSON array which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening bracket [ and end
with the closing bracket ]. Your output must exactly follow this schema:

%s

Rules:
- source and target must each be one of the listed concept names, copied exactly.
- Type should name the relation, e.g. prerequisite_of, part_of, type_of, causes, uses, contrasts_with, related_to.
- Strength is a number from 0.1 (weak association) to 1.0 (definitional).
- Only include relationships the document supports. Do not hallucinate.
- If no relationships can be identified, return [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the array.

Example:
Concepts: gradient descent, loss function
Output:
[
  {"source":"gradient descent","target":"loss function","type":"uses","strength":0.9,"description":"Gradient descent minimizes the loss function."}
]`

// buildConceptPrompt creates the pass-1 system prompt with the concept type
// vocabulary embedded.
func buildConceptPrompt() string {
	return fmt.Sprintf(conceptPromptTemplate,
		conceptResponseSchema,
		strings.Join(ai.ConceptTypes, ", "))
}

// buildRelationshipPrompt creates the pass-2 system prompt over the
// consolidated concept names.
func buildRelationshipPrompt(names []string) string {
	return fmt.Sprintf(relationshipPromptTemplate,
		strings.Join(names, ", "),
		relationshipResponseSchema)
}
