package style

import (
	"fmt"
	"strings"
)

const analysisTemplate = `You analyze how a mentor writes to students in a mentor-student messaging system.

Mentor messages:
%s

Respond with a single JSON object and nothing else, using exactly these keys:
{
  "tone": "casual | formal | encouraging | direct",
  "common_phrases": ["phrases the mentor repeats"],
  "emoji_usage": "frequent | occasional | rare | none",
  "message_length": "short | medium | long",
  "greeting_style": "how messages usually open",
  "sign_off_style": "how messages usually close",
  "punctuation_style": "exclamation_heavy | question_heavy | period_heavy | mixed",
  "encouragement_level": "high | medium | low",
  "teaching_approach": "step_by_step | example_heavy | concept_focused",
  "response_pattern": "immediate_detailed | quick_acknowledgment | structured"
}`

func analysisPrompt(samples []string) string {
	return fmt.Sprintf(analysisTemplate, strings.Join(samples, "\n"))
}
