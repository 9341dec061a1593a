package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// extractionPrompt builds the shared instruction used by every provider so
// they produce the same JSON shape.
func extractionPrompt(emailText string) string {
	currentDate := time.Now().Format("2006-01-02")

	return fmt.Sprintf(`You are an assistant that turns supplier emails into a structured task for a project management system.

TODAY'S DATE: %s

INSTRUCTIONS:
1. Read the email and identify the single task it asks for.
2. Return ONE JSON object with these keys:
   title (required), description, task_type, priority (high/medium/low),
   due_date (ISO 8601 date if mentioned), part_number, order_number,
   customer_name, project_name, assignee_name,
   action_items (array of short strings, in the order they appear).
3. Leave a key as an empty string (or empty array) when the email does not mention it.
4. priority:
   - high: urgent, deadline within 24h, production stop
   - medium: deadline within days
   - low: informational, no deadline

Return ONLY the JSON object, no other text.

EMAIL:
%s

JSON OUTPUT:`, currentDate, emailText)
}

var jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// parseExtraction tolerates markdown fences and leading prose around the
// JSON object that smaller models tend to add.
func parseExtraction(raw string) (*TaskExtraction, error) {
	text := strings.TrimSpace(raw)

	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	// Cut down to the outermost object
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var extraction TaskExtraction
	if err := json.Unmarshal([]byte(text), &extraction); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}
	if strings.TrimSpace(extraction.Title) == "" {
		return nil, fmt.Errorf("extraction missing title")
	}
	return &extraction, nil
}
