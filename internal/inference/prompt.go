package inference

import (
	"fmt"

	"github.com/djimit/PhishLens/internal/model"
)

// BuildPrompt returns the instruction sent with content.
func BuildPrompt(content string, cfg model.ScanConfig) string {
	mode := "INACTIVE"
	if cfg.AdversarialEnabled {
		mode = "ACTIVE"
	}

	return fmt.Sprintf(`Act as a CharGRU (Character Gated Recurrent Unit) Phishing Detection model with Grad-CAM visualization capability.

Email Content:
"""
%s
"""

Adversarial Training Mode: %s

Tasks:
1. Perform character-level analysis.
2. Identify if this is a phishing email.
3. If Adversarial Mode is ACTIVE, look specifically for lookalike characters (e.g., 'v1sa' instead of 'visa', 'pay-pa1' instead of 'paypal') and determine if they are malicious attempts to bypass filters.
4. Generate a 'heatmap' which is a list of every character from the original text, in order, one entry per character, each assigned a weight (0.0 to 1.0) based on how much it contributed to the "Phishing" classification.
5. High weights should be given to:
   - Suspicious domain patterns
   - Urgency triggers
   - Misspellings or lookalike substitutions
   - Mismatched links
6. Provide a short professional reasoning.

Return the response strictly as JSON.`, content, mode)
}

// responseSchema is the OpenAPI subset understood by generateContent.
func responseSchema() map[string]any {
	str := map[string]any{"type": "STRING"}
	num := map[string]any{"type": "NUMBER"}
	boolean := map[string]any{"type": "BOOLEAN"}

	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"isPhishing":  boolean,
			"probability": num,
			"reasoning":   str,
			"heatmap": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"char":   str,
						"weight": num,
						"label":  str,
					},
					"required": []string{"char", "weight"},
				},
			},
			"summary": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"criticalFindings":    map[string]any{"type": "ARRAY", "items": str},
					"adversarialDetected": boolean,
				},
				"required": []string{"criticalFindings", "adversarialDetected"},
			},
		},
		"required": []string{"isPhishing", "probability", "reasoning", "heatmap", "summary"},
	}
}
