package openai

import (
	"fmt"
	"strings"
)

const trlReferenceScale = `TRL REFERENCE SCALE:
- TRL 1-3: Basic principles, paper-based research, mathematical models.
- TRL 4-5: Component validation in laboratory or simulated environment.
- TRL 6-7: Prototype demonstration in a relevant or operational environment (Pilots/MVPs).
- TRL 8-9: Actual system completed, qualified, and proven in mission operations.`

const extractionPromptTemplate = `[ROLE: SENIOR STRATEGIC TECHNOLOGY AUDITOR]
SECTION CONTEXT: %s
TASK: %s

INPUT TEXT:
%s

STRICT JSON OUTPUT FORMAT:
{
    "entities": [
        {"name": "EntityName", "type": "Protocol/Platform/Algorithm", "relation": "Role in this paper"}
    ],
    "trl_analysis": {
        "level": 1-9,
        "justification": "Short evidence-based sentence in English explaining the assigned TRL."
    },
    "contradictions": [
        "List specific limitations, technical debates, or trade-offs found in the text"
    ]
}

STRICT RULES:
1. Return ONLY the JSON object.
2. Assign TRL ONLY if the text provides evidence; otherwise, default to null or 0.
3. Language: Prompt and Output MUST be in English for maximum precision.
4. No conversational filler.`

// sectionTaskFocus returns the analysis emphasis matching the section's role
// in an academic paper.
func sectionTaskFocus(sectionName string) string {
	lower := strings.ToLower(sectionName)
	switch {
	case strings.Contains(lower, "introduction"):
		return "Identify ENTITIES and the PROBLEM STATEMENT. What technologies are being introduced?"
	case strings.Contains(lower, "methodology"):
		return "Determine the TRL level using the provided scale. Analyze if the testing was in a lab or real environment.\n" + trlReferenceScale
	case strings.Contains(lower, "results"):
		return "Extract raw TECHNICAL FINDINGS and specific PERFORMANCE CHALLENGES (latency, throughput, etc.)."
	case strings.Contains(lower, "discussion"):
		return "Identify COMPARISONS with other tech and TRADE-OFFS (pros/cons compared to state-of-the-art)."
	case strings.Contains(lower, "conclusion"):
		return "Identify STRATEGIC CHALLENGES and FUTURE WORK. What are the 'unsolved' parts?"
	default:
		return "General strategic synthesis of the section."
	}
}

// buildExtractionPrompt creates the section-specialized intelligence prompt.
func buildExtractionPrompt(sectionName, text string) string {
	return fmt.Sprintf(extractionPromptTemplate, sectionName, sectionTaskFocus(sectionName), text)
}
