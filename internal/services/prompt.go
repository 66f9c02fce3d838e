package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVScreeningPrompt creates the prompt that scores a CV against a career.
func (pb *PromptBuilder) BuildCVScreeningPrompt(cvText, careerContext, careerTitle string, requirements []string) string {
	reqs := "Not specified."
	if len(requirements) > 0 {
		reqs = "- " + strings.Join(requirements, "\n- ")
	}

	return fmt.Sprintf(`You are an expert recruiter screening a candidate's CV for a %s position.

REQUIREMENTS:
%s

CAREER CONTEXT:
%s

CANDIDATE CV:
%s

Score how well the CV matches the requirements and the career context. Weigh technical skills
(40%%), experience level (25%%), relevant achievements (20%%) and collaboration signals (15%%).

Return your response in the following JSON format:
{
  "match_rate": <decimal between 0 and 1>,
  "strengths": ["<short strength>", ...],
  "gaps": ["<short gap>", ...],
  "feedback": "<3-5 sentences a recruiter can act on>"
}

Be objective. Cite specific evidence from the CV.`,
		careerTitle, reqs, careerContext, cvText)
}

// BuildRetrievalQuery creates the query used to pull career context.
func (pb *PromptBuilder) BuildRetrievalQuery(careerTitle string, requirements []string) string {
	if len(requirements) == 0 {
		return fmt.Sprintf("Job requirements and qualifications for %s", careerTitle)
	}
	return fmt.Sprintf("Job requirements and qualifications for %s: %s",
		careerTitle, strings.Join(requirements, ", "))
}

// FormatRAGContext joins retrieved chunks into one prompt section.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
