package services

import (
	"fmt"
	"strings"

	"evaluno/interview-api/internal/models"
)

// CVDelimiter separates CVs inside a comparison prompt.
const CVDelimiter = "\n\n---\n\n"

// Prompt is a system instruction plus the user turn.
type Prompt struct {
	System string
	User   string
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildInterviewPrompt creates the Q&A generation prompt. An empty req.Type
// asks for a mix of all four types; otherwise every item must echo the type.
func (pb *PromptBuilder) BuildInterviewPrompt(req models.GenerationRequest) Prompt {
	var sys strings.Builder

	sys.WriteString("You are a senior technical recruiter and interviewer with deep industry experience.\n")
	sys.WriteString("Given the candidate's CV, job title, job requirements, and job description:\n")

	if req.Type == "" {
		sys.WriteString("- Generate 8-12 interview questions relevant to the job.\n")
		sys.WriteString("- Include a mix of technical, behavioral, scenario-based, and project-specific questions.\n")
	} else {
		fmt.Fprintf(&sys, "- Generate 8-12 interview questions that are ONLY of type: %s\n", req.Type)
	}

	sys.WriteString("- Each item must include exactly these fields:\n")
	sys.WriteString("    \"question\": a clearly phrased question (string)\n")
	sys.WriteString("    \"answer\": a plausible strong answer grounded in the CV (string)\n")
	if req.Type == "" {
		fmt.Fprintf(&sys, "    \"type\": one of [%s]\n", joinQuoted(questionTypeNames()))
	} else {
		fmt.Fprintf(&sys, "    \"type\": must be \"%s\" for every item\n", req.Type)
	}
	fmt.Fprintf(&sys, "    \"difficulty\": one of [%s]\n", joinQuoted(difficultyNames()))
	sys.WriteString("- Write \"type\" and \"difficulty\" exactly as listed, in lowercase.\n\n")

	sys.WriteString("Return ONLY a valid JSON array, with no markdown and no text before or after it, like:\n")
	sys.WriteString(`[{"question": "...", "answer": "...", "type": "...", "difficulty": "..."}]`)

	var user strings.Builder
	fmt.Fprintf(&user, "CV Text:\n%s\n\n", req.CVText)
	fmt.Fprintf(&user, "Job Title: %s\n", req.JobTitle)
	fmt.Fprintf(&user, "Requirements: %s\n", req.JobRequirements)
	fmt.Fprintf(&user, "Description: %s\n\n", req.JobDescription)
	if req.Type == "" {
		user.WriteString("Generate the Q&A set now.")
	} else {
		fmt.Fprintf(&user, "Generate only '%s' questions.", req.Type)
	}

	return Prompt{System: sys.String(), User: user.String()}
}

// BuildComparisonPrompt creates the prompt scoring every CV in one call.
func (pb *PromptBuilder) BuildComparisonPrompt(cvTexts []string, job models.JobPosting) Prompt {
	system := fmt.Sprintf(`You are an expert recruiter. Compare multiple CVs against job requirements and provide scores with strengths and weaknesses.
The CVs are separated by a line containing only "---". Return exactly one item per CV, in the order the CVs are given.

Return ONLY a single valid JSON array, with no markdown and no text before or after it. Each item must contain:
  "cv_text": the original CV text (string)
  "score": match score, an integer from 0 to 100
  "strengths": exactly 3 key strengths (array of 3 strings)
  "weaknesses": exactly 3 key weaknesses (array of 3 strings)

Job Title: %s
Requirements: %s
Description: %s`, job.Title, job.Requirements, job.Description)

	user := fmt.Sprintf("CVs to compare (%d):\n%s", len(cvTexts), strings.Join(cvTexts, CVDelimiter))

	return Prompt{System: system, User: user}
}

func questionTypeNames() []string {
	names := make([]string, len(models.QuestionTypes))
	for i, t := range models.QuestionTypes {
		names[i] = string(t)
	}
	return names
}

func difficultyNames() []string {
	names := make([]string, len(models.Difficulties))
	for i, d := range models.Difficulties {
		names[i] = string(d)
	}
	return names
}

func joinQuoted(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
