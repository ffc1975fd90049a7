package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

type Comparator interface {
	Compare(ctx context.Context, cvTexts []string, job models.JobPosting) ([]models.CVScore, error)
}

type comparator struct {
	llm      LLMClient
	prompts  *PromptBuilder
	settings GenerationSettings
	timeout  time.Duration
}

func NewComparator(llm LLMClient, prompts *PromptBuilder, settings GenerationSettings, timeout time.Duration) Comparator {
	return &comparator{
		llm:      llm,
		prompts:  prompts,
		settings: settings,
		timeout:  timeout,
	}
}

// Compare scores every CV with a single LLM call. It returns one CVScore
// per CV in input order, or ComparisonFailed; never a partial ranking.
func (c *comparator) Compare(ctx context.Context, cvTexts []string, job models.JobPosting) ([]models.CVScore, error) {
	if len(cvTexts) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidInput, "at least one CV is required")
	}
	for i, text := range cvTexts {
		if strings.TrimSpace(text) == "" {
			return nil, apperrors.New(apperrors.KindInvalidInput, fmt.Sprintf("CV %d is empty", i+1))
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Printf("⚖️ Comparing %d CVs for %q", len(cvTexts), job.Title)

	prompt := c.prompts.BuildComparisonPrompt(cvTexts, job)
	raw, err := c.llm.Complete(ctx, prompt, c.settings)
	if err != nil {
		return nil, comparisonFailed(err)
	}

	scores, err := RecoverCVScores(raw)
	if err != nil {
		return nil, comparisonFailed(err)
	}

	if len(scores) != len(cvTexts) {
		return nil, comparisonFailed(fmt.Errorf("model scored %d CVs, expected %d", len(scores), len(cvTexts)))
	}

	// The model often abbreviates cv_text; positions are authoritative.
	for i := range scores {
		if strings.TrimSpace(scores[i].CVText) == "" {
			scores[i].CVText = cvTexts[i]
		}
	}

	log.Printf("✅ Comparison completed for %d CVs", len(scores))
	return scores, nil
}

func comparisonFailed(err error) error {
	return apperrors.Wrap(apperrors.KindComparisonFailed, "failed to compare CVs", err)
}
