package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/logger"
)

const (
	followUpTemperature   = 0.7
	followUpMaxTokens     = 64
	evaluationTemperature = 0.2
	evaluationMaxTokens   = 2048
)

// LLMInterviewer backs the follow-up writer and evaluator capabilities of a session with Gemini.
type LLMInterviewer interface {
	interview.FollowUpWriter
	interview.Evaluator
}

type llmInterviewer struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewLLMInterviewer(geminiService GeminiService, log *zap.Logger) LLMInterviewer {
	return &llmInterviewer{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		log:           logger.OrNop(log),
	}
}

// WriteFollowUp implements interview.FollowUpWriter.
func (l *llmInterviewer) WriteFollowUp(ctx context.Context, question, answer string) (string, error) {
	prompt := l.promptBuilder.BuildFollowUpPrompt(question, answer)

	text, err := l.geminiService.GenerateText(ctx, prompt, followUpTemperature, followUpMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate follow-up: %w", err)
	}

	followUp := strings.Trim(strings.TrimSpace(text), `"`)
	if followUp == "" {
		return "", fmt.Errorf("empty follow-up generated")
	}
	return followUp, nil
}

// Evaluate implements interview.Evaluator. The model output is returned verbatim.
func (l *llmInterviewer) Evaluate(ctx context.Context, transcript []interview.TranscriptEntry, plan interview.Plan) (string, error) {
	prompt := l.promptBuilder.BuildEvaluationPrompt(transcript, plan)

	l.log.Info("🔄 Generating interview assessment", zap.Int("entries", len(transcript)))
	text, err := l.geminiService.GenerateText(ctx, prompt, evaluationTemperature, evaluationMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate assessment: %w", err)
	}
	return text, nil
}
