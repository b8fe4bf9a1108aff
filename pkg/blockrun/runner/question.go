package runner

import (
	"context"
	"fmt"

	"github.com/randalmurphal/blockrun/pkg/blockrun/block"
	"github.com/randalmurphal/blockrun/pkg/blockrun/llm"
)

// QuestionRunner sends block content to the configured LLM client.
//
// The request is built from the block's modifiers: provider, model,
// temperature, max_tokens, api_key, system_prompt. A `context` modifier
// names a prior output whose value is prepended to the prompt.
type QuestionRunner struct {
	client llm.Client
}

// NewQuestionRunner creates a question runner backed by client.
// A nil client makes every non-bypassed run fail.
func NewQuestionRunner(client llm.Client) *QuestionRunner {
	return &QuestionRunner{client: client}
}

// CanExecute implements Runner.
func (r *QuestionRunner) CanExecute(b *block.Block) bool {
	return b.Kind == block.KindQuestion
}

// Run implements Runner.
func (r *QuestionRunner) Run(ctx context.Context, name string, b *block.Block, content string, st *block.State) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("question %s: no LLM client configured", name)
	}

	prompt := content
	if b.Mods.ContextKey != "" {
		if contextVal, ok := st.Output(b.Mods.ContextKey); ok {
			prompt = contextVal + "\n\n" + prompt
		}
	}

	resp, err := r.client.Complete(ctx, llm.Request{
		Provider:     b.Mods.Provider,
		Model:        b.Mods.Model,
		SystemPrompt: b.Mods.SystemPrompt,
		Temperature:  b.Mods.Temperature,
		MaxTokens:    b.Mods.MaxTokens,
		APIKey:       b.Mods.APIKey,
		Prompt:       prompt,
	})
	if err != nil {
		return "", fmt.Errorf("question %s: %w", name, err)
	}
	return resp, nil
}
