package llm

import "unicode/utf8"

// EstimateTokens approximates a token count as one token per four
// characters, plus one. This is a usage heuristic, not a real tokenizer;
// empty text counts as zero. Characters, not bytes, so multibyte text is
// not overestimated.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return utf8.RuneCountInString(text)/4 + 1
}

// Usage is the per-call token accounting returned to the caller. There is
// no ambient session counter; batches sum these explicitly.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns combined input and output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
