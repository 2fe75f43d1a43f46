package chat

import (
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCounter counts prompt tokens with the model's tokenizer when it can
// be loaded, and falls back to an upper-biased estimate otherwise.
type tokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func newTokenCounter(model string) *tokenCounter {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			encoding = nil
		}
	}
	return &tokenCounter{encoding: encoding}
}

func (c *tokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.encoding != nil {
		return len(c.encoding.Encode(text, nil, nil))
	}
	return estimateTokens(text)
}

// estimateTokens over-estimates to stay under provider caps: ~1 token per
// 2 runes and never below the word count.
func estimateTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	byRunes := (runes + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}
