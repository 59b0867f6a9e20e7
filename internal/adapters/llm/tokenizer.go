package llm

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts and slices text in cl100k_base tokens. Gemini tokenizes
// differently, so counts are an approximation of the model's own.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenizer fetches the BPE ranks on first use unless TIKTOKEN_CACHE_DIR
// already holds them.
func NewTokenizer() (*Tokenizer, error) {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base encoding: %w", err)
	}
	return &Tokenizer{encoding: tkm}, nil
}

func (t *Tokenizer) Encode(text string) []int {
	return t.encoding.EncodeOrdinary(text)
}

func (t *Tokenizer) Decode(tokens []int) string {
	return t.encoding.Decode(tokens)
}
