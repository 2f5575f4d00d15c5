package assistant

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
	tkErr  error
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// countTokens estimates prompt size. It returns -1 when the encoding can't be
// loaded (offline first run), which callers treat as unknown.
func countTokens(texts ...string) int {
	enc, err := getTokenizer()
	if err != nil {
		return -1
	}

	total := 0
	for _, t := range texts {
		if t == "" {
			continue
		}
		total += len(enc.Encode(t, nil, nil))
	}
	return total
}
