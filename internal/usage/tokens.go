package usage

import "strings"

// EstimateTokens returns a coarse token estimate for text: the
// whitespace-delimited word count, floored at 1. It is a proxy for
// reporting, not a tokenizer count, and must not be treated as
// billing-accurate.
func EstimateTokens(text string) int {
	n := len(strings.Fields(text))
	if n < 1 {
		return 1
	}
	return n
}
