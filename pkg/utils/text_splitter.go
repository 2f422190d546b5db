package utils

import "strings"

// SplitWords splits a long text into chunks of approximately 'chunkSize' words.
// It includes an 'overlap' (in words) to preserve context at chunk boundaries.
// Word-based chunking keeps chunk sizes aligned with the token estimate used
// by the prompt composer.
func SplitWords(text string, chunkSize int, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= chunkSize {
		return []string{strings.Join(words, " ")}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, strings.Join(words[i:end], " "))

		if end == len(words) {
			break
		}
	}

	return chunks
}

// EstimateTokens approximates the token count of a text by its whitespace
// separated word count. Rough, but consistent across chunking, budgeting and
// truncation so the prompt ceiling holds.
func EstimateTokens(text string) int {
	return len(strings.Fields(text))
}

// Tokenize splits a message into streamable fragments. Each fragment is a word
// plus its trailing whitespace, so clients can concatenate fragments verbatim
// to rebuild the original message.
func Tokenize(message string) []string {
	var tokens []string
	runes := []rune(message)

	i := 0
	// Leading whitespace is attached to the first fragment.
	for i < len(runes) {
		j := i
		for j < len(runes) && isSpaceRune(runes[j]) {
			j++
		}
		for j < len(runes) && !isSpaceRune(runes[j]) {
			j++
		}
		for j < len(runes) && isSpaceRune(runes[j]) {
			j++
		}
		if j == i {
			break
		}
		tokens = append(tokens, string(runes[i:j]))
		i = j
	}

	return tokens
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
