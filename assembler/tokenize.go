package assembler

// Tokenize splits one source line into tokens. Whitespace and commas separate
// tokens, '#' starts a comment that runs to the end of the line, and ':', '('
// and ')' are always tokens of their own.
func Tokenize(line string) []Token {
	tokens := []Token{}
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, Token{Text: line[start:end], Char: start})
			start = -1
		}
	}

	for i, char := range line {
		switch char {
		case ' ', '\t', ',', '\r', '\n':
			flush(i)
		case '#':
			flush(i)
			return tokens
		case ':', '(', ')':
			flush(i)
			tokens = append(tokens, Token{Text: string(char), Char: i})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(line))

	return tokens
}
