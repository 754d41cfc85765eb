package script

// balancedBlock locates the first '{' at or after start and returns the text
// between it and its balancing '}' along with the index one past that brace.
//
// The scan is purely textual: it does not understand string literals or
// comments, so a brace inside a quoted string shifts the count. That is a
// documented limitation of this extractor, acceptable for the script dialect
// it targets; inputs the scanner cannot balance yield no block rather than an
// error.
func balancedBlock(src string, start int) (body string, end int, ok bool) {
	open := indexFrom(src, start, '{')
	if open < 0 {
		return "", -1, false
	}

	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[open+1 : i], i + 1, true
			}
		}
	}
	return "", -1, false
}

func indexFrom(src string, start int, ch byte) int {
	if start < 0 || start >= len(src) {
		return -1
	}
	for i := start; i < len(src); i++ {
		if src[i] == ch {
			return i
		}
	}
	return -1
}
