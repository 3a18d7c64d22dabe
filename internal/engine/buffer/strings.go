package buffer

import "unicode/utf8"

// firstNonWhitespaceIndex returns the index of the first character that is
// not a space or tab, or -1 if the line is all whitespace.
func firstNonWhitespaceIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return -1
}

// lastNonWhitespaceIndex returns the index of the last character that is
// not a space or tab, or -1 if the line is all whitespace.
func lastNonWhitespaceIndex(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return -1
}

// isBasicASCII returns true if s contains only tab, CR, LF, and printable
// ASCII (0x20-0x7E).
func isBasicASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '\t' && b != '\r' && b != '\n' && (b < 0x20 || b > 0x7E) {
			return false
		}
	}
	return true
}

// containsRTL returns true if s contains characters from right-to-left
// scripts (Hebrew, Arabic and their presentation forms).
func containsRTL(s string) bool {
	for i := 0; i < len(s); {
		if s[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r >= 0x0591 && r <= 0x08FF) ||
			(r >= 0xFB1D && r <= 0xFDFD) ||
			(r >= 0xFE70 && r <= 0xFEFC) {
			return true
		}
		i += size
	}
	return false
}

// countEOL counts line breaks in text and measures the first and last line.
// A \r\n pair is a single break. firstLineLength is the byte count before
// the first break; lastLineLength is the byte count after the last break.
func countEOL(text string) (eolCount, firstLineLength, lastLineLength int) {
	lastLineStart := 0
	for i := 0; i < len(text); {
		switch text[i] {
		case '\r':
			if eolCount == 0 {
				firstLineLength = i
			}
			eolCount++
			if i+1 < len(text) && text[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			lastLineStart = i
		case '\n':
			if eolCount == 0 {
				firstLineLength = i
			}
			eolCount++
			i++
			lastLineStart = i
		default:
			i++
		}
	}
	if eolCount == 0 {
		firstLineLength = len(text)
	}
	lastLineLength = len(text) - lastLineStart
	return eolCount, firstLineLength, lastLineLength
}
