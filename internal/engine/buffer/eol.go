package buffer

import "strings"

// EndOfLineSequence is the line-ending style stored in a buffer. Lone-CR
// documents are normalized at construction, so only LF and CRLF exist as
// stored styles.
type EndOfLineSequence uint8

const (
	EOLSequenceLF EndOfLineSequence = iota
	EOLSequenceCRLF
)

// String returns the escaped representation of the sequence.
func (e EndOfLineSequence) String() string {
	if e == EOLSequenceCRLF {
		return "\\r\\n"
	}
	return "\\n"
}

// Sequence returns the actual line-ending characters.
func (e EndOfLineSequence) Sequence() string {
	if e == EOLSequenceCRLF {
		return "\r\n"
	}
	return "\n"
}

// EndOfLinePreference selects how line endings are rendered when reading a
// range out of the buffer.
type EndOfLinePreference uint8

const (
	// EOLTextDefined keeps the buffer's own stored line endings.
	EOLTextDefined EndOfLinePreference = iota
	// EOLLF renders every line ending as \n.
	EOLLF
	// EOLCRLF renders every line ending as \r\n.
	EOLCRLF
)

// normalizeLineEndings rewrites every line ending in s to the given style.
func normalizeLineEndings(s string, eol EndOfLineSequence) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if eol == EOLSequenceCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}
