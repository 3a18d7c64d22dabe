package buffer

import (
	"io"
	"strings"

	"github.com/dimchansky/utfbom"

	"github.com/dshills/textstore/internal/engine/piecetree"
)

// utf8BOM is the byte-order mark as it appears in UTF-8 encoded text.
const utf8BOM = "\uFEFF"

// Builder assembles a TextBuffer from a sequence of text chunks, detecting
// the byte-order mark and the dominant line-ending style along the way.
type Builder struct {
	chunks []string
	bom    string
	first  bool

	cr, lf, crlf int
	prevCR       bool

	containsRTL           bool
	containsNonBasicASCII bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{first: true}
}

// AcceptChunk adds the next run of text. The first chunk may carry a UTF-8
// BOM, which is stripped and recorded.
func (bl *Builder) AcceptChunk(s string) {
	if bl.first {
		bl.first = false
		if strings.HasPrefix(s, utf8BOM) {
			bl.bom = utf8BOM
			s = s[len(utf8BOM):]
		}
	}
	if len(s) == 0 {
		return
	}

	// Line-ending census; a CRLF split across chunks counts once.
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if bl.prevCR {
				bl.cr++
			}
			bl.prevCR = true
		case '\n':
			if bl.prevCR {
				bl.crlf++
				bl.prevCR = false
			} else {
				bl.lf++
			}
		default:
			if bl.prevCR {
				bl.cr++
				bl.prevCR = false
			}
		}
	}

	if !bl.containsRTL {
		bl.containsRTL = containsRTL(s)
	}
	if !bl.containsNonBasicASCII {
		bl.containsNonBasicASCII = !isBasicASCII(s)
	}

	bl.chunks = append(bl.chunks, s)
}

// Finish builds the TextBuffer. The stored line-ending style is the dominant
// one found in the text, or defaultEOL when the text has no line breaks.
// Documents with lone CRs or mixed endings are normalized so that every
// stored break matches the chosen style.
func (bl *Builder) Finish(defaultEOL EndOfLineSequence) *TextBuffer {
	if bl.prevCR {
		bl.cr++
		bl.prevCR = false
	}

	eol := defaultEOL
	if bl.crlf > bl.lf && bl.crlf >= bl.cr {
		eol = EOLSequenceCRLF
	} else if bl.lf > 0 || bl.cr > 0 {
		eol = EOLSequenceLF
	}

	chunks := bl.chunks
	mixed := bl.cr > 0 ||
		(eol == EOLSequenceLF && bl.crlf > 0) ||
		(eol == EOLSequenceCRLF && bl.lf > 0)
	if mixed {
		chunks = []string{normalizeLineEndings(strings.Join(chunks, ""), eol)}
	}

	return &TextBuffer{
		tree:                      piecetree.New(chunks),
		bom:                       bl.bom,
		eol:                       eol,
		mightContainRTL:           bl.containsRTL,
		mightContainNonBasicASCII: bl.containsNonBasicASCII,
	}
}

// NewFromString builds a buffer from a single string, defaulting to LF.
func NewFromString(s string) *TextBuffer {
	bl := NewBuilder()
	bl.AcceptChunk(s)
	return bl.Finish(EOLSequenceLF)
}

// NewFromReader builds a buffer from a reader, stripping any leading BOM.
func NewFromReader(r io.Reader, defaultEOL EndOfLineSequence) (*TextBuffer, error) {
	sr, enc := utfbom.Skip(r)
	bl := NewBuilder()
	if enc == utfbom.UTF8 {
		bl.bom = utf8BOM
	}
	bl.first = false

	buf := make([]byte, piecetree.AverageChunkSize)
	for {
		n, err := sr.Read(buf)
		if n > 0 {
			bl.AcceptChunk(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return bl.Finish(defaultEOL), nil
}
