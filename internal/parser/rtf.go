package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RTFExtractor handles the .rtf downloads from the relatoria. There is no
// maintained RTF library in the ecosystem we depend on, so this is a minimal
// control-word stripper: it keeps document text, decodes the escapes that
// Spanish judgments actually use, and drops everything else.
type RTFExtractor struct{}

// rtfSkipGroups are destination groups whose content is not document text.
var rtfSkipGroups = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"header":     true,
	"footer":     true,
	"object":     true,
}

func (p *RTFExtractor) Extract(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !bytes.HasPrefix(data, []byte(`{\rtf`)) {
		return "", fmt.Errorf("missing rtf signature")
	}
	return stripRTF(data), nil
}

func stripRTF(data []byte) string {
	var out strings.Builder
	skipDepth := 0 // brace depth inside a skipped destination group
	depth := 0

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch c {
		case '{':
			depth++
		case '}':
			if skipDepth > 0 && depth == skipDepth {
				skipDepth = 0
			}
			depth--
		case '\\':
			word, param, next := readRTFControl(data, i+1)
			i = next - 1
			if skipDepth > 0 {
				continue
			}
			switch word {
			case "par", "line", "sect", "page":
				out.WriteString("\n")
			case "tab":
				out.WriteString("\t")
			case "emdash", "endash":
				out.WriteString("-")
			case "lquote", "rquote":
				out.WriteString("'")
			case "ldblquote", "rdblquote":
				out.WriteString("\"")
			case "'":
				if b, ok := parseHexByte(data, i+1); ok {
					out.WriteRune(cp1252Rune(b))
					i += 2
				}
			case "u":
				if param < 0 {
					param += 65536 // RTF encodes high codepoints as signed 16-bit
				}
				if param != 0 {
					out.WriteRune(rune(param))
				}
				// Skip the fallback character that follows \uN.
				if i+1 < len(data) && data[i+1] != '\\' && data[i+1] != '{' && data[i+1] != '}' {
					i++
				}
			case "*":
				// Ignorable destination: skip the enclosing group.
				if skipDepth == 0 {
					skipDepth = depth
				}
			default:
				if rtfSkipGroups[word] && skipDepth == 0 {
					skipDepth = depth
				}
			}
		case '\r', '\n':
			// Raw newlines in RTF source are not document text.
		default:
			if skipDepth == 0 {
				out.WriteByte(c)
			}
		}
	}
	return out.String()
}

// readRTFControl parses a control word or symbol starting at pos (just past
// the backslash). It returns the word, its numeric parameter, and the index
// of the first byte after the control.
func readRTFControl(data []byte, pos int) (word string, param int, next int) {
	if pos >= len(data) {
		return "", 0, pos
	}
	c := data[pos]
	if !isASCIILetter(c) {
		// Control symbol: a single non-letter character.
		return string(c), 0, pos + 1
	}

	start := pos
	for pos < len(data) && isASCIILetter(data[pos]) {
		pos++
	}
	word = string(data[start:pos])

	numStart := pos
	if pos < len(data) && (data[pos] == '-' || isASCIIDigit(data[pos])) {
		pos++
		for pos < len(data) && isASCIIDigit(data[pos]) {
			pos++
		}
		param, _ = strconv.Atoi(string(data[numStart:pos]))
	}

	// A single space terminates the control word and is consumed.
	if pos < len(data) && data[pos] == ' ' {
		pos++
	}
	return word, param, pos
}

func parseHexByte(data []byte, pos int) (byte, bool) {
	if pos+1 >= len(data) {
		return 0, false
	}
	n, err := strconv.ParseUint(string(data[pos:pos+2]), 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(n), true
}

// cp1252Rune maps a Windows-1252 byte to its rune. The 0x80-0x9F range
// differs from Latin-1; everything else maps directly.
func cp1252Rune(b byte) rune {
	if r, ok := cp1252Specials[b]; ok {
		return r
	}
	return rune(b)
}

var cp1252Specials = map[byte]rune{
	0x85: '…',
	0x91: '‘',
	0x92: '’',
	0x93: '“',
	0x94: '”',
	0x96: '–',
	0x97: '—',
	0xA0: ' ',
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
