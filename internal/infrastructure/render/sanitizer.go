package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// spaceVariants are the non-standard space characters replaced with an
// ordinary space before layout: no-break space, figure space, thin space,
// narrow no-break space, zero-width space and BOM.
var spaceVariants = map[rune]bool{
	' ': true,
	' ': true,
	' ': true,
	' ': true,
	' ': true,
	' ': true,
	' ': true,
	' ': true,
	' ': true,
	'​': true,
	' ': true,
	' ': true,
	'　': true,
	'\uFEFF': true,
}

// cp1252Extras is the set of non-Latin-1 runes present in the CP1252 code
// page (0x80-0x9F region). Together with U+0000-U+00FF these are the glyphs
// the built-in PDF fonts can render.
var cp1252Extras = map[rune]bool{
	'€': true, // €
	'‚': true, 'ƒ': true, '„': true, '…': true,
	'†': true, '‡': true, 'ˆ': true, '‰': true,
	'Š': true, '‹': true, 'Œ': true, 'Ž': true,
	'‘': true, '’': true, '“': true, '”': true,
	'•': true, '–': true, '—': true, '˜': true,
	'™': true, 'š': true, '›': true, 'œ': true,
	'ž': true, 'Ÿ': true,
}

// stripMarks decomposes a rune cluster and removes its combining marks,
// leaving the closest ASCII-range base characters.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize normalizes free text for layout: Unicode NFC composition, exotic
// spaces replaced with ordinary spaces, control characters stripped (line
// breaks preserved), runs of spaces collapsed, lines trimmed, and anything
// outside the CP1252 glyph set transliterated or dropped.
//
// Sanitize is pure, idempotent and never fails; the worst case is an empty
// string.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	// CRLF is one line break, not two.
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune('\n')
		case r == '\r', r == '\v', r == '\f':
			b.WriteRune('\n')
		case r == '\t' || spaceVariants[r]:
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		case representable(r):
			b.WriteRune(r)
		default:
			b.WriteString(transliterate(r))
		}
	}

	return collapseSpaces(b.String())
}

// representable reports whether the built-in fonts have a glyph for r.
func representable(r rune) bool {
	return (r >= 0x20 && r <= 0xff) || cp1252Extras[r]
}

// transliterate maps an unsupported rune to its closest CP1252 equivalent,
// or to nothing when no reasonable fallback exists (emoji, CJK, ...).
func transliterate(r rune) string {
	out, _, err := transform.String(stripMarks, string(r))
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, o := range out {
		if o != r && representable(o) && !unicode.IsControl(o) {
			b.WriteRune(o)
		}
	}
	return b.String()
}

// collapseSpaces reduces runs of spaces to one and trims each line while
// preserving intentional line breaks.
func collapseSpaces(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		var b strings.Builder
		b.Grow(len(line))
		lastSpace := false
		for _, r := range line {
			if r == ' ' {
				if !lastSpace && b.Len() > 0 {
					b.WriteRune(' ')
				}
				lastSpace = true
				continue
			}
			lastSpace = false
			b.WriteRune(r)
		}
		lines[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
