package tokenizer

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldingTable maps letters that do not decompose under NFD to their plain form.
var foldingTable = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ø': "o",
	'đ': "d",
	'ł': "l",
	'ı': "i",
}

// Fold lower-cases text and strips diacritics ("Marrón" -> "marron").
// A fresh transformer chain is built per call because transform.Transformer
// values carry state and are not safe for concurrent use.
func Fold(text string) string {
	lower := strings.ToLower(text)
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, lower)
	if err != nil {
		// Invalid UTF-8 is left as lower-cased input; folding is best effort.
		folded = lower
	}

	if !strings.ContainsFunc(folded, func(r rune) bool { _, ok := foldingTable[r]; return ok }) {
		return folded
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if repl, ok := foldingTable[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize splits free text into folded terms.
// It lower-cases the text, strips accents, and splits on every rune that is not a letter or digit.
// The result is never nil.
func Normalize(text string) []string {
	fields := strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields)) // Initialize as empty slice, not nil
	tokens = append(tokens, fields...)
	return tokens
}

// NormalizeValue converts a structured field value into its single exact term.
// Integers use their decimal form; floats use the shortest representation that
// keeps at least one fractional digit ("10.0", "19.99").
func NormalizeValue(value interface{}) string {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	default:
		return ""
	}
}

func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// NormalizeQuery returns the two forms of a raw query: the exact form used
// for prefix matching on structured fields and the folded form used for fuzzy
// matching on the text field.
func NormalizeQuery(raw string) (exact string, folded string) {
	trimmed := strings.TrimSpace(raw)
	return strings.ToLower(trimmed), Fold(trimmed)
}
