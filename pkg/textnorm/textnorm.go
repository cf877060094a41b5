// Package textnorm canonicalizes the free-text fields (player names, team
// names) that cross-provider matching compares. All operations are
// null-preserving when applied to table columns: a null cell in yields a
// null cell out.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sportsync/rosetta/pkg/errors"
	"github.com/sportsync/rosetta/pkg/tabular"
)

var (
	// Unicode-aware: RE2's \W is ASCII-only and would shred letters the
	// accent pass leaves intact.
	nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	multiSpace   = regexp.MustCompile(`\s+`)
	ngramNoise   = regexp.MustCompile(`[,-./;]|\s`)

	womensCommaSuffix = []*regexp.Regexp{
		regexp.MustCompile(`,?\s+Women'+s$`),
		regexp.MustCompile(`,?\s+Womens$`),
		regexp.MustCompile(`,?\s+Women$`),
		regexp.MustCompile(`,?\s+W$`),
		regexp.MustCompile(`\s+WFC$`),
		regexp.MustCompile(`\s+LFC$`),
		regexp.MustCompile(`\s+Ladies$`),
		regexp.MustCompile(`\s+F$`),
	}

	// Literal forms are matched case-sensitively anywhere in the name.
	womensLiterals = []string{", Women's", ", Women", " Women's", " WFC", " Femenino", " Femminile", "Féminas"}

	youthUnder = regexp.MustCompile(` Under-?`)
	youthSub   = regexp.MustCompile(` Sub-?`)
	youthUDash = regexp.MustCompile(` U-`)
	youthTail  = regexp.MustCompile(` U\s?\d+$`)

	clubSuffixes = regexp.MustCompile(` SC$| Sc$| sc$| FC$| fc$| Fc$| LFC$| CF$| CD$| WFC$| FCW$| HSC$| AC$| AF$| FCO$| Ladies$| Women$| W$|\sW$|, W$| F$| Women's$| VF$| FF$| Football$`)
	clubPrefixes = regexp.MustCompile(`^SC |^FC |^CF |^CD |^RC |^OL |^Olympique de |^Olympique |^WNT |^SKN |^SK |^1\. `)

	// NFD decomposition followed by combining-mark removal transliterates
	// accented letters to their ASCII base forms.
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// Letters with no NFD decomposition get an explicit ASCII fallback.
	translit = strings.NewReplacer(
		"ß", "ss", "ẞ", "SS",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
		"ø", "o", "Ø", "O",
		"ł", "l", "Ł", "L",
		"đ", "d", "Đ", "D",
		"ð", "d", "Ð", "D",
		"þ", "th", "Þ", "Th",
		"ħ", "h", "Ħ", "H",
		"ı", "i", "ĸ", "k",
	)
)

// CleanSpaces trims the string and replaces the Unicode no-break space
// (U+00A0) with a plain space (U+0020).
func CleanSpaces(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", " ")
}

// RemoveAccents strips diacritics, transliterating the trimmed input to its
// ASCII base characters.
func RemoveAccents(s string) string {
	out, _, err := transform.String(deaccent, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return translit.Replace(out)
}

// Normalize applies the full canonicalization suite: trim, no-break-space
// cleanup, accent stripping, collapsing runs of non-word characters and
// repeated spaces to single spaces, and lowercasing.
func Normalize(s string) string {
	out := CleanSpaces(s)
	out = RemoveAccents(out)
	out = nonWordChars.ReplaceAllString(out, " ")
	out = multiSpace.ReplaceAllString(out, " ")
	return strings.TrimSpace(strings.ToLower(out))
}

// RemoveWomensSuffixes strips the fixed catalogue of women's-team suffix
// variants ("... Women", "... WFC", "... Ladies", trailing " W"/" F", and
// the literal forms listed in womensLiterals).
func RemoveWomensSuffixes(s string) string {
	out := strings.TrimSpace(s)
	for _, re := range womensCommaSuffix {
		out = re.ReplaceAllString(out, "")
	}
	for _, lit := range womensLiterals {
		out = strings.ReplaceAll(out, lit, "")
	}
	return strings.TrimSpace(out)
}

// RemoveYouthSuffixes reduces youth-team markers (" Under-19", " Sub 20",
// " U-17") to the " UN" form and strips a trailing " UN" marker entirely.
func RemoveYouthSuffixes(s string) string {
	out := youthUnder.ReplaceAllString(strings.TrimSpace(s), " U")
	out = youthSub.ReplaceAllString(out, " U")
	out = strings.ReplaceAll(out, " Under ", " U")
	out = youthUDash.ReplaceAllString(out, " U")
	out = youthTail.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// RemoveClubSuffixes strips the trailing club-token catalogue ("FC", "CD",
// "WFC", "Football", ...) after the women's and youth passes.
func RemoveClubSuffixes(s string) string {
	out := RemoveWomensSuffixes(s)
	out = RemoveYouthSuffixes(out)
	return clubSuffixes.ReplaceAllString(out, "")
}

// RemoveClubPrefixes strips the leading club-token catalogue ("FC ", "SC ",
// "Olympique de ", "1. ", ...).
func RemoveClubPrefixes(s string) string {
	return clubPrefixes.ReplaceAllString(s, "")
}

// NormalizeTeamName canonicalizes a club name: women's and youth markers and
// club suffix tokens come off first, then leading club prefixes, then the
// generic Normalize pass.
func NormalizeTeamName(s string) string {
	out := RemoveClubSuffixes(s)
	out = RemoveClubPrefixes(out)
	return Normalize(out)
}

// NGrams splits a string into contiguous character n-grams after stripping
// punctuation and whitespace. The empty string yields no n-grams, as does
// any input shorter than n. n must be positive.
func NGrams(s string, n int) ([]string, error) {
	if n <= 0 {
		return nil, errors.NewValidationError("n", n, "n-gram length must be greater than 0")
	}
	chars := []rune(ngramNoise.ReplaceAllString(s, ""))
	if len(chars) < n {
		return nil, nil
	}
	grams := make([]string, 0, len(chars)-n+1)
	for i := 0; i+n <= len(chars); i++ {
		grams = append(grams, string(chars[i:i+n]))
	}
	return grams, nil
}

// NormalizeColumn applies Normalize element-wise to a column, preserving
// nulls.
func NormalizeColumn(column []tabular.Value) []tabular.Value {
	return applyColumn(column, Normalize)
}

// NormalizeTeamNameColumn applies NormalizeTeamName element-wise to a
// column, preserving nulls.
func NormalizeTeamNameColumn(column []tabular.Value) []tabular.Value {
	return applyColumn(column, NormalizeTeamName)
}

func applyColumn(column []tabular.Value, fn func(string) string) []tabular.Value {
	out := make([]tabular.Value, len(column))
	for i, v := range column {
		if v.IsNull() {
			out[i] = tabular.Null()
			continue
		}
		out[i] = tabular.String(fn(v.String()))
	}
	return out
}
