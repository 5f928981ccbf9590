// Package wordhash computes content fingerprints over the word sequence of
// a verse. Fingerprints detect whether a verse's wording has changed since
// a tag set was created: formatting and footnote markup never affect them,
// any change to a visible word always does.
package wordhash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/asteroid-belt/versetag/internal/hash"
	"github.com/asteroid-belt/versetag/internal/models"
)

// ErrMalformedMarkup means the verse markup could not be decomposed into
// words. An unhashable verse cannot be safely tagged, so callers must
// propagate (or explicitly skip and log) this error, never ignore it.
var ErrMalformedMarkup = errors.New("malformed verse markup")

// DividerRule describes how a version's language delimits words. The zero
// value splits on Unicode whitespace, which is correct for most languages.
type DividerRule struct {
	// Pattern is a regular expression matching the characters between
	// words. Empty means whitespace.
	Pattern string
}

// compile returns the splitting regexp for the rule.
func (r DividerRule) compile() (*regexp.Regexp, error) {
	if r.Pattern == "" {
		return wordDividerRe, nil
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("word divider pattern %q: %w", r.Pattern, err)
	}
	return re, nil
}

var (
	wordDividerRe = regexp.MustCompile(`\s+`)

	// Paired markers whose entire span is invisible to the reader.
	footnoteRe = regexp.MustCompile(`(?s)\\(f|fe|x)\s.*?\\(f|fe|x)\*`)

	// Word-level markers keep their visible text (the part before any
	// attribute pipe): \w word|lemma="..."\w* renders as "word". One
	// pattern per marker name so a closing marker only pairs with its
	// own opener.
	charMarkers   = []string{"w", "nd", "add", "k", "qs", "sls", "tl", "wj"}
	charMarkerRes = compileCharMarkers(charMarkers)

	// A word-level marker, opening or closing, that survived pairing.
	unpairedCharMarkerRe = regexp.MustCompile(`\\\+?(w|nd|add|k|qs|sls|tl|wj)(\*|\s|$)`)

	// Chapter and verse markers carry a numeric argument, possibly a
	// verse bridge like "1-2", that is metadata, not wording.
	numberedMarkerRe = regexp.MustCompile(`\\(c|v)\s+\d+(-\d+)?(:\d+(-\d+)?)?\s*`)

	// Any remaining backslash marker, opening or closing.
	markerRe = regexp.MustCompile(`\\\+?[a-z]+[0-9]*\*?`)

	nonWordRe = regexp.MustCompile(`^[\p{P}\p{S}\p{Z}\p{C}]+|[\p{P}\p{S}\p{Z}\p{C}]+$`)
)

func compileCharMarkers(markers []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(markers))
	for i, m := range markers {
		res[i] = regexp.MustCompile(`\\\+?` + m + `\s+([^\\|]*)(\|[^\\]*)?\\\+?` + m + `\*`)
	}
	return res
}

// stripCharMarkers unwraps word-level marker pairs to their visible text,
// innermost first, until none remain. Unpaired markers are left in place
// for the caller to reject.
func stripCharMarkers(text string) string {
	for {
		replaced := text
		for _, re := range charMarkerRes {
			replaced = re.ReplaceAllString(replaced, " $1 ")
		}
		if replaced == text {
			return text
		}
		text = replaced
	}
}

// ExtractWords returns the ordered visible words of a verse's raw USFM
// markup, with all markup metadata stripped. It fails with
// ErrMalformedMarkup when no words can be recovered.
func ExtractWords(usfm string, rule DividerRule) ([]string, error) {
	divider, err := rule.compile()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(usfm) == "" {
		return nil, fmt.Errorf("%w: empty verse text", ErrMalformedMarkup)
	}

	text := footnoteRe.ReplaceAllString(usfm, " ")
	text = stripCharMarkers(text)
	if leftover := unpairedCharMarkerRe.FindString(text); leftover != "" {
		return nil, fmt.Errorf("%w: unpaired marker %q in %q", ErrMalformedMarkup, strings.TrimSpace(leftover), usfm)
	}
	text = numberedMarkerRe.ReplaceAllString(text, " ")
	text = markerRe.ReplaceAllString(text, " ")

	words := make([]string, 0, 16)
	for _, token := range divider.Split(text, -1) {
		word := nonWordRe.ReplaceAllString(token, "")
		if word != "" {
			words = append(words, word)
		}
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no words in %q", ErrMalformedMarkup, usfm)
	}
	return words, nil
}

// WordsHash returns the single fingerprint over a verse's full word
// sequence. Identical word sequences always produce identical fingerprints;
// any change in the sequence changes it with overwhelming probability.
func WordsHash(usfm string, rule DividerRule) (string, error) {
	words, err := ExtractWords(usfm, rule)
	if err != nil {
		return "", err
	}
	return hashWords(words), nil
}

// hashWords length-prefixes every word before hashing so that word
// boundaries are part of the fingerprint ("ab c" never collides with
// "a bc").
func hashWords(words []string) string {
	var buf []byte
	var lenBytes [4]byte
	for _, w := range words {
		binary.BigEndian.PutUint32(lenBytes[:], uint32(len(w)))
		buf = append(buf, lenBytes[:]...)
		buf = append(buf, w...)
	}
	return hash.TruncatedSHA256Bytes(buf)
}

// WordHashes returns the ordered per-word fingerprints for a verse. Each
// entry hashes the word alone and together with its neighbors, so the
// remote authority can relocate a word even when the same word occurs at
// several positions.
func WordHashes(usfm string, rule DividerRule) ([]models.WordHash, error) {
	_, wordHashes, err := HashVerse(usfm, rule)
	return wordHashes, err
}

// HashVerse computes both fingerprint forms in one extraction pass.
func HashVerse(usfm string, rule DividerRule) (wordsHash string, wordHashes []models.WordHash, err error) {
	words, err := ExtractWords(usfm, rule)
	if err != nil {
		return "", nil, err
	}

	wordsHash = hashWords(words)
	wordHashes = make([]models.WordHash, len(words))
	for i, w := range words {
		before, after := "", ""
		if i > 0 {
			before = words[i-1]
		}
		if i < len(words)-1 {
			after = words[i+1]
		}
		wordHashes[i] = models.WordHash{
			WordNumberInVerse:      i + 1,
			Hash:                   hash.TruncatedSHA256(w),
			WithBeforeHash:         hash.TruncatedSHA256(before + "\n" + w),
			WithAfterHash:          hash.TruncatedSHA256(w + "\n" + after),
			WithBeforeAndAfterHash: hash.TruncatedSHA256(before + "\n" + w + "\n" + after),
		}
	}
	return wordsHash, wordHashes, nil
}
