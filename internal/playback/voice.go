package playback

import (
	"regexp"
	"strings"

	"github.com/parlo-app/parlo/pkg/engine/synthesis"
)

// Gender is the caller's voice-gender hint for an utterance.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Gender matching is a best-effort heuristic over platform voice names.
// The male pattern is word-bounded so that "Female" and "woman" do not
// match it.
var (
	femaleKeywords = regexp.MustCompile(`(?i)\b(female|woman|zira|susan|eva|linda|heather|samantha|nuance)\b`)
	maleKeywords   = regexp.MustCompile(`(?i)\b(male|man|david|mark|tom|alex|daniel)\b`)

	// highQualityVendor marks voices from engines known to sound good.
	highQualityVendor = regexp.MustCompile(`(?i)google|microsoft`)
)

// selectVoice picks the best voice from catalog for the requested language
// and gender. The cascade is deterministic, most-specific first:
//
//  1. high-quality-vendor voice matching the requested gender's keywords
//  2. any voice matching the requested gender's keywords
//  3. high-quality-vendor voice not matching the opposite gender's keywords
//  4. any voice not matching the opposite gender's keywords
//  5. the first voice in the filtered list
//
// The search pool is the catalog filtered to the language prefix (falling
// back to the full catalog when nothing matches), narrowed to the exact
// regional tag when any such voices exist.
func selectVoice(catalog []synthesis.Voice, lang string, gender Gender) synthesis.Voice {
	if len(catalog) == 0 {
		return synthesis.Voice{}
	}

	pool := filterVoices(catalog, func(v synthesis.Voice) bool {
		return strings.HasPrefix(v.Lang, langPrefix(lang))
	})
	if len(pool) == 0 {
		pool = catalog
	}
	if regional := filterVoices(pool, func(v synthesis.Voice) bool {
		return v.Lang == lang
	}); len(regional) > 0 {
		pool = regional
	}

	target, opposite := femaleKeywords, maleKeywords
	if gender == GenderMale {
		target, opposite = maleKeywords, femaleKeywords
	}

	if v, ok := findVoice(pool, func(v synthesis.Voice) bool {
		return highQualityVendor.MatchString(v.Name) && target.MatchString(v.Name)
	}); ok {
		return v
	}
	if v, ok := findVoice(pool, func(v synthesis.Voice) bool {
		return target.MatchString(v.Name)
	}); ok {
		return v
	}
	if v, ok := findVoice(pool, func(v synthesis.Voice) bool {
		return highQualityVendor.MatchString(v.Name) && !opposite.MatchString(v.Name)
	}); ok {
		return v
	}
	if v, ok := findVoice(pool, func(v synthesis.Voice) bool {
		return !opposite.MatchString(v.Name)
	}); ok {
		return v
	}
	return pool[0]
}

// langPrefix reduces a regional tag to its language prefix: "en-US" → "en-".
// Tags without a region are used as-is.
func langPrefix(lang string) string {
	if i := strings.IndexByte(lang, '-'); i >= 0 {
		return lang[:i+1]
	}
	return lang
}

func filterVoices(vs []synthesis.Voice, keep func(synthesis.Voice) bool) []synthesis.Voice {
	var out []synthesis.Voice
	for _, v := range vs {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func findVoice(vs []synthesis.Voice, match func(synthesis.Voice) bool) (synthesis.Voice, bool) {
	for _, v := range vs {
		if match(v) {
			return v, true
		}
	}
	return synthesis.Voice{}, false
}
