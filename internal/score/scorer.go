// Package score compares target text against a recognized transcript and
// produces pronunciation feedback.
//
// Two modes are offered. CompareSentence performs strict positional word
// matching for reading practice: no re-alignment, no insertion or deletion
// tolerance. CompareWord scores a single vocabulary word on three axes
// (accuracy, pronunciation, stress) derived from Levenshtein similarity.
//
// "Pronunciation" here is a textual-similarity proxy over what the
// recognition engine heard, not acoustic analysis.
//
// The package is pure: no I/O, no platform speech dependency, and — with the
// default jitter — fully deterministic.
package score

import "math"

// WordResult is the verdict for one target word in sentence mode. Word keeps
// the original casing and punctuation for display.
type WordResult struct {
	Word    string
	Correct bool
}

// SentenceFeedback is the result of CompareSentence. Words has exactly one
// entry per target word, in target order. Accuracy is in [0,100].
type SentenceFeedback struct {
	Words    []WordResult
	Accuracy int
}

// VocabularyFeedback is the result of CompareWord. All scores are in [0,100].
// Match reports normalized-string equality between target and spoken.
type VocabularyFeedback struct {
	Match         bool
	Accuracy      int
	Pronunciation int
	Stress        int
}

// Jitter produces a value in [0,n) used to vary scores inside their band.
// The default implementation returns the band midpoint (n/2), keeping output
// deterministic; inject rand.Intn from a seeded source for organic variation.
type Jitter func(n int) int

// Option is a functional option for configuring a [Scorer].
type Option func(*Scorer)

// WithJitter sets the in-band score variation function.
func WithJitter(j Jitter) Option {
	return func(s *Scorer) {
		if j != nil {
			s.jitter = j
		}
	}
}

// Scorer compares spoken attempts against target text. Safe for concurrent
// use as long as the configured Jitter is.
type Scorer struct {
	jitter Jitter
}

// New returns a Scorer configured with the supplied options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		jitter: func(n int) int { return n / 2 },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CompareSentence checks spoken against target word by word at matching
// positions. A target word is correct iff a spoken word exists at the same
// index and the two are equal after normalization.
//
// Accuracy is the rounded percentage of correct target words. An empty target
// yields accuracy 100 with no word entries: there is nothing to get wrong.
func (s *Scorer) CompareSentence(target, spoken string) SentenceFeedback {
	targetWords := Tokenize(target)
	spokenWords := Tokenize(spoken)

	if len(targetWords) == 0 {
		return SentenceFeedback{Accuracy: 100}
	}

	words := make([]WordResult, len(targetWords))
	correct := 0
	for i, w := range targetWords {
		ok := i < len(spokenWords) && NormalizeWord(w) == NormalizeWord(spokenWords[i])
		if ok {
			correct++
		}
		words[i] = WordResult{Word: w, Correct: ok}
	}

	accuracy := int(math.Round(float64(correct) / float64(len(targetWords)) * 100))
	return SentenceFeedback{Words: words, Accuracy: clamp(accuracy)}
}

// CompareWord scores a single spoken vocabulary word against target.
//
// The foundation is Levenshtein similarity between the normalized words.
// Accuracy scales 85–100 when similarity exceeds 75, else similarity × 0.9.
// Pronunciation equals similarity with small in-band jitter when it is
// neither hopeless nor near-perfect. Stress is bucketed from the
// pronunciation score: >90 → 90–100, >70 → 75–95, >40 → 50–75, else 20–50.
// An exact normalized match short-circuits to near-maximal scores on all axes.
func (s *Scorer) CompareWord(target, spoken string) VocabularyFeedback {
	tc := NormalizeWord(target)
	sc := NormalizeWord(spoken)

	similarity := Similarity(tc, sc)
	perfect := tc == sc

	var accuracy int
	if similarity > 75 {
		accuracy = 85 + (similarity-75)*15/25
	} else {
		accuracy = similarity * 9 / 10
	}

	pronunciation := similarity
	if pronunciation > 50 && pronunciation < 98 {
		pronunciation += s.jitter(6) - 3
	}

	var stress int
	switch {
	case pronunciation > 90:
		stress = 90 + s.jitter(11)
	case pronunciation > 70:
		stress = 75 + s.jitter(21)
	case pronunciation > 40:
		stress = 50 + s.jitter(26)
	default:
		stress = 20 + s.jitter(31)
	}

	if perfect {
		accuracy = 100
		pronunciation = 96 + s.jitter(5)
		stress = 91 + s.jitter(10)
	}

	return VocabularyFeedback{
		Match:         perfect,
		Accuracy:      clamp(accuracy),
		Pronunciation: clamp(pronunciation),
		Stress:        clamp(stress),
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
