package score_test

import (
	"strings"
	"testing"

	"github.com/parlo-app/parlo/internal/score"
)

func TestCompareSentence_PerfectMatch(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareSentence("The quick brown fox", "The quick brown fox")

	if fb.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100", fb.Accuracy)
	}
	if len(fb.Words) != 4 {
		t.Fatalf("len(Words) = %d, want 4", len(fb.Words))
	}
	for i, w := range fb.Words {
		if !w.Correct {
			t.Errorf("Words[%d] (%q) marked incorrect, want correct", i, w.Word)
		}
	}
}

func TestCompareSentence_OneWrongWord(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareSentence("I like apples", "I like oranges")

	want := []bool{true, true, false}
	if len(fb.Words) != len(want) {
		t.Fatalf("len(Words) = %d, want %d", len(fb.Words), len(want))
	}
	for i, w := range fb.Words {
		if w.Correct != want[i] {
			t.Errorf("Words[%d] (%q) correct = %v, want %v", i, w.Word, w.Correct, want[i])
		}
	}
	if fb.Accuracy != 67 {
		t.Errorf("Accuracy = %d, want 67", fb.Accuracy)
	}
}

func TestCompareSentence_EmptySpoken(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareSentence("hello world", "")

	if fb.Accuracy != 0 {
		t.Errorf("Accuracy = %d, want 0", fb.Accuracy)
	}
	for i, w := range fb.Words {
		if w.Correct {
			t.Errorf("Words[%d] (%q) marked correct with empty spoken text", i, w.Word)
		}
	}
}

func TestCompareSentence_EmptyTarget(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareSentence("", "anything at all")

	// Nothing to get wrong.
	if fb.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100", fb.Accuracy)
	}
	if len(fb.Words) != 0 {
		t.Errorf("len(Words) = %d, want 0", len(fb.Words))
	}
}

func TestCompareSentence_IgnoresCaseAndPunctuation(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareSentence("Hello, world!", "hello world")

	if fb.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100", fb.Accuracy)
	}
	// Display casing and punctuation stay untouched.
	if fb.Words[0].Word != "Hello," {
		t.Errorf("Words[0].Word = %q, want %q", fb.Words[0].Word, "Hello,")
	}
}

func TestCompareSentence_NoRealignment(t *testing.T) {
	t.Parallel()

	// A dropped first word shifts everything: strict positional matching gives
	// no credit for the correctly spoken remainder.
	s := score.New()
	fb := s.CompareSentence("I like apples", "like apples")

	if fb.Accuracy != 0 {
		t.Errorf("Accuracy = %d, want 0 (no re-alignment tolerance)", fb.Accuracy)
	}
}

func TestCompareSentence_AccuracyAlwaysInRange(t *testing.T) {
	t.Parallel()

	s := score.New()
	cases := [][2]string{
		{"", ""},
		{"a", "b c d e f"},
		{"one two three", "one"},
		{strings.Repeat("word ", 50), "word"},
	}
	for _, c := range cases {
		fb := s.CompareSentence(c[0], c[1])
		if fb.Accuracy < 0 || fb.Accuracy > 100 {
			t.Errorf("CompareSentence(%q, %q).Accuracy = %d, want in [0,100]", c[0], c[1], fb.Accuracy)
		}
	}
}

func TestCompareWord_PerfectMatch(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareWord("pronunciation", "pronunciation")

	if !fb.Match {
		t.Error("Match = false, want true")
	}
	if fb.Accuracy < 90 || fb.Pronunciation < 90 || fb.Stress < 90 {
		t.Errorf("scores = (%d, %d, %d), want all >= 90",
			fb.Accuracy, fb.Pronunciation, fb.Stress)
	}
	if fb.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100 for exact match", fb.Accuracy)
	}
}

func TestCompareWord_BothEmpty(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareWord("", "")

	if !fb.Match {
		t.Error("Match = false, want true")
	}
	if fb.Accuracy != 100 {
		t.Errorf("Accuracy = %d, want 100", fb.Accuracy)
	}
}

func TestCompareWord_CloseMiss(t *testing.T) {
	t.Parallel()

	s := score.New()
	// "aple" vs "apple": distance 1, maxLen 5 → similarity 80.
	fb := s.CompareWord("apple", "aple")

	if fb.Match {
		t.Error("Match = true, want false")
	}
	// similarity 80 > 75 → accuracy scales between 85 and 100.
	if fb.Accuracy < 85 || fb.Accuracy > 100 {
		t.Errorf("Accuracy = %d, want in [85,100]", fb.Accuracy)
	}
	// Pronunciation is similarity with ±3 in-band variation.
	if fb.Pronunciation < 77 || fb.Pronunciation > 83 {
		t.Errorf("Pronunciation = %d, want near 80", fb.Pronunciation)
	}
}

func TestCompareWord_WrongWord(t *testing.T) {
	t.Parallel()

	s := score.New()
	fb := s.CompareWord("apple", "zzzzz")

	if fb.Match {
		t.Error("Match = true, want false")
	}
	if fb.Accuracy > 75 {
		t.Errorf("Accuracy = %d, want <= 75 for an unrelated word", fb.Accuracy)
	}
	// Poor pronunciation buckets stress into 20–50.
	if fb.Stress < 20 || fb.Stress > 50 {
		t.Errorf("Stress = %d, want in [20,50]", fb.Stress)
	}
}

func TestCompareWord_ScoresClamped(t *testing.T) {
	t.Parallel()

	// A jitter source pinned to the band maximum must not push any score
	// past 100.
	s := score.New(score.WithJitter(func(n int) int { return n - 1 }))
	fb := s.CompareWord("word", "word")

	for name, v := range map[string]int{
		"Accuracy":      fb.Accuracy,
		"Pronunciation": fb.Pronunciation,
		"Stress":        fb.Stress,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %d, want in [0,100]", name, v)
		}
	}
}

func TestCompareWord_DefaultIsDeterministic(t *testing.T) {
	t.Parallel()

	s := score.New()
	first := s.CompareWord("banana", "banan")
	for i := 0; i < 10; i++ {
		if got := s.CompareWord("banana", "banan"); got != first {
			t.Fatalf("CompareWord not deterministic: got %+v, want %+v", got, first)
		}
	}
}
