// Package fallback produces locally generated rewrite suggestions when the
// remote mediation service is unavailable.
package fallback

import (
	"math/rand"
	"strings"
	"time"

	"github.com/keycare-ai/keycare/internal/mediation"
)

// historySize bounds the recently-shown cache. With pools larger than this,
// no suggestion repeats within the window; smaller pools may repeat sooner,
// which is accepted.
const historySize = 9

// Bucket is the coarse categorization of input text used to select
// specialized template pools.
type Bucket int

const (
	BucketNeutral Bucket = iota
	BucketAnger
	BucketInsult
	BucketThreat
)

func (b Bucket) String() string {
	switch b {
	case BucketThreat:
		return "threat"
	case BucketInsult:
		return "insult"
	case BucketAnger:
		return "anger"
	default:
		return "neutral"
	}
}

// DetectBucket scans the text with an ordered, first-match keyword pass.
// Threats outrank insults, insults outrank anger: a message carrying both
// insult and threat words buckets as a threat.
func DetectBucket(text string) Bucket {
	lower := strings.ToLower(text)
	for _, kw := range threatKeywords {
		if strings.Contains(lower, kw) {
			return BucketThreat
		}
	}
	for _, kw := range insultKeywords {
		if strings.Contains(lower, kw) {
			return BucketInsult
		}
	}
	for _, kw := range angerKeywords {
		if strings.Contains(lower, kw) {
			return BucketAnger
		}
	}
	return BucketNeutral
}

// Suggestions is one locally generated set, one candidate per tone.
type Suggestions struct {
	Calm        string
	Firm        string
	Educational string
}

// Generator holds the anti-repetition history. It has exactly one owner; the
// owning context serializes all calls, so no locking here.
type Generator struct {
	history []string // FIFO, most recent last
	rng     *rand.Rand
}

func NewGenerator() *Generator {
	return newGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate returns one suggestion per tone for the given text and language.
// The text itself is only scanned for the context bucket; suggestions are
// templated, not derived from it.
func (g *Generator) Generate(text, lang string) Suggestions {
	bucket := DetectBucket(text)
	calmPool := g.calmPool(lang, bucket)
	firmPool := g.firmPool(lang, bucket)
	eduPool := g.educationalPool(lang)

	out := Suggestions{
		Calm:        g.pickUnique(calmPool),
		Firm:        g.pickUnique(firmPool),
		Educational: g.pickUnique(eduPool),
	}

	g.remember(out.Calm)
	g.remember(out.Firm)
	g.remember(out.Educational)

	return out
}

// ClearHistory drops the anti-repetition cache.
func (g *Generator) ClearHistory() {
	g.history = nil
}

// AsList orders the set into tagged suggestions for the requested tone,
// mirroring how the rewrite sheet presents them.
func (s Suggestions) AsList(tone string) []mediation.Suggestion {
	local := func(text, reason string) mediation.Suggestion {
		return mediation.Suggestion{Text: text, Reason: reason, Source: "local"}
	}
	switch strings.ToLower(tone) {
	case "calm":
		return []mediation.Suggestion{
			local(s.Calm, "Calm approach"),
			local(s.Firm, "Clear boundaries"),
			local(s.Educational, "Informative tone"),
		}
	case "respectful", "friendly":
		return []mediation.Suggestion{
			local(s.Calm, "Respectful tone"),
			local(s.Educational, "Understanding approach"),
			local(s.Firm, "Direct but kind"),
		}
	case "professional":
		return []mediation.Suggestion{
			local(s.Firm, "Professional clarity"),
			local(s.Calm, "Composed response"),
			local(s.Educational, "Constructive feedback"),
		}
	default:
		return []mediation.Suggestion{
			local(s.Calm, "Gentle approach"),
			local(s.Firm, "Clear message"),
			local(s.Educational, "Helpful context"),
		}
	}
}

func (g *Generator) calmPool(lang string, bucket Bucket) []string {
	switch lang {
	case mediation.LangFR:
		return frCalm
	case mediation.LangAR:
		return arCalm
	default:
		if bucket == BucketInsult {
			return concat(enCalm, enApology)
		}
		return enCalm
	}
}

func (g *Generator) firmPool(lang string, bucket Bucket) []string {
	switch lang {
	case mediation.LangFR:
		return frFirm
	case mediation.LangAR:
		return arFirm
	default:
		if bucket == BucketThreat {
			return concat(enFirm, enSafety)
		}
		return enFirm
	}
}

func (g *Generator) educationalPool(lang string) []string {
	switch lang {
	case mediation.LangFR:
		return frEducational
	case mediation.LangAR:
		return arEducational
	default:
		return enEducational
	}
}

// pickUnique shuffles a copy of the pool and returns the first candidate not
// in history. When every candidate has been shown recently, it falls back to
// a uniform random pick: the history constraint is advisory, never blocking.
func (g *Generator) pickUnique(pool []string) string {
	if len(pool) == 0 {
		return "No suggestion available"
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, candidate := range shuffled {
		if !g.inHistory(candidate) {
			return candidate
		}
	}
	return shuffled[g.rng.Intn(len(shuffled))]
}

func (g *Generator) inHistory(s string) bool {
	for _, h := range g.history {
		if h == s {
			return true
		}
	}
	return false
}

// remember pushes the choice to most-recent, dropping any earlier occurrence
// so a reselect moves it rather than duplicating it, then evicts the oldest
// entries beyond capacity.
func (g *Generator) remember(s string) {
	if s == "" {
		return
	}
	for i, h := range g.history {
		if h == s {
			g.history = append(g.history[:i], g.history[i+1:]...)
			break
		}
	}
	g.history = append(g.history, s)
	for len(g.history) > historySize {
		g.history = g.history[1:]
	}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
