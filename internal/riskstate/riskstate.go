// Package riskstate is the single source of truth for the displayed risk
// state. It reconciles accepted mediation results into one coherent UI state,
// coalescing rapid updates so the banner never flickers and never duplicates.
package riskstate

import (
	"fmt"

	"github.com/keycare-ai/keycare/internal/mediation"
)

// Level is the coarse displayed classification.
type Level int

const (
	LevelSafe Level = iota
	LevelRisky
	LevelDanger
)

func (l Level) String() string {
	switch l {
	case LevelDanger:
		return "DANGER"
	case LevelRisky:
		return "RISKY"
	default:
		return "SAFE"
	}
}

// LevelFromRisk maps the remote verdict onto a display level.
func LevelFromRisk(r mediation.RiskLevel) Level {
	switch r {
	case mediation.RiskDangerous:
		return LevelDanger
	case mediation.RiskHarmful:
		return LevelRisky
	default:
		return LevelSafe
	}
}

// LevelFromScore is the numeric variant for collaborators that only return a
// score: a safe label always wins, otherwise 0.7 and above is danger.
func LevelFromScore(label string, score float64) Level {
	if label == "SAFE" || label == "safe" {
		return LevelSafe
	}
	if score >= 0.7 {
		return LevelDanger
	}
	return LevelRisky
}

// State is the derived display state. Never constructed by callers; always
// computed by the Reconciler from an accepted result or a reset.
type State struct {
	Level       Level
	Score       float64
	Explanation string
}

func (s State) String() string {
	return fmt.Sprintf("%s (%.2f) %s", s.Level, s.Score, s.Explanation)
}
