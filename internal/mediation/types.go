package mediation

// Token identifies one logical mediation request. Tokens are issued
// monotonically; exactly one token is current at any time, and a result is
// applied to shared state only while its token is still current.
type Token int64

// Tones accepted by the /mediate contract.
const (
	ToneCalm         = "calm"
	ToneFriendly     = "friendly"
	ToneProfessional = "professional"
)

// Language hints accepted by the /mediate contract.
const (
	LangAuto   = "auto"
	LangEN     = "en"
	LangFR     = "fr"
	LangAR     = "ar"
	LangDarija = "darija"
)

// Request is the body of a POST /mediate call. Immutable once constructed.
type Request struct {
	Text     string `json:"text"`
	Tone     string `json:"tone"`
	LangHint string `json:"lang_hint"`
}

// RiskLevel is the remote collaborator's coarse verdict.
type RiskLevel string

const (
	RiskSafe      RiskLevel = "safe"
	RiskHarmful   RiskLevel = "harmful"
	RiskDangerous RiskLevel = "dangerous"
)

// ParseRiskLevel maps a wire value to a RiskLevel, defaulting to safe for
// anything unrecognized so a sloppy backend can never escalate by accident.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "harmful":
		return RiskHarmful
	case "dangerous":
		return RiskDangerous
	default:
		return RiskSafe
	}
}

// Score maps the level onto the numeric scale used by score-only consumers.
func (r RiskLevel) Score() float64 {
	switch r {
	case RiskDangerous:
		return 0.9
	case RiskHarmful:
		return 0.6
	default:
		return 0.1
	}
}

// Result is the parsed body of a successful /mediate response. Immutable.
type Result struct {
	RiskLevel RiskLevel `json:"risk_level"`
	Why       string    `json:"why"`
	Rewrite   string    `json:"rewrite"`
	Language  string    `json:"language"`
}

// NeedsMediation reports whether the message was judged anything but safe.
func (r *Result) NeedsMediation() bool {
	return r != nil && r.RiskLevel != RiskSafe
}

// HasRewrite reports whether the collaborator supplied a usable rewrite.
func (r *Result) HasRewrite() bool {
	return r != nil && r.Rewrite != ""
}

// RewriteRequest is the legacy rewrite contract still emitted for backend
// compatibility on the explicit rewrite path.
type RewriteRequest struct {
	Text      string  `json:"text"`
	Lang      string  `json:"lang"`
	Tone      string  `json:"tone"`
	RiskLabel string  `json:"risk_label"`
	RiskScore float64 `json:"risk_score"`
}

// Suggestion is one candidate rewrite offered to the user.
type Suggestion struct {
	Text   string `json:"text"`
	Reason string `json:"reason,omitempty"`
	Source string `json:"source,omitempty"` // remote | local
}
