package coaching

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/clearvoice/coach-api/internal/llm"
	"github.com/clearvoice/coach-api/internal/prompt"
)

// Turn is one message in a conversation. The history is client-held: it
// arrives on every request and goes back extended by exactly one user turn
// and one assistant turn. The server keeps nothing between calls.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// AnalysisContext is a prior-session summary the client may attach to the
// first conversation turn. Two mutually exclusive shapes exist: video
// practice results (Nonverbal, optionally Verbal) and audio practice results
// (OverallScore, Summary, CategoryScores). Nonverbal wins when both appear.
type AnalysisContext struct {
	Nonverbal        *NonverbalScores  `json:"nonverbal,omitempty"`
	Verbal           *VerbalFeedback   `json:"verbal,omitempty"`
	CombinedFeedback string            `json:"combined_feedback,omitempty"`
	OverallScore     float64           `json:"overallScore,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	CategoryScores   []ContextCategory `json:"categoryScores,omitempty"`
}

type NonverbalScores struct {
	EyeContactScore     float64 `json:"eye_contact_score"`
	PostureScore        float64 `json:"posture_score"`
	GestureScore        float64 `json:"gesture_score"`
	SmileScore          float64 `json:"smile_score"`
	HeadStabilityScore  float64 `json:"head_stability_score"`
	GestureVarietyScore float64 `json:"gesture_variety_score"`
}

type VerbalFeedback struct {
	Transcript  string `json:"transcript"`
	Clarity     string `json:"clarity"`
	Grammar     string `json:"grammar"`
	Phrasing    string `json:"phrasing"`
	FillerWords string `json:"fillerWords"`
}

type ContextCategory struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Conversationalist runs the conversation workflow against the chat gateway.
type Conversationalist struct {
	chat  ChatClient
	model string
}

func NewConversationalist(chat ChatClient, model string) *Conversationalist {
	return &Conversationalist{chat: chat, model: model}
}

// Reply sends the history plus the new user message and returns the
// assistant's reply along with the extended history. The analysis context is
// injected as one extra system message, and only when the history is empty.
func (c *Conversationalist) Reply(ctx context.Context, message string, history []Turn, actx *AnalysisContext) (string, []Turn, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	msgs := []llm.Message{
		{Role: "system", Content: prompt.ConversationPrompt()},
	}

	if actx != nil && len(history) == 0 {
		if content, ok := contextMessage(actx); ok {
			msgs = append(msgs, llm.Message{Role: "system", Content: content})
		}
	}

	for _, t := range history {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: message})

	resp, err := c.chat.Chat(ctx, llm.ChatRequest{
		Provider:    "openai",
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   200,
		Temperature: 0.8,
	})
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	updated := make([]Turn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		Turn{Role: "user", Content: message, Timestamp: now},
		Turn{Role: "assistant", Content: resp.Content, Timestamp: now},
	)

	return resp.Content, updated, nil
}

// contextMessage formats whichever context shape was supplied.
func contextMessage(actx *AnalysisContext) (string, bool) {
	if actx.Nonverbal != nil {
		return nonverbalContext(actx), true
	}
	if actx.OverallScore != 0 {
		return scoreSummaryContext(actx), true
	}
	return "", false
}

func nonverbalContext(actx *AnalysisContext) string {
	nv := actx.Nonverbal
	overall := math.Round((nv.EyeContactScore +
		nv.PostureScore +
		nv.GestureScore +
		nv.SmileScore +
		nv.HeadStabilityScore +
		nv.GestureVarietyScore) / 6)

	var sb strings.Builder
	fmt.Fprintf(&sb, `The user just completed a video practice session with these results:

Nonverbal Communication Scores (out of 100):
- Eye Contact: %.0f
- Posture: %.0f
- Gestures: %.0f
- Smile/Warmth: %.0f
- Head Stability: %.0f
- Gesture Variety: %.0f
- Overall Score: %.0f`,
		math.Round(nv.EyeContactScore),
		math.Round(nv.PostureScore),
		math.Round(nv.GestureScore),
		math.Round(nv.SmileScore),
		math.Round(nv.HeadStabilityScore),
		math.Round(nv.GestureVarietyScore),
		overall)

	if v := actx.Verbal; v != nil {
		fmt.Fprintf(&sb, `

Verbal Communication:
- Transcript: %q
- Clarity: %s
- Grammar: %s
- Phrasing: %s
- Filler Words: %s`,
			v.Transcript, v.Clarity, v.Grammar, v.Phrasing, v.FillerWords)
	}

	if actx.CombinedFeedback != "" {
		fmt.Fprintf(&sb, "\n\nAI Coach Feedback: %s", actx.CombinedFeedback)
	}

	sb.WriteString("\n\nUse this context to provide relevant feedback during the conversation.")
	return sb.String()
}

func scoreSummaryContext(actx *AnalysisContext) string {
	categories := make([]string, len(actx.CategoryScores))
	for i, c := range actx.CategoryScores {
		categories[i] = fmt.Sprintf("%s: %s/100", c.Category, formatScore(c.Score))
	}

	rendered, err := prompt.Render(prompt.SessionContextTemplate(), map[string]string{
		"overallScore": formatScore(actx.OverallScore),
		"summary":      actx.Summary,
		"categories":   strings.Join(categories, ", "),
	})
	if err != nil {
		// The template and its variables are fixed at compile time.
		panic(err)
	}
	return rendered
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
