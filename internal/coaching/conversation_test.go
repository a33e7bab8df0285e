package coaching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearvoice/coach-api/internal/prompt"
)

func newConversationalist(chat *fakeChat) *Conversationalist {
	return NewConversationalist(chat, "gpt-4o")
}

func TestReply_HistoryRoundTrip(t *testing.T) {
	chat := &fakeChat{content: "You're improving! What part felt hardest?"}
	c := newConversationalist(chat)

	history := []Turn{
		{Role: "user", Content: "How did I do?"},
		{Role: "assistant", Content: "You did well overall."},
	}

	reply, updated, err := c.Reply(context.Background(), "What should I fix first?", history, nil)
	require.NoError(t, err)
	assert.Equal(t, "You're improving! What part felt hardest?", reply)

	require.Len(t, updated, 4)
	assert.Equal(t, history[0].Content, updated[0].Content)
	assert.Equal(t, history[1].Content, updated[1].Content)
	assert.Equal(t, "user", updated[2].Role)
	assert.Equal(t, "What should I fix first?", updated[2].Content)
	assert.Equal(t, "assistant", updated[3].Role)
	assert.Equal(t, reply, updated[3].Content)
}

func TestReply_MessageOrdering(t *testing.T) {
	chat := &fakeChat{content: "reply"}
	c := newConversationalist(chat)

	history := []Turn{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "second"},
	}

	_, _, err := c.Reply(context.Background(), "third", history, nil)
	require.NoError(t, err)

	msgs := chat.lastReq.Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, prompt.ConversationPrompt(), msgs[0].Content)
	assert.Equal(t, "first", msgs[1].Content)
	assert.Equal(t, "second", msgs[2].Content)
	assert.Equal(t, "user", msgs[3].Role)
	assert.Equal(t, "third", msgs[3].Content)
}

func TestReply_RequestParameters(t *testing.T) {
	chat := &fakeChat{content: "reply"}
	c := newConversationalist(chat)

	_, _, err := c.Reply(context.Background(), "hi", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", chat.lastReq.Provider)
	assert.Equal(t, "gpt-4o", chat.lastReq.Model)
	assert.Equal(t, 200, chat.lastReq.MaxTokens)
	assert.InDelta(t, 0.8, chat.lastReq.Temperature, 1e-9)
}

func TestReply_ScoreContextInjectedOnFirstTurn(t *testing.T) {
	chat := &fakeChat{content: "reply"}
	c := newConversationalist(chat)

	actx := &AnalysisContext{
		OverallScore: 78,
		Summary:      "Solid answer with some hesitation.",
		CategoryScores: []ContextCategory{
			{Category: "Clarity", Score: 82},
			{Category: "Pacing", Score: 71},
		},
	}

	_, _, err := c.Reply(context.Background(), "How did I do?", nil, actx)
	require.NoError(t, err)

	msgs := chat.lastReq.Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Overall Score: 78/100")
	assert.Contains(t, msgs[1].Content, "Solid answer with some hesitation.")
	assert.Contains(t, msgs[1].Content, "Clarity: 82/100, Pacing: 71/100")
}

func TestReply_ContextSkippedMidConversation(t *testing.T) {
	chat := &fakeChat{content: "reply"}
	c := newConversationalist(chat)

	actx := &AnalysisContext{OverallScore: 78, Summary: "Solid."}
	history := []Turn{{Role: "user", Content: "earlier"}}

	_, _, err := c.Reply(context.Background(), "next", history, actx)
	require.NoError(t, err)

	// system prompt + 1 history turn + new user message, no context message
	require.Len(t, chat.lastReq.Messages, 3)
	assert.Equal(t, "earlier", chat.lastReq.Messages[1].Content)
}

func TestReply_NonverbalContext(t *testing.T) {
	chat := &fakeChat{content: "reply"}
	c := newConversationalist(chat)

	actx := &AnalysisContext{
		Nonverbal: &NonverbalScores{
			EyeContactScore:     80,
			PostureScore:        70,
			GestureScore:        60,
			SmileScore:          90,
			HeadStabilityScore:  75,
			GestureVarietyScore: 65,
		},
		Verbal: &VerbalFeedback{
			Transcript:  "Hello, my name is Alex.",
			Clarity:     "clear",
			Grammar:     "fine",
			Phrasing:    "natural",
			FillerWords: "none",
		},
		CombinedFeedback: "Keep your shoulders relaxed.",
	}

	_, _, err := c.Reply(context.Background(), "How did I do?", nil, actx)
	require.NoError(t, err)

	content := chat.lastReq.Messages[1].Content
	assert.Contains(t, content, "video practice session")
	assert.Contains(t, content, "Eye Contact: 80")
	assert.Contains(t, content, "Overall Score: 73") // (80+70+60+90+75+65)/6 rounded
	assert.Contains(t, content, `"Hello, my name is Alex."`)
	assert.Contains(t, content, "AI Coach Feedback: Keep your shoulders relaxed.")
}

func TestReply_NonverbalWinsOverScoreShape(t *testing.T) {
	chat := &fakeChat{content: "reply"}
	c := newConversationalist(chat)

	actx := &AnalysisContext{
		Nonverbal:    &NonverbalScores{EyeContactScore: 50},
		OverallScore: 90,
		Summary:      "ignored",
	}

	_, _, err := c.Reply(context.Background(), "hi", nil, actx)
	require.NoError(t, err)

	require.Len(t, chat.lastReq.Messages, 3)
	assert.Contains(t, chat.lastReq.Messages[1].Content, "video practice session")
	assert.NotContains(t, chat.lastReq.Messages[1].Content, "ignored")
}

func TestReply_EmptyContextNotInjected(t *testing.T) {
	chat := &fakeChat{content: "reply"}
	c := newConversationalist(chat)

	_, _, err := c.Reply(context.Background(), "hi", nil, &AnalysisContext{})
	require.NoError(t, err)
	require.Len(t, chat.lastReq.Messages, 2)
}
