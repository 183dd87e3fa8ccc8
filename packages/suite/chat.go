package suite

import (
	"context"
	"fmt"

	"github.com/empoweryouth/apiprobe/packages/assertions"
	"github.com/empoweryouth/apiprobe/packages/capture"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
)

var chatCapture = capture.Capture{Name: "sessionId", Path: "sessionId", Store: capture.ChatSessionID}

func aiChatbot(prompts []ChatPrompt) runner.Func {
	return func(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
		if !requireToken(state, c, AIChatbot) {
			return
		}

		var (
			continued int
			changes   []string
		)
		for i, prompt := range prompts {
			name := fmt.Sprintf("Chat Message %d", i+1)
			sent := state.ChatSessionID()

			req := post("/chat", chatRequest{Message: prompt.Message, Language: "en", SessionID: sent}).WithAuth()
			resp, ok := send(ctx, exec, c, name, req)
			if !ok {
				continue
			}

			var body chatResponse
			if !expectJSON(c, name, resp, 200, chatSchema, &body) {
				return
			}
			capture.ExtractAll(resp, state, chatCapture)

			if sent != "" {
				if body.SessionID == sent {
					continued++
				} else {
					changes = append(changes, fmt.Sprintf("%s -> %s", sent, body.SessionID))
				}
			}

			if assertions.ContainsAnyFold(body.Response, prompt.Keywords...) {
				c.Pass(name, "Relevant response for: '%s...'", truncate(prompt.Message, 30))
			} else {
				c.Warn(name, "Generic response for: '%s...'", truncate(prompt.Message, 30))
			}
		}

		const continuity = "Chat Session Continuity"
		switch {
		case len(changes) > 0:
			c.Warn(continuity, "Session id changed between messages: %v", changes)
		case continued > 0:
			c.Pass(continuity, "Session %s kept across %d follow-up messages", state.ChatSessionID(), continued)
		}

		if !c.Failed() {
			c.Pass("AI Chatbot Overall", "Chat functionality working")
		}
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
