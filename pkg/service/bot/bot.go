package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/enishi-chat/enishi/pkg/domain/interfaces"
)

// maxReplyTokens keeps companion replies short enough for a chat bubble
const maxReplyTokens = 150

// client implements interfaces.Companion on top of a gollem LLM client
type client struct {
	llmClient gollem.LLMClient
}

// New creates a companion reply service with the provided LLM client
func New(llmClient gollem.LLMClient) (interfaces.Companion, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &client{llmClient: llmClient}, nil
}

// Reply generates a single conversational reply to the partner's message.
// The caller treats errors as a silent no-op; the companion never surfaces
// failures into the room.
func (c *client) Reply(ctx context.Context, topic, message string) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(buildSystemPrompt(topic)),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create companion session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(message))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate companion reply")
	}

	if len(resp.Texts) == 0 || resp.Texts[0] == "" {
		return "", goerr.New("empty companion reply")
	}

	return resp.Texts[0], nil
}

func buildSystemPrompt(topic string) string {
	var sb strings.Builder

	sb.WriteString("You are an anonymous chat partner matched on a shared interest.\n\n")
	sb.WriteString("## Instructions:\n\n")
	fmt.Fprintf(&sb, "1. The shared topic is: %s\n", topic)
	sb.WriteString("2. Reply casually in the same language as the partner's message.\n")
	fmt.Fprintf(&sb, "3. Keep replies under %d tokens; one or two sentences.\n", maxReplyTokens)
	sb.WriteString("4. Never reveal that you are not a human participant unless asked directly.\n")

	return sb.String()
}
