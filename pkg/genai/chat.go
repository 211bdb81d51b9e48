package genai

import (
	"context"
	"sync"

	gl "google.golang.org/genai"
)

// maxHistoryMessages bounds the trailing conversation window sent with each
// turn. Older turns fall off; the system instruction is always resent.
const maxHistoryMessages = 6

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Chat is a stateful conversation keyed by a system instruction fixed at
// session start. Each Send carries the latest user message plus the bounded
// trailing window of prior turns. The window is managed here rather than by
// the SDK's chat session so old turns actually fall out of the request.
type Chat struct {
	mu      sync.Mutex
	client  *Client
	system  string
	history []Turn
}

func (c *Client) NewChat(systemInstruction string) *Chat {
	return &Chat{client: c, system: systemInstruction}
}

// History returns a copy of the retained turns.
func (c *Chat) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// Send submits one user message and returns the model's reply. The exchange
// is appended to the history only on success, so a failed turn can be
// retried without ghost entries.
func (c *Chat) Send(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	contents := make([]*gl.Content, 0, len(c.history)+1)
	for _, t := range c.history {
		contents = append(contents, &gl.Content{Role: string(t.Role), Parts: []*gl.Part{{Text: t.Text}}})
	}
	c.mu.Unlock()
	contents = append(contents, &gl.Content{Role: string(RoleUser), Parts: []*gl.Part{{Text: message}}})

	var opts []requestOption
	if c.system != "" {
		opts = append(opts, WithSystemInstruction(c.system))
	}
	reply, err := c.client.generate(ctx, contents, opts...)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.history = append(c.history, Turn{Role: RoleUser, Text: message}, Turn{Role: RoleModel, Text: reply})
	if len(c.history) > maxHistoryMessages {
		c.history = c.history[len(c.history)-maxHistoryMessages:]
	}
	c.mu.Unlock()
	return reply, nil
}
