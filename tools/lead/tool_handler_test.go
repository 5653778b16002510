package lead

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	toolhandler "github.com/virtual-me/agent/tool_handler"
)

type chanNotifier struct {
	sent chan string
}

func (n *chanNotifier) Notify(ctx context.Context, text string) error {
	n.sent <- text
	return nil
}

func await(t *testing.T, sent chan string) string {
	t.Helper()

	select {
	case text := <-sent:
		return text
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
		return ""
	}
}

func TestInvokeNotifiesWithAllDetails(t *testing.T) {
	n := &chanNotifier{sent: make(chan string, 1)}
	th := NewToolHandler(n)

	rsp, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{
			"email": "ana@example.com",
			"name":  "Ana",
			"notes": "met at the conference",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"recorded": "ok"}, rsp.Payload)

	text := await(t, n.sent)
	assert.Equal(t, "Recording Ana with email ana@example.com and notes met at the conference", text)
}

func TestInvokeFillsDefaultsForOptionalFields(t *testing.T) {
	n := &chanNotifier{sent: make(chan string, 1)}
	th := NewToolHandler(n)

	_, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"email": "ana@example.com"},
	})
	require.NoError(t, err)

	text := await(t, n.sent)
	assert.Equal(t, "Recording Name not provided with email ana@example.com and notes not provided", text)
}
