package pushover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/virtual-me/agent/notifier"
)

const endpoint = "https://api.pushover.net/1/messages.json"

type pushoverNotifier struct {
	token  string
	user   string
	client *http.Client
}

func (n *pushoverNotifier) Notify(ctx context.Context, text string) error {
	form := url.Values{
		"token":   {n.token},
		"user":    {n.user},
		"message": {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rsp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= 400 {
		return fmt.Errorf("pushover returned %s", rsp.Status)
	}

	return nil
}

func NewNotifier(token, user string) notifier.Notifier {
	return &pushoverNotifier{
		token: token,
		user:  user,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
