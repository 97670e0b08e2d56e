package inscriber

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	socketio "github.com/zhouhui8915/go-socket.io-client"
	"go.uber.org/zap"
)

const defaultSocketInactivity = 30 * time.Second

type socketServer struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

type socketServerList struct {
	Servers     []socketServer `json:"servers"`
	Recommended string         `json:"recommended"`
}

// pick prefers the recommended server, then an active one, then any listed one.
func (l socketServerList) pick() (string, bool) {
	if recommended := strings.TrimSpace(l.Recommended); recommended != "" {
		return recommended, true
	}
	fallback := ""
	for _, server := range l.Servers {
		url := strings.TrimSpace(server.URL)
		if url == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(server.Status), "active") {
			return url, true
		}
		if fallback == "" {
			fallback = url
		}
	}
	return fallback, fallback != ""
}

func (c *Client) socketURL(ctx context.Context) (string, error) {
	if c.webSocketBaseURL != "" {
		return c.webSocketBaseURL, nil
	}

	var servers socketServerList
	if err := c.call(ctx, http.MethodGet, "/inscriptions/websocket-servers", nil, &servers); err != nil {
		return "", err
	}
	url, ok := servers.pick()
	if !ok {
		return "", fmt.Errorf("no websocket servers available")
	}
	return url, nil
}

// subscribeJobEvents funnels the socket's inscription events into one channel. Sends
// never block the socket's reader once the waiter has gone away.
func subscribeJobEvents(client *socketio.Client, done <-chan struct{}) <-chan jobEvent {
	events := make(chan jobEvent, 8)
	emit := func(event jobEvent) {
		select {
		case events <- event:
		case <-done:
		}
	}

	_ = client.On("error", func(message any) {
		emit(jobEvent{kind: jobEventError, message: fmt.Sprintf("%v", message)})
	})
	_ = client.On("inscription-error", func(payload map[string]any) {
		emit(jobEvent{kind: jobEventError, fields: payload, message: stringField(payload, "error")})
	})
	_ = client.On("inscription-progress", func(payload map[string]any) {
		emit(jobEvent{kind: jobEventProgress, fields: payload})
	})
	_ = client.On("inscription-complete", func(payload map[string]any) {
		emit(jobEvent{kind: jobEventComplete, fields: payload})
	})
	return events
}

// waitOverSocket listens for push events about the job paid by transactionID. The wait
// fails when no event arrives within the inactivity timeout.
func (c *Client) waitOverSocket(
	ctx context.Context,
	transactionID string,
	progress ProgressCallback,
) (InscriptionJob, error) {
	url, err := c.socketURL(ctx)
	if err != nil {
		return InscriptionJob{}, err
	}

	client, err := socketio.NewClient(url, &socketio.Options{
		Transport: "websocket",
		Query:     map[string]string{"apiKey": c.apiKey},
		Header:    map[string][]string{"x-api-key": {c.apiKey}},
	})
	if err != nil {
		return InscriptionJob{}, err
	}
	c.logger.Debug("listening for inscription events", zap.String("url", url), zap.String("tx_id", transactionID))

	done := make(chan struct{})
	defer close(done)
	events := subscribeJobEvents(client, done)
	tracker := newJobTracker(transactionID, progress)

	inactivity := c.webSocketInactivityTimeout
	if inactivity <= 0 {
		inactivity = defaultSocketInactivity
	}
	timer := time.NewTimer(inactivity)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return InscriptionJob{}, ctx.Err()
		case <-timer.C:
			return InscriptionJob{}, fmt.Errorf("no inscription events for %s", inactivity)
		case event := <-events:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(inactivity)

			job, finished, err := tracker.observe(event)
			if err != nil {
				return InscriptionJob{}, err
			}
			if finished {
				return job, nil
			}
		}
	}
}
