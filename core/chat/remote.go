package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const messagesPath = "/communication/messages"

// RemoteError is returned when the remote endpoint answers with a non-2xx status.
type RemoteError struct {
	Method     string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s %s: status %d: %s", e.Method, messagesPath, e.StatusCode, e.Body)
}

// RemoteBackend talks to the messages REST endpoint under baseURL.
type RemoteBackend struct {
	baseURL string
	client  *http.Client
	loc     *time.Location
}

var _ Backend = (*RemoteBackend)(nil)

func NewRemoteBackend(baseURL string, timeout time.Duration, loc *time.Location) *RemoteBackend {
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		loc:     loc,
	}
}

func (b *RemoteBackend) Name() string { return "remote" }

func (b *RemoteBackend) do(ctx context.Context, method string, body interface{}, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+messagesPath, rdr)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := b.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "remote %s %s", method, messagesPath)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &RemoteError{Method: method, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

func (b *RemoteBackend) List(ctx context.Context) ([]Message, error) {
	var wire []WireMessage
	if err := b.do(ctx, http.MethodGet, nil, &wire); err != nil {
		return nil, err
	}
	msgs := make([]Message, 0, len(wire))
	for _, w := range wire {
		msgs = append(msgs, w.Message(b.loc))
	}
	return msgs, nil
}

func (b *RemoteBackend) Append(ctx context.Context, nm NewMessage) (Message, error) {
	var wire WireMessage
	if err := b.do(ctx, http.MethodPost, nm.Wire(), &wire); err != nil {
		return Message{}, err
	}
	return wire.Message(b.loc), nil
}
