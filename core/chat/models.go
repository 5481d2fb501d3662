package chat

import (
	"strings"
	"time"
)

// Identity is the sender of a message.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Recipient of a directed message.
type Recipient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Message is a chat message. Lists of messages are kept in insertion order, oldest first.
type Message struct {
	ID         int64       `json:"id"`
	UserID     string      `json:"user_id"`
	UserName   string      `json:"user_name"`
	AvatarURL  string      `json:"avatar_url,omitempty"`
	Text       string      `json:"text"`
	Time       string      `json:"time"` // HH:MM in the viewer location
	CreatedAt  time.Time   `json:"created_at"`
	Attachment *Attachment `json:"attachment,omitempty"`
	To         *Recipient  `json:"to,omitempty"`
}

// IsDirected reports whether the message has an explicit recipient.
func (m Message) IsDirected() bool {
	return m.To != nil && m.To.ID != ""
}

func (m Message) IsDirectedTo(id string) bool {
	return id != "" && m.IsDirected() && m.To.ID == id
}

// NewMessage is what a sender submits; the backend assigns the id and the timestamps.
type NewMessage struct {
	Sender     Identity
	Text       string
	Attachment *Attachment
	To         *Recipient
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04")
}

func cleanAttachment(att *Attachment) *Attachment {
	if att == nil || strings.TrimSpace(att.URL) == "" {
		return nil
	}
	return &Attachment{URL: strings.TrimSpace(att.URL), Name: strings.TrimSpace(att.Name)}
}

func cleanRecipient(to *Recipient) *Recipient {
	if to == nil || strings.TrimSpace(to.ID) == "" {
		return nil
	}
	return &Recipient{ID: strings.TrimSpace(to.ID), Name: strings.TrimSpace(to.Name)}
}
