package chat

import (
	"encoding/json"
	"time"
)

// wireTimeLayouts are tried in order when decoding created_at; offsetless values are UTC.
var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// WireTime encodes as RFC3339 and decodes any of wireTimeLayouts.
// A value matching none of them decodes as the zero time instead of failing the whole message.
type WireTime struct {
	time.Time
}

func (t WireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *WireTime) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil // null, numbers and other shapes carry no usable time
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// WireMessage is the JSON shape of a message exchanged with the remote messages endpoint.
type WireMessage struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	UserName       string     `json:"user_name"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	Text           string     `json:"text"`
	CreatedAt      *WireTime `json:"created_at,omitempty"`
	AttachmentURL  string     `json:"attachment_url,omitempty"`
	AttachmentName string     `json:"attachment_name,omitempty"`
	ToUserID       string     `json:"to_user_id,omitempty"`
	ToUserName     string     `json:"to_user_name,omitempty"`
}

// WireNewMessage is the JSON body posted to the remote messages endpoint.
type WireNewMessage struct {
	UserID         string `json:"userId"`
	UserName       string `json:"userName"`
	AvatarURL      string `json:"avatarUrl"`
	Text           string `json:"text"`
	AttachmentURL  string `json:"attachmentUrl,omitempty"`
	AttachmentName string `json:"attachmentName,omitempty"`
	ToUserID       string `json:"toUserId,omitempty"`
	ToUserName     string `json:"toUserName,omitempty"`
}

// Message maps the wire shape field by field; created_at, when present, is formatted in loc.
func (w WireMessage) Message(loc *time.Location) Message {
	msg := Message{
		ID:        w.ID,
		UserID:    w.UserID,
		UserName:  w.UserName,
		AvatarURL: w.AvatarURL,
		Text:      w.Text,
	}
	if w.CreatedAt != nil && !w.CreatedAt.IsZero() {
		msg.CreatedAt = w.CreatedAt.Time
		msg.Time = formatTime(w.CreatedAt.Time, loc)
	}
	if w.AttachmentURL != "" {
		msg.Attachment = &Attachment{URL: w.AttachmentURL, Name: w.AttachmentName}
	}
	if w.ToUserID != "" {
		msg.To = &Recipient{ID: w.ToUserID, Name: w.ToUserName}
	}
	return msg
}

func (m Message) Wire() WireMessage {
	w := WireMessage{
		ID:        m.ID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		AvatarURL: m.AvatarURL,
		Text:      m.Text,
	}
	if !m.CreatedAt.IsZero() {
		w.CreatedAt = &WireTime{m.CreatedAt.UTC()}
	}
	if m.Attachment != nil {
		w.AttachmentURL = m.Attachment.URL
		w.AttachmentName = m.Attachment.Name
	}
	if m.To != nil {
		w.ToUserID = m.To.ID
		w.ToUserName = m.To.Name
	}
	return w
}

func (nm NewMessage) Wire() WireNewMessage {
	w := WireNewMessage{
		UserID:    nm.Sender.ID,
		UserName:  nm.Sender.Name,
		AvatarURL: nm.Sender.AvatarURL,
		Text:      nm.Text,
	}
	if nm.Attachment != nil {
		w.AttachmentURL = nm.Attachment.URL
		w.AttachmentName = nm.Attachment.Name
	}
	if nm.To != nil {
		w.ToUserID = nm.To.ID
		w.ToUserName = nm.To.Name
	}
	return w
}

func (w WireNewMessage) NewMessage() NewMessage {
	nm := NewMessage{
		Sender: Identity{ID: w.UserID, Name: w.UserName, AvatarURL: w.AvatarURL},
		Text:   w.Text,
	}
	if w.AttachmentURL != "" {
		nm.Attachment = &Attachment{URL: w.AttachmentURL, Name: w.AttachmentName}
	}
	if w.ToUserID != "" {
		nm.To = &Recipient{ID: w.ToUserID, Name: w.ToUserName}
	}
	return nm
}
