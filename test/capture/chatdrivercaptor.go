// Package capture provides captors standing in for slack services in tests
package capture

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/slack-go/slack"
)

// SentMessage holds the channel and resolved request values of a message sent to a ChatDriverCaptor
type SentMessage struct {
	ChannelID string
	Values    url.Values
}

// Text returns the message text
func (m SentMessage) Text() string {
	return m.Values.Get("text")
}

// ThreadTimestamp returns the timestamp of the thread the message is sent in or an empty string
func (m SentMessage) ThreadTimestamp() string {
	return m.Values.Get("thread_ts")
}

// BlockTypes returns the types of the message's blocks, in order
func (m SentMessage) BlockTypes() (types []string) {
	types = make([]string, 0)

	for _, b := range m.blocks() {
		types = append(types, fmt.Sprint(b["type"]))
	}

	return types
}

// ImageURL returns the url of the first image block of the message or an empty string
func (m SentMessage) ImageURL() string {
	for _, b := range m.blocks() {
		if b["type"] == "image" {
			return fmt.Sprint(b["image_url"])
		}
	}

	return ""
}

// IsComposite returns true if the message carries both an image block and a text section
func (m SentMessage) IsComposite() bool {
	hasImage, hasSection := false, false
	for _, t := range m.BlockTypes() {
		hasImage = hasImage || t == "image"
		hasSection = hasSection || t == "section"
	}

	return hasImage && hasSection
}

func (m SentMessage) blocks() (blocks []map[string]interface{}) {
	raw := m.Values.Get("blocks")
	if raw == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return nil
	}

	return blocks
}

// ChatDriverCaptor captures messages sent via SendMessage. Messages for which FailWhen returns true
// are rejected with an error and only recorded in Attempts
type ChatDriverCaptor struct {
	FailWhen func(m SentMessage) bool

	mu        sync.Mutex
	attempts  []SentMessage
	sent      []SentMessage
	currentTS int
}

// NewChatDriver returns a new ChatDriverCaptor accepting all messages
func NewChatDriver() (c *ChatDriverCaptor) {
	return new(ChatDriverCaptor)
}

// FailComposite returns a ChatDriverCaptor rejecting composite (image and text) messages
func FailComposite() (c *ChatDriverCaptor) {
	c = new(ChatDriverCaptor)
	c.FailWhen = SentMessage.IsComposite

	return c
}

// SendMessage resolves the message options and records the message
func (c *ChatDriverCaptor) SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	_, values, err := slack.UnsafeApplyMsgOptions("", channelID, "", options...)
	if err != nil {
		return "", "", "", err
	}

	m := SentMessage{ChannelID: channelID, Values: values}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.attempts = append(c.attempts, m)

	if c.FailWhen != nil && c.FailWhen(m) {
		return "", "", "", fmt.Errorf("message rejected by captor")
	}

	c.sent = append(c.sent, m)
	c.currentTS = c.currentTS + 1

	return channelID, strconv.Itoa(c.currentTS), m.Text(), nil
}

// Attempts returns all messages sent to the captor, rejected ones included
func (c *ChatDriverCaptor) Attempts() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]SentMessage(nil), c.attempts...)
}

// Sent returns the messages accepted by the captor
func (c *ChatDriverCaptor) Sent() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]SentMessage(nil), c.sent...)
}
