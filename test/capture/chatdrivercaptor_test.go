package capture_test

import (
	"testing"

	"github.com/furryhm/yunheiscot/test/capture"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureTextMessage(t *testing.T) {
	c := capture.NewChatDriver()

	channelID, ts, text, err := c.SendMessage("C1", slack.MsgOptionText("hello", false), slack.MsgOptionTS("100.1"))
	require.NoError(t, err)

	assert.Equal(t, "C1", channelID)
	assert.Equal(t, "1", ts)
	assert.Equal(t, "hello", text)

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello", sent[0].Text())
	assert.Equal(t, "100.1", sent[0].ThreadTimestamp())
	assert.Empty(t, sent[0].BlockTypes())
	assert.False(t, sent[0].IsComposite())
}

func TestCaptureBlocks(t *testing.T) {
	c := capture.NewChatDriver()

	_, _, _, err := c.SendMessage("C1", slack.MsgOptionBlocks(
		slack.NewImageBlock("https://img.example/a.png", "avatar", "", nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "report", false, false), nil, nil)))
	require.NoError(t, err)

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"image", "section"}, sent[0].BlockTypes())
	assert.Equal(t, "https://img.example/a.png", sent[0].ImageURL())
	assert.True(t, sent[0].IsComposite())
}

func TestFailComposite(t *testing.T) {
	c := capture.FailComposite()

	_, _, _, err := c.SendMessage("C1", slack.MsgOptionBlocks(
		slack.NewImageBlock("https://img.example/a.png", "avatar", "", nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "report", false, false), nil, nil)))
	assert.Error(t, err)

	_, _, _, err = c.SendMessage("C1", slack.MsgOptionBlocks(slack.NewImageBlock("https://img.example/a.png", "avatar", "", nil)))
	assert.NoError(t, err)

	assert.Len(t, c.Attempts(), 2)
	assert.Len(t, c.Sent(), 1)
}
