package yunheiscot

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/furryhm/yunheiscot/config"
	"github.com/furryhm/yunheiscot/test/capture"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	botID   = "BOT"
	avatar  = "https://img.example/avatar.png"
	channel = "C123"
)

func newTestLogger() SLogger {
	return NewSLogger(zap.NewNop().Sugar(), true)
}

func newObservedTestLogger() (SLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSLogger(zap.New(core).Sugar(), true), logs
}

// newPingPlugin has a "ping" command and a "chickadee" hear action. The last incoming message seen by
// any action is kept in last
func newPingPlugin(last **IncomingMessage) (p *Plugin) {
	return &Plugin{Name: "ping",
		Commands: []ActionDefinition{{
			Match: func(m *IncomingMessage) bool {
				return strings.HasPrefix(m.NormalizedText, "ping")
			},
			Usage:       "ping",
			Description: "Reply with pong",
			Answer: func(m *IncomingMessage) *Answer {
				*last = m
				return &Answer{Text: "pong"}
			}}},
		HearActions: []ActionDefinition{{
			Match: func(m *IncomingMessage) bool {
				return strings.Contains(m.NormalizedText, "chickadee")
			},
			Answer: func(m *IncomingMessage) *Answer {
				*last = m
				return &Answer{Text: "chirp", ImageURL: avatar}
			}}},
	}
}

func newRoutingBot(t *testing.T, last **IncomingMessage) (s *Yunheiscot) {
	s = newTestBot(t, config.NewViperWithDefaults())
	s.RegisterPlugin(newPingPlugin(last))
	s.attachIdentifiersToPluginActions()
	s.cacheSelfIdentity(botID, "robert")

	return s
}

func TestRouteCommandAddressedWithBotMention(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	out, route := s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "<@BOT> ping", Timestamp: "100.1"})

	assert.Equal(t, commandRoute, route)
	require.Len(t, out, 1)
	assert.Equal(t, "pong", out[0].Text)
	assert.Equal(t, "ping.c[0]", out[0].pluginIdentifier)
	assert.Equal(t, channel, out[0].channelID)
	assert.Equal(t, "ping", last.NormalizedText)
}

func TestRouteCommandAddressedWithBotMentionAndColon(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	out, route := s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "<@BOT>: ping"})

	assert.Equal(t, commandRoute, route)
	require.Len(t, out, 1)
	assert.Equal(t, "pong", out[0].Text)
}

func TestRouteDirectMessageToCommands(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	out, route := s.routeMessage(&slack.Msg{Channel: "D123", User: "U1", Text: "ping"})

	assert.Equal(t, commandRoute, route)
	require.Len(t, out, 1)
	assert.Equal(t, "pong", out[0].Text)
}

func TestRouteWithCommandPrefix(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)
	s.config.Set(config.CommandPrefixKey, "/")

	out, route := s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "/ping"})

	assert.Equal(t, commandRoute, route)
	require.Len(t, out, 1)
	assert.Equal(t, "pong", out[0].Text)
	assert.Equal(t, "ping", last.NormalizedText)
}

func TestRouteRegularConversationToHearActions(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	out, route := s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "a chickadee is at the feeder"})

	assert.Equal(t, hearRoute, route)
	require.Len(t, out, 1)
	assert.Equal(t, "chirp", out[0].Text)
	assert.Equal(t, "ping.h[0]", out[0].pluginIdentifier)

	out, _ = s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "ping"})
	assert.Empty(t, out)
}

func TestUnknownCommandGetsDefaultAnswer(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	out, _ := s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "<@BOT> dance"})

	require.Len(t, out, 1)
	assert.Equal(t, "I don't understand, ask me for \"help\" to get a list of things I do", out[0].Text)
	assert.Equal(t, "default", out[0].pluginIdentifier)
}

func TestMessagesFromSelfAreIgnored(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	out, _ := s.routeMessage(&slack.Msg{Channel: "D123", User: botID, Text: "ping"})
	assert.Empty(t, out)

	out, _ = s.routeMessage(&slack.Msg{Channel: "D123", BotID: botID, Text: "ping"})
	assert.Empty(t, out)
	assert.Nil(t, last)
}

func TestIncomingMessageCarriesMentionsAndBotUserID(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "<@BOT> ping <@U2> and <@U3|jane>"})

	require.NotNil(t, last)
	assert.Equal(t, []string{botID, "U2", "U3"}, last.Mentions)
	assert.Equal(t, botID, last.BotUserID)
	assert.Equal(t, "ping <@U2> and <@U3|jane>", last.NormalizedText)
	assert.Equal(t, "U1", last.User)
}

func TestExtractMentions(t *testing.T) {
	assert.Equal(t, []string{}, ExtractMentions("no one here"))
	assert.Equal(t, []string{"U1", "W2"}, ExtractMentions("<@U1> and <@W2|bob>"))
	assert.Equal(t, []string{"U1"}, ExtractMentions("email <@ not a mention> <@U1>"))
}

func newDeliveryBot(t *testing.T, driver chatDriver) (s *Yunheiscot, logs *observer.ObservedLogs) {
	var l SLogger
	l, logs = newObservedTestLogger()

	s = newTestBot(t, config.NewViperWithDefaults())
	s.log = l
	s.chatDriver = driver

	return s, logs
}

func TestDeliverTextAnswer(t *testing.T) {
	c := capture.NewChatDriver()
	s, _ := newDeliveryBot(t, c)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "pong"}, channelID: channel, threadTS: "100.1"})
	require.NoError(t, err)

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, channel, sent[0].ChannelID)
	assert.Equal(t, "pong", sent[0].Text())
	assert.Empty(t, sent[0].BlockTypes())
	assert.Empty(t, sent[0].ThreadTimestamp())
}

func TestDeliverImageAnswerAsComposite(t *testing.T) {
	c := capture.NewChatDriver()
	s, _ := newDeliveryBot(t, c)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "report", ImageURL: avatar}, channelID: channel})
	require.NoError(t, err)

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].IsComposite())
	assert.Equal(t, []string{"image", "section"}, sent[0].BlockTypes())
	assert.Equal(t, avatar, sent[0].ImageURL())
	assert.Equal(t, "report", sent[0].Text())
}

func TestDeliverFallsBackToImageThenText(t *testing.T) {
	c := capture.FailComposite()
	s, logs := newDeliveryBot(t, c)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "report", ImageURL: avatar}, channelID: channel, pluginIdentifier: "cloudBlacklist.c[0]"})
	require.NoError(t, err)

	assert.Len(t, c.Attempts(), 3)

	sent := c.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, []string{"image"}, sent[0].BlockTypes())
	assert.Equal(t, avatar, sent[0].ImageURL())
	assert.Empty(t, sent[1].BlockTypes())
	assert.Equal(t, "report", sent[1].Text())

	assert.Equal(t, 1, logs.FilterMessageSnippet(ErrCompositeDelivery.Error()).Len())
}

func TestDeliverSendsTextEvenWhenImageFails(t *testing.T) {
	c := capture.NewChatDriver()
	c.FailWhen = func(m capture.SentMessage) bool {
		return len(m.BlockTypes()) > 0
	}
	s, logs := newDeliveryBot(t, c)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "report", ImageURL: avatar}, channelID: channel})
	require.NoError(t, err)

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "report", sent[0].Text())
	assert.Equal(t, 1, logs.FilterMessageSnippet("Unable to send image").Len())
}

func TestDeliverReturnsTextFailure(t *testing.T) {
	c := capture.NewChatDriver()
	c.FailWhen = func(m capture.SentMessage) bool {
		return true
	}
	s, _ := newDeliveryBot(t, c)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "report", ImageURL: avatar}, channelID: channel})

	assert.Error(t, err)
	assert.Len(t, c.Attempts(), 3)
}

func TestDeliverInThread(t *testing.T) {
	c := capture.NewChatDriver()
	s, _ := newDeliveryBot(t, c)
	s.config.Set(config.ThreadedRepliesKey, true)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "pong"}, channelID: channel, threadTS: "100.1"})
	require.NoError(t, err)

	err = s.deliver(&OutgoingMessage{Answer: &Answer{Text: "pong", Options: []AnswerOption{AnswerWithoutThreading()}}, channelID: channel, threadTS: "100.1"})
	require.NoError(t, err)

	sent := c.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "100.1", sent[0].ThreadTimestamp())
	assert.Empty(t, sent[1].ThreadTimestamp())
}

func TestDeliverInExistingThreadWithBroadcast(t *testing.T) {
	c := capture.NewChatDriver()
	s, _ := newDeliveryBot(t, c)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "pong", Options: []AnswerOption{AnswerInExistingThread("99.9")}}, channelID: channel, threadTS: "100.1"})
	require.NoError(t, err)

	err = s.deliver(&OutgoingMessage{Answer: &Answer{Text: "pong", Options: []AnswerOption{AnswerInThreadWithBroadcast()}}, channelID: channel, threadTS: "100.1"})
	require.NoError(t, err)

	sent := c.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "99.9", sent[0].ThreadTimestamp())
	assert.Empty(t, sent[0].Values.Get("reply_broadcast"))
	assert.Equal(t, "100.1", sent[1].ThreadTimestamp())
	assert.Equal(t, "true", sent[1].Values.Get("reply_broadcast"))
}

func TestDeliverFallbackKeepsThreading(t *testing.T) {
	c := capture.FailComposite()
	s, _ := newDeliveryBot(t, c)

	err := s.deliver(&OutgoingMessage{Answer: &Answer{Text: "report", ImageURL: avatar, Options: []AnswerOption{AnswerInThread()}}, channelID: channel, threadTS: "100.1"})
	require.NoError(t, err)

	for _, m := range c.Sent() {
		assert.Equal(t, "100.1", m.ThreadTimestamp())
	}
}

func TestReplyToThreadedMessageStaysInThread(t *testing.T) {
	var last *IncomingMessage
	s := newRoutingBot(t, &last)

	out, _ := s.routeMessage(&slack.Msg{Channel: channel, User: "U1", Text: "<@BOT> ping", Timestamp: "100.2", ThreadTimestamp: "100.1"})

	require.Len(t, out, 1)
	assert.Equal(t, "100.1", out[0].threadTS)
}

func messageEvent(text string, ts string) slack.RTMEvent {
	return slack.RTMEvent{Type: "message", Data: &slack.MessageEvent{Msg: slack.Msg{Type: "message", Channel: channel, User: "U1", Text: text, Timestamp: ts}}}
}

func TestRunProcessesMessagesUntilEventsAreClosed(t *testing.T) {
	var last *IncomingMessage
	c := capture.NewChatDriver()
	s, _ := newDeliveryBot(t, c)
	s.RegisterPlugin(newPingPlugin(&last))

	events := make(chan slack.RTMEvent, 4)
	events <- slack.RTMEvent{Type: "connected", Data: &slack.ConnectedEvent{ConnectionCount: 1, Info: &slack.Info{User: &slack.UserDetails{ID: botID, Name: "robert"}}}}
	events <- messageEvent("<@BOT> ping", "100.1")
	events <- messageEvent("<@BOT> help", "100.2")
	close(events)

	err := s.runInternal(events, make(chan os.Signal))
	require.NoError(t, err)

	texts := make([]string, 0)
	for _, m := range c.Sent() {
		texts = append(texts, m.Text())
	}

	require.Len(t, texts, 2)
	assert.Contains(t, texts, "pong")
	assert.Contains(t, strings.Join(texts, "\n"), "`ping` - Reply with pong")
}

func TestRunHandlesMessagesWhileReconnecting(t *testing.T) {
	c := capture.NewChatDriver()
	s, _ := newDeliveryBot(t, c)
	s.RegisterPlugin(&Plugin{Name: "whoami", Commands: []ActionDefinition{{
		Match: func(m *IncomingMessage) bool {
			return m.NormalizedText == "whoami"
		},
		Answer: func(m *IncomingMessage) *Answer {
			return &Answer{Text: m.BotUserID}
		}}}})

	connected := slack.RTMEvent{Type: "connected", Data: &slack.ConnectedEvent{Info: &slack.Info{User: &slack.UserDetails{ID: botID, Name: "robert"}}}}

	events := make(chan slack.RTMEvent, 64)
	events <- connected
	for i := 0; i < 20; i++ {
		events <- messageEvent("<@BOT> whoami", fmt.Sprintf("100.%d", i))
		events <- connected
	}
	close(events)

	require.NoError(t, s.runInternal(events, make(chan os.Signal)))

	sent := c.Sent()
	require.Len(t, sent, 20)
	for _, m := range sent {
		assert.Equal(t, botID, m.Text())
	}
}

func TestRunIgnoresEditsDeletionsAndAcknowledgements(t *testing.T) {
	var last *IncomingMessage
	c := capture.NewChatDriver()
	s, _ := newDeliveryBot(t, c)
	s.RegisterPlugin(newPingPlugin(&last))

	edited := messageEvent("<@BOT> ping", "100.1")
	edited.Data.(*slack.MessageEvent).SubType = "message_changed"

	ack := messageEvent("<@BOT> ping", "100.2")
	ack.Data.(*slack.MessageEvent).ReplyTo = 1

	events := make(chan slack.RTMEvent, 4)
	events <- slack.RTMEvent{Type: "connected", Data: &slack.ConnectedEvent{Info: &slack.Info{User: &slack.UserDetails{ID: botID}}}}
	events <- edited
	events <- ack
	close(events)

	require.NoError(t, s.runInternal(events, make(chan os.Signal)))
	assert.Empty(t, c.Attempts())
}

func TestRunStopsOnInvalidAuth(t *testing.T) {
	s, _ := newDeliveryBot(t, capture.NewChatDriver())

	events := make(chan slack.RTMEvent, 1)
	events <- slack.RTMEvent{Type: "invalid_auth", Data: &slack.InvalidAuthEvent{}}

	err := s.runInternal(events, make(chan os.Signal))
	assert.EqualError(t, err, "Invalid credentials")
}

func TestRunStopsOnTerminationSignal(t *testing.T) {
	s, _ := newDeliveryBot(t, capture.NewChatDriver())

	termination := make(chan os.Signal, 1)
	termination <- syscall.SIGTERM

	err := s.runInternal(make(chan slack.RTMEvent), termination)
	assert.NoError(t, err)
}
