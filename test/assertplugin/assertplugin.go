package assertplugin

import (
	"fmt"
	"strings"
	"testing"

	"github.com/furryhm/yunheiscot"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Asserter represents a plugin driver/asserter and holds the bot identifier that tests are using when
// sending test messages for processing
type Asserter struct {
	botUserID     string
	commandPrefix string
	logger        yunheiscot.SLogger
}

// New creates a new asserter with the given botUserId
// (only include the id without the '@' prefix).
// The botUserId is used in order to detect commands formed with
// <@botUserId>
func New(botUserID string, options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.botUserID = botUserID

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached to the plugin when driven by
// the asserter
func OptionLog(logger yunheiscot.SLogger) Option {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// OptionCommandPrefix sets the command prefix routing channel messages to commands, as the
// commandPrefix configuration does for the bot
func OptionCommandPrefix(prefix string) Option {
	return func(a *Asserter) {
		a.commandPrefix = prefix
	}
}

// ResultValidator is a function to do further validation of the answers resulting from a plugin processing
// of all of its commands and hear actions. The return value is meant to be true if validation is successful
// and false otherwise (following the testify convention)
type ResultValidator func(t *testing.T, answers []*yunheiscot.Answer) bool

// Answers drives a plugin and collects its Answers. Once all of those have been collected, it passes handling
// to a validator to assert the expected answers. It follows the style of github.com/stretchr/testify/assert
// as far as returning true/false to indicate success for further nested testing.
func (a *Asserter) Answers(t *testing.T, p *yunheiscot.Plugin, m *slack.Msg, validate ResultValidator) (valid bool) {
	p.Logger = getLogger(a)

	answers := a.driveActions(p, m)

	return validate(t, answers)
}

func getLogger(a *Asserter) yunheiscot.SLogger {
	if a.logger != nil {
		return a.logger
	}

	return yunheiscot.NewSLogger(zap.NewNop().Sugar(), true)
}

func (a *Asserter) driveActions(p *yunheiscot.Plugin, m *slack.Msg) (answers []*yunheiscot.Answer) {
	inMsg := yunheiscot.IncomingMessage{NormalizedText: m.Text, Mentions: yunheiscot.ExtractMentions(m.Text), BotUserID: a.botUserID, Msg: *m}

	botMention := fmt.Sprintf("<@%s>", a.botUserID)

	if strings.HasPrefix(m.Text, botMention) {
		inMsg.NormalizedText = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(m.Text, botMention), ":"))

		return runActions(p.Commands, &inMsg)
	}

	if strings.HasPrefix(m.Channel, "D") {
		inMsg.NormalizedText = strings.TrimSpace(m.Text)

		return runActions(p.Commands, &inMsg)
	}

	if a.commandPrefix != "" && strings.HasPrefix(m.Text, a.commandPrefix) {
		inMsg.NormalizedText = strings.TrimSpace(strings.TrimPrefix(m.Text, a.commandPrefix))

		return runActions(p.Commands, &inMsg)
	}

	return runActions(p.HearActions, &inMsg)
}

func runActions(actions []yunheiscot.ActionDefinition, m *yunheiscot.IncomingMessage) (answers []*yunheiscot.Answer) {
	answers = make([]*yunheiscot.Answer, 0)

	for _, action := range actions {
		if action.Match(m) {
			a := action.Answer(m)

			if a != nil {
				answers = append(answers, a)
			}
		}
	}

	return answers
}
