package yunheiscot

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/furryhm/yunheiscot/config"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// VERSION represents the current yunheiscot version
const VERSION = "1.0.0"

const (
	meterName = "github.com/furryhm/yunheiscot"
)

// Yunheiscot represents what defines a bot (mostly, a name and its plugins)
type Yunheiscot struct {
	name          string
	config        *viper.Viper
	defaultAction Answerer
	plugins       []*Plugin

	// Internal state as an optimization when looping through all commands/hearActions
	commandsWithID    []ActionDefinitionWithID
	hearActionsWithID []ActionDefinitionWithID

	// selfLock guards the identity, set by the event loop on every connection and read by handlers
	selfLock sync.RWMutex
	selfID   string
	selfName string

	chatDriver chatDriver
	log        SLogger
	meter      metric.Meter
	ins        *instrumenter

	// inFlight tracks message handlers still running
	inFlight sync.WaitGroup
}

// Plugin represents a plugin (its name, action definitions and the services injected by the bot)
type Plugin struct {
	Name        string
	Commands    []ActionDefinition
	HearActions []ActionDefinition

	BotServices
}

// BotServices holds the services injected into plugins when they're registered
type BotServices struct {
	Logger SLogger
}

// ActionDefinition represents how an action is triggered, published, used and described
// along with defining the function defining its behavior
type ActionDefinition struct {
	// Indicates whether the action should be omitted from the help message
	Hidden bool

	// Matcher that will determine whether or not the action should be triggered
	Match Matcher

	// Usage example
	Usage string

	// Help description for the action
	Description string

	// Function to execute if the Matcher matches
	Answer Answerer
}

// ActionDefinitionWithID holds an action definition along with its identifier string and
// owning plugin
type ActionDefinitionWithID struct {
	ActionDefinition
	pluginName string
	id         string
}

// String returns a friendly description of an ActionDefinition
func (a ActionDefinition) String() string {
	return fmt.Sprintf("`%s` - %s", a.Usage, a.Description)
}

// Matcher is the function that determines whether or not an action should be triggered. Note that a match doesn't guarantee that the action should
// actually respond with anything once invoked
type Matcher func(m *IncomingMessage) bool

// Answerer is what gets executed when an ActionDefinition is triggered. A nil answer means no reply
type Answerer func(m *IncomingMessage) *Answer

// IncomingMessage holds data for an incoming slack message. In addition to the slack.Msg, it carries
// the text with the bot addressing removed, the users mentioned in the message (in order of
// appearance) and the bot's own user id
type IncomingMessage struct {
	// The normalized text is the text without the command prefix or bot mention
	NormalizedText string

	// Mentions holds the ids of the users mentioned in the full message text, the bot included
	Mentions []string

	// BotUserID is the user id of the bot receiving the message
	BotUserID string

	slack.Msg
}

// OutgoingMessage holds a plugin generated answer along with where and how to deliver it
type OutgoingMessage struct {
	*Answer

	channelID string

	// Timestamp of the thread to reply in (the triggering message or the thread it belongs to)
	threadTS string

	// The identifier of the source of the outgoing message. The format being: pluginName.c[commandIndex] (for a command) or pluginName.h[actionIndex] (for an hear action)
	pluginIdentifier string
}

// Option defines an option for a Yunheiscot
type Option func(*Yunheiscot)

// OptionLogger sets the logger used by the bot and injected into plugins. Defaults to a zap logger
// configured from the debug and logFile keys
func OptionLogger(l SLogger) Option {
	return func(s *Yunheiscot) {
		s.log = l
	}
}

// OptionMeter sets the open telemetry meter. Defaults to a meter from the global meter provider
func OptionMeter(m metric.Meter) Option {
	return func(s *Yunheiscot) {
		s.meter = m
	}
}

// New creates a new yunheiscot from a name, configuration and options
func New(name string, v *viper.Viper, options ...Option) (s *Yunheiscot, err error) {
	s = new(Yunheiscot)
	s.name = name
	s.config = v
	s.plugins = []*Plugin{}
	s.defaultAction = func(m *IncomingMessage) *Answer {
		return &Answer{Text: fmt.Sprintf("I don't understand, ask me for \"%s\" to get a list of things I do", helpPluginName)}
	}

	for _, opt := range options {
		opt(s)
	}

	if s.log == nil {
		debug := v.GetBool(config.DebugKey)
		s.log = NewSLogger(NewZapLogger(debug, v.GetString(config.LogFileKey)).Sugar(), debug)
	}

	if s.meter == nil {
		s.meter = otel.GetMeterProvider().Meter(meterName)
	}

	if s.ins, err = newInstrumenter(name, s.meter); err != nil {
		return nil, errors.Wrap(err, "Failed to create instrumentation")
	}

	return s, nil
}

// RegisterPlugin registers a plugin with the engine and injects its services. This should be invoked
// prior to calling Run
func (s *Yunheiscot) RegisterPlugin(p *Plugin) {
	if p.Logger == nil {
		p.Logger = s.log
	}

	s.plugins = append(s.plugins, p)
}

// Run starts the bot and loops until the process is interrupted
func (s *Yunheiscot) Run() (err error) {
	api := slack.New(
		s.config.GetString(config.TokenKey),
		slack.OptionDebug(s.config.GetBool(config.DebugKey)),
	)

	if s.chatDriver, err = newChatDriverWithTelemetry(api, s.name, s.meter); err != nil {
		return errors.Wrap(err, "Failed to create chat driver")
	}

	rtm := api.NewRTM()
	go rtm.ManageConnection()
	defer rtm.Disconnect()

	termination := make(chan os.Signal, 1)
	signal.Notify(termination, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(termination)

	return s.runInternal(rtm.IncomingEvents, termination)
}

// runInternal registers the help plugin now that all plugins are known and processes events until the events
// channel is closed, a termination signal is received or authentication fails. Handlers still running
// are waited for before returning
func (s *Yunheiscot) runInternal(events <-chan slack.RTMEvent, termination <-chan os.Signal) (err error) {
	helpPlugin := s.newHelpPlugin(VERSION)
	s.RegisterPlugin(&helpPlugin.Plugin)
	s.attachIdentifiersToPluginActions()

	defer s.inFlight.Wait()

	for {
		select {
		case sig := <-termination:
			s.log.Debugf("Received termination signal [%s], terminating processing", sig)
			return nil

		case msg, ok := <-events:
			if !ok {
				return nil
			}

			switch e := msg.Data.(type) {
			case *slack.ConnectedEvent:
				s.log.Printf("Connected (connection counter: %d)", e.ConnectionCount)
				if e.Info != nil && e.Info.User != nil {
					s.cacheSelfIdentity(e.Info.User.ID, e.Info.User.Name)
				}

			case *slack.MessageEvent:
				s.inFlight.Add(1)
				go func() {
					defer s.inFlight.Done()
					s.processMessageEvent(e)
				}()

			case *slack.LatencyReport:
				s.log.Debugf("Current latency: %v", e.Value)

			case *slack.RTMError:
				s.log.Printf("Error: %s", e.Error())

			case *slack.InvalidAuthEvent:
				return errors.New("Invalid credentials")

			default:
				// Ignoring other events
			}
		}
	}
}

// attachIdentifiersToPluginActions attaches an action identifier to every plugin action and sets them accordingly
// in the internal state. The identifiers are generated the following way:
//   - pluginName.c[pluginIndexOfTheCommand] for commands
//   - pluginName.h[pluginIndexOfTheHearAction] for hear actions
func (s *Yunheiscot) attachIdentifiersToPluginActions() {
	s.commandsWithID = make([]ActionDefinitionWithID, 0)
	s.hearActionsWithID = make([]ActionDefinitionWithID, 0)

	for _, p := range s.plugins {
		for i, c := range p.Commands {
			s.commandsWithID = append(s.commandsWithID, ActionDefinitionWithID{ActionDefinition: c, pluginName: p.Name, id: fmt.Sprintf("%s.c[%d]", p.Name, i)})
		}

		for i, h := range p.HearActions {
			s.hearActionsWithID = append(s.hearActionsWithID, ActionDefinitionWithID{ActionDefinition: h, pluginName: p.Name, id: fmt.Sprintf("%s.h[%d]", p.Name, i)})
		}
	}
}

// cacheSelfIdentity keeps "our" identity to avoid having to look it up every time
func (s *Yunheiscot) cacheSelfIdentity(selfID string, selfName string) {
	s.selfLock.Lock()
	s.selfID = selfID
	s.selfName = selfName
	s.selfLock.Unlock()

	s.log.Debugf("Caching self id [%s] and self name [%s]", selfID, selfName)
}

// selfUserID returns the cached bot user id, empty until the first connection
func (s *Yunheiscot) selfUserID() string {
	s.selfLock.RLock()
	defer s.selfLock.RUnlock()

	return s.selfID
}

// processMessageEvent handles high-level processing of a slack message event. Only new messages
// are processed: acknowledgements (reply_to), edits, deletions and other subtypes are ignored
func (s *Yunheiscot) processMessageEvent(msgEvent *slack.MessageEvent) {
	if msgEvent.ReplyTo > 0 || msgEvent.Type != "message" || msgEvent.SubType != "" {
		return
	}

	s.ins.recordSeen()
	s.log.Debugf("Processing message [%s] on channel [%s]", msgEvent.Timestamp, msgEvent.Channel)

	var outMsgs []*OutgoingMessage
	route := hearRoute
	d := measure(func() {
		outMsgs, route = s.routeMessage(&msgEvent.Msg)
	})
	s.ins.recordProcessed(route, d)

	s.sendOutgoingMessages(outMsgs)
}

// sendOutgoingMessages delivers triggered plugin answers
func (s *Yunheiscot) sendOutgoingMessages(outMsgs []*OutgoingMessage) {
	for _, o := range outMsgs {
		if err := s.deliver(o); err != nil {
			s.log.Printf("Unable to send answer from [%s] to channel [%s]: %v", o.pluginIdentifier, o.channelID, err)
		}
	}
}

// routeMessage handles routing the message to commands or hear actions according to the context
// The rules are the following:
//  1. If the message starts with a direct mention to us (<@selfID>), we route to commands
//  2. If the message is a direct message to us, we route to commands
//  3. If a command prefix is configured and the message starts with it, we route to commands
//  4. Otherwise (regular conversation), we route to hear actions
//
// Messages sent by "us" are ignored
func (s *Yunheiscot) routeMessage(m *slack.Msg) (responses []*OutgoingMessage, route string) {
	responses = make([]*OutgoingMessage, 0)
	selfID := s.selfUserID()

	if isFromSelf(m, selfID) {
		s.log.Debugf("Ignoring message from user [%s] because that's \"us\" [%s]", m.User, selfID)

		return responses, hearRoute
	}

	in := IncomingMessage{Mentions: ExtractMentions(m.Text), BotUserID: selfID, Msg: *m}

	if text, ok := s.commandText(m, selfID); ok {
		in.NormalizedText = text
		return s.handleCommand(&in), commandRoute
	}

	in.NormalizedText = m.Text
	return s.handleMessage(s.hearActionsWithID, &in), hearRoute
}

func isFromSelf(m *slack.Msg, selfID string) bool {
	return selfID != "" && (m.User == selfID || m.BotID == selfID)
}

// commandText returns the text of the message stripped of its command addressing and true if the
// message is a command
func (s *Yunheiscot) commandText(m *slack.Msg, selfID string) (text string, isCommand bool) {
	if selfID != "" {
		selfMention := fmt.Sprintf("<@%s>", selfID)

		if strings.HasPrefix(m.Text, selfMention) {
			rest := strings.TrimPrefix(strings.TrimPrefix(m.Text, selfMention), ":")
			return strings.TrimSpace(rest), true
		}
	}

	if strings.HasPrefix(m.Channel, "D") {
		return strings.TrimSpace(m.Text), true
	}

	if prefix := s.config.GetString(config.CommandPrefixKey); prefix != "" && strings.HasPrefix(m.Text, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(m.Text, prefix)), true
	}

	return "", false
}

// handleCommand handles a command by trying a match with all known actions. If no match is found, the default action is invoked
func (s *Yunheiscot) handleCommand(m *IncomingMessage) (outMsgs []*OutgoingMessage) {
	outMsgs = s.handleMessage(s.commandsWithID, m)
	if len(outMsgs) == 0 {
		return []*OutgoingMessage{s.newOutgoingMessage(s.defaultAction(m), m, "default")}
	}

	return outMsgs
}

// handleMessage loops over all action definitions and invokes its action if the incoming message matches it
// Note that more than one action can be triggered during the processing of a single message
func (s *Yunheiscot) handleMessage(actions []ActionDefinitionWithID, m *IncomingMessage) (outMsgs []*OutgoingMessage) {
	outMsgs = make([]*OutgoingMessage, 0)

	for _, action := range actions {
		if !action.Match(m) {
			continue
		}

		var answer *Answer
		d := measure(func() {
			answer = action.Answer(m)
		})
		s.log.Debugf("Action [%s] answered in [%s]", action.id, d.Round(time.Millisecond))

		if answer != nil {
			s.ins.recordAnswer(action.pluginName)
			outMsgs = append(outMsgs, s.newOutgoingMessage(answer, m, action.id))
		}
	}

	return outMsgs
}

func (s *Yunheiscot) newOutgoingMessage(answer *Answer, m *IncomingMessage, pluginIdentifier string) *OutgoingMessage {
	threadTS := m.ThreadTimestamp
	if threadTS == "" {
		threadTS = m.Timestamp
	}

	return &OutgoingMessage{Answer: answer, channelID: m.Channel, threadTS: threadTS, pluginIdentifier: pluginIdentifier}
}
