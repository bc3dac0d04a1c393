package yunheiscot

import (
	"fmt"
	"io"
	"strings"

	"github.com/furryhm/yunheiscot/config"
)

type helpPlugin struct {
	Plugin

	name        string
	version     string
	commands    []ActionDefinition
	hearActions []ActionDefinition
	prefix      string
}

const (
	helpPluginName = "help"
)

func (s *Yunheiscot) newHelpPlugin(version string) *helpPlugin {
	commands, hearActions := findAllActions(s.plugins)

	helpPlugin := new(helpPlugin)
	helpPlugin.name = s.name
	helpPlugin.version = version
	helpPlugin.commands = commands
	helpPlugin.hearActions = hearActions
	helpPlugin.prefix = s.config.GetString(config.CommandPrefixKey)

	helpPlugin.Plugin = Plugin{Name: helpPluginName, Commands: []ActionDefinition{{
		Match: func(m *IncomingMessage) bool {
			return strings.HasPrefix(m.NormalizedText, "help")
		},
		Usage:       helpPluginName,
		Description: "Reply with usage instructions",
		Answer:      helpPlugin.showHelp,
	}}}

	return helpPlugin
}

// showHelp generates a message providing a list of all of the commands and hear actions.
// Note that ActionDefinitions with the flag Hidden set to true won't be included in the list
func (h *helpPlugin) showHelp(m *IncomingMessage) *Answer {
	var b strings.Builder

	fmt.Fprintf(&b, "🤝 I'm `%s` (engine `v%s`) and I look up users in the cloud blacklist for you.\n", h.name, h.version)

	if len(h.commands) > 0 {
		fmt.Fprintf(&b, "\nI currently support the following commands:\n")

		appendActions(&b, h.prefix, h.commands)
	}

	if len(h.hearActions) > 0 {
		fmt.Fprintf(&b, "\nAnd listen for the following:\n")

		appendActions(&b, "", h.hearActions)
	}

	return &Answer{Text: b.String(), Options: []AnswerOption{AnswerInThread()}}
}

func appendActions(w io.Writer, prefix string, actions []ActionDefinition) {
	for _, value := range actions {
		if value.Usage != "" {
			fmt.Fprintf(w, "\t• `%s%s` - %s\n", prefix, value.Usage, value.Description)
		}
	}
}

func findAllActions(plugins []*Plugin) (commands []ActionDefinition, hearActions []ActionDefinition) {
	commands = make([]ActionDefinition, 0)
	hearActions = make([]ActionDefinition, 0)

	for _, p := range plugins {
		commands = append(commands, filterNonHiddenActions(p.Commands)...)
		hearActions = append(hearActions, filterNonHiddenActions(p.HearActions)...)
	}

	return commands, hearActions
}

func filterNonHiddenActions(actions []ActionDefinition) (visibleActions []ActionDefinition) {
	visibleActions = make([]ActionDefinition, 0)
	for _, a := range actions {
		if !a.Hidden {
			visibleActions = append(visibleActions, a)
		}
	}

	return visibleActions
}
