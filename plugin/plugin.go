// Package plugin provides a fluent API for creating yunheiscot plugins
package plugin

import (
	"github.com/furryhm/yunheiscot"
)

// PluginBuilder holds a plugin to build
type PluginBuilder struct {
	plugin *yunheiscot.Plugin
}

// New creates a new PluginBuilder with a plugin with the given name and empty set of actions
func New(name string) (pb *PluginBuilder) {
	pb = new(PluginBuilder)
	pb.plugin = new(yunheiscot.Plugin)
	pb.plugin.Name = name
	pb.plugin.Commands = make([]yunheiscot.ActionDefinition, 0)
	pb.plugin.HearActions = make([]yunheiscot.ActionDefinition, 0)

	return pb
}

// WithCommand adds a command to the plugin
func (pb *PluginBuilder) WithCommand(command yunheiscot.ActionDefinition) *PluginBuilder {
	pb.plugin.Commands = append(pb.plugin.Commands, command)
	return pb
}

// WithHearAction adds an hear action to the plugin
func (pb *PluginBuilder) WithHearAction(hearAction yunheiscot.ActionDefinition) *PluginBuilder {
	pb.plugin.HearActions = append(pb.plugin.HearActions, hearAction)
	return pb
}

// WithLogger sets the plugin's logger. When not set, the bot injects its own on registration
func (pb *PluginBuilder) WithLogger(logger yunheiscot.SLogger) *PluginBuilder {
	pb.plugin.Logger = logger
	return pb
}

// Build returns the created Plugin instance
func (pb *PluginBuilder) Build() (p *yunheiscot.Plugin) {
	return pb.plugin
}
