// Package plugins provides the plugins shipped with yunheiscot: the cloud blacklist lookup and a
// version reporter
package plugins

import (
	"fmt"
	"regexp"

	"github.com/furryhm/yunheiscot"
	"github.com/furryhm/yunheiscot/actions"
	"github.com/furryhm/yunheiscot/plugin"
)

// Versioner holds the plugin data for the versioner plugin
type Versioner struct {
	yunheiscot.Plugin
}

const (
	// VersionerPluginName holds identifying name for the versioner plugin
	VersionerPluginName = "versioner"
)

var versionRegex = regexp.MustCompile(`^version\b`)

// NewVersioner creates a new instance of the versioner plugin
func NewVersioner(name string, version string) (v *Versioner) {
	v = new(Versioner)
	v.Plugin = *plugin.New(VersionerPluginName).
		WithCommand(actions.NewCommand().
			MatchingPattern(versionRegex).
			WithUsage("version").
			WithDescriptionf("Reply with `%s`'s `version` number", name).
			WithAnswerer(func(m *yunheiscot.IncomingMessage) *yunheiscot.Answer {
				return &yunheiscot.Answer{Text: fmt.Sprintf("I'm `%s`, version `%s`", name, version)}
			}).
			Build()).
		Build()

	return v
}
