package yunheiscot

import (
	"github.com/furryhm/yunheiscot/config"
	"github.com/spf13/viper"
)

// Builder holds a yunheiscot instance to build
type Builder struct {
	bot *Yunheiscot
	err error
}

// NewBot returns a new Builder used to set up a new yunheiscot
func NewBot(name string, v *viper.Viper, options ...Option) (sb *Builder) {
	sb = new(Builder)
	sb.bot, sb.err = New(name, v, options...)

	return sb
}

// WithPlugin adds a plugin to the yunheiscot instance
func (sb *Builder) WithPlugin(p *Plugin) *Builder {
	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	return sb
}

// WithPluginErr adds a plugin that has a creation function returning (Plugin, error) to the yunheiscot instance
func (sb *Builder) WithPluginErr(p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	return sb
}

// WithConfigurablePluginErr adds a plugin created from its configuration section (plugins.<name>). A missing
// section is a build error
func (sb *Builder) WithConfigurablePluginErr(name string, newPlugin func(c *config.PluginConfig) (*Plugin, error)) *Builder {
	if sb.err != nil {
		return sb
	}

	c, err := config.GetPluginConfig(sb.bot.config, name)
	if err != nil {
		sb.err = err
		return sb
	}

	return sb.WithPluginErr(newPlugin(c))
}

// WithDefaultConfigurablePluginErr adds a plugin created from its configuration section (plugins.<name>).
// A missing section gives the plugin an empty configuration, leaving it to report what's missing when used
func (sb *Builder) WithDefaultConfigurablePluginErr(name string, newPlugin func(c *config.PluginConfig) (*Plugin, error)) *Builder {
	if sb.err != nil {
		return sb
	}

	if _, err := config.GetPluginConfig(sb.bot.config, name); err != nil {
		sb.bot.log.Printf("No configuration found for plugin [%s], starting it with an empty one", name)
	}

	return sb.WithPluginErr(newPlugin(config.GetPluginConfigOrEmpty(sb.bot.config, name)))
}

// Build returns the built yunheiscot instance. If there was an error during
// setup, the error is returned along with a nil yunheiscot
func (sb *Builder) Build() (s *Yunheiscot, err error) {
	if sb.err != nil {
		return nil, sb.err
	}

	return sb.bot, nil
}
