// Package config provides the configuration keys, defaults and loading helpers for
// yunheiscot instances and their plugins
package config

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	TokenKey           = "token"           // Slack bot token, string value
	DebugKey           = "debug"           // Debug mode, boolean value
	CommandPrefixKey   = "commandPrefix"   // Optional prefix routing channel messages to commands (i.e. "/"), string value
	ThreadedRepliesKey = "threadedReplies" // Whether answers are sent in a thread of the triggering message, boolean value
	LogFileKey         = "logFile"         // Optional path of a rotated log file, string value. Logs go to stdout when empty
	PluginsKey         = "plugins"         // Root of all plugin sections, keyed by plugin name
)

// PluginConfig holds the configuration section of a single plugin
type PluginConfig = viper.Viper

// NewViperWithDefaults creates a new viper instance with the defaults set on it
func NewViperWithDefaults() (v *viper.Viper) {
	v = viper.New()
	setDefaults(v)

	return v
}

// LayerConfigWithDefaults sets the defaults on an existing viper instance. Values already
// set take precedence over the defaults
func LayerConfigWithDefaults(v *viper.Viper) *viper.Viper {
	setDefaults(v)

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(DebugKey, false)
	v.SetDefault(CommandPrefixKey, "")
	v.SetDefault(ThreadedRepliesKey, false)
	v.SetDefault(LogFileKey, "")
}

// Load reads the configuration file at path (a leading ~ is expanded to the user's home) and
// returns it layered with the defaults
func Load(path string) (v *viper.Viper, err error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't expand configuration path [%s]", path)
	}

	v = NewViperWithDefaults()
	v.SetConfigFile(expanded)

	if err = v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "Failed to load configuration file [%s]", expanded)
	}

	return v, nil
}

// GetPluginConfig returns the configuration section of the plugin with the given name
func GetPluginConfig(v *viper.Viper, name string) (pc *PluginConfig, err error) {
	pluginKey := fmt.Sprintf("%s.%s", PluginsKey, name)
	if !v.IsSet(pluginKey) {
		return nil, fmt.Errorf("Missing plugin configuration for plugin [%s] at [%s]", name, pluginKey)
	}

	return v.Sub(pluginKey), nil
}

// GetPluginConfigOrEmpty returns the configuration section of the plugin with the given name or an
// empty configuration if the section is missing or isn't a map
func GetPluginConfigOrEmpty(v *viper.Viper, name string) (pc *PluginConfig) {
	pc, err := GetPluginConfig(v, name)
	if err != nil || pc == nil {
		return viper.New()
	}

	return pc
}
