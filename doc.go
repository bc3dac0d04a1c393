/*
Package yunheiscot provides a small slack bot engine hosting the cloud blacklist lookup plugin.

Plugins combine commands (messages addressed to the bot) and hear actions (listeners on regular
conversation). Answers are plain text or text with an image, the latter being delivered as a
single composite message when possible and as an image followed by the text otherwise.

Plugins have access to services injected on startup:
 - SLogger: To log info/debug statements

Example code (see cmd/yunheiscot for the complete entrypoint):

	package main

	import (
		"github.com/furryhm/yunheiscot"
		"github.com/furryhm/yunheiscot/config"
		"github.com/furryhm/yunheiscot/plugins"
	)

	func main() {
		v, err := config.Load("~/.yunheiscot.yaml")
		if err != nil {
			log.Fatal(err)
		}

		bot, err := yunheiscot.NewBot("yunheiscot", v).
			WithDefaultConfigurablePluginErr(plugins.CloudBlacklistPluginName, func(c *config.PluginConfig) (*yunheiscot.Plugin, error) {
				cb, err := plugins.NewCloudBlacklist(c)
				if err != nil {
					return nil, err
				}
				return &cb.Plugin, nil
			}).
			WithPlugin(&plugins.NewVersioner("yunheiscot", version).Plugin).
			Build()
		if err != nil {
			log.Fatal(err)
		}

		err = bot.Run()
		if err != nil {
			log.Fatal(err)
		}
	}
*/
package yunheiscot
