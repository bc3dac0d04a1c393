// Command yunheiscot runs the cloud blacklist lookup bot
package main

import (
	"fmt"
	"os"

	"github.com/furryhm/yunheiscot"
	"github.com/furryhm/yunheiscot/config"
	"github.com/furryhm/yunheiscot/plugins"
	"github.com/spf13/cobra"
)

const name = "yunheiscot"

var (
	version    = yunheiscot.VERSION
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   name,
	Short: "A slack bot looking up users in the cloud blacklist",
	Long: `yunheiscot connects to slack and answers the 云黑查询 command with the cloud blacklist
record of the mentioned user, the given identifier or the sender.

The configuration file holds the slack token and a plugins.cloudBlacklist section with the
apiKey to use for lookups.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", name, version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "~/.yunheiscot.yaml", "path to the configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() (err error) {
	v, err := config.Load(configFile)
	if err != nil {
		return err
	}

	debug := v.GetBool(config.DebugKey)
	logger := yunheiscot.NewZapLogger(debug, v.GetString(config.LogFileKey))
	defer logger.Sync()

	bot, err := yunheiscot.NewBot(name, v, yunheiscot.OptionLogger(yunheiscot.NewSLogger(logger.Sugar(), debug))).
		WithDefaultConfigurablePluginErr(plugins.CloudBlacklistPluginName, func(c *config.PluginConfig) (*yunheiscot.Plugin, error) {
			cb, err := plugins.NewCloudBlacklist(c)
			if err != nil {
				return nil, err
			}

			return &cb.Plugin, nil
		}).
		WithPlugin(&plugins.NewVersioner(name, version).Plugin).
		Build()
	if err != nil {
		return err
	}

	return bot.Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
