// Package configcmder provides the config command for managing persistent
// contextcore configuration stored in the .contextcore/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent contextcore configuration.

Configuration is stored as config.toml in the .contextcore/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.provider, storage.sqlite_path, storage.postgres_url,
  api.listen,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  ranking.strategy, ranking.score_weight, ranking.top_k, ranking.topic_scoped,
  generation.timeout, feedback.mode

Use subcommands to get, set, or list configuration values:
  contextcore config set <key> <value>    Set a configuration value
  contextcore config get <key>            Get a configuration value
  contextcore config list                 List all configuration values

Examples:
  contextcore config set ranking.strategy normalized
  contextcore config set embedding.model nomic-embed-text
  contextcore config get feedback.mode
  contextcore config list`

const configShortDesc string = "Manage persistent contextcore configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
