// Package contextcorecmder
package contextcorecmder

import (
	"github.com/spf13/cobra"

	backfillcmder "github.com/creatorcore/contextcore/cmd/contextcore/backfill"
	configcmder "github.com/creatorcore/contextcore/cmd/contextcore/config"
	servecmder "github.com/creatorcore/contextcore/cmd/contextcore/serve"
	versioncmder "github.com/creatorcore/contextcore/cmd/version"
)

const contextcoreLongDesc string = `Contextcore is context-aware content generation with feedback-driven ranking.

Every generation is stored with its embedding and returned alongside the most
relevant prior generations. Feedback on past generations shifts their scores
and with them future rankings.

Run the service using:
  contextcore serve        Run the API server
  contextcore backfill     Embed stored artifacts missing embeddings
  contextcore config       Manage persistent configuration`

const contextcoreShortDesc string = "Contextcore - Context-Aware Generation"

func NewContextcoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contextcore",
		Short: contextcoreShortDesc,
		Long:  contextcoreLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .contextcore/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(backfillcmder.NewBackfillCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
