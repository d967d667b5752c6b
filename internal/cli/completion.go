package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/pkg/config"
	"github.com/matzehuels/sprintboard/pkg/store/backend"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell.

  bash:       source <(sprintboard completion bash)
  zsh:        sprintboard completion zsh > "${fpath[1]}/_sprintboard"
  fish:       sprintboard completion fish > ~/.config/fish/completions/sprintboard.fish
  powershell: sprintboard completion powershell | Out-String | Invoke-Expression

Board ids complete from the configured store.`,
		Annotations:           map[string]string{skipConfig: "true"},
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdout, true)
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
		},
	}
}

// completeBoards completes stored board ids. Completion runs without the
// persistent setup hook, so it loads the config itself.
func (c *CLI) completeBoards(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := backend.Open(ctx, cfg.Store, c.Logger)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer s.Close()

	summaries, err := s.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, sum := range summaries {
		if strings.HasPrefix(sum.ID, toComplete) {
			ids = append(ids, sum.ID+"\t"+sum.Title)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
