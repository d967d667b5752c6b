package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// sprintCommand creates the sprint command group.
func (c *CLI) sprintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprint columns",
	}

	cmd.AddCommand(c.sprintAddCommand())
	cmd.AddCommand(c.sprintListCommand())
	cmd.AddCommand(c.sprintSetCommand())
	cmd.AddCommand(c.sprintRemoveCommand())

	return cmd
}

func (c *CLI) sprintAddCommand() *cobra.Command {
	var start, end, color string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Append a sprint column",
		Long: `Append a sprint column. Without --start and --end the sprint begins the day
after the last sprint ends and lasts two weeks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}

			var added board.Sprint
			_, err := c.mutate(cmd.Context(), "sprint.add", func(b *board.Board) error {
				from, to := b.NextSprintWindow(time.Now())
				if start != "" {
					from = start
				}
				if end != "" {
					to = end
				}
				var err error
				added, err = b.AddSprint(title, from, to, color)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s", StyleHighlight.Render(added.Title))
			printDetail("%s to %s", added.StartDate, added.EndDate)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&color, "color", "", "column color (#rrggbb)")
	return cmd
}

func (c *CLI) sprintListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List sprints in column order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				b, err := c.current(ctx, svc)
				if err != nil {
					return err
				}
				if len(b.Sprints) == 0 {
					printInfo("No sprints")
					return nil
				}
				rows := make([][]string, 0, len(b.Sprints))
				for i, s := range b.SortedSprints() {
					rows = append(rows, []string{strconv.Itoa(i + 1), shortID(s.ID), s.Title, s.StartDate, s.EndDate, s.Color})
				}
				printTable([]string{"#", "ID", "Title", "Start", "End", "Color"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) sprintSetCommand() *cobra.Command {
	var title, start, end, color string

	cmd := &cobra.Command{
		Use:   "set <sprint>",
		Short: "Change a sprint's title, dates or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch board.SprintPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("start") {
				patch.StartDate = &start
			}
			if flags.Changed("end") {
				patch.EndDate = &end
			}
			if flags.Changed("color") {
				patch.Color = &color
			}
			if patch == (board.SprintPatch{}) {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to change (use --title, --start, --end or --color)")
			}

			var updated board.Sprint
			_, err := c.mutate(cmd.Context(), "sprint.update", func(b *board.Board) error {
				s, err := findSprint(b, args[0])
				if err != nil {
					return err
				}
				updated, err = b.UpdateSprint(s.ID, patch)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Updated %s", StyleHighlight.Render(updated.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&color, "color", "", "column color (#rrggbb)")
	return cmd
}

func (c *CLI) sprintRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <sprint>",
		Aliases: []string{"delete"},
		Short:   "Delete a sprint column; tasks keep their positions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			_, err := c.mutate(cmd.Context(), "sprint.delete", func(b *board.Board) error {
				s, err := findSprint(b, args[0])
				if err != nil {
					return err
				}
				title = s.Title
				return b.DeleteSprint(s.ID)
			})
			if err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(title))
			return nil
		},
	}
}
