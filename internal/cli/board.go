package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/render"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	var (
		force bool
		title string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the starter board",
		Long: `Create a board with one two-week sprint starting today and one member.

With --force an existing board is reset; the previous contents stay undoable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				_, err := svc.Create(ctx, c.cfg.Board)
				if err != nil && !(force && errors.Is(err, errors.ErrCodeInvalidInput)) {
					return err
				}
				existed := err != nil
				if existed || title != "" {
					_, err = svc.Apply(ctx, c.cfg.Board, "board.init", func(b *board.Board) error {
						if existed {
							b.Reset(time.Now())
						}
						if title != "" {
							return b.SetTitle(title)
						}
						return nil
					})
					if err != nil {
						return err
					}
				}

				printSuccess("Board %s ready", StyleHighlight.Render(c.cfg.Board))
				printNextStep("Add a task", appName+" task add \"Design review\"")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "reset the board if it exists")
	cmd.Flags().StringVar(&title, "title", "", "project title")
	return cmd
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		plain       bool
		cellWidth   int
		hideHolding bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Draw the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				b, err := c.current(ctx, svc)
				if err != nil {
					return err
				}
				fmt.Fprint(stdout, render.Board(b, render.Options{
					Metrics:     c.cfg.Layout,
					CellWidth:   cellWidth,
					Color:       !plain,
					HideHolding: hideHolding,
				}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	cmd.Flags().IntVar(&cellWidth, "cell-width", render.DefaultCellWidth, "characters per sprint column")
	cmd.Flags().BoolVar(&hideHolding, "hide-holding", false, "omit the holding area")
	return cmd
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that no two tasks overlap on the same row",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				b, err := c.current(ctx, svc)
				if err != nil {
					return err
				}
				conflicts := layout.Conflicts(b.Placements())
				if len(conflicts) == 0 {
					printSuccess("No overlapping tasks")
					printStats(countOf(len(b.Members), "lane"), countOf(placedCount(b), "placed task"))
					return nil
				}
				for _, cf := range conflicts {
					printError("%s: %s and %s overlap on row %d", laneName(b, cf.Lane), taskTitle(b, cf.A), taskTitle(b, cf.B), cf.Row)
				}
				printNextStep("Repair the rows", appName+" relayout")
				return errors.New(errors.ErrCodeLayoutConflict, "%s", countOf(len(conflicts), "conflict"))
			})
		},
	}
}

// relayoutCommand creates the relayout command.
func (c *CLI) relayoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "relayout",
		Short: "Repair stacking rows so no tasks overlap",
		RunE: func(cmd *cobra.Command, args []string) error {
			var moved []string
			_, err := c.mutate(cmd.Context(), "board.relayout", func(b *board.Board) error {
				moved = b.Relayout()
				return nil
			})
			if err != nil {
				return err
			}
			if len(moved) == 0 {
				printInfo("Board already consistent")
				return nil
			}
			printSuccess("Restacked %s", countOf(len(moved), "task"))
			return nil
		},
	}
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var pf placementFlags

	cmd := &cobra.Command{
		Use:   "resolve <task> <member>",
		Short: "Preview the row a task would land on without moving it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				b, err := c.current(ctx, svc)
				if err != nil {
					return err
				}
				t, err := findTask(b, args[0])
				if err != nil {
					return err
				}
				m, err := findMember(b, args[1])
				if err != nil {
					return err
				}
				span, err := pf.span(cmd, c.cfg.Layout, t)
				if err != nil {
					return err
				}
				res, err := svc.Preview(ctx, c.cfg.Board, t.ID, m.Lane(), span.Start, span.Width)
				if err != nil {
					return err
				}
				printKeyValue("Task", t.Title)
				printKeyValue("Member", m.Name)
				printKeyValue("Span", formatSpan(span))
				printKeyValue("Row", strconv.Itoa(res.Row))
				printKeyValue("Overlapped", strconv.FormatBool(res.Overlapped))
				return nil
			})
		},
	}

	pf.register(cmd)
	return cmd
}

// undoCommand creates the undo command.
func (c *CLI) undoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				if _, err := svc.Undo(ctx, c.cfg.Board); err != nil {
					return err
				}
				printSuccess("Undone")
				return nil
			})
		},
	}
}

// redoCommand creates the redo command.
func (c *CLI) redoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Reapply the last undone change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				if _, err := svc.Redo(ctx, c.cfg.Board); err != nil {
					return err
				}
				printSuccess("Redone")
				return nil
			})
		},
	}
}

// =============================================================================
// board ls|rm|title|color
// =============================================================================

// boardCommand creates the board management command.
func (c *CLI) boardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage stored boards",
	}

	cmd.AddCommand(c.boardListCommand())
	cmd.AddCommand(c.boardRemoveCommand())
	cmd.AddCommand(c.boardTitleCommand())
	cmd.AddCommand(c.boardColorCommand())

	return cmd
}

func (c *CLI) boardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				summaries, err := svc.List(ctx)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					printInfo("No boards yet")
					printNextStep("Create one", appName+" init")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					marker := ""
					if s.ID == c.cfg.Board {
						marker = "*"
					}
					rows = append(rows, []string{marker, s.ID, s.Title, strconv.Itoa(s.Tasks), formatRelativeTime(s.UpdatedAt)})
				}
				printTable([]string{"", "Board", "Title", "Tasks", "Updated"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) boardRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <board>",
		Aliases: []string{"delete"},
		Short:   "Delete a board and its history",
		Args:    cobra.ExactArgs(1),

		ValidArgsFunction: c.completeBoards,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				if err := svc.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted board %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) boardTitleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "title <title>",
		Short: "Set the project title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.mutate(cmd.Context(), "board.title", func(b *board.Board) error {
				return b.SetTitle(args[0])
			}); err != nil {
				return err
			}
			printSuccess("Title set to %q", args[0])
			return nil
		},
	}
}

func (c *CLI) boardColorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "color <#rrggbb>",
		Short: "Set the primary color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.mutate(cmd.Context(), "board.color", func(b *board.Board) error {
				return b.SetPrimaryColor(args[0])
			}); err != nil {
				return err
			}
			printSuccess("Primary color set to %s", args[0])
			return nil
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func countOf(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func placedCount(b *board.Board) int {
	n := 0
	for _, t := range b.Tasks {
		if t.Placed() {
			n++
		}
	}
	return n
}

func laneName(b *board.Board, lane layout.LaneID) string {
	if m, err := b.Member(string(lane)); err == nil {
		return m.Name
	}
	return string(lane)
}

func taskTitle(b *board.Board, id string) string {
	if t, err := b.Task(id); err == nil {
		return t.Title
	}
	return id
}

func formatSpan(s layout.Span) string {
	return fmt.Sprintf("%g..%g (width %g)", s.Start, s.End(), s.Width)
}
