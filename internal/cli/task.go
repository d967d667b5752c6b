package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// taskCommand creates the task command group.
func (c *CLI) taskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, place and edit tasks",
	}

	cmd.AddCommand(c.taskAddCommand())
	cmd.AddCommand(c.taskListCommand())
	cmd.AddCommand(c.taskPlaceCommand())
	cmd.AddCommand(c.taskResizeCommand())
	cmd.AddCommand(c.taskUnassignCommand())
	cmd.AddCommand(c.taskSetCommand())
	cmd.AddCommand(c.taskRemoveCommand())

	return cmd
}

// =============================================================================
// Placement Flags
// =============================================================================

// placementFlags describe a horizontal span either in pixels (--start,
// --width) or in sprint columns (--sprint, --sprints).
type placementFlags struct {
	start   float64
	width   float64
	sprint  int
	sprints int
}

func (p *placementFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.start, "start", 0, "left offset in board pixels")
	cmd.Flags().Float64Var(&p.width, "width", 0, "width in board pixels")
	cmd.Flags().IntVarP(&p.sprint, "sprint", "s", 0, "first sprint column (1-based)")
	cmd.Flags().IntVarP(&p.sprints, "sprints", "n", 1, "number of sprint columns to cover")
	cmd.MarkFlagsMutuallyExclusive("start", "sprint")
}

// span resolves the flags against the task's current span: anything not
// given on the command line is kept.
func (p *placementFlags) span(cmd *cobra.Command, m layout.Metrics, t board.Task) (layout.Span, error) {
	s := t.Span()
	if s.Width <= 0 {
		s.Width = board.DefaultTaskWidth
	}
	flags := cmd.Flags()

	if flags.Changed("sprints") && p.sprints < 1 {
		return layout.Span{}, errors.New(errors.ErrCodeInvalidInput, "--sprints must be at least 1")
	}
	if flags.Changed("sprint") {
		if p.sprint < 1 {
			return layout.Span{}, errors.New(errors.ErrCodeInvalidInput, "--sprint must be at least 1")
		}
		s = m.SpanOf(p.sprint-1, p.sprint+p.sprints-2)
	} else if flags.Changed("sprints") {
		s.Width = float64(p.sprints) * m.SprintWidth
	}
	if flags.Changed("start") {
		s.Start = p.start
	}
	if flags.Changed("width") {
		s.Width = p.width
	}
	return s, nil
}

// =============================================================================
// Commands
// =============================================================================

func (c *CLI) taskAddCommand() *cobra.Command {
	var (
		member string
		color  string
		pf     placementFlags
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task to the holding area, or straight into a lane with --member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}

			var (
				added  board.Task
				res    layout.Result
				placed bool
			)
			_, err := c.mutate(cmd.Context(), "task.add", func(b *board.Board) error {
				t, err := b.AddTask(title)
				if err != nil {
					return err
				}
				if color != "" {
					if t, err = b.UpdateTask(t.ID, board.TaskPatch{BackgroundColor: &color}); err != nil {
						return err
					}
				}
				added = t
				if member == "" {
					return nil
				}
				m, err := findMember(b, member)
				if err != nil {
					return err
				}
				span, err := pf.span(cmd, c.cfg.Layout, t)
				if err != nil {
					return err
				}
				res, err = b.PlaceTask(t.ID, m.Lane(), span.Start, span.Width)
				placed = err == nil
				return err
			})
			if err != nil {
				return err
			}

			printSuccess("Added task %s %s", StyleHighlight.Render(added.Title), StyleDim.Render(shortID(added.ID)))
			if placed {
				printPlacement(res)
			} else {
				printNextStep("Place it", fmt.Sprintf("%s task place %s <member> --sprint 1", appName, shortID(added.ID)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&member, "member", "m", "", "place the task in this member's lane")
	cmd.Flags().StringVar(&color, "color", "", "background color (#rrggbb)")
	pf.register(cmd)
	return cmd
}

func (c *CLI) taskListCommand() *cobra.Command {
	var (
		member  string
		holding bool
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				b, err := c.current(ctx, svc)
				if err != nil {
					return err
				}

				var tasks []board.Task
				switch {
				case holding:
					tasks = b.HoldingArea()
				case member != "":
					m, err := findMember(b, member)
					if err != nil {
						return err
					}
					tasks = b.LaneTasks(m.Lane())
				default:
					for _, m := range b.SortedMembers() {
						tasks = append(tasks, b.LaneTasks(m.Lane())...)
					}
					tasks = append(tasks, b.HoldingArea()...)
				}

				if len(tasks) == 0 {
					printInfo("No tasks")
					return nil
				}
				rows := make([][]string, 0, len(tasks))
				for _, t := range tasks {
					rows = append(rows, c.taskRow(b, t))
				}
				printTable([]string{"ID", "Title", "Member", "Sprints", "Start", "Width", "Row"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&member, "member", "m", "", "only tasks in this member's lane")
	cmd.Flags().BoolVar(&holding, "holding", false, "only tasks in the holding area")
	cmd.MarkFlagsMutuallyExclusive("member", "holding")
	return cmd
}

func (c *CLI) taskRow(b *board.Board, t board.Task) []string {
	if !t.Placed() {
		return []string{shortID(t.ID), t.Title, "-", "-", "-", "-", "-"}
	}
	m := c.cfg.Layout
	first := m.SprintIndex(t.StartX) + 1
	last := m.SprintIndex(max(t.Span().End()-1e-9, t.StartX)) + 1
	sprints := strconv.Itoa(first)
	if last > first {
		sprints = fmt.Sprintf("%d-%d", first, last)
	}
	return []string{
		shortID(t.ID),
		t.Title,
		laneName(b, t.MemberID),
		sprints,
		strconv.FormatFloat(t.StartX, 'f', -1, 64),
		strconv.FormatFloat(t.Width, 'f', -1, 64),
		strconv.Itoa(t.RowIndex),
	}
}

func (c *CLI) taskPlaceCommand() *cobra.Command {
	var pf placementFlags

	cmd := &cobra.Command{
		Use:   "place <task> <member>",
		Short: "Drop a task into a member's lane",
		Long: `Drop a task into a member's lane. The task is stacked onto the first row
where it does not overlap another task of that member.

The span is given in pixels with --start/--width or in sprint columns with
--sprint/--sprints; anything left out keeps the task's current value.`,
		Example: `  sprintboard task place "API design" alice --sprint 2 --sprints 2
  sprintboard task place 3f2a alice --start 120 --width 300`,
		Args: cobra.ExactArgs(2),
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
				res, err := svc.Place(ctx, c.cfg.Board, t.ID, m.Lane(), span.Start, span.Width)
				if err != nil {
					return err
				}
				printSuccess("Placed %s in %s", StyleHighlight.Render(t.Title), StyleHighlight.Render(m.Name))
				printPlacement(res)
				return nil
			})
		},
	}

	pf.register(cmd)
	return cmd
}

func (c *CLI) taskResizeCommand() *cobra.Command {
	var pf placementFlags

	cmd := &cobra.Command{
		Use:   "resize <task>",
		Short: "Change the span of a placed task",
		Args:  cobra.ExactArgs(1),
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
				span, err := pf.span(cmd, c.cfg.Layout, t)
				if err != nil {
					return err
				}
				res, err := svc.Resize(ctx, c.cfg.Board, t.ID, span.Start, span.Width)
				if err != nil {
					return err
				}
				printSuccess("Resized %s", StyleHighlight.Render(t.Title))
				printPlacement(res)
				return nil
			})
		},
	}

	pf.register(cmd)
	return cmd
}

func (c *CLI) taskUnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <task>",
		Short: "Move a task back to the holding area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			_, err := c.mutate(cmd.Context(), "task.unassign", func(b *board.Board) error {
				t, err := findTask(b, args[0])
				if err != nil {
					return err
				}
				title = t.Title
				return b.UnassignTask(t.ID)
			})
			if err != nil {
				return err
			}
			printSuccess("Moved %s to the holding area", StyleHighlight.Render(title))
			return nil
		},
	}
}

func (c *CLI) taskSetCommand() *cobra.Command {
	var title, color string

	cmd := &cobra.Command{
		Use:   "set <task>",
		Short: "Change a task's title or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch board.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("color") {
				patch.BackgroundColor = &color
			}
			if patch.Title == nil && patch.BackgroundColor == nil {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to change (use --title or --color)")
			}

			var updated board.Task
			_, err := c.mutate(cmd.Context(), "task.update", func(b *board.Board) error {
				t, err := findTask(b, args[0])
				if err != nil {
					return err
				}
				updated, err = b.UpdateTask(t.ID, patch)
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
	cmd.Flags().StringVar(&color, "color", "", "background color (#rrggbb)")
	return cmd
}

func (c *CLI) taskRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			_, err := c.mutate(cmd.Context(), "task.delete", func(b *board.Board) error {
				t, err := findTask(b, args[0])
				if err != nil {
					return err
				}
				title = t.Title
				return b.DeleteTask(t.ID)
			})
			if err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(title))
			return nil
		},
	}
}

// printPlacement reports the row a placement resolved to.
func printPlacement(res layout.Result) {
	if res.Overlapped {
		printDetail("row %d (stacked below overlapping tasks)", res.Row)
		return
	}
	printDetail("row %d", res.Row)
}
