package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// memberCommand creates the member command group.
func (c *CLI) memberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"lane"},
		Short:   "Manage team members (board lanes)",
	}

	cmd.AddCommand(c.memberAddCommand())
	cmd.AddCommand(c.memberListCommand())
	cmd.AddCommand(c.memberRemoveCommand())
	cmd.AddCommand(c.memberMoveCommand())
	cmd.AddCommand(c.memberRenameCommand())

	return cmd
}

func (c *CLI) memberAddCommand() *cobra.Command {
	var (
		after string
		top   bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a member lane",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			var added board.Member
			_, err := c.mutate(cmd.Context(), "member.add", func(b *board.Board) error {
				var pos *int
				switch {
				case top:
					first := -1
					pos = &first
				case after != "":
					m, err := findMember(b, after)
					if err != nil {
						return err
					}
					pos = &m.Order
				}
				var err error
				added, err = b.AddMember(name, pos)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added member %s %s", StyleHighlight.Render(added.Name), StyleDim.Render(shortID(added.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "insert below this member")
	cmd.Flags().BoolVar(&top, "top", false, "insert as the first lane")
	cmd.MarkFlagsMutuallyExclusive("after", "top")
	return cmd
}

func (c *CLI) memberListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List members in lane order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				b, err := c.current(ctx, svc)
				if err != nil {
					return err
				}
				if len(b.Members) == 0 {
					printInfo("No members")
					return nil
				}
				rows := make([][]string, 0, len(b.Members))
				for i, m := range b.SortedMembers() {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						shortID(m.ID),
						m.Name,
						strconv.Itoa(len(b.LaneTasks(m.Lane()))),
						strconv.Itoa(b.LayerCount(m.Lane())),
					})
				}
				printTable([]string{"#", "ID", "Name", "Tasks", "Rows"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) memberRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <member>",
		Aliases: []string{"delete"},
		Short:   "Delete a member; their tasks return to the holding area",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				name   string
				parked int
			)
			_, err := c.mutate(cmd.Context(), "member.delete", func(b *board.Board) error {
				m, err := findMember(b, args[0])
				if err != nil {
					return err
				}
				name = m.Name
				parked = len(b.LaneTasks(m.Lane()))
				return b.DeleteMember(m.ID)
			})
			if err != nil {
				return err
			}
			printSuccess("Deleted member %s", StyleHighlight.Render(name))
			if parked > 0 {
				printDetail("%s moved to the holding area", countOf(parked, "task"))
			}
			return nil
		},
	}
}

func (c *CLI) memberMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <member> <position>",
		Short: "Move a lane to a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "position must be a positive number, got %q", args[1])
			}
			var name string
			_, err = c.mutate(cmd.Context(), "member.move", func(b *board.Board) error {
				m, err := findMember(b, args[0])
				if err != nil {
					return err
				}
				name = m.Name
				return b.MoveMember(m.ID, pos-1)
			})
			if err != nil {
				return err
			}
			printSuccess("Moved %s to position %d", StyleHighlight.Render(name), pos)
			return nil
		},
	}
}

func (c *CLI) memberRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <member> <name>",
		Short: "Rename a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.mutate(cmd.Context(), "member.rename", func(b *board.Board) error {
				m, err := findMember(b, args[0])
				if err != nil {
					return err
				}
				return b.RenameMember(m.ID, args[1])
			})
			if err != nil {
				return err
			}
			printSuccess("Renamed to %s", StyleHighlight.Render(args[1]))
			return nil
		},
	}
}
