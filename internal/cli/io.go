package cli

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/boardio"
	"github.com/matzehuels/sprintboard/pkg/service"
)

// stdin is read by "import -"; tests replace it.
var stdin io.Reader = os.Stdin

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the board as a JSON or YAML document",
		Long: `Write the board as a JSON or YAML document. The file extension selects the
format; without a file the document goes to stdout in the --format encoding.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				b, err := c.current(ctx, svc)
				if err != nil {
					return err
				}

				if len(args) == 0 || args[0] == "-" {
					f, err := boardio.ParseFormat(format)
					if err != nil {
						return err
					}
					return boardio.Write(b, stdout, f, time.Now())
				}

				prog := newProgress(c.Logger)
				if err := boardio.ExportFile(b, args[0], time.Now()); err != nil {
					return err
				}
				prog.done("Exported " + countOf(len(b.Tasks), "task"))
				printSuccess("Exported board %s", StyleHighlight.Render(c.cfg.Board))
				printFile(args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(boardio.FormatJSON), "stdout format: json or yaml")
	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var (
		format string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the board with a JSON or YAML document",
		Long: `Replace the board with a JSON or YAML document. The previous board stays
undoable.

Documents are normalised on the way in: tasks whose member does not exist move
to the holding area, missing or zero widths take the minimum, negative offsets
are moved to 0 and overlapping tasks are restacked onto free rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)

			var (
				b   *board.Board
				rep boardio.Report
				err error
			)
			if args[0] == "-" {
				f, ferr := boardio.ParseFormat(format)
				if ferr != nil {
					return ferr
				}
				b, rep, err = boardio.NewReader(c.cfg.Layout).Read(stdin, f)
			} else {
				b, rep, err = boardio.NewReader(c.cfg.Layout).ImportFile(args[0])
			}
			if err != nil {
				return err
			}
			prog.done("Read " + countOf(rep.Tasks, "task"))

			printImportReport(rep)
			if dryRun {
				printInfo("Dry run, board not changed")
				return nil
			}

			ctx := cmd.Context()
			return c.withService(ctx, func(svc *service.Service) error {
				if err := svc.Import(ctx, c.cfg.Board, b); err != nil {
					return err
				}
				printSuccess("Imported into board %s", StyleHighlight.Render(c.cfg.Board))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(boardio.FormatJSON), "stdin format: json or yaml")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and report without saving")
	return cmd
}

func printImportReport(rep boardio.Report) {
	printStats(countOf(rep.Sprints, "sprint"), countOf(rep.Members, "member"), countOf(rep.Tasks, "task"))
	if !rep.Changed() {
		return
	}
	if n := len(rep.Parked); n > 0 {
		printWarning("%s referenced a missing member and moved to the holding area", countOf(n, "task"))
	}
	if n := len(rep.Clamped); n > 0 {
		printWarning("%s had an invalid span and were adjusted", countOf(n, "task"))
	}
	if n := len(rep.Restacked); n > 0 {
		printWarning("%s overlapped and were restacked", countOf(n, "task"))
	}
}
