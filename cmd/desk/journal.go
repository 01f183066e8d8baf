package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sandevgo/deskpilot/internal/config"
	"github.com/sandevgo/deskpilot/internal/core"
	"github.com/sandevgo/deskpilot/internal/service/ui"
	"github.com/sandevgo/deskpilot/internal/storage/sqlite"
	"github.com/sandevgo/deskpilot/pkg/log"
	"github.com/spf13/cobra"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the most recent control dispatches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := log.NewContextWithWriter(cmd.Context(), os.Stderr, debug || config.IsDebug())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		appCfg := config.NewAppConfig(ctx)

		if _, err := os.Stat(appCfg.GetDatabasePath()); os.IsNotExist(err) {
			return fmt.Errorf("no journal at %s", appCfg.GetDatabasePath())
		}

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := sqlite.NewJournal(db).Recent(ctx, journalLimit)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), renderJournal(rows))
		return err
	},
}

// renderJournal lays the dispatches out as a table. Widths are measured on
// visible text, so styled status cells keep the columns aligned.
func renderJournal(rows []sqlite.Dispatch) string {
	cells := make([][]string, 0, len(rows))
	for _, d := range rows {
		cells = append(cells, []string{
			d.CreatedAt.Local().Format(time.DateTime),
			d.Command,
			string(d.Status),
			fmt.Sprint(d.Payload),
		})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "COMMAND", "STATUS", "PAYLOAD").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cell.Inherit(ui.TitleStyle.UnsetMarginBottom())
			case col != 2:
				return cell
			case rows[row].Status == core.StatusQueued:
				return cell.Inherit(ui.QueuedStyle)
			default:
				return cell.Inherit(ui.ErrorStyle)
			}
		}).
		String()
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of dispatches to show")
	rootCmd.AddCommand(journalCmd)
}
