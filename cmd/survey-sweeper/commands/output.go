package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// printReport writes a one-row-per-sweep summary followed by any failures.
func printReport(w io.Writer, report *models.Report) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sweep", "Found", "Deleted", "Skipped", "Failed", "Note"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, s := range report.Sweeps {
		table.Append([]string{
			s.Name,
			strconv.Itoa(s.Found),
			strconv.Itoa(s.Deleted),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(len(s.Failures)),
			sweepNote(s),
		})
	}
	table.Render()

	for _, s := range report.Sweeps {
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  FAIL %s %s: %s\n", s.Name, f.ID, f.Reason)
		}
	}
	_, err := fmt.Fprintf(w, "Run %s: %d removed\n", report.ID, report.TotalDeleted())
	return err
}

func sweepNote(s *models.SweepResult) string {
	notes := []string{
		s.Error,
		lo.Ternary(s.Truncated, "first page only", ""),
	}
	return strings.Join(lo.Compact(notes), "; ")
}
