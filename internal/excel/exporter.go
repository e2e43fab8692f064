package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/kidspeak/internal/roster"
)

var boardHeader = []interface{}{"Class", "User ID", "Name", "Level", "Total XP", "Total Stars", "Last Active"}

// ExportBoard writes the class board to an .xlsx file, one row per learner
// followed by a totals row.
func ExportBoard(board roster.Board, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &boardHeader); err != nil {
		return fmt.Errorf("failed to write header: %v", err)
	}

	row := 2
	for _, class := range board.Classes {
		for _, s := range class.Students {
			lastActive := ""
			if !s.LastActive.IsZero() {
				lastActive = s.LastActive.Format("2006-01-02 15:04:05")
			}
			values := []interface{}{class.Name, s.LearnerID, s.Name, s.Level, s.TotalXP, s.TotalStars, lastActive}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return fmt.Errorf("failed to write row %d: %v", row, err)
			}
			row++
		}
	}

	totals := []interface{}{
		fmt.Sprintf("%d classes", board.TotalClasses),
		fmt.Sprintf("%d students", board.TotalStudents),
		"", "", "", board.TotalStars, "",
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row+1), &totals); err != nil {
		return fmt.Errorf("failed to write totals: %v", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %v", err)
	}
	return nil
}
