package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Leaderboard"

var exportHeader = []any{"Rank", "Username", "User ID", "Video", "Video ID", "Score", "Likes", "Views"}

// ExportWorkbook writes every entry of the current version to an XLSX file.
func (s *LeaderboardService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	view, err := s.currentView(ctx, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for idx, e := range view.Entries {
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return nil, err
		}
		row := []any{e.Rank, e.Username, e.UserID, e.VideoTitle, e.VideoID, e.Score, e.Likes, e.Views}
		if err := f.SetSheetRow(exportSheet, axis, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", idx+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
