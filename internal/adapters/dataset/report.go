package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sekka-transit/sekka/internal/domain/types"
)

// reportHeader covers both success and failure rows; unused cells stay
// empty.
var reportHeader = []string{"route_id", "mae", "rmse", "train_rows", "test_rows", "error"} //nolint:gochecknoglobals // fixed schema

// WriteReport writes the training report CSV to path, one row per route.
func WriteReport(path string, rows []types.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := WriteReportTo(f, rows); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync report: %w", err)
	}
	return nil
}

// WriteReportTo writes the report rows to w.
func WriteReportTo(w io.Writer, rows []types.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(reportHeader))
		record[0] = row.RouteID
		if row.Failed() {
			record[5] = row.Err
		} else {
			record[1] = strconv.FormatFloat(row.MAE, 'f', 6, 64)
			record[2] = strconv.FormatFloat(row.RMSE, 'f', 6, 64)
			record[3] = strconv.Itoa(row.TrainRows)
			record[4] = strconv.Itoa(row.TestRows)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
