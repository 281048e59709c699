package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes named columns of equal length. Column order follows the
// header slice.
func WriteCSV(w io.Writer, header []string, columns [][]float64) error {
	if len(header) != len(columns) {
		return fmt.Errorf("export: %d headers for %d columns", len(header), len(columns))
	}
	n := 0
	for i, col := range columns {
		if i == 0 {
			n = len(col)
		} else if len(col) != n {
			return fmt.Errorf("export: column %q has %d rows, expected %d", header[i], len(col), n)
		}
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for i := 0; i < n; i++ {
		for j := range columns {
			row[j] = strconv.FormatFloat(columns[j][i], 'g', 10, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
