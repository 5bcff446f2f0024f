package export

import (
	"encoding/csv"
	"io"
)

func writeCSV(out io.Writer, rows [][]string) error {
	w := csv.NewWriter(out)

	if err := w.Write(Columns); err != nil {
		return err
	}
	for _, rec := range rows {
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
