package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the trace's segments as CSV rows with a header line.
func WriteCSV(w io.Writer, st *SimulationTrace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"policy", "kind", "start", "end", "process_id", "name", "level", "completed"}); err != nil {
		return fmt.Errorf("writing timeline header: %w", err)
	}
	for _, s := range st.Segments {
		rec := []string{
			st.Policy,
			string(s.Kind),
			strconv.FormatInt(s.Start, 10),
			strconv.FormatInt(s.End, 10),
			strconv.Itoa(s.ProcessID),
			s.Name,
			strconv.Itoa(s.Level),
			strconv.FormatBool(s.Completed),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing timeline row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
