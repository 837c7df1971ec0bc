package workload

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/procsim/sim"
)

// ProcessFile is the YAML form of a process set.
type ProcessFile struct {
	Processes []sim.ProcessSpec `yaml:"processes"`
}

// LoadProcesses reads a process set from path. Files ending in .yaml or .yml are parsed as
// a ProcessFile, .csv files by ParseCSV; anything else uses the whitespace-separated text
// format read by ParseText.
func LoadProcesses(path string) ([]sim.ProcessSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading process file: %w", err)
	}
	var specs []sim.ProcessSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		specs, err = ParseYAML(data)
	case ".csv":
		specs, err = ParseCSV(bytes.NewReader(data))
	default:
		specs, err = ParseText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logrus.Infof("Loaded %d processes from %s", len(specs), path)
	return specs, nil
}

// maxPreallocatedSpecs bounds the capacity reserved from the text header's count.
const maxPreallocatedSpecs = 1024

// ParseText reads the text process format: a process count N followed by N records of
// `name arrival burst priority type`, separated by any whitespace. IDs are assigned 1..N.
// Type names are not checked here; the simulator rejects unknown ones.
func ParseText(r io.Reader) ([]sim.ProcessSpec, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("unexpected end of input reading %s", what)
		}
		return sc.Text(), nil
	}
	nextInt := func(what string) (int64, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s %q is not an integer", what, tok)
		}
		return v, nil
	}

	n, err := nextInt("process count")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("process count must be non-negative, got %d", n)
	}
	// The header is untrusted; the slice grows with the records actually read.
	specs := make([]sim.ProcessSpec, 0, min(n, maxPreallocatedSpecs))
	for i := int64(0); i < n; i++ {
		id := int(i + 1)
		name, err := next("name")
		if err != nil {
			return nil, fmt.Errorf("process %d: %w", id, err)
		}
		arrival, err := nextInt("arrival")
		if err != nil {
			return nil, fmt.Errorf("process %d: %w", id, err)
		}
		burst, err := nextInt("burst")
		if err != nil {
			return nil, fmt.Errorf("process %d: %w", id, err)
		}
		priority, err := nextInt("priority")
		if err != nil {
			return nil, fmt.Errorf("process %d: %w", id, err)
		}
		typ, err := next("type")
		if err != nil {
			return nil, fmt.Errorf("process %d: %w", id, err)
		}
		specs = append(specs, sim.ProcessSpec{
			ID:          id,
			Name:        name,
			ArrivalTime: arrival,
			BurstTime:   burst,
			Priority:    int(priority),
			Type:        typ,
		})
	}
	if sc.Scan() {
		logrus.Warnf("ignoring trailing input after %d processes, starting at %q", n, sc.Text())
	}
	return specs, nil
}

// ParseCSV reads rows of `id,burst,arrival[,priority[,type]]`. A first row whose id column
// is not an integer is treated as a header. Missing types default to batch and names to P<id>.
func ParseCSV(r io.Reader) ([]sim.ProcessSpec, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(rows) > 0 {
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][0])); err != nil {
			rows = rows[1:]
		}
	}

	specs := make([]sim.ProcessSpec, 0, len(rows))
	for i, row := range rows {
		line := i + 1
		if len(row) < 3 || len(row) > 5 {
			return nil, fmt.Errorf("row %d: want 3 to 5 columns, got %d", line, len(row))
		}
		ints := make([]int64, 0, 4)
		for col := 0; col < len(row) && col < 4; col++ {
			v, err := strconv.ParseInt(strings.TrimSpace(row[col]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %q is not an integer", line, col+1, row[col])
			}
			ints = append(ints, v)
		}
		spec := sim.ProcessSpec{
			ID:          int(ints[0]),
			Name:        fmt.Sprintf("P%d", ints[0]),
			BurstTime:   ints[1],
			ArrivalTime: ints[2],
			Type:        sim.TypeBatch.String(),
		}
		if len(ints) == 4 {
			spec.Priority = int(ints[3])
		}
		if len(row) == 5 {
			spec.Type = strings.TrimSpace(row[4])
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// ParseYAML decodes a ProcessFile with strict field checking.
// Processes without an id get their 1-based position.
func ParseYAML(data []byte) ([]sim.ProcessSpec, error) {
	var pf ProcessFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for i := range pf.Processes {
		if pf.Processes[i].ID == 0 {
			pf.Processes[i].ID = i + 1
		}
	}
	return pf.Processes, nil
}

// WriteYAML encodes specs as a ProcessFile.
func WriteYAML(w io.Writer, specs []sim.ProcessSpec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ProcessFile{Processes: specs}); err != nil {
		return fmt.Errorf("encoding processes: %w", err)
	}
	return enc.Close()
}
