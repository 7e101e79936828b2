// Package trace loads and writes per-core I/O completion logs.
//
// Each core writes one CSV file: a header line followed by "ioTime,timestamp"
// integer rows, ioTime in nanoseconds. A run loads every requested core and
// merges the rows into one sim.Trace ordered by timestamp.
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inference-sim/pollsim/sim"
)

// ErrTraceNotFound reports a missing per-core log.
var ErrTraceNotFound = errors.New("trace file not found")

// Header is the header line written by WriteCoreLog.
var Header = []string{"io_time_ns", "timestamp"}

// CoreLogPath returns the log path for one core inside dir.
func CoreLogPath(dir string, core int) string {
	return filepath.Join(dir, fmt.Sprintf("simulator_log_%d.csv", core))
}

// ReadCoreLog parses one log. The first line is a header and is ignored;
// blank lines are skipped. Events are returned in file order.
func ReadCoreLog(r io.Reader) ([]sim.IOEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("reading header: missing header line")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var events []sim.IOEvent
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		ev, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseRow(row []string) (sim.IOEvent, error) {
	if len(row) != 2 {
		return sim.IOEvent{}, fmt.Errorf("expected ioTime,timestamp, got %d fields", len(row))
	}
	ioTime, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return sim.IOEvent{}, fmt.Errorf("parsing io time: %w", err)
	}
	if ioTime < 0 {
		return sim.IOEvent{}, fmt.Errorf("io time must be non-negative, got %d", ioTime)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
	if err != nil {
		return sim.IOEvent{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return sim.IOEvent{IOTime: ioTime, Timestamp: ts}, nil
}

// LoadCoreLog reads the log at path.
func LoadCoreLog(path string) ([]sim.IOEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTraceNotFound, path)
		}
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer func() { _ = file.Close() }()

	events, err := ReadCoreLog(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// LoadFolder loads the logs of cores from dir, concatenates them in the
// given core order and stable-sorts the result by timestamp. Any missing
// or malformed log fails the whole load.
func LoadFolder(dir string, cores []int) (sim.Trace, error) {
	if len(cores) == 0 {
		return nil, fmt.Errorf("at least one core required")
	}
	var all []sim.IOEvent
	for _, core := range cores {
		events, err := LoadCoreLog(CoreLogPath(dir, core))
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	trace := sim.Trace(all)
	trace.Sort()
	return trace, nil
}

// WriteCoreLog writes events in the format ReadCoreLog reads.
func WriteCoreLog(w io.Writer, events []sim.IOEvent) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, e := range events {
		row := []string{strconv.FormatInt(e.IOTime, 10), strconv.FormatInt(e.Timestamp, 10)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCoreLog writes events to path, creating or truncating it.
func SaveCoreLog(path string, events []sim.IOEvent) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := WriteCoreLog(file, events); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
