package logparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Line grammar. Prefix matches are exact and case-sensitive.
const (
	markerPrefix          = "FLAMEGPU Console mode"
	initialStatesPrefix   = "Initial states: "
	outputDirPrefix       = "Output dir: "
	devicePrefix          = "Device "
	processingTimePrefix  = "Total Processing time: "
	instrumentationPrefix = "Instrumentation: "
	populationPrefix      = "agent_"
	populationMarker      = "_count:"
	unitSuffix            = " (ms)"
)

// Parser scans log files into FileRecords.
type Parser struct {
	// Strict makes a non-numeric measurement value fatal for the file.
	// When false, such values are dropped like malformed splits.
	Strict bool
}

// New returns a Parser with the default strict number policy.
func New() *Parser {
	return &Parser{Strict: true}
}

// Parse reads the file at path and accumulates a FileRecord from it.
// It returns *RejectedError if the file carries no FLAME GPU marker line,
// *MalformedNumberError for an unparseable measurement, or a wrapped I/O
// error if the file cannot be opened or read. The file handle is released
// on every return path.
func (p *Parser) Parse(path string) (*FileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	return p.ParseReader(path, f)
}

// ParseReader scans r line by line, tagging the resulting record with path.
func (p *Parser) ParseReader(path string, r io.Reader) (*FileRecord, error) {
	rec := newFileRecord(path)
	isLog := false

	scanner := bufio.NewScanner(r)
	// Instrumentation-heavy runs can emit long lines of free text
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if strings.HasPrefix(line, markerPrefix) {
			isLog = true
		}

		// Header fields: first match wins.
		if rest, ok := strings.CutPrefix(line, initialStatesPrefix); ok {
			rec.Header.InitialStates = &rest
		} else if rest, ok := strings.CutPrefix(line, outputDirPrefix); ok {
			rec.Header.OutputDir = &rest
		} else if rest, ok := strings.CutPrefix(line, devicePrefix); ok {
			rec.Header.DeviceString = &rest
		} else if rest, ok := strings.CutPrefix(line, processingTimePrefix); ok {
			value := strings.ReplaceAll(rest, unitSuffix, "")
			rec.Header.TotalProcessingTime = &value
		}

		if rest, ok := strings.CutPrefix(line, instrumentationPrefix); ok {
			if err := p.recordMeasurement(rec, path, line, rest); err != nil {
				return nil, err
			}
		}

		// Population counts are detected independently of the header
		// chain above; a line can be both tested as a header and as a
		// count.
		if strings.HasPrefix(line, populationPrefix) && strings.Contains(line, populationMarker) {
			if err := p.recordPopulation(rec, path, line); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file %s: %w", path, err)
	}

	if !isLog {
		return nil, &RejectedError{Path: path}
	}
	return rec, nil
}

// recordMeasurement handles an instrumentation line. rest is the line with
// the prefix already removed. A split that does not yield exactly two
// tokens is silently ignored; the grammar is a sparse extraction over free
// text.
func (p *Parser) recordMeasurement(rec *FileRecord, path, line, rest string) error {
	parts := strings.Split(strings.ReplaceAll(rest, unitSuffix, ""), " = ")
	if len(parts) != 2 {
		return nil
	}
	value, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		if !p.Strict {
			return nil
		}
		return &MalformedNumberError{Path: path, Line: line, Err: err}
	}
	rec.Instrumentation.Append(parts[0], value)
	return nil
}

// recordPopulation handles an agent count line, deriving the type/state
// label from the key and taking the last ": "-separated token as the count.
func (p *Parser) recordPopulation(rec *FileRecord, path, line string) error {
	parts := strings.Split(line, ": ")
	label := strings.TrimPrefix(parts[0], populationPrefix)
	label = strings.ReplaceAll(label, "_count", "")
	count, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		if !p.Strict {
			return nil
		}
		return &MalformedNumberError{Path: path, Line: line, Err: err}
	}
	rec.Population.Set(label, count)
	return nil
}
