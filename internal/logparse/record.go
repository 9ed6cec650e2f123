// Package logparse scans FLAME GPU console logs and accumulates their
// instrumentation into per-file records. A log is a free-form text file;
// the parser recognizes a small fixed grammar inside it (header fields,
// repeated instrumentation measurements, agent population counts) and
// ignores everything else.
package logparse

// Header holds the fixed header fields a log may carry. A nil pointer means
// the field never appeared in the file, which is distinct from an empty
// value.
type Header struct {
	InitialStates       *string
	OutputDir           *string
	DeviceString        *string
	TotalProcessingTime *string
}

// SeriesMap is an insertion-ordered mapping from metric name to the ordered
// measurements recorded under that name. Iteration order over Keys matches
// the order metrics were first seen in the file.
type SeriesMap struct {
	keys   []string
	series map[string][]float64
}

// NewSeriesMap returns an empty SeriesMap.
func NewSeriesMap() *SeriesMap {
	return &SeriesMap{series: make(map[string][]float64)}
}

// Append adds one measurement to the named series, registering the name on
// first use.
func (m *SeriesMap) Append(name string, value float64) {
	if _, ok := m.series[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.series[name] = append(m.series[name], value)
}

// Keys returns the metric names in first-seen order.
func (m *SeriesMap) Keys() []string {
	return m.keys
}

// Series returns the measurements recorded under name, in file order.
func (m *SeriesMap) Series(name string) []float64 {
	return m.series[name]
}

// Len returns the number of distinct metrics.
func (m *SeriesMap) Len() int {
	return len(m.keys)
}

// MaxLen returns the length of the longest series, or 0 when the map is
// empty.
func (m *SeriesMap) MaxLen() int {
	max := 0
	for _, s := range m.series {
		if len(s) > max {
			max = len(s)
		}
	}
	return max
}

// CountMap is an insertion-ordered mapping from agent type/state label to
// its population count. Setting an existing label overwrites the count but
// keeps the label's original position.
type CountMap struct {
	keys   []string
	counts map[string]int
}

// NewCountMap returns an empty CountMap.
func NewCountMap() *CountMap {
	return &CountMap{counts: make(map[string]int)}
}

// Set records the count for a label. The last value wins.
func (m *CountMap) Set(label string, count int) {
	if _, ok := m.counts[label]; !ok {
		m.keys = append(m.keys, label)
	}
	m.counts[label] = count
}

// Keys returns the labels in first-seen order.
func (m *CountMap) Keys() []string {
	return m.keys
}

// Count returns the recorded count for label.
func (m *CountMap) Count(label string) int {
	return m.counts[label]
}

// Len returns the number of labels.
func (m *CountMap) Len() int {
	return len(m.keys)
}

// FileRecord is the accumulated result of parsing one log file. It is
// populated in a single linear scan and not mutated afterward.
type FileRecord struct {
	// Source is the path the record was parsed from.
	Source string

	// Header carries the fixed header fields, where present.
	Header Header

	// Instrumentation maps each metric to its measurement series, one
	// entry appended per occurrence in the file.
	Instrumentation *SeriesMap

	// Population maps each agent type/state label to its last-seen count.
	Population *CountMap
}

func newFileRecord(source string) *FileRecord {
	return &FileRecord{
		Source:          source,
		Instrumentation: NewSeriesMap(),
		Population:      NewCountMap(),
	}
}
