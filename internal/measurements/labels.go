package measurements

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MetricLabel turns a metric column key into an axis label:
// "chunk_throughput" becomes "Chunk Throughput (MB/s)" and "write_time"
// becomes "Write Time (s)".
func MetricLabel(key string) string {
	label := cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
	switch {
	case strings.Contains(label, "Throughput"):
		label += " (MB/s)"
	case strings.Contains(label, "Time"):
		label += " (s)"
	}
	return label
}

// GraphFileName is the file a metric's chart is saved under. It keeps the raw key.
func GraphFileName(key string) string {
	return "graph_" + key + ".png"
}
