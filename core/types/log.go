package types

import "github.com/subnatant/ethcore/common"

// Log is supplied by the external executor (spec.md §3, "Log"). The
// engine never interprets a log's contents — only its bloom
// contribution.
type Log interface {
	// Bloomables returns the byte strings (typically the emitting
	// address and each topic) folded into a receipt's bloom filter.
	Bloomables() [][]byte
}

// LogsBloom folds every log's bloomables into a single accumulated
// bloom filter (spec.md invariant 5, §4.3).
func LogsBloom(logs []Log) common.Bloom {
	var b common.Bloom
	for _, l := range logs {
		for _, item := range l.Bloomables() {
			b.Add(item)
		}
	}
	return b
}
