package analysis

const (
	singleBatchLimit = 50
	smallBatchLimit  = 500
	smallBatchSize   = 50
	largeBatchSize   = 100
)

// BatchSize is the chunk size used for n keywords.
func BatchSize(n int) int {
	switch {
	case n <= singleBatchLimit:
		return max(n, 1)
	case n <= smallBatchLimit:
		return smallBatchSize
	default:
		return largeBatchSize
	}
}

// Split chunks keywords in order; the last batch may be short.
func Split(keywords []string) [][]string {
	if len(keywords) == 0 {
		return nil
	}
	size := BatchSize(len(keywords))
	out := make([][]string, 0, (len(keywords)+size-1)/size)
	for start := 0; start < len(keywords); start += size {
		end := min(start+size, len(keywords))
		out = append(out, keywords[start:end])
	}
	return out
}
