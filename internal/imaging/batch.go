package imaging

import "sync"

// NormalizeBatch normalizes many captures concurrently. It blocks until
// every image in the batch is done; results are collected in completion
// order, which callers must not rely on matching the submission order.
func (n *Normalizer) NormalizeBatch(batch [][]byte) [][]byte {
	if len(batch) == 0 {
		return nil
	}

	results := make(chan []byte, len(batch))
	var wg sync.WaitGroup
	for _, raw := range batch {
		wg.Add(1)
		go func(raw []byte) {
			defer wg.Done()
			results <- n.Normalize(raw)
		}(raw)
	}
	wg.Wait()
	close(results)

	out := make([][]byte, 0, len(batch))
	for encoded := range results {
		out = append(out, encoded)
	}
	return out
}
