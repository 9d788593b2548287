package vbi

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/sounkou-bioinfo/vbi/internal/vcf"
)

// workItem is one record id to materialize, tagged with its slot in the
// output slice.
type workItem struct {
	seq int
	id  int64
}

// MaterializeParallel materializes ids across a pool of workers, each holding
// its own read cursor on the source file. The shared index is read-only, so
// only the readers are duplicated. Rows come back in the order of ids, with
// the same per-record failure tolerance as a single session: a record that
// cannot be re-read yields a sentinel row, never an error.
// If workers is 0, runtime.NumCPU() is used.
func MaterializeParallel(srcPath string, ix *Index, ids []int64, flags Flags, workers int, logger *zap.Logger) ([]Row, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(ids) {
		workers = len(ids)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(ids) == 0 {
		return nil, nil
	}

	mats := make([]*Materializer, 0, workers)
	readers := make([]*vcf.Reader, 0, workers)
	closeAll := func() {
		for _, r := range readers {
			r.Close()
		}
	}
	for i := 0; i < workers; i++ {
		rdr, err := vcf.Open(srcPath, 1)
		if err != nil {
			closeAll()
			return nil, err
		}
		readers = append(readers, rdr)
		m := NewMaterializer(rdr, ix)
		m.SetLogger(logger)
		mats = append(mats, m)
	}
	defer closeAll()

	items := make(chan workItem, 2*workers)
	out := make([]Row, len(ids))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(m *Materializer) {
			defer wg.Done()
			for item := range items {
				// Each seq is written by exactly one worker.
				out[item.seq] = m.row(item.id, flags)
			}
		}(mats[w])
	}

	for seq, id := range ids {
		items <- workItem{seq: seq, id: id}
	}
	close(items)
	wg.Wait()

	return out, nil
}
