package service_test

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/okian/watchkeep/internal/adapters/store"
	service "github.com/okian/watchkeep/internal/app"
	"github.com/okian/watchkeep/internal/domain/admission"
	"github.com/okian/watchkeep/pkg/logger"
)

func init() {
	_ = logger.Init()
	_ = logger.SetLevelString("error")
}

// fakeStore is an in-memory BlobStore with failure injection and call
// counting, standing in for the remote content store.
type fakeStore struct {
	mu    sync.Mutex
	files map[string][]byte
	shas  map[string]string
	rev   int

	failGet  map[string]bool
	failPut  bool
	failList bool
	// conflictNext makes the next N conditional writes lose, regardless of
	// the expected version.
	conflictNext int

	getCalls  int
	putCalls  int
	listCalls int
	putPaths  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		files:   make(map[string][]byte),
		shas:    make(map[string]string),
		failGet: make(map[string]bool),
	}
}

func (f *fakeStore) seed(p string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rev++
	f.files[p] = content
	f.shas[p] = fmt.Sprintf("v%d", f.rev)
}

func (f *fakeStore) Get(_ context.Context, p string) (store.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.failGet[p] {
		return store.File{}, fmt.Errorf("simulated fetch failure for %s", p)
	}
	content, ok := f.files[p]
	if !ok {
		return store.File{}, store.ErrNotFound
	}
	return store.File{Content: content, SHA: f.shas[p]}, nil
}

func (f *fakeStore) Put(_ context.Context, p string, content []byte, _, expectedSHA string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	f.putPaths = append(f.putPaths, p)
	if f.failPut {
		return "", fmt.Errorf("simulated write failure for %s", p)
	}
	if f.conflictNext > 0 {
		f.conflictNext--
		return "", store.ErrConflict
	}
	if expectedSHA != "" && expectedSHA != f.shas[p] {
		return "", store.ErrConflict
	}
	f.rev++
	f.files[p] = content
	f.shas[p] = fmt.Sprintf("v%d", f.rev)
	return f.shas[p], nil
}

func (f *fakeStore) List(_ context.Context, dir string) ([]store.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return nil, fmt.Errorf("simulated list failure for %s", dir)
	}
	var entries []store.Entry
	for p := range f.files {
		if path.Dir(p) == dir {
			entries = append(entries, store.Entry{Name: path.Base(p), Path: p, SHA: f.shas[p]})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (f *fakeStore) snapshotPuts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.putPaths {
		if p == "data/data.json" {
			n++
		}
	}
	return n
}

func (f *fakeStore) submissionPuts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.putPaths {
		if p != "data/data.json" {
			n++
		}
	}
	return n
}

func (f *fakeStore) content(p string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[p]
}

const testCSVHeader = "sleep_hours,rest_violations,ship_type,region,called_during_rest,port_intensity\n"

func validCSV() []byte {
	return []byte(testCSVHeader + "7,1,Tanker,Asia,Yes,High\n")
}

func submissionCSV(sleep, violations, shipType, region string) []byte {
	return []byte(testCSVHeader + fmt.Sprintf("%s,%s,%s,%s,Yes,High\n", sleep, violations, shipType, region))
}

// newTestService builds an unstarted service around a fake store and a fixed
// clock; tests drive Ingest and Recompute directly.
func newTestService(blob *fakeStore, at time.Time, opts ...service.Option) *service.Service {
	clock := func() time.Time { return at }
	base := []service.Option{
		service.WithBlobStore(blob),
		service.WithLimiter(admission.NewLimiter(admission.WithClock(clock))),
		service.WithLogger(logger.Get()),
		service.WithClock(clock),
	}
	return service.New(append(base, opts...)...)
}
