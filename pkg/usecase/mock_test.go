package usecase_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"

	"github.com/m-mizutani/airgrab/pkg/domain/interfaces"
	"github.com/m-mizutani/airgrab/pkg/domain/model"
)

// MockRecordSource is a mock implementation of RecordSource
type MockRecordSource struct {
	listRecordsFunc func(ctx context.Context, query model.RecordQuery, offset string) (*model.Page, error)

	mu      sync.Mutex
	offsets []string
}

func (m *MockRecordSource) ListRecords(ctx context.Context, query model.RecordQuery, offset string) (*model.Page, error) {
	m.mu.Lock()
	m.offsets = append(m.offsets, offset)
	m.mu.Unlock()

	if m.listRecordsFunc != nil {
		return m.listRecordsFunc(ctx, query, offset)
	}
	return nil, errors.New("mock not configured")
}

func (m *MockRecordSource) Offsets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.offsets...)
}

// pagedSource serves pages in order; the offset of page i is its index
func pagedSource(pages ...[]*model.Record) *MockRecordSource {
	return &MockRecordSource{
		listRecordsFunc: func(ctx context.Context, query model.RecordQuery, offset string) (*model.Page, error) {
			idx := 0
			if offset != "" {
				n, err := strconv.Atoi(offset)
				if err != nil {
					return nil, err
				}
				idx = n
			}
			if idx >= len(pages) {
				return nil, errors.New("offset out of range")
			}

			page := &model.Page{Records: pages[idx]}
			if idx+1 < len(pages) {
				page.Offset = strconv.Itoa(idx + 1)
			}
			return page, nil
		},
	}
}

func withAttachment(id, field, filename string) *model.Record {
	return &model.Record{
		ID: id,
		Fields: map[string]any{
			field: []any{
				map[string]any{"filename": filename, "url": "https://example.com/" + filename},
				map[string]any{"filename": "second-" + filename, "url": "https://example.com/second-" + filename},
			},
		},
	}
}

func withoutAttachment(id string) *model.Record {
	return &model.Record{ID: id, Fields: map[string]any{"Name": id}}
}

// MockDownloader is a mock implementation of Downloader
type MockDownloader struct {
	downloadFunc func(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error)
}

func (m *MockDownloader) Download(ctx context.Context, dst interfaces.Storage, filename, url string, onProgress interfaces.ProgressFunc) (string, int64, error) {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, dst, filename, url, onProgress)
	}
	return "", 0, errors.New("mock not configured")
}

// MockStorage keeps written files in memory
type MockStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *MockStorage) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = data
	return "mem://" + name, nil
}

func (m *MockStorage) Location() string { return "mem://" }

// MockRenderer records the bars it creates
type MockRenderer struct {
	mu      sync.Mutex
	bars    []*MockBar
	stopped int
}

func (m *MockRenderer) Create(filename string) interfaces.Bar {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := &MockBar{Filename: filename}
	m.bars = append(m.bars, b)
	return b
}

func (m *MockRenderer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
}

func (m *MockRenderer) Bars() []*MockBar {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockBar(nil), m.bars...)
}

func (m *MockRenderer) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type MockBar struct {
	Filename string

	mu        sync.Mutex
	updates   []float64
	completed bool
	failed    error
	retired   bool
}

func (b *MockBar) Update(p float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, p)
}

func (b *MockBar) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed = true
}

func (b *MockBar) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = err
}

func (b *MockBar) Retire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.retired = true
}

func (b *MockBar) State() (completed bool, failed error, retired bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed, b.failed, b.retired
}

// MockReporter records reported errors
type MockReporter struct {
	mu      sync.Mutex
	reports []map[string]string
	errs    []error
}

func (m *MockReporter) Report(ctx context.Context, err error, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
	m.reports = append(m.reports, tags)
}

func (m *MockReporter) Reports() []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]string(nil), m.reports...)
}

// recordingObserver collects gather callbacks
type recordingObserver struct {
	pages    int
	pageEnds int
	records  []string
}

func (o *recordingObserver) OnPage(*model.Page) { o.pages++ }

func (o *recordingObserver) OnRecord(r *model.Record) { o.records = append(o.records, r.ID) }

func (o *recordingObserver) OnPageEnd(*model.Page) { o.pageEnds++ }
