package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mithrel/gridspike/pkg/api"
)

type memStore struct {
	mu     sync.RWMutex
	byName map[string]memDataset
}

type memDataset struct {
	ds   api.Dataset
	info api.DatasetInfo
}

func newMemStore() *memStore {
	return &memStore{byName: make(map[string]memDataset)}
}

func (m *memStore) PutDataset(ctx context.Context, ds api.Dataset) (api.DatasetInfo, error) {
	name := strings.TrimSpace(ds.Schema.Name)
	if name == "" {
		return api.DatasetInfo{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	info := api.DatasetInfo{
		Name:       name,
		Source:     ds.Source,
		Checksum:   ds.Checksum,
		RowCount:   len(ds.Rows),
		ImportedAt: time.Now().UTC().UnixMilli(),
	}
	cp := ds
	cp.Rows = append([]api.Row(nil), ds.Rows...)
	m.mu.Lock()
	m.byName[name] = memDataset{ds: cp, info: info}
	m.mu.Unlock()
	return info, nil
}

func (m *memStore) LoadDataset(ctx context.Context, name string) (api.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byName[name]
	if !ok {
		return api.Dataset{}, ErrNotFound
	}
	out := d.ds
	out.Rows = append([]api.Row(nil), d.ds.Rows...)
	return out, nil
}

func (m *memStore) ListDatasets(ctx context.Context) ([]api.DatasetInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]api.DatasetInfo, 0, len(m.byName))
	for _, d := range m.byName {
		out = append(out, d.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) DeleteDataset(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[name]; !ok {
		return ErrNotFound
	}
	delete(m.byName, name)
	return nil
}
