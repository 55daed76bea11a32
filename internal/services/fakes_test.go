package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/models"
)

var pngSignature = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x01}, 32)...)

// memStore backs ItemStore and Ledger with the same conditional-decrement
// rule the Mongo ledger applies inside its transaction.
type memStore struct {
	mu      sync.Mutex
	items   map[string]models.SupplyItem
	pickups []models.SupplyPickup

	beforeCommit func()
	failCommit   error
}

func newMemStore(items ...models.SupplyItem) *memStore {
	m := &memStore{items: map[string]models.SupplyItem{}}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *memStore) item(id string) models.SupplyItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

func (m *memStore) pickupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pickups)
}

func (m *memStore) ListItems(context.Context) ([]models.SupplyItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SupplyItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetItem(_ context.Context, id string) (*models.SupplyItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("supply item %s not found", id)
	}
	return &it, nil
}

func (m *memStore) CreateItem(_ context.Context, item *models.SupplyItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; ok {
		return apperr.Validation(apperr.CodeInvalidInput, "supply item %q already exists", item.ID)
	}
	m.items[item.ID] = *item
	return nil
}

func (m *memStore) SetItemQuantity(_ context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return apperr.NotFound("supply item %s not found", id)
	}
	it.AvailableQuantity = qty
	m.items[id] = it
	return nil
}

func (m *memStore) CountItems(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memStore) Commit(_ context.Context, pickups []models.SupplyPickup) (map[string]int, error) {
	if m.beforeCommit != nil {
		m.beforeCommit()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCommit != nil {
		return nil, m.failCommit
	}
	for _, p := range pickups {
		it, ok := m.items[p.SupplyItemID]
		if !ok {
			return nil, apperr.ItemNotFound(p.SupplyItemID)
		}
		if it.AvailableQuantity < p.Quantity {
			return nil, apperr.InsufficientStock(it.Name, p.Quantity, it.AvailableQuantity)
		}
	}
	remaining := map[string]int{}
	for _, p := range pickups {
		it := m.items[p.SupplyItemID]
		it.AvailableQuantity -= p.Quantity
		m.items[p.SupplyItemID] = it
		remaining[p.SupplyItemID] = it.AvailableQuantity
	}
	m.pickups = append(m.pickups, pickups...)
	return remaining, nil
}

func (m *memStore) List(_ context.Context, issuedBy string) ([]models.SupplyPickup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SupplyPickup
	for i := len(m.pickups) - 1; i >= 0; i-- {
		if issuedBy == "" || m.pickups[i].IssuedBy == issuedBy {
			out = append(out, m.pickups[i])
		}
	}
	return out, nil
}

type memBlobs struct {
	mu      sync.Mutex
	uploads map[string][]byte
	types   map[string]string
	err     error
}

func (b *memBlobs) UploadFile(_ context.Context, body io.Reader, key, contentType string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploads == nil {
		b.uploads = map[string][]byte{}
		b.types = map[string]string{}
	}
	b.uploads[key] = data
	b.types[key] = contentType
	return "https://blobs.test/" + key, nil
}

func (b *memBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.uploads)
}

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) Broadcast(eventType string, _ interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, eventType)
}

var errBoom = errors.New("boom")
