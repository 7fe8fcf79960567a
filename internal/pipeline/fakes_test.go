package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
	"github.com/aocampo/invoicer/internal/storage"
)

// memState is an in-memory stand-in for the record store, shared by the
// per-entity fakes so rollback effects are observable across them.
type memState struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]model.Invoice
	files    map[uuid.UUID]model.File
	services map[uuid.UUID]model.Service
	billTos  map[uuid.UUID]model.BillTo
	globals  []model.GlobalConfig
}

func newMemState() *memState {
	return &memState{
		invoices: make(map[uuid.UUID]model.Invoice),
		files:    make(map[uuid.UUID]model.File),
		services: make(map[uuid.UUID]model.Service),
		billTos:  make(map[uuid.UUID]model.BillTo),
	}
}

type fakeInvoiceStore struct{ state *memState }

func (s *fakeInvoiceStore) Create(_ context.Context, invoice *model.Invoice) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now().UTC()
	}
	s.state.invoices[invoice.ID] = *invoice
	return nil
}

func (s *fakeInvoiceStore) Get(_ context.Context, id, userID uuid.UUID) (*model.Invoice, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	invoice, ok := s.state.invoices[id]
	if !ok || invoice.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

func (s *fakeInvoiceStore) GetByNumber(_ context.Context, number int, customerID, userID uuid.UUID) (*model.Invoice, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for _, invoice := range s.state.invoices {
		if invoice.Number == number && invoice.CustomerID == customerID && invoice.UserID == userID {
			found := invoice
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeInvoiceStore) Patch(_ context.Context, id, userID uuid.UUID, updates map[string]interface{}) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	invoice, ok := s.state.invoices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["with_taxes"]; ok {
		invoice.WithTaxes = v.(bool)
	}
	if v, ok := updates["with_tables"]; ok {
		invoice.WithTables = v.(bool)
	}
	if v, ok := updates["created_at"]; ok {
		invoice.CreatedAt = v.(time.Time)
	}
	s.state.invoices[id] = invoice
	return nil
}

func (s *fakeInvoiceStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	delete(s.state.invoices, id)
	return nil
}

type fakeFileStore struct{ state *memState }

func (s *fakeFileStore) Create(_ context.Context, file *model.File) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	s.state.files[file.ID] = *file
	return nil
}

func (s *fakeFileStore) Get(_ context.Context, id, userID uuid.UUID) (*model.File, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	file, ok := s.state.files[id]
	if !ok || file.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &file, nil
}

func (s *fakeFileStore) PatchDocumentKey(_ context.Context, id, userID uuid.UUID, documentKey string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	file, ok := s.state.files[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	file.DocumentKey = &documentKey
	s.state.files[id] = file
	return nil
}

func (s *fakeFileStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	delete(s.state.files, id)
	return nil
}

type fakeServiceStore struct{ state *memState }

func (s *fakeServiceStore) Create(_ context.Context, service *model.Service) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	s.state.services[service.ID] = *service
	return nil
}

func (s *fakeServiceStore) ListByFile(_ context.Context, fileID, userID uuid.UUID) ([]model.Service, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	var services []model.Service
	for _, service := range s.state.services {
		if service.FileID == fileID && service.UserID == userID {
			services = append(services, service)
		}
	}
	return services, nil
}

func (s *fakeServiceStore) DeleteByFile(_ context.Context, fileID, userID uuid.UUID) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for id, service := range s.state.services {
		if service.FileID == fileID {
			delete(s.state.services, id)
		}
	}
	return nil
}

type fakeBillToStore struct{ state *memState }

func (s *fakeBillToStore) Get(_ context.Context, id, userID uuid.UUID) (*model.BillTo, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	billTo, ok := s.state.billTos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &billTo, nil
}

type fakeGlobalStore struct{ state *memState }

func (s *fakeGlobalStore) List(_ context.Context, userID uuid.UUID) ([]model.GlobalConfig, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.globals, nil
}

// memStorage is an in-memory object store.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var errObjectNotFound = errors.New("object not found")

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Put(_ context.Context, key string, r io.Reader, _ storage.PutObjectOptions) (storage.ObjectInfo, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = content
	return storage.ObjectInfo{Key: key, Size: int64(len(content))}, nil
}

func (m *memStorage) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, errObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), storage.ObjectInfo{Key: key, Size: int64(len(content))}, nil
}

func (m *memStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.objects, key)
	}
	return nil
}

func (m *memStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.example/" + key, nil
}
