package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ajglobal/staffverify/internal/models"
)

// MemoryStore keeps the registry in process memory. Writers are serialised by
// a single mutex and every returned record is a copy.
type MemoryStore struct {
	mu        sync.RWMutex
	employees map[string]models.Employee
	drivers   map[string]models.DriverAddendum
	documents map[string]models.DocumentChecklist
	now       func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore. A nil clock uses time.Now.
func NewMemoryStore(clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		employees: make(map[string]models.Employee),
		drivers:   make(map[string]models.DriverAddendum),
		documents: make(map[string]models.DocumentChecklist),
		now:       clock,
	}
}

func checkContext(ctx context.Context) error {
	if err := ensureContext(ctx).Err(); err != nil {
		return ErrStoreUnavailable.WithInternal(err)
	}
	return nil
}

// Create inserts a new employee.
func (s *MemoryStore) Create(ctx context.Context, input CreateEmployeeInput) (emp *models.Employee, err error) {
	defer func() { observe("create", err) }()

	record, err := input.build()
	if err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.employees[record.ID]; exists {
		return nil, ErrDuplicateID
	}
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.employees[record.ID] = *record

	cpy := *record
	return &cpy, nil
}

// Get loads one employee.
func (s *MemoryStore) Get(ctx context.Context, id string) (emp *models.Employee, err error) {
	defer func() { observe("get", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.employees[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

// List returns every employee ordered by id.
func (s *MemoryStore) List(ctx context.Context) (employees []models.Employee, err error) {
	defer func() { observe("list", err) }()

	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	employees = make([]models.Employee, 0, len(s.employees))
	for _, record := range s.employees {
		employees = append(employees, record)
	}
	s.mu.RUnlock()

	sort.Slice(employees, func(i, j int) bool {
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}

// Update merges the supplied fields into the stored employee.
func (s *MemoryStore) Update(ctx context.Context, id string, input UpdateEmployeeInput) (emp *models.Employee, err error) {
	defer func() { observe("update", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if err = input.validate(); err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.employees[key]
	if !ok {
		return nil, ErrNotFound
	}
	input.apply(&record)
	record.UpdatedAt = s.now()
	s.employees[key] = record

	return &record, nil
}

// Delete removes the employee together with its driver and document rows.
func (s *MemoryStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()

	key, err := requireID(id)
	if err != nil {
		return err
	}
	if err = checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[key]; !ok {
		return ErrNotFound
	}
	delete(s.drivers, key)
	delete(s.documents, key)
	delete(s.employees, key)
	return nil
}

// UpsertDriver replaces the driver addendum of an existing employee.
func (s *MemoryStore) UpsertDriver(ctx context.Context, id string, input DriverInput) (driver *models.DriverAddendum, err error) {
	defer func() { observe("upsert_driver", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[key]; !ok {
		return nil, ErrNotFound
	}
	record := input.build(key, s.now())
	s.drivers[key] = *record
	return record, nil
}

// GetDriver loads the driver addendum of an employee.
func (s *MemoryStore) GetDriver(ctx context.Context, id string) (driver *models.DriverAddendum, err error) {
	defer func() { observe("get_driver", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.drivers[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

// UpsertDocuments replaces the document checklist of an existing employee.
func (s *MemoryStore) UpsertDocuments(ctx context.Context, id string, input DocumentsInput) (docs *models.DocumentChecklist, err error) {
	defer func() { observe("upsert_documents", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[key]; !ok {
		return nil, ErrNotFound
	}
	record := input.build(key, s.now())
	s.documents[key] = *record
	return record, nil
}

// GetDocuments loads the document checklist of an employee.
func (s *MemoryStore) GetDocuments(ctx context.Context, id string) (docs *models.DocumentChecklist, err error) {
	defer func() { observe("get_documents", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if err = checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.documents[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

// Ping always succeeds unless the context is already done.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return checkContext(ctx)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
