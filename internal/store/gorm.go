package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ajglobal/staffverify/internal/models"
)

// GormStore persists the registry through gorm. Every write runs in a single
// transaction that locks the employee row where the dialect supports it.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

// NewGormStore constructs a GormStore. A non-positive timeout falls back to
// DefaultTimeout.
func NewGormStore(db *gorm.DB, timeout time.Duration) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("store: db is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GormStore{db: db, timeout: timeout, now: time.Now}, nil
}

func (s *GormStore) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ensureContext(ctx), s.timeout)
}

// Create inserts a new employee. The primary key constraint decides races
// between concurrent creates of the same id.
func (s *GormStore) Create(ctx context.Context, input CreateEmployeeInput) (emp *models.Employee, err error) {
	defer func() { observe("create", err) }()

	emp, err = input.build()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	if err = s.db.WithContext(ctx).Create(emp).Error; err != nil {
		return nil, classify(ctx, "create employee", err)
	}
	return emp, nil
}

// Get loads one employee.
func (s *GormStore) Get(ctx context.Context, id string) (emp *models.Employee, err error) {
	defer func() { observe("get", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	var record models.Employee
	if err = s.db.WithContext(ctx).First(&record, "employee_id = ?", key).Error; err != nil {
		return nil, classify(ctx, "get employee", err)
	}
	return &record, nil
}

// List returns every employee ordered by id.
func (s *GormStore) List(ctx context.Context) (employees []models.Employee, err error) {
	defer func() { observe("list", err) }()

	ctx, cancel := s.begin(ctx)
	defer cancel()

	if err = s.db.WithContext(ctx).Order("employee_id ASC").Find(&employees).Error; err != nil {
		return nil, classify(ctx, "list employees", err)
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return employees, nil
}

// Update merges the supplied fields into the stored employee.
func (s *GormStore) Update(ctx context.Context, id string, input UpdateEmployeeInput) (emp *models.Employee, err error) {
	defer func() { observe("update", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if err = input.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	var record models.Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEmployee(tx, key, &record); err != nil {
			return err
		}
		input.apply(&record)
		record.UpdatedAt = s.now()
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, classify(ctx, "update employee", err)
	}
	return &record, nil
}

// Delete removes the employee together with its driver and document rows.
func (s *GormStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()

	key, err := requireID(id)
	if err != nil {
		return err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.Employee
		if err := lockEmployee(tx, key, &record); err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", key).Delete(&models.DriverAddendum{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", key).Delete(&models.DocumentChecklist{}).Error; err != nil {
			return err
		}
		return tx.Where("employee_id = ?", key).Delete(&models.Employee{}).Error
	})
	return classify(ctx, "delete employee", err)
}

// UpsertDriver replaces the driver addendum of an existing employee.
func (s *GormStore) UpsertDriver(ctx context.Context, id string, input DriverInput) (driver *models.DriverAddendum, err error) {
	defer func() { observe("upsert_driver", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	driver = input.build(key, s.now())
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.Employee
		if err := lockEmployee(tx, key, &parent); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			UpdateAll: true,
		}).Create(driver).Error
	})
	if err != nil {
		return nil, classify(ctx, "upsert driver", err)
	}
	return driver, nil
}

// GetDriver loads the driver addendum of an employee.
func (s *GormStore) GetDriver(ctx context.Context, id string) (driver *models.DriverAddendum, err error) {
	defer func() { observe("get_driver", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	var record models.DriverAddendum
	if err = s.db.WithContext(ctx).First(&record, "employee_id = ?", key).Error; err != nil {
		return nil, classify(ctx, "get driver", err)
	}
	return &record, nil
}

// UpsertDocuments replaces the document checklist of an existing employee.
func (s *GormStore) UpsertDocuments(ctx context.Context, id string, input DocumentsInput) (docs *models.DocumentChecklist, err error) {
	defer func() { observe("upsert_documents", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	docs = input.build(key, s.now())
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.Employee
		if err := lockEmployee(tx, key, &parent); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			UpdateAll: true,
		}).Create(docs).Error
	})
	if err != nil {
		return nil, classify(ctx, "upsert documents", err)
	}
	return docs, nil
}

// GetDocuments loads the document checklist of an employee.
func (s *GormStore) GetDocuments(ctx context.Context, id string) (docs *models.DocumentChecklist, err error) {
	defer func() { observe("get_documents", err) }()

	key, err := requireID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.begin(ctx)
	defer cancel()

	var record models.DocumentChecklist
	if err = s.db.WithContext(ctx).First(&record, "employee_id = ?", key).Error; err != nil {
		return nil, classify(ctx, "get documents", err)
	}
	return &record, nil
}

// Ping checks that the underlying database answers within the store timeout.
func (s *GormStore) Ping(ctx context.Context) error {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return classify(ctx, "ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ErrStoreUnavailable.WithInternal(err)
	}
	return nil
}

// lockEmployee loads the employee row inside tx, holding a row lock on
// dialects that support SELECT ... FOR UPDATE.
func lockEmployee(tx *gorm.DB, id string, dest *models.Employee) error {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(dest, "employee_id = ?", id).Error
}
