package ledger

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/finvex/remitagent/logging"
)

// InMemory is the DSN for a private in-memory ledger, useful for tests and
// dry runs.
const InMemory = ":memory:"

// Options configures a Ledger.
type Options struct {
	// Logger receives store/analyze progress entries. Defaults to NoOp.
	Logger logging.Logger
}

// Ledger wraps the relational reconciliation database.
type Ledger struct {
	db     *gorm.DB
	logger *logging.ServiceLogger
}

// Open opens (creating if needed) the ledger database at path and migrates
// the schema. An empty path opens a private in-memory database.
func Open(path string, optFns ...func(o *Options)) (*Ledger, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	if path == "" {
		path = InMemory
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	if path == InMemory {
		// A private in-memory database exists per connection; keep the pool
		// at one so every query sees the same data.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Customer{}, &Facility{}, &Invoice{}, &Payment{}, &PaymentAllocation{}); err != nil {
		return nil, fmt.Errorf("migrate ledger schema: %w", err)
	}

	return &Ledger{
		db:     db,
		logger: logging.NewServiceLogger(opts.Logger).WithComponent("ledger"),
	}, nil
}

// DB exposes the underlying gorm handle for callers that need ad hoc queries.
func (l *Ledger) DB() *gorm.DB { return l.db }

// Close releases the database connection.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AddCustomer registers a customer, updating the name if it already exists.
func (l *Ledger) AddCustomer(c Customer) error {
	return l.db.Save(&c).Error
}

// AddInvoice registers an AR invoice, creating the facility record on first
// sight of its facility id.
func (l *Ledger) AddInvoice(inv Invoice, facilityID string) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if inv.InternalFacilityID == "" {
			var fac Facility
			err := tx.Where("facility_id = ? AND customer_id = ?", facilityID, inv.CustomerID).Take(&fac).Error
			switch {
			case err == nil:
				inv.InternalFacilityID = fac.InternalFacilityID
			case errors.Is(err, gorm.ErrRecordNotFound):
				fac = Facility{
					InternalFacilityID: uuid.NewString(),
					FacilityID:         facilityID,
					FacilityType:       inv.FacilityType,
					CustomerID:         inv.CustomerID,
				}
				if err := tx.Create(&fac).Error; err != nil {
					return err
				}
				inv.InternalFacilityID = fac.InternalFacilityID
			default:
				return err
			}
		}
		if inv.InvoiceID == "" {
			inv.InvoiceID = fmt.Sprintf("INV-%s", uuid.NewString())
		}
		return tx.Save(&inv).Error
	})
}
