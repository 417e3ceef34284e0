package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/event"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/migrations"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	StoreID      = "store-test"
	OtherStoreID = "store-other"
	UserID       = "user-test"
)

var dbCounter atomic.Int64

// NewDB opens an isolated in-memory SQLite database with the schema
// applied. The pool is pinned to one connection so the in-memory database
// lives as long as the test.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:inventory_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbCounter.Add(1))
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

type PartSeed struct {
	SKU          string
	Category     string
	InStock      int
	Committed    int
	OnOrder      int
	MinThreshold int
}

func SeedPart(t *testing.T, db *sqlx.DB, storeID, name string, seed PartSeed) *model.Part {
	t.Helper()

	now := time.Now().UTC()
	p := &model.Part{
		ID:           uuid.New().String(),
		StoreID:      storeID,
		Name:         name,
		Category:     seed.Category,
		Unit:         "pcs",
		InStock:      seed.InStock,
		Committed:    seed.Committed,
		OnOrder:      seed.OnOrder,
		MinThreshold: seed.MinThreshold,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if seed.SKU != "" {
		sku := seed.SKU
		p.SKU = &sku
	}

	_, err := db.NamedExec(`
        INSERT INTO parts (id, store_id, sku, name, category, unit, in_stock, committed, on_order, min_threshold, created_by, created_at, updated_at)
        VALUES (:id, :store_id, :sku, :name, :category, :unit, :in_stock, :committed, :on_order, :min_threshold, :created_by, :created_at, :updated_at)
    `, p)
	if err != nil {
		t.Fatalf("Failed to seed part %q: %v", name, err)
	}
	return p
}

func SeedSupplier(t *testing.T, db *sqlx.DB, storeID, name string) *model.Supplier {
	t.Helper()

	now := time.Now().UTC()
	s := &model.Supplier{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.NamedExec(`
        INSERT INTO suppliers (id, store_id, name, email, phone, address, notes, created_by, created_at, updated_at)
        VALUES (:id, :store_id, :name, :email, :phone, :address, :notes, :created_by, :created_at, :updated_at)
    `, s)
	if err != nil {
		t.Fatalf("Failed to seed supplier %q: %v", name, err)
	}
	return s
}

// InStock reads a part's in_stock straight from the table.
func InStock(t *testing.T, db *sqlx.DB, partID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, db.Rebind(`SELECT in_stock FROM parts WHERE id = ?`), partID); err != nil {
		t.Fatalf("Failed to read in_stock of %s: %v", partID, err)
	}
	return n
}

// OnOrder reads a part's on_order straight from the table.
func OnOrder(t *testing.T, db *sqlx.DB, partID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, db.Rebind(`SELECT on_order FROM parts WHERE id = ?`), partID); err != nil {
		t.Fatalf("Failed to read on_order of %s: %v", partID, err)
	}
	return n
}

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.Err
}

func (p *RecordingPublisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Event, len(p.events))
	copy(out, p.events)
	return out
}
