package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/storage"
)

func testAddress(id core.ID, number, street, streetType, locality, postcode string) *core.AddressRecord {
	fields := []core.Field{
		{Type: core.FieldTypeNumber, Text: number},
		{Type: core.FieldTypeStreetName, Text: street},
		{Type: core.FieldTypeStreetType, Text: streetType},
		{Type: core.FieldTypeLocality, Text: locality},
		{Type: core.FieldTypeRegion, Text: "VIC"},
		{Type: core.FieldTypePostcode, Text: postcode},
	}
	return &core.AddressRecord{
		Id:      id,
		Fields:  fields,
		Display: core.DisplayFromFields(fields),
	}
}

func TestAddressRecordBasics(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		recordRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	// Test adding an address record
	record := testAddress(0, "12", "Smith", "Street", "Springvale", "3171")

	added, err := recordRepo.PutRecords(ctx, record)
	if err != nil {
		t.Fatalf("Failed to put address record: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(added))
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	// Test retrieving the record
	retrieved, err := recordRepo.GetRecord(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get address record: %v", err)
	}

	if retrieved.Display != record.Display {
		t.Fatalf("Expected '%s', got '%s'", record.Display, retrieved.Display)
	}
	if len(retrieved.Fields) != len(record.Fields) {
		t.Fatalf("Expected %d fields, got %d", len(record.Fields), len(retrieved.Fields))
	}
}

func TestPutRecords_ContentIDs(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { recordRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Putting the same address twice yields the same content ID
	first, err := recordRepo.PutRecords(ctx, testAddress(0, "1", "High", "Street", "Kew", "3101"))
	if err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}
	second, err := recordRepo.PutRecords(ctx, testAddress(0, "1", "High", "Street", "Kew", "3101"))
	if err != nil {
		t.Fatalf("Failed to put record again: %v", err)
	}

	if first[0].Id != second[0].Id {
		t.Fatalf("Expected identical content IDs, got %d and %d", first[0].Id, second[0].Id)
	}

	count, err := recordRepo.CountRecords(ctx)
	if err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 record after duplicate put, got %d", count)
	}

	// Explicit IDs are kept as-is
	explicit, err := recordRepo.PutRecords(ctx, testAddress(42, "7", "Chapel", "Road", "Prahran", "3181"))
	if err != nil {
		t.Fatalf("Failed to put record with explicit ID: %v", err)
	}
	if explicit[0].Id != 42 {
		t.Fatalf("Expected ID 42, got %d", explicit[0].Id)
	}
}

func TestDeleteRecords(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { recordRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Add records
	added, err := recordRepo.PutRecords(ctx,
		testAddress(0, "12", "Smith", "Street", "Springvale", "3171"),
		testAddress(0, "14", "Smith", "Street", "Springvale", "3171"),
	)
	if err != nil {
		t.Fatalf("Failed to put records: %v", err)
	}

	// Delete first record
	err = recordRepo.DeleteRecords(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to delete record: %v", err)
	}

	// Verify it's deleted
	_, err = recordRepo.GetRecord(ctx, added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for deleted record, got %v", err)
	}

	// Verify second record still exists
	retrieved, err := recordRepo.GetRecord(ctx, added[1].Id)
	if err != nil {
		t.Fatalf("Failed to get remaining record: %v", err)
	}
	if retrieved.Display != added[1].Display {
		t.Fatalf("Expected '%s', got '%s'", added[1].Display, retrieved.Display)
	}

	// Deleting an unknown ID reports ErrNotFound
	err = recordRepo.DeleteRecords(ctx, 99999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unknown ID, got %v", err)
	}
}

func TestGetRecords_Multiple(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { recordRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Add records
	added, err := recordRepo.PutRecords(ctx,
		testAddress(0, "12", "Smith", "Street", "Springvale", "3171"),
		testAddress(0, "1", "High", "Street", "Kew", "3101"),
		testAddress(0, "7", "Chapel", "Road", "Prahran", "3181"),
	)
	if err != nil {
		t.Fatalf("Failed to put records: %v", err)
	}

	// Missing IDs are skipped without error
	retrieved, err := recordRepo.GetRecords(ctx, added[0].Id, 99999, added[2].Id)
	if err != nil {
		t.Fatalf("Failed to get records: %v", err)
	}

	if len(retrieved) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(retrieved))
	}
}

func TestCountRecords(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { recordRepo.Close(); backend.Close() }()

	ctx := context.Background()

	count, err := recordRepo.CountRecords(ctx)
	if err != nil {
		t.Fatalf("Failed to count empty store: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected 0 records, got %d", count)
	}

	added, err := recordRepo.PutRecords(ctx,
		testAddress(0, "12", "Smith", "Street", "Springvale", "3171"),
		testAddress(0, "1", "High", "Street", "Kew", "3101"),
		testAddress(0, "7", "Chapel", "Road", "Prahran", "3181"),
	)
	if err != nil {
		t.Fatalf("Failed to put records: %v", err)
	}

	count, err = recordRepo.CountRecords(ctx)
	if err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected 3 records, got %d", count)
	}

	if err := recordRepo.DeleteRecords(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete record: %v", err)
	}

	count, err = recordRepo.CountRecords(ctx)
	if err != nil {
		t.Fatalf("Failed to count records after delete: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 records, got %d", count)
	}
}

func TestForEachRecord_IDOrder(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { recordRepo.Close(); backend.Close() }()

	ctx := context.Background()

	// Insert out of ID order
	_, err = recordRepo.PutRecords(ctx,
		testAddress(30, "12", "Smith", "Street", "Springvale", "3171"),
		testAddress(10, "1", "High", "Street", "Kew", "3101"),
		testAddress(20, "7", "Chapel", "Road", "Prahran", "3181"),
	)
	if err != nil {
		t.Fatalf("Failed to put records: %v", err)
	}

	var visited []core.ID
	err = recordRepo.ForEachRecord(ctx, func(record *core.AddressRecord) error {
		visited = append(visited, record.Id)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to iterate records: %v", err)
	}

	want := []core.ID{10, 20, 30}
	if len(visited) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(visited))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("Expected ID %d at position %d, got %d", want[i], i, visited[i])
		}
	}
}

func TestForEachRecord_StopsOnError(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { recordRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = recordRepo.PutRecords(ctx,
		testAddress(1, "12", "Smith", "Street", "Springvale", "3171"),
		testAddress(2, "1", "High", "Street", "Kew", "3101"),
	)
	if err != nil {
		t.Fatalf("Failed to put records: %v", err)
	}

	stop := errors.New("stop iteration")
	seen := 0
	err = recordRepo.ForEachRecord(ctx, func(record *core.AddressRecord) error {
		seen++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Expected stop error, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("Expected iteration to stop after 1 record, saw %d", seen)
	}

	// Cancelled context ends iteration
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err = recordRepo.ForEachRecord(cancelled, func(record *core.AddressRecord) error {
		t.Fatal("Callback should not run with cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}
