package sqlite

import (
	"context"
	"testing"
)

func TestVisitAddAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	angela := createTestUser(t, db, "Angela", "teal")
	jack := createTestUser(t, db, "Jack", "powderblue")

	for _, code := range []string{"FR", "ES"} {
		if err := db.Add(ctx, angela.ID, code); err != nil {
			t.Fatalf("Add(%s) error = %v", code, err)
		}
	}
	if err := db.Add(ctx, jack.ID, "JP"); err != nil {
		t.Fatalf("Add(JP) error = %v", err)
	}

	codes, err := db.ListCodes(ctx, angela.ID)
	if err != nil {
		t.Fatalf("ListCodes() error = %v", err)
	}
	if len(codes) != 2 || codes[0] != "ES" || codes[1] != "FR" {
		t.Errorf("ListCodes(angela) = %v, want [ES FR]", codes)
	}

	codes, err = db.ListCodes(ctx, jack.ID)
	if err != nil {
		t.Fatalf("ListCodes() error = %v", err)
	}
	if len(codes) != 1 || codes[0] != "JP" {
		t.Errorf("ListCodes(jack) = %v, want [JP]", codes)
	}
}

func TestVisitListCodes_NoVisits(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "Angela", "teal")

	codes, err := db.ListCodes(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("ListCodes() error = %v", err)
	}
	if codes == nil || len(codes) != 0 {
		t.Errorf("ListCodes() = %#v, want empty slice", codes)
	}
}

func TestVisitExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "Angela", "teal")

	exists, err := db.Exists(ctx, u.ID, "ES")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true before Add")
	}

	if err := db.Add(ctx, u.ID, "ES"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	exists, err = db.Exists(ctx, u.ID, "ES")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after Add")
	}
}

func TestVisitAdd_UnknownUserFails(t *testing.T) {
	db := newTestDB(t)

	// foreign_keys=ON rejects a visit for a user that does not exist
	if err := db.Add(context.Background(), 404, "ES"); err == nil {
		t.Error("Add() for unknown user should have failed")
	}
}

func TestVisitAdd_UnknownCountryFails(t *testing.T) {
	db := newTestDB(t)
	u := createTestUser(t, db, "Angela", "teal")

	if err := db.Add(context.Background(), u.ID, "XX"); err == nil {
		t.Error("Add() for unknown country should have failed")
	}
}
