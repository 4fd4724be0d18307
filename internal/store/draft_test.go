package store

import "testing"

func TestDraftSaveMergesFields(t *testing.T) {
	ds := NewDraftStore(openTestDB(t))

	if _, err := ds.Save("draft-1", map[string]string{"title": "Futsal", "venue": "Court 3"}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	d, err := ds.Save("draft-1", map[string]string{"venue": "Court 5", "time": "Sat 10:00"})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	fields, err := ds.Fields(d)
	if err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if fields["title"] != "Futsal" {
		t.Errorf("title = %q, want preserved value", fields["title"])
	}
	if fields["venue"] != "Court 5" {
		t.Errorf("venue = %q, want overwritten value", fields["venue"])
	}
	if fields["time"] != "Sat 10:00" {
		t.Errorf("time = %q, want new value", fields["time"])
	}
}

func TestDraftGetMissing(t *testing.T) {
	ds := NewDraftStore(openTestDB(t))

	d, err := ds.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d != nil {
		t.Error("expected nil for missing draft")
	}
}

func TestDraftDelete(t *testing.T) {
	ds := NewDraftStore(openTestDB(t))

	if _, err := ds.Save("draft-2", map[string]string{"title": "X"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ds.Delete("draft-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	d, err := ds.Get("draft-2")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if d != nil {
		t.Error("expected nil after delete")
	}
}
