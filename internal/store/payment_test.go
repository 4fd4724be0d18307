package store

import "testing"

func TestPaymentCreateAndComplete(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	ps := NewPaymentStore(db)

	p, err := ps.Create(sessionID, "cs_test_123", 1500, "gbp")
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if p.Status != "pending" {
		t.Errorf("status = %q, want pending", p.Status)
	}

	if err := ps.MarkCompleted("cs_test_123", strp("payer@example.com")); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := ps.GetByStripeSessionID("cs_test_123")
	if err != nil {
		t.Fatalf("get by stripe session id: %v", err)
	}
	if got == nil || got.Status != "completed" {
		t.Fatalf("got %+v, want completed payment", got)
	}
	if got.PayerEmail == nil || *got.PayerEmail != "payer@example.com" {
		t.Errorf("payer_email = %v, want payer@example.com", got.PayerEmail)
	}
}

func TestPaymentDuplicateStripeSessionRejected(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	ps := NewPaymentStore(db)

	if _, err := ps.Create(sessionID, "cs_test_dup", 1000, "gbp"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := ps.Create(sessionID, "cs_test_dup", 1000, "gbp"); err == nil {
		t.Error("expected error for duplicate stripe session id")
	}
}

func TestPaymentListBySession(t *testing.T) {
	db := openTestDB(t)
	sessionID := seedSession(t, NewSessionStore(db))
	ps := NewPaymentStore(db)

	ps.Create(sessionID, "cs_1", 1000, "gbp")
	ps.Create(sessionID, "cs_2", 1500, "gbp")

	payments, err := ps.ListBySession(sessionID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(payments))
	}
	if payments[0].StripeSessionID != "cs_2" {
		t.Errorf("first payment = %q, want newest first", payments[0].StripeSessionID)
	}
}
