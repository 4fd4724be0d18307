package store

import (
	"database/sql"
	"fmt"

	"github.com/gamepop/gamepop/internal/model"
)

type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(sessionID, stripeSessionID string, amountCents int64, currency string) (*model.Payment, error) {
	result, err := s.db.Exec(
		`INSERT INTO payments (session_id, stripe_session_id, amount_cents, currency, status)
		 VALUES (?, ?, ?, ?, 'pending')`,
		sessionID, stripeSessionID, amountCents, currency,
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *PaymentStore) GetByID(id int64) (*model.Payment, error) {
	row := s.db.QueryRow(selectPayment+` WHERE id = ?`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query payment: %w", err)
	}
	return p, nil
}

func (s *PaymentStore) GetByStripeSessionID(stripeSessionID string) (*model.Payment, error) {
	row := s.db.QueryRow(selectPayment+` WHERE stripe_session_id = ?`, stripeSessionID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query payment: %w", err)
	}
	return p, nil
}

// MarkCompleted records a successful checkout along with the payer's email
// as reported by Stripe.
func (s *PaymentStore) MarkCompleted(stripeSessionID string, payerEmail *string) error {
	var email sql.NullString
	if payerEmail != nil {
		email = sql.NullString{String: *payerEmail, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE payments SET status = 'completed', payer_email = ? WHERE stripe_session_id = ?`,
		email, stripeSessionID,
	)
	if err != nil {
		return fmt.Errorf("mark payment completed: %w", err)
	}
	return nil
}

// ListBySession returns payments for a session, newest first.
func (s *PaymentStore) ListBySession(sessionID string) ([]model.Payment, error) {
	rows, err := s.db.Query(selectPayment+` WHERE session_id = ? ORDER BY id DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

const selectPayment = `SELECT id, session_id, stripe_session_id, amount_cents, currency, payer_email, status, created_at
	 FROM payments`

func scanPayment(row rowScanner) (*model.Payment, error) {
	var p model.Payment
	var payerEmail sql.NullString

	err := row.Scan(&p.ID, &p.SessionID, &p.StripeSessionID, &p.AmountCents,
		&p.Currency, &payerEmail, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if payerEmail.Valid {
		p.PayerEmail = &payerEmail.String
	}

	return &p, nil
}
