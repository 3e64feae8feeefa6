package payment

import (
	"context"
	"database/sql"
	"time"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
)

// In-memory stand-ins for the repository layer. They implement only the
// narrow interfaces the payment package consumes and reproduce the
// relevant SQL semantics (ErrNoRows, status-guarded updates, the unique
// transaction_ref index).

type fakeCodeStore struct {
	codes      []model.PaymentCode
	nextID     uint64
	insertErrs []error
}

func (s *fakeCodeStore) FindActiveByUser(_ context.Context, userID uint64, now time.Time) (model.PaymentCode, error) {
	for _, c := range s.codes {
		if c.UserID == userID && c.Status == model.CodeStatusPending && c.ExpiresAt.After(now) {
			return c, nil
		}
	}
	return model.PaymentCode{}, sql.ErrNoRows
}

func (s *fakeCodeStore) FindRedeemable(_ context.Context, code string, now time.Time) (model.PaymentCode, error) {
	for _, c := range s.codes {
		if c.Code == code && c.Status == model.CodeStatusPending && c.ExpiresAt.After(now) {
			return c, nil
		}
	}
	return model.PaymentCode{}, sql.ErrNoRows
}

func (s *fakeCodeStore) Insert(_ context.Context, c *model.PaymentCode) error {
	if len(s.insertErrs) > 0 {
		err := s.insertErrs[0]
		s.insertErrs = s.insertErrs[1:]
		return err
	}
	for _, existing := range s.codes {
		if existing.Code == c.Code {
			return repository.ErrDuplicateCode
		}
	}
	s.nextID++
	c.ID = s.nextID
	s.codes = append(s.codes, *c)
	return nil
}

func (s *fakeCodeStore) MarkUsed(_ context.Context, id uint64, usedAt time.Time) error {
	for i := range s.codes {
		if s.codes[i].ID == id && s.codes[i].Status == model.CodeStatusPending {
			s.codes[i].Status = model.CodeStatusUsed
			s.codes[i].UsedAt = &usedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeLedgerStore struct {
	entries []model.PendingPayment
	nextID  uint64
}

func (s *fakeLedgerStore) ExpireAllForUser(_ context.Context, userID uint64) error {
	for i := range s.entries {
		if s.entries[i].UserID == userID && s.entries[i].Status == model.PendingStatusPending {
			s.entries[i].Status = model.PendingStatusExpired
		}
	}
	return nil
}

func (s *fakeLedgerStore) Insert(_ context.Context, p *model.PendingPayment) error {
	s.nextID++
	p.ID = s.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, *p)
	return nil
}

func (s *fakeLedgerStore) FindClaimable(_ context.Context, amount int64, windowStart time.Time) (model.PendingPayment, error) {
	best := -1
	for i, p := range s.entries {
		if p.Status != model.PendingStatusPending || p.Amount != amount || p.CreatedAt.Before(windowStart) {
			continue
		}
		if best == -1 || p.CreatedAt.After(s.entries[best].CreatedAt) {
			best = i
		}
	}
	if best == -1 {
		return model.PendingPayment{}, sql.ErrNoRows
	}
	return s.entries[best], nil
}

func (s *fakeLedgerStore) MarkCompleted(_ context.Context, id uint64, transactionRef string, completedAt time.Time) error {
	for i := range s.entries {
		if s.entries[i].ID == id && s.entries[i].Status == model.PendingStatusPending {
			s.entries[i].Status = model.PendingStatusCompleted
			s.entries[i].TransactionRef = &transactionRef
			s.entries[i].CompletedAt = &completedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeUserStore struct {
	users map[uint64]*model.User
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: map[uint64]*model.User{}}
	for i := range users {
		u := users[i]
		s.users[u.ID] = &u
	}
	return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return *u, nil
}

func (s *fakeUserStore) UpdateSubscription(_ context.Context, id uint64, sub model.Subscription) error {
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Subscription = sub
	return nil
}

func (s *fakeUserStore) DeactivateTrial(_ context.Context, id uint64) error {
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Trial.IsActive = false
	u.Trial.HasUsed = true
	return nil
}

type fakeAuditStore struct {
	rows []model.SmsLog
}

func (s *fakeAuditStore) ExistsByTransaction(_ context.Context, ref string) (bool, error) {
	for _, r := range s.rows {
		if r.TransactionRef != nil && *r.TransactionRef == ref {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAuditStore) Insert(_ context.Context, l *model.SmsLog) error {
	if l.TransactionRef != nil {
		for _, r := range s.rows {
			if r.TransactionRef != nil && *r.TransactionRef == *l.TransactionRef {
				return repository.ErrDuplicateTransaction
			}
		}
	}
	l.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, *l)
	return nil
}
