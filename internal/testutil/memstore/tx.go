package memstore

import (
	"context"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// TxRunner emula RunConversion: serializa transacciones y restaura el snapshot si fn falla.
type TxRunner struct{ s *Store }

// TxRunner construye el runner sobre el store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s} }

type snapshot struct {
	users         map[string]entity.User
	leads         map[string]entity.Lead
	companies     map[string]entity.Company
	contacts      map[string]entity.Contact
	interactions  map[string]entity.Interaction
	notifications map[string]*entity.Notification
}

func copyMap[T any](m map[string]*T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = *v
	}
	return out
}

func restoreMap[T any](m map[string]T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		v := v
		out[k] = &v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	notifs := make(map[string]*entity.Notification, len(s.notifications))
	for k, v := range s.notifications {
		notifs[k] = cloneNotification(v)
	}
	return snapshot{
		users:         copyMap(s.users),
		leads:         copyMap(s.leads),
		companies:     copyMap(s.companies),
		contacts:      copyMap(s.contacts),
		interactions:  copyMap(s.interactions),
		notifications: notifs,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = restoreMap(snap.users)
	s.leads = restoreMap(snap.leads)
	s.companies = restoreMap(snap.companies)
	s.contacts = restoreMap(snap.contacts)
	s.interactions = restoreMap(snap.interactions)
	s.notifications = snap.notifications
}

func (t *TxRunner) RunConversion(ctx context.Context, fn func(
	leadRepo repository.LeadRepository,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	interactionRepo repository.InteractionRepository,
) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(&LeadRepo{t.s}, &UserRepo{t.s}, &CompanyRepo{t.s}, &ContactRepo{t.s}, &InteractionRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return ctx.Err()
}
