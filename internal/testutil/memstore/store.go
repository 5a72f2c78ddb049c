// Package memstore implementa en memoria todos los repositorios de dominio para los tests
// de casos de uso y handlers. Incluye un TxRunner con snapshot/rollback e inyección de fallos.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// ErrInjected error por defecto de Fail.
var ErrInjected = errors.New("memstore: fallo inyectado")

// Store datos compartidos por todos los repos en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users         map[string]*entity.User
	leads         map[string]*entity.Lead
	companies     map[string]*entity.Company
	contacts      map[string]*entity.Contact
	interactions  map[string]*entity.Interaction
	notifications map[string]*entity.Notification

	failures map[string]error
	seq      int64
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:         map[string]*entity.User{},
		leads:         map[string]*entity.Lead{},
		companies:     map[string]*entity.Company{},
		contacts:      map[string]*entity.Contact{},
		interactions:  map[string]*entity.Interaction{},
		notifications: map[string]*entity.Notification{},
		failures:      map[string]error{},
	}
}

// Fail hace que la operación `op` (p.ej. "company.create" o "interaction.pending:<leadID>") falle con err.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	s.failures[op] = err
}

// ClearFailures quita todos los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]error{}
}

// check se llama con s.mu tomado.
func (s *Store) check(op, id string) error {
	if err, ok := s.failures[op]; ok {
		return err
	}
	if err, ok := s.failures[op+":"+id]; ok {
		return err
	}
	return nil
}

// tick devuelve un instante estrictamente creciente para desempatar órdenes por created_at.
func (s *Store) tick(t time.Time) time.Time {
	s.seq++
	if t.IsZero() {
		return time.Unix(0, 0).Add(time.Duration(s.seq) * time.Millisecond)
	}
	return t
}

// ── Seed y lectura directa para aserciones ──────────────────────────────────

// AddUser inserta un usuario sin validaciones.
func (s *Store) AddUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.users[u.ID] = &c
}

// AddLead inserta un lead sin validaciones.
func (s *Store) AddLead(l *entity.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *l
	s.leads[l.ID] = &c
}

// AddInteraction inserta una interacción sin validaciones.
func (s *Store) AddInteraction(it *entity.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *it
	s.interactions[it.ID] = &c
}

// AddCompany inserta una empresa sin validaciones.
func (s *Store) AddCompany(co *entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *co
	s.companies[co.ID] = &c
}

// AddNotification inserta una notificación sin validaciones.
func (s *Store) AddNotification(n *entity.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = cloneNotification(n)
}

// Lead copia del lead o nil.
func (s *Store) Lead(id string) *entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.leads[id]; ok {
		c := *l
		return &c
	}
	return nil
}

// Counts número de filas por tabla.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"users":         len(s.users),
		"leads":         len(s.leads),
		"companies":     len(s.companies),
		"contacts":      len(s.contacts),
		"interactions":  len(s.interactions),
		"notifications": len(s.notifications),
	}
}

// Companies copia de todas las empresas.
func (s *Store) Companies() []*entity.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Company, 0, len(s.companies))
	for _, c := range s.companies {
		cp := *c
		out = append(out, &cp)
	}
	return out
}

// Notifications copia de las notificaciones de userID, más nuevas primero.
func (s *Store) Notifications(userID string) []*entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ── Repos ───────────────────────────────────────────────────────────────────

// Repos devuelve todos los repositorios sobre el store.
func (s *Store) Repos() (*LeadRepo, *InteractionRepo, *ContactRepo, *UserRepo, *CompanyRepo, *NotificationRepo) {
	return &LeadRepo{s}, &InteractionRepo{s}, &ContactRepo{s}, &UserRepo{s}, &CompanyRepo{s}, &NotificationRepo{s}
}

var (
	_ repository.LeadRepository         = (*LeadRepo)(nil)
	_ repository.InteractionRepository  = (*InteractionRepo)(nil)
	_ repository.ContactRepository      = (*ContactRepo)(nil)
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.CompanyRepository      = (*CompanyRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
	_ repository.PipelineRepository     = (*PipelineRepo)(nil)
)

// LeadRepo LeadRepository en memoria.
type LeadRepo struct{ s *Store }

func (r *LeadRepo) Create(_ context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("lead.create", l.ID); err != nil {
		return err
	}
	if l.AssignedToID != nil {
		if _, ok := r.s.users[*l.AssignedToID]; !ok {
			return domain.ErrInvalidInput
		}
	}
	l.CreatedAt = r.s.tick(l.CreatedAt)
	c := *l
	r.s.leads[l.ID] = &c
	return nil
}

func (r *LeadRepo) GetByID(_ context.Context, id string) (*entity.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("lead.get", id); err != nil {
		return nil, err
	}
	l, ok := r.s.leads[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

// GetForUpdate el bloqueo de fila lo emula el TxRunner serializando transacciones.
func (r *LeadRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lead, error) {
	return r.GetByID(ctx, id)
}

func (r *LeadRepo) List(_ context.Context, f repository.LeadFilter, limit, offset int) ([]*entity.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("lead.list", ""); err != nil {
		return nil, err
	}
	var out []*entity.Lead
	for _, l := range r.s.leads {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Priority != "" && l.Priority != f.Priority {
			continue
		}
		if f.AssignedTo != "" && (l.AssignedToID == nil || *l.AssignedToID != f.AssignedTo) {
			continue
		}
		if f.Source != "" && l.Source != f.Source {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(l.CompanyName), strings.ToLower(f.Search)) {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *LeadRepo) Update(_ context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("lead.update", l.ID); err != nil {
		return err
	}
	if _, ok := r.s.leads[l.ID]; !ok {
		return domain.ErrNotFound
	}
	if l.AssignedToID != nil {
		if _, ok := r.s.users[*l.AssignedToID]; !ok {
			return domain.ErrInvalidInput
		}
	}
	c := *l
	r.s.leads[l.ID] = &c
	return nil
}

func (r *LeadRepo) MarkConverted(_ context.Context, id, companyID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("lead.mark_converted", id); err != nil {
		return err
	}
	l, ok := r.s.leads[id]
	if !ok || l.IsConverted() {
		return domain.ErrConflict
	}
	cid := companyID
	ts := at
	l.Status = entity.LeadStatusWon
	l.ConvertedToCompanyID = &cid
	l.ConvertedAt = &ts
	l.UpdatedAt = at
	return nil
}

func (r *LeadRepo) ListAssignedWithRecent(_ context.Context, userID string, recent int) ([]*entity.LeadWithActivity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("lead.list_assigned", userID); err != nil {
		return nil, err
	}
	var out []*entity.LeadWithActivity
	for _, l := range r.s.leads {
		if l.AssignedToID == nil || *l.AssignedToID != userID {
			continue
		}
		var its []entity.Interaction
		for _, it := range r.s.interactions {
			if it.LeadID != nil && *it.LeadID == l.ID {
				its = append(its, *it)
			}
		}
		sort.SliceStable(its, func(i, j int) bool { return its[i].CreatedAt.After(its[j].CreatedAt) })
		if len(its) > recent {
			its = its[:recent]
		}
		out = append(out, &entity.LeadWithActivity{Lead: *l, RecentInteractions: its})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// InteractionRepo InteractionRepository en memoria.
type InteractionRepo struct{ s *Store }

func (r *InteractionRepo) Create(_ context.Context, it *entity.Interaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("interaction.create", it.ID); err != nil {
		return err
	}
	it.CreatedAt = r.s.tick(it.CreatedAt)
	c := *it
	r.s.interactions[it.ID] = &c
	return nil
}

func (r *InteractionRepo) GetByID(_ context.Context, id string) (*entity.Interaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.interactions[id]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}

func (r *InteractionRepo) GetDetail(_ context.Context, id string) (*entity.InteractionDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.interactions[id]
	if !ok {
		return nil, nil
	}
	return r.s.detail(it), nil
}

// ownedBy lead asignado a userID o empresa gestionada por userID. Requiere s.mu tomado.
func (s *Store) ownedBy(leadID, companyID *string, userID string) bool {
	if leadID != nil {
		if l, ok := s.leads[*leadID]; ok && l.AssignedToID != nil && *l.AssignedToID == userID {
			return true
		}
	}
	if companyID != nil {
		if co, ok := s.companies[*companyID]; ok && co.AccountManagerID != nil && *co.AccountManagerID == userID {
			return true
		}
	}
	return false
}

func (s *Store) detail(it *entity.Interaction) *entity.InteractionDetail {
	d := &entity.InteractionDetail{Interaction: *it}
	if it.ContactID != nil {
		if c, ok := s.contacts[*it.ContactID]; ok {
			cp := *c
			d.Contact = &cp
		}
	}
	if u, ok := s.users[it.CreatedByID]; ok {
		d.Author = u.Summary()
	}
	return d
}

func (r *InteractionRepo) List(_ context.Context, f repository.InteractionFilter, limit, offset int) ([]*entity.InteractionDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("interaction.list", f.LeadID); err != nil {
		return nil, err
	}
	var out []*entity.InteractionDetail
	for _, it := range r.s.interactions {
		if f.LeadID != "" && (it.LeadID == nil || *it.LeadID != f.LeadID) {
			continue
		}
		if f.CompanyID != "" && (it.CompanyID == nil || *it.CompanyID != f.CompanyID) {
			continue
		}
		if f.ContactID != "" && (it.ContactID == nil || *it.ContactID != f.ContactID) {
			continue
		}
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if f.VisibleTo != "" && !r.s.ownedBy(it.LeadID, it.CompanyID, f.VisibleTo) {
			continue
		}
		out = append(out, r.s.detail(it))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *InteractionRepo) UpdateFollowUp(_ context.Context, it *entity.Interaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.interactions[it.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Outcome = it.Outcome
	cur.NextAction = it.NextAction
	cur.NextActionDate = it.NextActionDate
	cur.NextActionCompleted = it.NextActionCompleted
	cur.UpdatedAt = it.UpdatedAt
	return nil
}

func (r *InteractionRepo) MarkActionCompleted(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.interactions[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.NextActionCompleted = true
	it.UpdatedAt = at
	return nil
}

func (r *InteractionRepo) ListPendingActions(_ context.Context, leadID string, before time.Time) ([]*entity.Interaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("interaction.pending", leadID); err != nil {
		return nil, err
	}
	var out []*entity.Interaction
	for _, it := range r.s.interactions {
		if it.LeadID == nil || *it.LeadID != leadID {
			continue
		}
		if it.NextAction == "" || it.NextActionCompleted || it.NextActionDate == nil || !it.NextActionDate.Before(before) {
			continue
		}
		c := *it
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextActionDate.Before(*out[j].NextActionDate) })
	return out, nil
}

func (r *InteractionRepo) ReparentToCompany(_ context.Context, leadID, companyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("interaction.reparent", leadID); err != nil {
		return 0, err
	}
	var n int64
	for _, it := range r.s.interactions {
		if it.LeadID != nil && *it.LeadID == leadID {
			cid := companyID
			it.LeadID = nil
			it.CompanyID = &cid
			n++
		}
	}
	return n, nil
}

// ContactRepo ContactRepository en memoria.
type ContactRepo struct{ s *Store }

func (r *ContactRepo) Create(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("contact.create", c.ID); err != nil {
		return err
	}
	c.CreatedAt = r.s.tick(c.CreatedAt)
	cp := *c
	r.s.contacts[c.ID] = &cp
	return nil
}

func (r *ContactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contacts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ContactRepo) List(_ context.Context, f repository.ContactFilter, limit, offset int) ([]*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Contact
	for _, c := range r.s.contacts {
		if f.LeadID != "" && (c.LeadID == nil || *c.LeadID != f.LeadID) {
			continue
		}
		if f.CompanyID != "" && (c.CompanyID == nil || *c.CompanyID != f.CompanyID) {
			continue
		}
		if f.VisibleTo != "" && !r.s.ownedBy(c.LeadID, c.CompanyID, f.VisibleTo) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, offset), nil
}

func (r *ContactRepo) ReparentToCompany(_ context.Context, leadID, companyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("contact.reparent", leadID); err != nil {
		return 0, err
	}
	var n int64
	for _, c := range r.s.contacts {
		if c.LeadID != nil && *c.LeadID == leadID {
			cid := companyID
			c.LeadID = nil
			c.CompanyID = &cid
			n++
		}
	}
	return n, nil
}

// UserRepo UserRepository en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("user.create", u.ID); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) SetCompany(_ context.Context, userID, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("user.set_company", userID); err != nil {
		return err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	cid := companyID
	u.CompanyID = &cid
	return nil
}

func (r *UserRepo) ListAll(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if !u.IsActive {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

// CompanyRepo CompanyRepository en memoria.
type CompanyRepo struct{ s *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("company.create", c.ID); err != nil {
		return err
	}
	if c.SourceLeadID != nil {
		for _, existing := range r.s.companies {
			if existing.SourceLeadID != nil && *existing.SourceLeadID == *c.SourceLeadID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) ListByAccountManager(_ context.Context, managerID string) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("company.list_by_manager", managerID); err != nil {
		return nil, err
	}
	var out []*entity.Company
	for _, c := range r.s.companies {
		if c.AccountManagerID != nil && *c.AccountManagerID == managerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// NotificationRepo NotificationRepository en memoria.
type NotificationRepo struct{ s *Store }

func cloneNotification(n *entity.Notification) *entity.Notification {
	c := *n
	if n.Metadata != nil {
		c.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("notification.create", n.UserID); err != nil {
		return err
	}
	r.s.notifications[n.ID] = cloneNotification(n)
	return nil
}

func (r *NotificationRepo) CreateIfAbsent(_ context.Context, n *entity.Notification, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	leadID := ""
	if n.LeadID != nil {
		leadID = *n.LeadID
	}
	if err := r.s.check("notification.create", leadID); err != nil {
		return false, err
	}
	for _, e := range r.s.notifications {
		eLead := ""
		if e.LeadID != nil {
			eLead = *e.LeadID
		}
		if e.UserID == n.UserID && eLead == leadID && e.Type == n.Type && e.Title == n.Title && !e.CreatedAt.Before(since) {
			return false, nil
		}
	}
	r.s.notifications[n.ID] = cloneNotification(n)
	return true, nil
}

func (r *NotificationRepo) ListByUser(_ context.Context, userID string, f entity.NotificationFilter, limit, offset int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID != userID {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		if f.HighPriority && n.Priority != entity.NotificationHigh {
			continue
		}
		out = append(out, cloneNotification(n))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, x := range r.s.notifications {
		if x.UserID == userID && !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	if !n.IsRead {
		ts := at
		n.IsRead = true
		n.ReadAt = &ts
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, userID string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			ts := at
			n.IsRead = true
			n.ReadAt = &ts
			count++
		}
	}
	return count, nil
}

// PipelineRepo PipelineRepository en memoria.
type PipelineRepo struct{ s *Store }

// Pipeline repositorio del dashboard.
func (s *Store) Pipeline() *PipelineRepo { return &PipelineRepo{s} }

func assignedMatch(l *entity.Lead, assignedTo string) bool {
	return assignedTo == "" || (l.AssignedToID != nil && *l.AssignedToID == assignedTo)
}

func (r *PipelineRepo) CountByStatus(_ context.Context, assignedTo string) ([]repository.StatusCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check("pipeline.count", assignedTo); err != nil {
		return nil, err
	}
	counts := map[entity.LeadStatus]int{}
	for _, l := range r.s.leads {
		if assignedMatch(l, assignedTo) {
			counts[l.Status]++
		}
	}
	out := make([]repository.StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, repository.StatusCount{Status: st, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *PipelineRepo) OpenPipelineValue(_ context.Context, assignedTo string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, l := range r.s.leads {
		if assignedMatch(l, assignedTo) && !l.Status.IsTerminal() {
			total = total.Add(l.EstimatedValue)
		}
	}
	return total, nil
}

func (r *PipelineRepo) CountOverdueActions(_ context.Context, assignedTo string, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, it := range r.s.interactions {
		if it.LeadID == nil {
			continue
		}
		l, ok := r.s.leads[*it.LeadID]
		if !ok || !assignedMatch(l, assignedTo) {
			continue
		}
		if it.IsOverdue(now) {
			n++
		}
	}
	return n, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
