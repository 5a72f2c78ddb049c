package leads

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/testutil/memstore"
)

var (
	fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	admin    = entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	gestor1  = entity.Actor{UserID: "u-am1", Role: entity.RoleAccountManager}
	gestor2  = entity.Actor{UserID: "u-am2", Role: "ACCOUNT_MANAGER"}
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeNotifier) NotifyConversion(context.Context, *entity.Lead, *entity.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

type fakePDF struct{ got *dto.LeadResponse }

func (f *fakePDF) GenerateLeadReport(_ context.Context, l *dto.LeadResponse) ([]byte, error) {
	f.got = l
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	store    *memstore.Store
	uc       *UseCase
	notifier *fakeNotifier
	pdf      *fakePDF
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	store.AddUser(&entity.User{ID: "u-admin", Email: "admin@example.com", Name: "Admin", Role: entity.RoleAdmin, IsActive: true})
	store.AddUser(&entity.User{ID: "u-am1", Email: "am1@example.com", Name: "Gestor Uno", Role: entity.RoleAccountManager, IsActive: true})
	store.AddUser(&entity.User{ID: "u-am2", Email: "am2@example.com", Name: "Gestor Dos", Role: entity.RoleAccountManager, IsActive: true})

	leadRepo, interactionRepo, contactRepo, userRepo, _, _ := store.Repos()
	notifier := &fakeNotifier{}
	pdf := &fakePDF{}
	uc := NewUseCase(leadRepo, contactRepo, interactionRepo, userRepo, store.TxRunner(), notifier, pdf, zerolog.Nop())
	uc.now = func() time.Time { return fixedNow }
	uc.bcryptCost = bcrypt.MinCost
	return &fixture{store: store, uc: uc, notifier: notifier, pdf: pdf}
}

func (f *fixture) createLead(t *testing.T, actor entity.Actor, name string) *dto.LeadResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), actor, dto.CreateLeadRequest{
		CompanyName:    name,
		Sector:         "retail",
		Source:         "website",
		Priority:       "high",
		EstimatedValue: decimal.RequireFromString("15000.456"),
	})
	require.NoError(t, err)
	return out
}

func strPtr(s string) *string { return &s }

func TestCreate_GestorQuedaAsignadoASiMismo(t *testing.T) {
	f := newFixture(t)
	out := f.createLead(t, gestor1, "Acme SAS")

	assert.Equal(t, string(entity.LeadStatusNew), out.Status)
	assert.Equal(t, "WEBSITE", out.Source)
	assert.Equal(t, "HIGH", out.Priority)
	assert.True(t, decimal.RequireFromString("15000.46").Equal(out.EstimatedValue))
	require.NotNil(t, out.AssignedToID)
	assert.Equal(t, "u-am1", *out.AssignedToID)
	require.NotNil(t, out.AssignedTo)
	assert.Equal(t, "Gestor Uno", out.AssignedTo.Name)
	assert.Empty(t, out.RecentInteractions)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []struct {
		name string
		in   dto.CreateLeadRequest
	}{
		{"sin nombre", dto.CreateLeadRequest{CompanyName: "  ", Source: "WEBSITE", Priority: "LOW"}},
		{"source inválido", dto.CreateLeadRequest{CompanyName: "X", Source: "TV", Priority: "LOW"}},
		{"priority inválida", dto.CreateLeadRequest{CompanyName: "X", Source: "WEBSITE", Priority: "URGENT"}},
		{"valor negativo", dto.CreateLeadRequest{CompanyName: "X", Source: "WEBSITE", Priority: "LOW", EstimatedValue: decimal.NewFromInt(-1)}},
		{"asignado inexistente", dto.CreateLeadRequest{CompanyName: "X", Source: "WEBSITE", Priority: "LOW", AssignedToID: strPtr("nadie")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, admin, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, f.store.Counts()["leads"])
}

func TestCreate_GestorNoPuedeAsignarAOtro(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), gestor1, dto.CreateLeadRequest{
		CompanyName: "X", Source: "WEBSITE", Priority: "LOW", AssignedToID: strPtr("u-am2"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_GestorSoloVeLoAsignado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createLead(t, gestor1, "Acme")
	f.createLead(t, gestor2, "Globex")
	_, err := f.uc.Create(ctx, admin, dto.CreateLeadRequest{CompanyName: "Initech", Source: "REFERRAL", Priority: "LOW"})
	require.NoError(t, err)

	mine, err := f.uc.List(ctx, gestor1, dto.LeadListQuery{AssignedTo: "u-am2"})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "Acme", mine.Items[0].CompanyName)

	all, err := f.uc.List(ctx, admin, dto.LeadListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, dto.DefaultPageLimit, all.Page.Limit)

	search, err := f.uc.List(ctx, admin, dto.LeadListQuery{Search: "glo"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "Globex", search.Items[0].CompanyName)

	bySource, err := f.uc.List(ctx, admin, dto.LeadListQuery{Source: "referral"})
	require.NoError(t, err)
	assert.Len(t, bySource.Items, 1)

	_, err = f.uc.List(ctx, admin, dto.LeadListQuery{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByID_LeadAjenoEsNotFound(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, gestor1, "Acme")

	_, err := f.uc.GetByID(context.Background(), gestor2, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := f.uc.GetByID(context.Background(), admin, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, out.ID)
	assert.NotNil(t, out.Interactions)

	_, err = f.uc.GetByID(context.Background(), admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_Reglas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, gestor1, "Acme")

	out, err := f.uc.Update(ctx, gestor1, lead.ID, dto.UpdateLeadRequest{Status: strPtr("contacted"), Notes: strPtr("llamar el lunes")})
	require.NoError(t, err)
	assert.Equal(t, "CONTACTED", out.Status)
	assert.Equal(t, "llamar el lunes", out.Notes)

	_, err = f.uc.Update(ctx, gestor1, lead.ID, dto.UpdateLeadRequest{Status: strPtr("WON")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Update(ctx, gestor1, lead.ID, dto.UpdateLeadRequest{AssignedToID: strPtr("u-am2")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err = f.uc.Update(ctx, admin, lead.ID, dto.UpdateLeadRequest{AssignedToID: strPtr("u-am2")})
	require.NoError(t, err)
	assert.Equal(t, "u-am2", *out.AssignedToID)

	_, err = f.uc.Update(ctx, gestor1, lead.ID, dto.UpdateLeadRequest{Notes: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "tras reasignar, el gestor anterior deja de verlo")
}

func seedLeadHistory(t *testing.T, f *fixture, leadID string) {
	t.Helper()
	f.store.AddInteraction(&entity.Interaction{
		ID: "it-1", LeadID: strPtr(leadID), Type: entity.InteractionCall, Title: "Primera llamada",
		CreatedByID: "u-am1", CreatedAt: fixedNow.Add(-48 * time.Hour),
	})
	_, _, contactRepo, _, _, _ := f.store.Repos()
	require.NoError(t, contactRepo.Create(context.Background(), &entity.Contact{
		ID: "c-1", LeadID: strPtr(leadID), Name: "Ana", IsPrimary: true, CreatedAt: fixedNow,
	}))
}

func TestConvert_Exitosa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, gestor1, "Acme")
	seedLeadHistory(t, f, lead.ID)

	out, err := f.uc.Convert(ctx, gestor1, lead.ID, dto.ConvertLeadRequest{Email: "Dueno@Acme.com", Password: "secreto123"})
	require.NoError(t, err)

	assert.Equal(t, "WON", out.Lead.Status)
	require.NotNil(t, out.Lead.ConvertedToCompanyID)
	assert.Equal(t, out.Company.ID, *out.Lead.ConvertedToCompanyID)
	assert.Equal(t, "Acme", out.Company.Name)
	assert.Equal(t, "retail", out.Company.Sector)
	assert.Equal(t, entity.DefaultCompanySize, out.Company.Size)
	assert.False(t, out.Company.IsActive)
	assert.False(t, out.Company.IsVerified)
	require.NotNil(t, out.Company.AccountManagerID)
	assert.Equal(t, "u-am1", *out.Company.AccountManagerID)

	_, interactionRepo, contactRepo, userRepo, _, _ := f.store.Repos()
	owner, err := userRepo.GetByEmail(ctx, "dueno@acme.com")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, entity.RoleCompany, owner.Role)
	require.NotNil(t, owner.CompanyID)
	assert.Equal(t, out.Company.ID, *owner.CompanyID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte("secreto123")))
	assert.Equal(t, "Acme", owner.Name)

	it, err := interactionRepo.GetByID(ctx, "it-1")
	require.NoError(t, err)
	assert.Nil(t, it.LeadID)
	assert.Equal(t, out.Company.ID, *it.CompanyID)
	c, err := contactRepo.GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Nil(t, c.LeadID)
	assert.Equal(t, out.Company.ID, *c.CompanyID)

	assert.Equal(t, 1, f.notifier.calls)
}

func TestConvert_SegundaVezEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, gestor1, "Acme")

	_, err := f.uc.Convert(ctx, gestor1, lead.ID, dto.ConvertLeadRequest{Email: "a@acme.com", Password: "x"})
	require.NoError(t, err)
	_, err = f.uc.Convert(ctx, gestor1, lead.ID, dto.ConvertLeadRequest{Email: "b@acme.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.store.Companies(), 1)

	_, err = f.uc.Update(ctx, gestor1, lead.ID, dto.UpdateLeadRequest{Notes: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestConvert_ConcurrenteSoloUnaGana(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, admin, "Acme")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Convert(context.Background(), admin, lead.ID, dto.ConvertLeadRequest{
				Email: []string{"uno@acme.com", "dos@acme.com"}[i], PasswordHash: "$2a$04$hash",
			})
		}(i)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.store.Companies(), 1)
}

func TestConvert_EmailDuplicadoNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, gestor1, "Acme")
	before := f.store.Counts()

	_, err := f.uc.Convert(context.Background(), gestor1, lead.ID, dto.ConvertLeadRequest{Email: "AM1@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, before, f.store.Counts())
	assert.False(t, f.store.Lead(lead.ID).IsConverted())
}

func TestConvert_FalloIntermedioHaceRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, gestor1, "Acme")
	seedLeadHistory(t, f, lead.ID)
	before := f.store.Counts()

	f.store.Fail("interaction.reparent", nil)
	_, err := f.uc.Convert(ctx, gestor1, lead.ID, dto.ConvertLeadRequest{Email: "d@acme.com", Password: "x"})
	require.ErrorIs(t, err, memstore.ErrInjected)

	assert.Equal(t, before, f.store.Counts())
	got := f.store.Lead(lead.ID)
	assert.False(t, got.IsConverted())
	assert.Equal(t, entity.LeadStatusNew, got.Status)
	_, _, contactRepo, _, _, _ := f.store.Repos()
	c, err := contactRepo.GetByID(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, c.LeadID)
	assert.Nil(t, c.CompanyID)
	assert.Zero(t, f.notifier.calls)

	f.store.ClearFailures()
	_, err = f.uc.Convert(ctx, gestor1, lead.ID, dto.ConvertLeadRequest{Email: "d@acme.com", Password: "x"})
	assert.NoError(t, err, "tras el rollback el lead sigue convertible")
}

func TestConvert_FalloDelAvisoNoRevierte(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("cola caída")
	lead := f.createLead(t, gestor1, "Acme")

	out, err := f.uc.Convert(context.Background(), gestor1, lead.ID, dto.ConvertLeadRequest{Email: "d@acme.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "WON", out.Lead.Status)
}

func TestConvert_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, gestor1, "Acme")

	_, err := f.uc.Convert(ctx, gestor1, lead.ID, dto.ConvertLeadRequest{Email: "no-es-email", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Convert(ctx, gestor1, lead.ID, dto.ConvertLeadRequest{Email: "a@acme.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Convert(ctx, gestor2, lead.ID, dto.ConvertLeadRequest{Email: "a@acme.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Convert(ctx, admin, "no-existe", dto.ConvertLeadRequest{Email: "a@acme.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadReport(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, gestor1, "Acme")
	seedLeadHistory(t, f, lead.ID)

	b, name, err := f.uc.DownloadReport(context.Background(), gestor1, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "lead-"+lead.ID+".pdf", name)
	assert.Equal(t, "%PDF-1.4", string(b))
	require.NotNil(t, f.pdf.got)
	assert.Len(t, f.pdf.got.Contacts, 1)
	assert.Len(t, f.pdf.got.Interactions, 1)

	_, _, err = f.uc.DownloadReport(context.Background(), gestor2, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
