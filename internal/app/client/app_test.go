package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"pettrack/internal/app/client/config"
	"pettrack/internal/app/client/view"
	"pettrack/internal/app/devstore/account"
	"pettrack/internal/app/devstore/api"
	"pettrack/internal/app/devstore/tables"
	"pettrack/internal/domain/pet"
	"pettrack/internal/domain/user"
	"pettrack/internal/domain/visit"
	"pettrack/internal/domain/weight"
	"pettrack/internal/infrastructure/kv"
)

const (
	testEmail    = "ann@example.com"
	testPassword = "secret1"
)

type harness struct {
	db   *tables.DB
	kv   *kv.MemoryStore
	cfg  *config.Config
	fail atomic.Bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{db: tables.New(), kv: kv.NewMemoryStore()}
	accounts := account.NewService(account.NewMemoryRepository(), account.Options{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, slog.Default())

	handler := api.New(api.Deps{DB: h.db, Accounts: accounts, AnonKey: "anon"}, slog.Default())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.fail.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"service unavailable"}`))
			return
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	h.cfg = &config.Config{
		Env:            config.EnvProd,
		RemoteURL:      srv.URL,
		AnonKey:        "anon",
		RequestTimeout: 5 * time.Second,
		Image:          config.ImageConfig{Driver: "none"},
	}
	return h
}

func (h *harness) app(t *testing.T, opts ...Option) *App {
	t.Helper()

	a, err := New(context.Background(), h.cfg, slog.Default(), append([]Option{WithKV(h.kv)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { a.cancel() })
	return a
}

func (h *harness) signedUp(t *testing.T) *App {
	t.Helper()

	a := h.app(t)
	res, err := a.SignUp(context.Background(), testEmail, testPassword, testPassword)
	require.NoError(t, err)
	require.False(t, res.NeedsConfirmation())
	return a
}

func petForm(name string) pet.Form {
	return pet.Form{Name: name, SelectValue: "Dog", Breed: "Beagle", Age: "3"}
}

func petIDs(ps []pet.Pet) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestApp_SignUpAndRestore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := h.signedUp(t)
	u, ok := a.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, testEmail, u.Email)

	raw, err := h.kv.Get(ctx, sessionKey)
	require.NoError(t, err)
	var stored user.Session
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, u.ID, stored.User.ID)

	restored := h.app(t)
	ok, err = restored.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	ru, ok := restored.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.ID, ru.ID)

	_, err = restored.CreatePet(ctx, petForm("Rex"))
	assert.NoError(t, err, "restored session must authorize table requests")
}

func TestApp_RestoreRefreshesExpiredSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := h.signedUp(t)
	before, _ := a.Session()

	later := h.app(t, WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) }))
	ok, err := later.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	after, _ := later.Session()
	assert.NotEqual(t, before.RefreshToken, after.RefreshToken, "refresh token must rotate")
	assert.Equal(t, before.User.ID, after.User.ID)
}

func TestApp_RestoreWithoutSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ok, err := h.app(t).Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.kv.Set(ctx, sessionKey, []byte("{broken")))
	ok, err = h.app(t).Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.kv.Get(ctx, sessionKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestApp_SignInWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.signedUp(t)

	a := h.app(t)
	_, err := a.SignIn(context.Background(), testEmail, "wrong-password")
	require.Error(t, err)
	_, ok := a.CurrentUser()
	assert.False(t, ok)
}

func TestApp_CreatePetRefetchesWholeList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.signedUp(t)

	list := a.PetList()
	first, err := list.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, first)
	assert.True(t, a.Store().State().Pets.Loaded)

	created, err := a.CreatePet(ctx, petForm("Rex"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	snapshot := a.Store().State().Pets.Data
	assert.Equal(t, []string{created.ID}, petIDs(snapshot))

	again, err := list.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, petIDs(snapshot), petIDs(again), "refetch after insert is idempotent")
	assert.Equal(t, petIDs(snapshot), petIDs(a.Store().State().Pets.Data))
}

func TestApp_CreatePetValidation(t *testing.T) {
	h := newHarness(t)
	a := h.signedUp(t)

	_, err := a.CreatePet(context.Background(), pet.Form{Name: "R", SelectValue: "Dog", Breed: "Beagle", Age: "-1"})
	assert.ErrorIs(t, err, pet.ErrInvalidInput)
	assert.Equal(t, 0, h.db.Count(tables.Pets))
}

func TestApp_DeletePetRemovesExactlyThatID(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.signedUp(t)

	rex, err := a.CreatePet(ctx, petForm("Rex"))
	require.NoError(t, err)
	tom, err := a.CreatePet(ctx, petForm("Tom"))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{rex.ID, tom.ID}, petIDs(a.Store().State().Pets.Data))

	require.NoError(t, a.DeletePet(ctx, rex.ID))
	assert.Equal(t, []string{tom.ID}, petIDs(a.Store().State().Pets.Data))

	before := a.Store().State().Pets
	err = a.DeletePet(ctx, "missing")
	assert.ErrorIs(t, err, pet.ErrNotFound)
	assert.Equal(t, before, a.Store().State().Pets)
}

func TestApp_WeightOrderToggle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.signedUp(t)

	p, err := a.CreatePet(ctx, petForm("Rex"))
	require.NoError(t, err)
	require.NoError(t, h.db.Seed(tables.WeightLogs,
		tables.Row{"id": "w1", "pet_id": p.ID, "weight": 10.5, "date": "2024-01-02"},
		tables.Row{"id": "w2", "pet_id": p.ID, "weight": 11.0, "date": "2024-03-01"},
		tables.Row{"id": "w3", "pet_id": p.ID, "weight": 10.8, "date": "2024-02-01"},
	))

	dates := func(logs []weight.Log) []string {
		out := make([]string, 0, len(logs))
		for _, l := range logs {
			out = append(out, l.Date.String())
		}
		return out
	}

	screen := a.WeightLogs(p.ID, "")
	logs, err := screen.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, weight.OrderDesc, screen.Order())
	assert.Equal(t, []string{"2024-03-01", "2024-02-01", "2024-01-02"}, dates(logs))
	require.NotNil(t, logs[0].Pet)
	assert.Equal(t, "Rex", logs[0].Pet.Name)

	logs, err = screen.ToggleOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, weight.OrderAsc, screen.Order())
	assert.Equal(t, []string{"2024-01-02", "2024-02-01", "2024-03-01"}, dates(logs))

	logs, err = screen.ToggleOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01", "2024-02-01", "2024-01-02"}, dates(logs))
}

func TestApp_RetryAfterFailedLoad(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.signedUp(t)

	_, err := a.CreatePet(ctx, petForm("Rex"))
	require.NoError(t, err)
	before := a.Store().State().Pets

	h.fail.Store(true)
	list := a.PetList()
	_, err = list.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, view.StatusError, list.Status())
	assert.Equal(t, before, a.Store().State().Pets, "failed load keeps the previous snapshot")

	h.fail.Store(false)
	pets, err := list.Retry(ctx)
	require.NoError(t, err)
	assert.Equal(t, view.StatusSuccess, list.Status())
	assert.Equal(t, petIDs(before.Data), petIDs(pets))
}

func TestApp_VisitsLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.signedUp(t)

	p, err := a.CreatePet(ctx, petForm("Rex"))
	require.NoError(t, err)

	added, err := a.AddVisit(ctx, visit.Input{PetID: p.ID, Notes: "vaccination"})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	logs, err := a.VisitLogs(p.ID).Load(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].Pet)
	assert.Equal(t, "Rex", logs[0].Pet.Name)

	updated, err := a.UpdateVisit(ctx, string(added.ID), visit.Input{PetID: p.ID, Notes: "booster"})
	require.NoError(t, err)
	assert.Equal(t, "booster", updated.Notes)

	detail, err := a.VisitDetail(string(added.ID)).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "booster", detail.Notes)

	require.NoError(t, a.DeleteVisit(ctx, string(added.ID)))
	all, err := a.VisitLogs("").Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestApp_OwnersAreIsolated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ann := h.signedUp(t)
	_, err := ann.CreatePet(ctx, petForm("Rex"))
	require.NoError(t, err)

	bob := h.app(t, WithKV(kv.NewMemoryStore()))
	_, err = bob.SignUp(ctx, "bob@example.com", testPassword, testPassword)
	require.NoError(t, err)

	pets, err := bob.PetList().Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, pets)
}

func TestApp_SignOutClearsState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.signedUp(t)

	_, err := a.CreatePet(ctx, petForm("Rex"))
	require.NoError(t, err)

	require.NoError(t, a.SignOut(ctx))
	_, ok := a.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, a.Store().State().Pets.Data)
	assert.False(t, a.Store().State().Pets.Loaded)

	_, err = h.kv.Get(ctx, sessionKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.ErrorIs(t, a.SignOut(ctx), user.ErrNotAuthenticated)

	_, err = a.PetList().Load(ctx)
	assert.ErrorIs(t, err, user.ErrNotAuthenticated)
}

func TestApp_SessionPersistsEncryptedOnDisk(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	dir := t.TempDir()
	cfg := *h.cfg
	cfg.SessionPath = filepath.Join(dir, "session.db")
	cfg.KeyPath = filepath.Join(dir, "device.key")
	cfg.EncryptSession = true

	first, err := New(ctx, &cfg, slog.Default())
	require.NoError(t, err)
	_, err = first.SignUp(ctx, testEmail, testPassword, testPassword)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	plain, err := kv.NewSQLiteStore(cfg.SessionPath)
	require.NoError(t, err)
	raw, err := plain.Get(ctx, sessionKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), testEmail)
	require.NoError(t, plain.Close())

	second, err := New(ctx, &cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	ok, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	u, _ := second.CurrentUser()
	assert.Equal(t, testEmail, u.Email)
}
