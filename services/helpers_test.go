package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/akinalp/mqvi-modbot/database"
	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/pkg/caseid"
	"github.com/akinalp/mqvi-modbot/repository"
	"github.com/akinalp/mqvi-modbot/ws"
)

const (
	testServer = "s1"
	testOwner  = "owner"
	testStaff  = "staff"
	testMember = "member"
	staffRole  = "r-staff"
)

// ─── Fakes ───

type sentMessage struct {
	ChannelID string
	Content   string
}

// fakePlatform, in-memory platform.Client for one server.
type fakePlatform struct {
	mu       sync.Mutex
	ownerID  string
	roles    map[string][]string
	sent     []sentMessage
	sendErr  map[string]error
	grantErr error
	grants   int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		ownerID: testOwner,
		roles: map[string][]string{
			testOwner:  {},
			testStaff:  {staffRole},
			testMember: {},
		},
		sendErr: map[string]error{},
	}
}

func (f *fakePlatform) GetServer(_ context.Context, serverID string) (*models.Server, error) {
	if serverID != testServer {
		return nil, pkg.ErrNotFound
	}
	return &models.Server{ID: serverID, OwnerID: f.ownerID}, nil
}

func (f *fakePlatform) MemberRoleIDs(_ context.Context, _, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids, ok := f.roles[userID]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	return append([]string(nil), ids...), nil
}

func (f *fakePlatform) HasRole(ctx context.Context, serverID, userID, roleID string) (bool, error) {
	ids, err := f.MemberRoleIDs(ctx, serverID, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePlatform) GrantRole(ctx context.Context, serverID, userID, roleID string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	has, err := f.HasRole(ctx, serverID, userID, roleID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants++
	if !has {
		f.roles[userID] = append(f.roles[userID], roleID)
	}
	return nil
}

func (f *fakePlatform) SendMessage(_ context.Context, _, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErr[channelID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (f *fakePlatform) setRoles(userID string, roles ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = roles
}

func (f *fakePlatform) sentTo(channelID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.ChannelID == channelID {
			out = append(out, m.Content)
		}
	}
	return out
}

func (f *fakePlatform) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// recordingHub, ws.EventPublisher that keeps every event.
type recordingHub struct {
	mu     sync.Mutex
	events []ws.Event
}

func (h *recordingHub) BroadcastToServer(_ string, event ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ops := make([]string, 0, len(h.events))
	for _, e := range h.events {
		ops = append(ops, e.Op)
	}
	return ops
}

type fakeMailer struct {
	mu      sync.Mutex
	notices []*models.Notice
	err     error
}

func (m *fakeMailer) SendAuditNotice(_ context.Context, _ string, notice *models.Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.notices = append(m.notices, notice)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notices)
}

// sequenceIDs, a caseid.Generator returning ids in order, then fresh ones.
func sequenceIDs(ids ...string) caseid.Generator {
	var mu sync.Mutex
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(ids) == 0 {
			return caseid.New()
		}
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
}

// ─── Environment ───

type testEnv struct {
	platform    *fakePlatform
	hub         *recordingHub
	mailer      *fakeMailer
	configRepo  repository.GuildConfigRepository
	infractions repository.InfractionRepository
	promotions  repository.PromotionRepository

	perms      PermissionService
	config     GuildConfigService
	infraction InfractionService
	promotion  PromotionService
}

func newTestEnv(t *testing.T, gen caseid.Generator) *testEnv {
	t.Helper()

	db, err := database.NewEmbedded(filepath.Join(t.TempDir(), "modbot.db"))
	if err != nil {
		t.Fatalf("NewEmbedded: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if gen == nil {
		gen = caseid.New
	}

	env := &testEnv{
		platform:    newFakePlatform(),
		hub:         &recordingHub{},
		mailer:      &fakeMailer{},
		configRepo:  repository.NewSQLiteGuildConfigRepo(db.Conn),
		infractions: repository.NewSQLiteInfractionRepo(db.Conn),
		promotions:  repository.NewSQLitePromotionRepo(db.Conn),
	}

	dispatcher := NewDispatcher(env.platform, env.hub, env.mailer)
	env.perms = NewPermissionService(env.configRepo, env.platform)
	env.config = NewGuildConfigService(env.configRepo, env.perms)
	env.infraction = NewInfractionService(env.infractions, env.perms, dispatcher, gen)
	env.promotion = NewPromotionService(env.promotions, env.perms, env.platform, dispatcher, gen)

	return env
}

// configure, owner sets up staff role, both channels and promotable roles.
func (e *testEnv) configure(t *testing.T, promotable ...string) {
	t.Helper()
	ctx := context.Background()

	steps := []error{
		e.config.SetStaffRole(ctx, testServer, testOwner, staffRole),
		e.config.SetActionChannel(ctx, testServer, testOwner, "c-action"),
		e.config.SetLogChannel(ctx, testServer, testOwner, "c-log"),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("configure step %d: %v", i, err)
		}
	}
	if len(promotable) > 0 {
		if _, err := e.config.SetPromotableRoles(ctx, testServer, testOwner, promotable); err != nil {
			t.Fatalf("SetPromotableRoles: %v", err)
		}
	}
}

func mustConfig(t *testing.T, e *testEnv) *models.GuildConfig {
	t.Helper()
	cfg, err := e.config.Get(context.Background(), testServer)
	if err != nil {
		t.Fatalf("Get config: %v", err)
	}
	return cfg
}
