package workspace_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	kvstore "github.com/dalemusser/pmhub/internal/app/store/kv"
	"github.com/dalemusser/pmhub/internal/app/system/authutil"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// flakyStore fails Set calls while failSet is true.
type flakyStore struct {
	*kvstore.Memory
	failSet bool
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func openContainer(t *testing.T, kv kvstore.Store, opts workspace.Options) *workspace.Container {
	t.Helper()
	c, err := workspace.Open(context.Background(), kv, opts, zap.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return c
}

func TestOpen_EmptyStoreSeeds(t *testing.T) {
	kv := kvstore.NewMemory()
	c := openContainer(t, kv, workspace.Options{})

	s := c.State()
	if len(s.Users) != 3 || s.Users[0].Email != "admin@demo.com" {
		t.Fatalf("expected hub seed, got %+v", s.Users)
	}
	if c.Session() != nil {
		t.Error("expected signed out")
	}
	if _, err := kv.Get(context.Background(), workspace.DefaultDataKey); err != nil {
		t.Errorf("seed was not persisted: %v", err)
	}
}

func TestOpen_WorkspaceVariant(t *testing.T) {
	c := openContainer(t, kvstore.NewMemory(), workspace.Options{SeedVariant: workspace.VariantWorkspace})
	if c.State().FindUser("u-editor") == nil {
		t.Error("expected editor seed user")
	}
}

func TestOpen_CorruptDataFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	_ = kv.Set(ctx, workspace.DefaultDataKey, "{not json")
	_ = kv.Set(ctx, workspace.DefaultSessionKey, "also not json")

	core, logs := observer.New(zapcore.WarnLevel)
	c, err := workspace.Open(ctx, kv, workspace.Options{}, zap.New(core))
	if err != nil {
		t.Fatalf("Open should not fail on unreadable data: %v", err)
	}
	if len(c.State().Users) != 3 {
		t.Errorf("expected seed users, got %d", len(c.State().Users))
	}
	if c.Session() != nil {
		t.Error("expected signed out after unreadable session")
	}
	if logs.Len() != 2 {
		t.Errorf("expected 2 warnings, got %d", logs.Len())
	}
}

func TestOpen_NullNodesFallBackToSeed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"null project", `{"users":[],"projects":[null]}`},
		{"null user", `{"users":[null],"projects":[]}`},
		{"null task", `{"users":[],"projects":[{"id":"p1","name":"P","tasks":[null]}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			kv := kvstore.NewMemory()
			_ = kv.Set(ctx, workspace.DefaultDataKey, tc.data)
			_ = kv.Set(ctx, workspace.DefaultSessionKey, "null")

			core, logs := observer.New(zapcore.WarnLevel)
			c, err := workspace.Open(ctx, kv, workspace.Options{}, zap.New(core))
			if err != nil {
				t.Fatalf("Open should not fail on corrupt data: %v", err)
			}
			if len(c.State().Users) != 3 || len(c.State().Projects) != 0 {
				t.Errorf("expected seed state, got %d users %d projects", len(c.State().Users), len(c.State().Projects))
			}
			if c.Session() != nil {
				t.Error("expected signed out after a null session")
			}
			if logs.Len() != 2 {
				t.Errorf("expected 2 warnings, got %d", logs.Len())
			}
			if _, err := c.Login(ctx, "admin@demo.com", "admin123"); err != nil {
				t.Errorf("Login on the seeded fallback failed: %v", err)
			}
		})
	}
}

func TestOpen_LoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	c1 := openContainer(t, kv, workspace.Options{})
	p, err := c1.CreateProject(ctx, models.Project{Name: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	c2 := openContainer(t, kv, workspace.Options{})
	if got := c2.State().FindProject(p.ID); got == nil || got.Name != "Alpha" {
		t.Errorf("project not reloaded: %+v", got)
	}
}

func TestMutations_PersistOncePerChange(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	c := openContainer(t, kv, workspace.Options{})
	before := kv.Writes()

	p, err := c.CreateProject(ctx, models.Project{Name: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	tk, err := c.CreateTask(ctx, p.ID, models.Task{Title: "t1", AssignedTo: "u-user"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := c.LogTime(ctx, p.ID, tk.ID, 15, ""); err != nil {
		t.Fatalf("LogTime failed: %v", err)
	}

	if got := kv.Writes() - before; got != 3 {
		t.Errorf("expected 3 writes, got %d", got)
	}

	text, _ := kv.Get(ctx, workspace.DefaultDataKey)
	stored, err := workspace.Decode(text)
	if err != nil {
		t.Fatalf("stored state unreadable: %v", err)
	}
	if stored.FindTask(p.ID, tk.ID).LoggedMinutes() != 15 {
		t.Error("stored state does not match in-memory state")
	}
}

func TestMutations_NotFound(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	c := openContainer(t, kv, workspace.Options{})
	p, _ := c.CreateProject(ctx, models.Project{Name: "Alpha"})

	ch := c.Subscribe()
	defer c.Unsubscribe(ch)
	before := kv.Writes()
	state := c.State()

	_, updateErr := c.UpdateTask(ctx, p.ID, "nope", models.TaskPatch{Title: strPtr("x")})
	_, logErr := c.LogTime(ctx, "nope", "nope", 5, "")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"remove user", c.RemoveUser(ctx, "nope"), workspace.ErrUserNotFound},
		{"delete project", c.DeleteProject(ctx, "nope"), workspace.ErrProjectNotFound},
		{"delete task", c.DeleteTask(ctx, p.ID, "nope"), workspace.ErrTaskNotFound},
		{"delete task missing project", c.DeleteTask(ctx, "nope", "nope"), workspace.ErrProjectNotFound},
		{"update task", updateErr, workspace.ErrTaskNotFound},
		{"log time", logErr, workspace.ErrProjectNotFound},
	}

	for _, tc := range tests {
		if !errors.Is(tc.err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, tc.err, tc.want)
		}
	}
	if kv.Writes() != before {
		t.Error("not-found mutation wrote to the store")
	}
	if c.State() != state {
		t.Error("not-found mutation replaced the state")
	}
	select {
	case change := <-ch:
		t.Errorf("unexpected notification %q", change.Op)
	default:
	}
}

func TestMutations_Validation(t *testing.T) {
	ctx := context.Background()
	c := openContainer(t, kvstore.NewMemory(), workspace.Options{})
	p, _ := c.CreateProject(ctx, models.Project{Name: "Alpha"})
	tk, _ := c.CreateTask(ctx, p.ID, models.Task{Title: "t"})

	if _, err := c.AddUser(ctx, models.User{Name: " ", Role: models.RoleUser}); !errors.Is(err, workspace.ErrInvalidArgument) {
		t.Errorf("blank name: got %v", err)
	}
	if _, err := c.AddUser(ctx, models.User{Name: "X", Role: "boss"}); !errors.Is(err, workspace.ErrInvalidArgument) {
		t.Errorf("bad role: got %v", err)
	}
	if _, err := c.CreateProject(ctx, models.Project{Name: ""}); !errors.Is(err, workspace.ErrInvalidArgument) {
		t.Errorf("blank project: got %v", err)
	}
	if _, err := c.CreateTask(ctx, p.ID, models.Task{Title: "  "}); !errors.Is(err, workspace.ErrInvalidArgument) {
		t.Errorf("blank task: got %v", err)
	}
	for _, m := range []int{0, -5} {
		if _, err := c.LogTime(ctx, p.ID, tk.ID, m, ""); !errors.Is(err, workspace.ErrInvalidMinutes) {
			t.Errorf("minutes %d: got %v", m, err)
		}
	}
	if got := c.State().FindTask(p.ID, tk.ID).TimeLog; len(got) != 0 {
		t.Errorf("invalid minutes were logged: %+v", got)
	}
}

func TestMutations_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	kv := &flakyStore{Memory: kvstore.NewMemory()}
	c := openContainer(t, kv, workspace.Options{})
	ch := c.Subscribe()
	defer c.Unsubscribe(ch)

	state := c.State()
	kv.failSet = true
	if _, err := c.CreateProject(ctx, models.Project{Name: "Alpha"}); err == nil {
		t.Fatal("expected save error")
	}
	if c.State() != state {
		t.Error("state replaced despite failed save")
	}
	select {
	case <-ch:
		t.Error("change published despite failed save")
	default:
	}
}

func TestSubscribe_ReceivesChanges(t *testing.T) {
	ctx := context.Background()
	c := openContainer(t, kvstore.NewMemory(), workspace.Options{})
	ch := c.Subscribe()

	p, err := c.CreateProject(ctx, models.Project{Name: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	change := <-ch
	if change.Op != "create_project" {
		t.Errorf("op: got %q", change.Op)
	}
	if change.State != c.State() || change.State.FindProject(p.ID) == nil {
		t.Error("change does not carry the committed state")
	}

	c.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("expected channel closed after Unsubscribe")
	}
	c.Unsubscribe(ch) // second call is a no-op
}

func TestRemoveUser_CascadesThroughContainer(t *testing.T) {
	ctx := context.Background()
	c := openContainer(t, kvstore.NewMemory(), workspace.Options{})
	p, _ := c.CreateProject(ctx, models.Project{Name: "Alpha"})
	tk, _ := c.CreateTask(ctx, p.ID, models.Task{Title: "t", AssignedTo: "u-user"})

	if err := c.RemoveUser(ctx, "u-user"); err != nil {
		t.Fatalf("RemoveUser failed: %v", err)
	}
	if got := c.State().FindTask(p.ID, tk.ID).AssignedTo; got != "" {
		t.Errorf("expected unassigned, got %q", got)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	c := openContainer(t, kv, workspace.Options{})

	// wrong password leaves the session alone
	if _, err := c.Login(ctx, "admin@demo.com", "wrong"); !errors.Is(err, workspace.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if c.Session() != nil {
		t.Fatal("session set after failed login")
	}
	if _, err := c.Login(ctx, "", ""); !errors.Is(err, workspace.ErrInvalidCredentials) {
		t.Errorf("empty email: got %v", err)
	}

	u, err := c.Login(ctx, "  pm@demo.com ", "pm123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if u.ID != "u-pm" {
		t.Errorf("logged in as %q", u.ID)
	}
	sess := c.Session()
	if sess == nil || sess.ID != "u-pm" || sess.Password != "" {
		t.Fatalf("unexpected session %+v", sess)
	}

	text, err := kv.Get(ctx, workspace.DefaultSessionKey)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if strings.Contains(text, "pm123") {
		t.Error("persisted session carries the password")
	}

	// survives a reload
	c2 := openContainer(t, kv, workspace.Options{})
	if c2.Session() == nil || c2.Session().ID != "u-pm" {
		t.Errorf("session not reloaded: %+v", c2.Session())
	}

	// failed login while signed in keeps the existing session
	if _, err := c.Login(ctx, "pm@demo.com", "nope"); err == nil {
		t.Fatal("expected failure")
	}
	if c.Session() == nil || c.Session().ID != "u-pm" {
		t.Error("failed login changed the session")
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if c.Session() != nil {
		t.Error("expected signed out")
	}
	if _, err := kv.Get(ctx, workspace.DefaultSessionKey); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("session key should be removed, got %v", err)
	}
}

func TestAddUser_HashesPassword(t *testing.T) {
	ctx := context.Background()
	c := openContainer(t, kvstore.NewMemory(), workspace.Options{HashPasswords: true})

	u, err := c.AddUser(ctx, models.User{Name: "Nia", Role: "PM", Email: "nia@demo.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if !authutil.IsHashed(u.Password) {
		t.Errorf("password stored unhashed: %q", u.Password)
	}
	if u.Role != models.RolePM {
		t.Errorf("role not normalized: %q", u.Role)
	}
	if !strings.HasPrefix(u.ID, "user-") {
		t.Errorf("unexpected id %q", u.ID)
	}
	if _, err := c.Login(ctx, "nia@demo.com", "s3cret"); err != nil {
		t.Errorf("Login with new account failed: %v", err)
	}
}

func TestTaskStatus_Validation(t *testing.T) {
	ctx := context.Background()
	c := openContainer(t, kvstore.NewMemory(), workspace.Options{})
	p, _ := c.CreateProject(ctx, models.Project{Name: "Alpha"})

	if _, err := c.CreateTask(ctx, p.ID, models.Task{Title: "t", Status: "Blocked"}); !errors.Is(err, workspace.ErrInvalidArgument) {
		t.Errorf("unknown status on create: got %v", err)
	}
	tk, err := c.CreateTask(ctx, p.ID, models.Task{Title: "t"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := c.UpdateTask(ctx, p.ID, tk.ID, models.TaskPatch{Status: strPtr("Done")}); !errors.Is(err, workspace.ErrInvalidArgument) {
		t.Errorf("unknown status on update: got %v", err)
	}
	got, err := c.UpdateTask(ctx, p.ID, tk.ID, models.TaskPatch{Status: strPtr(models.StatusInProgress)})
	if err != nil || got.Status != models.StatusInProgress {
		t.Errorf("status change failed: %v %+v", err, got)
	}
}
