package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	kvstore "github.com/dalemusser/pmhub/internal/app/store/kv"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// startMemoryApp runs the lifecycle hooks up to BuildHandler over memory storage.
func startMemoryApp(t *testing.T) (*httptest.Server, DBDeps) {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	coreCfg := &config.CoreConfig{Env: "dev"}
	appCfg := validConfig()

	deps, err := ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.MongoClient != nil {
		t.Fatal("memory storage should not open a mongo client")
	}
	if err := EnsureSchema(ctx, coreCfg, appCfg, deps, logger); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Startup(ctx, coreCfg, appCfg, deps, logger); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	h, err := BuildHandler(coreCfg, appCfg, deps, logger)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		if err := Shutdown(ctx, coreCfg, appCfg, deps, logger); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})
	return srv, deps
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func TestStartup_SeedsWorkspace(t *testing.T) {
	_, deps := startMemoryApp(t)

	s := deps.Services.Workspace.State()
	if len(s.Users) != 3 {
		t.Errorf("expected 3 seeded users, got %d", len(s.Users))
	}
	if _, err := deps.KV.Get(context.Background(), workspace.DefaultDataKey); err != nil {
		t.Errorf("seed was not persisted: %v", err)
	}
	if _, ok := deps.KV.(*kvstore.Memory); !ok {
		t.Errorf("expected memory store, got %T", deps.KV)
	}
}

func TestBuildHandler_WithoutWorkspace(t *testing.T) {
	_, err := BuildHandler(&config.CoreConfig{}, validConfig(), DBDeps{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error when the workspace is not loaded")
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	srv, deps := startMemoryApp(t)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health: got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("state before login: got %d, want 401", resp.StatusCode)
	}

	resp, err = client.Post(srv.URL+"/api/login", "application/json",
		strings.NewReader(`{"email":"pm@demo.com","password":"pm123"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: got %d", resp.StatusCode)
	}

	resp, err = client.Post(srv.URL+"/api/projects", "application/json",
		strings.NewReader(`{"name":"Launch","tasks":[{"title":"Write script","assignedTo":"u-user"}]}`))
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create project: got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	var state struct {
		Users    []map[string]any `json:"users"`
		Projects []struct {
			Name  string           `json:"name"`
			Tasks []map[string]any `json:"tasks"`
		} `json:"projects"`
	}
	err = json.NewDecoder(resp.Body).Decode(&state)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(state.Projects) != 1 || state.Projects[0].Name != "Launch" || len(state.Projects[0].Tasks) != 1 {
		t.Errorf("unexpected projects: %+v", state.Projects)
	}
	for _, u := range state.Users {
		if _, ok := u["password"]; ok {
			t.Errorf("state exposes a password for %v", u["id"])
		}
	}

	// pm may not manage users.
	resp, err = client.Get(srv.URL + "/api/users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("users as pm: got %d, want 403", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/api/nope")
	if err != nil {
		t.Fatalf("unknown route: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route: got %d, want 404", resp.StatusCode)
	}

	if got := len(deps.Services.Workspace.State().Projects); got != 1 {
		t.Errorf("container projects: got %d, want 1", got)
	}
}
