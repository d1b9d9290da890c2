package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	kvstore "github.com/dalemusser/pmhub/internal/app/store/kv"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TestContext returns a context with a short deadline for test calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// WithChiURLParams adds chi URL parameters (key, value pairs) to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data in a container.
type Fixtures struct {
	C  *workspace.Container
	KV *kvstore.Memory
	t  *testing.T
}

// NewFixtures opens a hub-seeded container over an in-memory store.
func NewFixtures(t *testing.T) *Fixtures {
	t.Helper()
	kv := kvstore.NewMemory()
	c, err := workspace.Open(context.Background(), kv, workspace.Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	return &Fixtures{C: c, KV: kv, t: t}
}

// CreateProject creates a project with the given name.
func (f *Fixtures) CreateProject(ctx context.Context, name string) *models.Project {
	f.t.Helper()
	p, err := f.C.CreateProject(ctx, models.Project{Name: name, Description: name + " description"})
	if err != nil {
		f.t.Fatalf("create project: %v", err)
	}
	return p
}

// CreateTask creates a task in projectID assigned to assignee ("" for none).
func (f *Fixtures) CreateTask(ctx context.Context, projectID, title, assignee string) *models.Task {
	f.t.Helper()
	tk, err := f.C.CreateTask(ctx, projectID, models.Task{Title: title, AssignedTo: assignee})
	if err != nil {
		f.t.Fatalf("create task: %v", err)
	}
	return tk
}

// LogTime logs minutes against a task.
func (f *Fixtures) LogTime(ctx context.Context, projectID, taskID string, minutes int) {
	f.t.Helper()
	if _, err := f.C.LogTime(ctx, projectID, taskID, minutes, ""); err != nil {
		f.t.Fatalf("log time: %v", err)
	}
}
