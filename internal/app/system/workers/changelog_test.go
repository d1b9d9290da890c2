package workers_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/pmhub/internal/app/system/workers"
	"github.com/dalemusser/pmhub/internal/domain/models"
	"github.com/dalemusser/pmhub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestChangeLog_CountsAndSummarizes(t *testing.T) {
	fx := testutil.NewFixtures(t)
	core, logs := observer.New(zapcore.InfoLevel)
	w := workers.NewChangeLog(fx.C, zap.New(core), 20*time.Millisecond)
	w.Start()

	ctx := context.Background()
	p, err := fx.C.CreateProject(ctx, models.Project{Name: "Launch"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := fx.C.CreateTask(ctx, p.ID, models.Task{Title: "t"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for w.Total() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if w.Total() != 2 {
		t.Fatalf("expected 2 changes, got %d", w.Total())
	}

	w.Stop()

	summaries := logs.FilterMessage("workspace changes").All()
	if len(summaries) == 0 {
		t.Fatal("expected a summary log entry")
	}
	counts := map[string]int64{}
	for _, e := range summaries {
		for op, n := range e.ContextMap() {
			counts[op] += n.(int64)
		}
	}
	if counts["create_project"] != 1 || counts["create_task"] != 1 {
		t.Errorf("unexpected summary counts %v", counts)
	}
}
