package dashboard

import (
	"strings"
	"testing"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
)

func TestStatsFromLoadedPage(t *testing.T) {
	page := &api.TaskPage{
		Count: 12,
		Results: []model.Task{
			{ID: 1, Title: "a", Status: model.StatusTodo},
			{ID: 2, Title: "b", Status: model.StatusTodo},
			{ID: 3, Title: "c", Status: model.StatusInProgress},
			{ID: 4, Title: "d", Status: model.StatusDone},
		},
	}

	m := New(nil, 80, 24)
	m, _ = m.Update(LoadedMsg{
		User: &model.User{ID: 1, Username: "admin", FirstName: "Ada"},
		Page: page,
	})

	if m.stats.total != 12 {
		t.Errorf("total = %d, want 12 (backend count, not page size)", m.stats.total)
	}
	if m.stats.todo != 2 || m.stats.inProgress != 1 || m.stats.done != 1 {
		t.Errorf("stats = %+v", m.stats)
	}
}

func TestRecentTasksCapped(t *testing.T) {
	results := make([]model.Task, 8)
	for i := range results {
		results[i] = model.Task{ID: i + 1, Title: "task", Status: model.StatusTodo}
	}

	m := New(nil, 80, 24)
	m, _ = m.Update(LoadedMsg{
		User: &model.User{ID: 1, Username: "admin"},
		Page: &api.TaskPage{Count: 8, Results: results},
	})

	if len(m.recent) != recentLimit {
		t.Errorf("len(recent) = %d, want %d", len(m.recent), recentLimit)
	}
}

func TestViewGreetsByDisplayName(t *testing.T) {
	m := New(nil, 80, 24)
	m, _ = m.Update(LoadedMsg{
		User: &model.User{ID: 1, Username: "jdoe", FirstName: "John"},
		Page: &api.TaskPage{},
	})

	if !strings.Contains(m.View(), "Welcome back, John") {
		t.Error("greeting missing display name")
	}
}

func TestViewPlaceholdersForMissingFields(t *testing.T) {
	m := New(nil, 80, 24)
	m, _ = m.Update(LoadedMsg{
		User: &model.User{ID: 1, Username: "admin"},
		Page: &api.TaskPage{
			Count: 1,
			Results: []model.Task{
				{ID: 1, Title: "bare", Status: model.StatusTodo},
			},
		},
	})

	if !strings.Contains(m.View(), "—") {
		t.Error("missing assignee/due date placeholders")
	}
}
