package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foreman-cli/internal/gateway"
	"foreman-cli/internal/model"
)

// newTestStore wires a store to an httptest gateway. The handler receives the
// raw REST requests the real backend would.
func newTestStore(t *testing.T, handler http.HandlerFunc) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw := gateway.New(srv.URL, "anon-key")
	return New(gw, t.TempDir(), "user-1"), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestLoadData_PartialFailureLeavesCollectionEmpty(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/projects":
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		case "/rest/v1/tasks":
			writeJSON(t, w, []model.Task{{ID: 1, Title: "t"}})
		default:
			http.NotFound(w, r)
		}
	})

	s.LoadData(context.Background())
	if len(s.Projects) != 0 {
		t.Fatalf("expected empty projects after fetch failure, got %d", len(s.Projects))
	}
	if len(s.Tasks) != 1 {
		t.Fatalf("expected tasks to load independently, got %d", len(s.Tasks))
	}
	if s.Theme != ThemeDark {
		t.Fatalf("expected default dark theme, got %s", s.Theme)
	}
}

func TestLoadData_ScopesToUser(t *testing.T) {
	var gotFilter string
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/v1/projects" {
			gotFilter = r.URL.Query().Get("user_id")
		}
		writeJSON(t, w, []any{})
	})

	s.LoadData(context.Background())
	if gotFilter != "eq.user-1" {
		t.Fatalf("expected user_id=eq.user-1 filter, got %q", gotFilter)
	}
}

func TestAddTask_AppendsCanonicalRecordOnce(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/tasks" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var records []model.Task
		if err := json.NewDecoder(r.Body).Decode(&records); err != nil || len(records) != 1 {
			t.Errorf("expected one-record insert body, got %v (%v)", records, err)
		}
		if records[0].UserID != "user-1" {
			t.Errorf("insert not tagged with user id: %q", records[0].UserID)
		}
		records[0].ID = 42
		writeJSON(t, w, records)
	})

	created, err := s.AddTask(context.Background(), model.Task{Title: "call inspector"})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if created.ID != 42 {
		t.Fatalf("expected server-assigned id 42, got %d", created.ID)
	}
	count := 0
	for _, task := range s.Tasks {
		if task.ID == 42 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected id 42 exactly once in collection, found %d", count)
	}
}

func TestAddTask_FailureLeavesCollectionUnchanged(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"nope"}`, http.StatusBadRequest)
	})
	s.Tasks = []model.Task{{ID: 1}}

	if _, err := s.AddTask(context.Background(), model.Task{Title: "x"}); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Tasks) != 1 || s.Tasks[0].ID != 1 {
		t.Fatalf("collection changed after failed add: %v", s.Tasks)
	}
}

func TestUpdateTask_ReplacesMatchingRecord(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.7" {
			t.Errorf("expected id=eq.7 filter, got %q", got)
		}
		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Errorf("decode patch: %v", err)
		}
		if _, ok := patch["title"]; ok {
			t.Error("partial patch should not include unset title")
		}
		writeJSON(t, w, []model.Task{{ID: 7, Title: "keep", Completed: true}})
	})
	s.Tasks = []model.Task{{ID: 7, Title: "keep"}}

	updated, err := s.UpdateTask(context.Background(), 7, (&TaskPatch{}).Completed(true))
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if !updated.Completed || !s.Tasks[0].Completed {
		t.Fatal("expected canonical completed record in memory")
	}
}

func TestUpdateProject_SendsClearedFields(t *testing.T) {
	var body map[string]any
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode patch: %v", err)
		}
		writeJSON(t, w, []model.Project{{ID: 1, Name: "Site", Status: model.StatusLead}})
	})
	s.Projects = []model.Project{{
		ID:         1,
		Name:       "Site",
		ClientName: "Acme",
		Value:      5000,
		Status:     model.StatusLead,
	}}

	p := s.Projects[0]
	p.ClientName = ""
	p.Value = 0
	if _, err := s.UpdateProject(context.Background(), p); err != nil {
		t.Fatalf("update project: %v", err)
	}

	// A full-field replace must carry cleared columns, not drop them.
	for _, col := range []string{"client_name", "address", "value", "client_phone", "client_email", "notes"} {
		if _, ok := body[col]; !ok {
			t.Errorf("patch body missing cleared column %q: %v", col, body)
		}
	}
	if body["client_name"] != "" {
		t.Errorf("client_name = %v, want empty string", body["client_name"])
	}
	if body["value"] != float64(0) {
		t.Errorf("value = %v, want 0", body["value"])
	}
	if _, ok := body["id"]; ok {
		t.Error("id must travel in the filter, not the body")
	}
}

func TestUpdateProject_MissingLocalIndexLeavesCollectionUnchanged(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []model.Project{{ID: 99, Name: "Ghost", Status: model.StatusLead}})
	})
	s.Projects = []model.Project{{ID: 1, Name: "Real", Status: model.StatusLead}}

	updated, err := s.UpdateProject(context.Background(), model.Project{ID: 99, Name: "Ghost", Status: model.StatusLead})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if updated.ID != 99 {
		t.Fatalf("expected canonical record back, got %v", updated)
	}
	if len(s.Projects) != 1 || s.Projects[0].ID != 1 || s.Projects[0].Name != "Real" {
		t.Fatalf("collection changed for unknown id: %v", s.Projects)
	}
}

func TestDeleteTask_RemovesOnlyOnSuccess(t *testing.T) {
	fail := true
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, `{"message":"nope"}`, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	s.Tasks = []model.Task{{ID: 1}, {ID: 2}}

	if s.DeleteTask(context.Background(), 1) {
		t.Fatal("expected delete failure")
	}
	if len(s.Tasks) != 2 {
		t.Fatalf("collection changed after failed delete: %v", s.Tasks)
	}

	fail = false
	if !s.DeleteTask(context.Background(), 1) {
		t.Fatal("expected delete success")
	}
	if len(s.Tasks) != 1 || s.Tasks[0].ID != 2 {
		t.Fatalf("expected only task 2 to remain, got %v", s.Tasks)
	}
}

func TestAddNoteDeleteNote_RoundTrip(t *testing.T) {
	var lastNotes []model.Note
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			Notes []model.Note `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Errorf("decode notes patch: %v", err)
		}
		lastNotes = patch.Notes
		writeJSON(t, w, []model.Project{})
	})
	s.Projects = []model.Project{{
		ID:     1,
		Name:   "Site",
		Status: model.StatusLead,
		Notes:  []model.Note{{ID: "n1", Text: "first"}, {ID: "n2", Text: "second"}},
	}}

	note, err := s.AddNote(context.Background(), 1, "third")
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if note.ID == "" {
		t.Fatal("expected generated note id")
	}
	if len(lastNotes) != 3 || lastNotes[2].Text != "third" {
		t.Fatalf("expected whole-sequence update with appended note, got %v", lastNotes)
	}

	if !s.DeleteNote(context.Background(), 1, note.ID) {
		t.Fatal("delete note failed")
	}
	got := s.Projects[0].Notes
	if len(got) != 2 || got[0].ID != "n1" || got[1].ID != "n2" {
		t.Fatalf("expected pre-add sequence restored in order, got %v", got)
	}
}

func TestAddNote_GeneratesUniqueIDs(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []model.Project{})
	})
	s.Projects = []model.Project{{ID: 1, Status: model.StatusLead}}

	a, err := s.AddNote(context.Background(), 1, "a")
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	b, err := s.AddNote(context.Background(), 1, "b")
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("note ids collide: %s", a.ID)
	}
}

func TestAddNote_UnknownProjectIsNotFound(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no gateway call expected for unknown project")
	})

	_, err := s.AddNote(context.Background(), 404, "text")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteNote_FailureLeavesSequenceUnchanged(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"nope"}`, http.StatusInternalServerError)
	})
	s.Projects = []model.Project{{ID: 1, Status: model.StatusLead, Notes: []model.Note{{ID: "n1"}}}}

	if s.DeleteNote(context.Background(), 1, "n1") {
		t.Fatal("expected failure")
	}
	if len(s.Projects[0].Notes) != 1 {
		t.Fatalf("note sequence changed after failed delete: %v", s.Projects[0].Notes)
	}
}

func TestToggleTheme_TwiceRestoresAndPersistsFinalValue(t *testing.T) {
	dir := t.TempDir()
	s := New(nil, dir, "user-1")

	if got := s.ToggleTheme(); got != ThemeLight {
		t.Fatalf("expected light after first toggle, got %s", got)
	}
	if got := s.ToggleTheme(); got != ThemeDark {
		t.Fatalf("expected dark after second toggle, got %s", got)
	}
	if got := LoadTheme(dir); got != ThemeDark {
		t.Fatalf("expected persisted final value dark, got %s", got)
	}
}
