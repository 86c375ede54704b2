package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/vaaniprep/vaani/core/note"
)

func Test_noteApi_catalog(t *testing.T) {
	e := setup(t)
	optics := createNote(t, e.noteRepo, "Ray Optics", "Note", "Physics", []string{"CEE", "IOE"}, "Free", true, "https://drive.google.com/optics")
	bonding := createNote(t, e.noteRepo, "Chemical Bonding", "Note", "Chemistry", []string{"CEE"}, "Rs. 99", true, "")
	draft := createNote(t, e.noteRepo, "Lens Maker", "Derivation", "Physics", []string{"CEE"}, "Free", false, "")

	tests := []httpTest{
		{
			name: "Listing hides unpublished notes", path: "/v1/notes",
			wantCode: http.StatusOK, wantData: marchallList(t, bonding, optics),
		},
		{
			name: "Published detail", path: fmt.Sprintf("/v1/notes/%d", optics.ID),
			wantCode: http.StatusOK, wantData: marchallObj(t, optics),
		},
		{
			name: "Unpublished detail stays hidden", path: fmt.Sprintf("/v1/notes/%d", draft.ID),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: note.ErrNotFound.Error()}),
		},
		{
			name: "Unknown note", path: "/v1/notes/9999",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: note.ErrNotFound.Error()}),
		},
		{
			name: "Non-numeric id", path: "/v1/notes/abc",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid note id"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_noteApi_view(t *testing.T) {
	e := setup(t)
	usr := createUser(t, e.usrRepo, "Jane", "jane", "jane@test.np", goodPwd)
	token := getToken(t, e.conf, usr)

	linked := createNote(t, e.noteRepo, "Ray Optics", "Note", "Physics", []string{"CEE"}, "Free", true, "https://drive.google.com/optics")
	unlinked := createNote(t, e.noteRepo, "Electrostatics", "Formula", "Physics", []string{"IOE"}, "Free", true, "")

	tests := []httpTest{
		{
			name: "Auth required", path: fmt.Sprintf("/v1/notes/%d/view", linked.ID),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Drive link returned", path: fmt.Sprintf("/v1/notes/%d/view", linked.ID), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, map[string]string{"driveLink": "https://drive.google.com/optics"}),
		},
		{
			name: "Missing link soft-fails", path: fmt.Sprintf("/v1/notes/%d/view", unlinked.ID), token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, map[string]string{"message": "content link not available"}),
		},
		{
			name: "Unknown note", path: "/v1/notes/9999/view", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: note.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_noteApi_savedDashboard(t *testing.T) {
	e := setup(t)
	usr := createUser(t, e.usrRepo, "Jane", "jane", "jane@test.np", goodPwd)
	token := getToken(t, e.conf, usr)

	physics := createNote(t, e.noteRepo, "Ray Optics", "Note", "Physics", []string{"CEE"}, "Free", true, "")
	chemistry := createNote(t, e.noteRepo, "Chemical Bonding", "Note", "Chemistry", []string{"CEE"}, "Free", true, "")

	t.Run("Empty dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/notes", token)
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)
	})

	t.Run("Anonymous save rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/student/notes", []byte(fmt.Sprintf(`{"noteId":%d}`, physics.ID)))
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("Save via session cookie", func(t *testing.T) {
		req, rec := newCookieRequest(http.MethodPost, "/v1/student/notes", "vaani_session", token,
			[]byte(fmt.Sprintf(`{"noteId":%d}`, physics.ID)))
		e.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		var sn note.SavedNote
		if err := json.Unmarshal(rec.Body.Bytes(), &sn); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if sn.NoteID != physics.ID || sn.Note.ID != physics.ID {
			t.Errorf("saved wrong note: %+v", sn)
		}
		if sn.AddedAt.IsZero() {
			t.Error("addedAt not set")
		}
	})

	t.Run("Double save conflicts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/notes", token,
			[]byte(fmt.Sprintf(`{"noteId":%d}`, physics.ID)))
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: note.ErrAlreadySaved.Error()}),
		}, rec)
	})

	t.Run("Saving an unknown note", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/notes", token, []byte(`{"noteId":9999}`))
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: note.ErrNotFound.Error()}),
		}, rec)
	})

	t.Run("Missing noteId", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/notes", token, []byte(`{}`))
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"noteId": "this field is required"}),
		}, rec)
	})

	t.Run("Dashboard groups by subject", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/student/notes", token,
			[]byte(fmt.Sprintf(`{"noteId":%d}`, chemistry.ID)))
		e.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/student/notes", token)
		e.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var saved []note.SavedNote
		if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(saved) != 2 {
			t.Fatalf("saved notes = %d; want 2", len(saved))
		}
		if saved[0].Note.SubjectName != "Chemistry" || saved[1].Note.SubjectName != "Physics" {
			t.Errorf("unexpected subject order: %q, %q", saved[0].Note.SubjectName, saved[1].Note.SubjectName)
		}
	})

	t.Run("Dashboards are per user", func(t *testing.T) {
		other := createUser(t, e.usrRepo, "Ram", "ram", "ram@test.np", goodPwd)
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/notes", getToken(t, e.conf, other))
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)
	})

	t.Run("Remove saved note", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/student/notes/%d", physics.ID), token)
		e.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Removing twice", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/student/notes/%d", physics.ID), token)
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: note.ErrNotSaved.Error()}),
		}, rec)
	})
}
