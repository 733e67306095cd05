package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/client/config"
	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// testBackend is a small in-memory stand-in for the REST API, enough to
// drive the CLI end to end.
type testBackend struct {
	mu       sync.Mutex
	nextID   int64
	items    []models.Material
	set      models.FlashcardSet
	pending  []models.PendingShare
	updates  [][]models.ShareUpdate
	requests []string
}

func newTestBackend() *testBackend {
	b := &testBackend{nextID: 100}
	b.items = []models.Material{
		{ID: 1, ItemType: models.ItemTypeFolder, Name: "Biology"},
		{ID: 2, ItemType: models.ItemTypeFolder, Name: "Cells", ParentID: models.IDPtr(1)},
		{ID: 3, ItemType: models.ItemTypeSet, Name: "Organelles", ParentID: models.IDPtr(2)},
		{ID: 4, ItemType: models.ItemTypeFolder, Name: "Chemistry"},
	}
	b.set = models.FlashcardSet{
		ID:         3,
		Name:       "Organelles",
		Creator:    "ann@example.com",
		Flashcards: []models.Flashcard{{ID: models.IDPtr(1), FrontContent: "Powerhouse?", BackContent: "Mitochondria"}},
		SharedWith: []models.SharedUser{{UserID: 9, Email: "bob@example.com", Permission: models.PermissionViewer}},
		Upvotes:    1,
		CommentsData: models.CommentsData{
			Comments: map[int64]models.Comment{
				50: {ID: 50, Text: "Nice set", AuthorEmail: "bob@example.com", Replies: []int64{}},
			},
			TopLevelCommentIDs: []int64{50},
		},
	}
	b.pending = []models.PendingShare{{ShareID: 70, MaterialName: "Genetics", SharerEmail: "cy@example.com"}}
	return b
}

func (b *testBackend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *testBackend) find(id int64) int {
	return slices.IndexFunc(b.items, func(m models.Material) bool { return m.ID == id })
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *testBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /materials/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, b.items)
	})
	mux.HandleFunc("GET /shares/pending", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, b.pending)
	})
	mux.HandleFunc("POST /folders", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name     string `json:"name"`
			ParentID *int64 `json:"parent_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		m := models.Material{ID: b.id(), ItemType: models.ItemTypeFolder, Name: in.Name, ParentID: in.ParentID}
		b.items = append(b.items, m)
		writeJSON(w, 200, m)
	})
	mux.HandleFunc("PATCH /materials/{id}", func(w http.ResponseWriter, r *http.Request) {
		i := b.find(pathID(r, "id"))
		if i < 0 {
			writeJSON(w, 404, map[string]string{"detail": "Material not found"})
			return
		}
		var in map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&in)
		if raw, ok := in["name"]; ok {
			_ = json.Unmarshal(raw, &b.items[i].Name)
		}
		if raw, ok := in["parent_id"]; ok {
			var p *int64
			_ = json.Unmarshal(raw, &p)
			b.items[i].ParentID = p
		}
		writeJSON(w, 200, b.items[i])
	})
	mux.HandleFunc("DELETE /materials/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id")
		removed := []int64{id}
		for changed := true; changed; {
			changed = false
			for _, m := range b.items {
				if m.ParentID != nil && slices.Contains(removed, *m.ParentID) && !slices.Contains(removed, m.ID) {
					removed = append(removed, m.ID)
					changed = true
				}
			}
		}
		b.items = slices.DeleteFunc(b.items, func(m models.Material) bool { return slices.Contains(removed, m.ID) })
		writeJSON(w, 200, removed)
	})
	mux.HandleFunc("GET /sets/{id}", func(w http.ResponseWriter, r *http.Request) {
		if pathID(r, "id") != b.set.ID {
			writeJSON(w, 404, map[string]string{"detail": "Set not found"})
			return
		}
		writeJSON(w, 200, b.set)
	})
	mux.HandleFunc("POST /materials/{id}/vote", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, models.VoteResult{Upvotes: 2, UserVote: models.VoteUp})
	})
	mux.HandleFunc("POST /materials/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Text     string `json:"text"`
			ParentID *int64 `json:"parent_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, 200, models.Comment{ID: b.id(), Text: in.Text, AuthorEmail: "ann@example.com", ParentID: in.ParentID, Replies: []int64{}})
	})
	mux.HandleFunc("POST /materials/{id}/share", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email      string            `json:"email"`
			Permission models.Permission `json:"permission"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email == "ghost@example.com" {
			writeJSON(w, 404, map[string]string{"detail": "User not found"})
			return
		}
		writeJSON(w, 200, models.SharedUser{UserID: b.id(), Email: in.Email, Permission: in.Permission})
	})
	mux.HandleFunc("POST /materials/{id}/shares/update", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Updates []models.ShareUpdate `json:"updates"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.updates = append(b.updates, in.Updates)
		writeJSON(w, 200, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /shares/pending/{id}/accept", func(w http.ResponseWriter, r *http.Request) {
		m := models.Material{ID: b.id(), ItemType: models.ItemTypeLink, Name: "Genetics", LinkedMaterialID: models.IDPtr(3)}
		b.items = append(b.items, m)
		b.pending = nil
		writeJSON(w, 200, m)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, 401, map[string]string{"detail": "Not authenticated"})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (b *testBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// newBackendApp starts a test backend and an App talking to it. Output is
// captured in the returned buffer; input is taken from stdin.
func newBackendApp(t *testing.T, stdin string) (*App, *testBackend, *bytes.Buffer) {
	t.Helper()
	backend := newTestBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL

	reg := prometheus.NewRegistry()
	api := client.NewHTTPClient(srv.URL,
		client.WithRetries(0, 0),
		client.WithMetrics(client.NewMetrics(reg)),
	)

	var out bytes.Buffer
	app := newApp(cfg, api, logging.Discard(), reg, bytes.NewBufferString(stdin), &out)
	return app, backend, &out
}

func testToken(t *testing.T, email string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": email}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

// run executes one command line against app.
func run(t *testing.T, app *App, args ...string) error {
	t.Helper()
	return app.exec(context.Background(), args)
}

func (b *testBackend) Updates() [][]models.ShareUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.updates)
}
