package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/kintreehq/kintree/pkg/blob"
	"github.com/kintreehq/kintree/pkg/cache"
	"github.com/kintreehq/kintree/pkg/store"
	"github.com/kintreehq/kintree/pkg/tree"
	"github.com/kintreehq/kintree/pkg/viewstate"
)

func newTestServer(t *testing.T, people ...tree.Person) (*Server, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	if err := mem.Seed(people...); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	views, err := viewstate.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("view store: %v", err)
	}
	uploads := t.TempDir()
	blobs, err := blob.NewLocal(uploads, "/uploads")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	srv := New(Config{
		Store:      mem,
		Blob:       blobs,
		Views:      views,
		Logger:     log.New(io.Discard),
		UploadsDir: uploads,
	})
	return srv, mem
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestListPeople(t *testing.T) {
	srv, _ := newTestServer(t,
		tree.Person{ID: "a", Name: "Ada"},
		tree.Person{ID: "b", Name: "Ben", Parents: []string{"a"}},
	)

	rec := doJSON(t, srv, http.MethodGet, "/api/people", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/people = %d, want 200", rec.Code)
	}

	var people []tree.Person
	if err := json.Unmarshal(rec.Body.Bytes(), &people); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(people) != 2 || people[0].ID != "a" || people[1].ID != "b" {
		t.Errorf("people = %+v, want a then b", people)
	}
}

func TestSavePerson_MarriesCouple(t *testing.T) {
	srv, mem := newTestServer(t,
		tree.Person{ID: "a", Name: "Ada"},
		tree.Person{ID: "b", Name: "Ben"},
	)

	rec := doJSON(t, srv, http.MethodPost, "/api/people", map[string]any{
		"person_id": "a",
		"name":      "Ada",
		"spouse":    "b",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/people = %d, body %s", rec.Code, rec.Body)
	}

	a, _ := mem.Get("a")
	b, _ := mem.Get("b")
	if a.Spouse != "b" || b.Spouse != "a" {
		t.Errorf("spouses not reconciled: a.Spouse=%q b.Spouse=%q", a.Spouse, b.Spouse)
	}
}

func TestSavePerson_NewPersonGetsID(t *testing.T) {
	srv, mem := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/people", map[string]any{
		"name": "Cleo",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/people = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		PersonID string `json:"person_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PersonID == "" {
		t.Fatal("response missing assigned person id")
	}
	if _, ok := mem.Get(resp.PersonID); !ok {
		t.Error("assigned id not present in store")
	}
}

func TestSavePerson_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/people", map[string]any{"name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/people", "not an object")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", rec.Code)
	}
}

func TestDiagramSVG(t *testing.T) {
	srv, _ := newTestServer(t,
		tree.Person{ID: "a", Name: "Ada", Spouse: "b"},
		tree.Person{ID: "b", Name: "Ben", Spouse: "a"},
		tree.Person{ID: "c", Name: "Cleo", Parents: []string{"a", "b"}},
	)

	rec := doJSON(t, srv, http.MethodGet, "/api/diagram.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/diagram.svg = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rec.Body.String(), `id="person-c"`) {
		t.Error("diagram missing person card")
	}
}

func TestDiagramSVG_CycleRejected(t *testing.T) {
	srv, _ := newTestServer(t,
		tree.Person{ID: "a", Name: "Ada", Parents: []string{"b"}},
		tree.Person{ID: "b", Name: "Ben", Parents: []string{"a"}},
	)

	rec := doJSON(t, srv, http.MethodGet, "/api/diagram.svg", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("cyclic population = %d, want 422", rec.Code)
	}
}

func TestDiagramCaching(t *testing.T) {
	mem := store.NewMemory()
	if err := mem.Seed(tree.Person{ID: "a", Name: "Ada"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	views, err := viewstate.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("view store: %v", err)
	}
	blobs, err := blob.NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	srv := New(Config{Store: mem, Blob: blobs, Views: views, Cache: fc, Logger: log.New(io.Discard)})

	first := doJSON(t, srv, http.MethodGet, "/api/diagram.svg", nil)
	second := doJSON(t, srv, http.MethodGet, "/api/diagram.svg", nil)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("diagram requests = %d, %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached diagram differs from rendered diagram")
	}

	// An edit changes the population hash, so the stale artifact is bypassed.
	rec := doJSON(t, srv, http.MethodPost, "/api/people", map[string]any{
		"person_id": "a",
		"name":      "Ada Lovelace",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save = %d", rec.Code)
	}
	third := doJSON(t, srv, http.MethodGet, "/api/diagram.svg", nil)
	if !strings.Contains(third.Body.String(), "Ada Lovelace") {
		t.Error("diagram served stale cache entry after edit")
	}
}

func TestViewState(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/view", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/view = %d", rec.Code)
	}
	var tr viewstate.Transform
	if err := json.Unmarshal(rec.Body.Bytes(), &tr); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if tr != viewstate.Identity() {
		t.Errorf("initial view = %+v, want identity", tr)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/view", viewstate.Transform{X: 10, Y: -5, Scale: 1.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /api/view = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/view", nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &tr)
	if tr.X != 10 || tr.Y != -5 || tr.Scale != 1.5 {
		t.Errorf("view after save = %+v", tr)
	}

	if rec := doJSON(t, srv, http.MethodPut, "/api/view", viewstate.Transform{Scale: 0}); rec.Code != http.StatusBadRequest {
		t.Errorf("zero scale = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/view", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /api/view = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/view", nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &tr)
	if tr != viewstate.Identity() {
		t.Errorf("view after reset = %+v, want identity", tr)
	}
}

func TestUploadPhoto(t *testing.T) {
	srv, mem := newTestServer(t, tree.Person{ID: "a", Name: "Ada"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "ada.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("pngdata")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/people/a/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("photo upload = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != "/uploads/people/a.png" {
		t.Errorf("url = %q, want /uploads/people/a.png", resp.URL)
	}

	a, _ := mem.Get("a")
	if a.ImageURL != resp.URL {
		t.Errorf("person ImageURL = %q, want %q", a.ImageURL, resp.URL)
	}

	// Uploaded object is served back.
	rec = doJSON(t, srv, http.MethodGet, "/uploads/people/a.png", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "pngdata" {
		t.Errorf("GET upload = %d %q", rec.Code, rec.Body.String())
	}
}

func TestUploadPhoto_Errors(t *testing.T) {
	srv, _ := newTestServer(t, tree.Person{ID: "a", Name: "Ada"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("photo", "notes.txt")
	_, _ = fw.Write([]byte("text"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/people/a/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad extension = %d, want 400", rec.Code)
	}

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	fw, _ = mw.CreateFormFile("photo", "x.png")
	_, _ = fw.Write([]byte("pngdata"))
	mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/api/people/missing/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown person = %d, want 404", rec.Code)
	}
}
