package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kintreehq/kintree/pkg/blob"
	kerrors "github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/observability"
	"github.com/kintreehq/kintree/pkg/reconcile"
	"github.com/kintreehq/kintree/pkg/store"
	"github.com/kintreehq/kintree/pkg/viewstate"
)

// saveRequest is the JSON body of POST /api/people: the edit-session state
// handed to the reconciler.
type saveRequest struct {
	PersonID         string   `json:"person_id"`
	Name             string   `json:"name"`
	Birth            string   `json:"birth"`
	Death            string   `json:"death"`
	Parents          []string `json:"parents"`
	Spouse           string   `json:"spouse"`
	SelectedChildren []string `json:"selected_children"`
}

type saveResponse struct {
	PersonID string      `json:"person_id"`
	Writes   []writeInfo `json:"writes"`
}

type writeInfo struct {
	Op   string `json:"op"`
	ID   string `json:"id"`
	Note string `json:"note,omitempty"`
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeStoreRead, err, "list people"))
		return
	}
	s.writeJSON(w, http.StatusOK, people)
}

func (s *Server) handleSavePerson(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "decode save request"))
		return
	}

	pop, err := store.Population(r.Context(), s.cfg.Store)
	if err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeStoreRead, err, "load population"))
		return
	}

	observability.Editor().OnSaveStart(r.Context(), req.PersonID)
	start := time.Now()
	res, err := reconcile.Save(r.Context(), s.cfg.Store, pop, reconcile.Session{
		PersonID:         req.PersonID,
		Name:             req.Name,
		Birth:            req.Birth,
		Death:            req.Death,
		Parents:          req.Parents,
		Spouse:           req.Spouse,
		SelectedChildren: req.SelectedChildren,
	})
	observability.Editor().OnSaveComplete(r.Context(), res.PersonID, len(res.Writes), time.Since(start), err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := saveResponse{PersonID: res.PersonID}
	for _, wr := range res.Writes {
		resp.Writes = append(resp.Writes, writeInfo{Op: string(wr.Op), ID: wr.ID, Note: wr.Note})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pop, err := store.Population(r.Context(), s.cfg.Store)
	if err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeStoreRead, err, "load population"))
		return
	}
	p, ok := pop.Get(id)
	if !ok {
		s.writeError(w, kerrors.New(kerrors.ErrCodePersonNotFound, "person %s not found", id))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeInvalidImage, err, "read upload"))
		return
	}
	defer file.Close()

	key, err := blob.Key(id, header.Filename)
	if err != nil {
		s.writeError(w, err)
		return
	}

	url, err := s.cfg.Blob.Upload(r.Context(), key, blob.ContentType(key), file)
	if err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeBlob, err, "upload photo"))
		return
	}

	p.ImageURL = url
	if err := s.cfg.Store.Update(r.Context(), id, p); err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeStoreWrite, err, "update photo url"))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	t, err := s.cfg.Views.Load(r.Context())
	if err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "load view state"))
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handlePutView(w http.ResponseWriter, r *http.Request) {
	var t viewstate.Transform
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "decode view state"))
		return
	}
	if t.Scale <= 0 {
		s.writeError(w, kerrors.New(kerrors.ErrCodeInvalidInput, "scale must be positive"))
		return
	}
	if err := s.cfg.Views.Save(r.Context(), t); err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "save view state"))
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleResetView(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Views.Reset(r.Context()); err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeInternal, err, "reset view state"))
		return
	}
	s.writeJSON(w, http.StatusOK, viewstate.Identity())
}
