package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kintreehq/kintree/pkg/cache"
	kerrors "github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/layout"
	"github.com/kintreehq/kintree/pkg/observability"
	"github.com/kintreehq/kintree/pkg/render"
	"github.com/kintreehq/kintree/pkg/store"
	"github.com/kintreehq/kintree/pkg/tree"
)

func (s *Server) handleDiagramSVG(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, "svg", "image/svg+xml", func(pop *tree.Population) ([]byte, error) {
		l, err := layout.Compute(pop, s.cfg.Layout)
		if err != nil {
			return nil, err
		}
		opts := []render.SVGOption{render.WithImages(), render.WithInteraction()}
		if r.URL.Query().Get("grid") == "1" {
			opts = append(opts, render.WithGrid())
		}
		return render.RenderSVG(l, opts...), nil
	})
}

func (s *Server) handleDiagramJSON(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, "json", "application/json", func(pop *tree.Population) ([]byte, error) {
		l, err := layout.Compute(pop, s.cfg.Layout)
		if err != nil {
			return nil, err
		}
		return json.Marshal(l)
	})
}

func (s *Server) handleDiagramDOT(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, "dot", "text/vnd.graphviz", func(pop *tree.Population) ([]byte, error) {
		detailed := r.URL.Query().Get("detailed") == "1"
		return []byte(render.ToDOT(pop, render.DOTOptions{Detailed: detailed})), nil
	})
}

// serveDiagram renders the population with build, caching the artifact keyed
// by the population snapshot hash. The grid/detailed query parameters are
// folded into the format tag so variants do not collide.
func (s *Server) serveDiagram(w http.ResponseWriter, r *http.Request, format, contentType string, build func(*tree.Population) ([]byte, error)) {
	pop, err := store.Population(r.Context(), s.cfg.Store)
	if err != nil {
		s.writeError(w, kerrors.Wrap(kerrors.ErrCodeStoreRead, err, "load population"))
		return
	}

	if q := r.URL.Query().Encode(); q != "" {
		format += "?" + q
	}

	key := ""
	if popHash, err := cache.PopulationKey(pop); err == nil {
		key = cache.ArtifactKey(popHash, format, s.cfg.Layout)
		if data, hit, err := s.cfg.Cache.Get(r.Context(), key); err == nil && hit {
			observability.Cache().OnCacheHit(r.Context(), "diagram")
			w.Header().Set("Content-Type", contentType)
			_, _ = w.Write(data)
			return
		}
		observability.Cache().OnCacheMiss(r.Context(), "diagram")
	}

	observability.Render().OnRenderStart(r.Context(), format, pop.Len())
	start := time.Now()
	data, err := build(pop)
	observability.Render().OnRenderComplete(r.Context(), format, len(data), time.Since(start), err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if key != "" {
		if err := s.cfg.Cache.Set(r.Context(), key, data, s.cfg.CacheTTL); err != nil {
			s.cfg.Logger.Warn("cache diagram", "error", err)
		} else {
			observability.Cache().OnCacheSet(r.Context(), "diagram", len(data))
		}
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}
