package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mithrel/gridspike/internal/columns"
	"github.com/mithrel/gridspike/internal/config"
	"github.com/mithrel/gridspike/internal/db"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/internal/present"
	"github.com/mithrel/gridspike/internal/wire"
	"github.com/mithrel/gridspike/pkg/api"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeProtobuf = "application/x-protobuf"
	headerRequestID     = "X-Request-ID"

	// columnsParam projects the response onto a comma-separated column list.
	columnsParam = "columns"
)

// Server serves computed grid pages over HTTP.
type Server struct {
	app *wire.App
	log *zap.SugaredLogger

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	ds        *api.Dataset
	fromStore bool
}

func New(app *wire.App) *Server {
	return &Server{app: app, log: app.Log, cache: map[string]cached{}}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/datasets", s.handleDatasets)
	mux.HandleFunc("GET /v1/grid/{dataset}", s.handleGrid)
	return s.withRequestID(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Infow("http server listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Infow("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestID tags every request with an id, then logs and counts it.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := routeOf(r.URL.Path)
		dur := time.Since(start)
		requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(route).Observe(dur.Seconds())
		s.log.Debugw("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", dur,
		)
	})
}

func routeOf(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/grid/"):
		return "/v1/grid"
	case path == "/v1/datasets", path == "/healthz", path == "/metrics":
		return path
	}
	return "other"
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	infos, err := s.app.Store.Datasets.ListDatasets(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if infos == nil {
		infos = []api.DatasetInfo{}
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	_ = json.NewEncoder(w).Encode(infos)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("dataset")
	ds, err := s.dataset(r.Context(), name)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, db.ErrNotFound) {
			code = http.StatusNotFound
		}
		s.writeError(w, r, code, err)
		return
	}

	view := s.app.NewView(ds, params.NewMemoryStore(params.FromValues(r.URL.Query())), nil)
	defer view.Controller.Close()
	// page=1 and the default size are dropped so equal views share an ETag
	view.Controller.SetPaging(view.Pager.Params(s.app.Cfg.GetInt("grid.page_size")))
	snap := view.Controller.Snapshot()

	etag := ETag(ds.Checksum, snap)
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		notModified.WithLabelValues(name).Inc()
		w.WriteHeader(http.StatusNotModified)
		return
	}

	res := view.Compute(ds.Rows)
	filteredRows.WithLabelValues(name).Observe(float64(res.Total))

	cols := columns.New(ds.Schema)
	if raw := snap.Get(columnsParam, ""); raw != "" {
		cols.SetVisible(strings.Split(raw, ","))
	}
	page := present.PageOf(cols.Ordered(), res, present.Options{Title: name, Query: snap.Query()})

	if wantsProtobuf(r) {
		b, err := encodeProtobuf(page)
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", contentTypeProtobuf)
		_, _ = w.Write(b)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	_ = json.NewEncoder(w).Encode(page)
}

// ETag identifies a response by dataset content and cleaned query state.
func ETag(checksum string, snap params.Snapshot) string {
	return `"` + api.Checksum([]byte(checksum+"\x00"+snap.Query()))[:32] + `"`
}

func wantsProtobuf(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mt == contentTypeProtobuf {
			return true
		}
	}
	return false
}

// encodeProtobuf converts the JSON envelope into a google.protobuf.Struct.
func encodeProtobuf(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return proto.Marshal(st)
}

// dataset returns a cached dataset. Store-backed entries are reloaded when
// their checksum changes, so a re-import shows up without a restart.
func (s *Server) dataset(ctx context.Context, name string) (*api.Dataset, error) {
	s.mu.Lock()
	c, ok := s.cache[name]
	s.mu.Unlock()
	if ok && (!c.fromStore || s.fresh(ctx, name, c.ds.Checksum)) {
		return c.ds, nil
	}

	ds, err := s.app.LoadDataset(ctx, name, "")
	if err != nil {
		return nil, err
	}
	_, fromConfig := config.LookupDataset(s.app.Cfg, name)
	s.mu.Lock()
	s.cache[name] = cached{ds: ds, fromStore: !fromConfig}
	s.mu.Unlock()
	s.log.Infow("dataset loaded", "dataset", name, "rows", len(ds.Rows), "checksum", ds.Checksum)
	return ds, nil
}

func (s *Server) fresh(ctx context.Context, name, checksum string) bool {
	infos, err := s.app.Store.Datasets.ListDatasets(ctx)
	if err != nil {
		return true
	}
	for _, info := range infos {
		if info.Name == name {
			return info.Checksum == checksum
		}
	}
	return false
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "path", r.URL.Path, "error", err)
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
