// Package main implements the indexcoord node service: a cluster peer that
// materializes indices locally when the coordinator asks it to, and reports
// back once it has.
//
// HTTP API:
//
//	POST /cluster/create-index   materialize an index locally
//	GET  /health                 health check
//
// Required environment: NODE_ID, COORDINATOR_ADDR. Optional: NODE_LISTEN
// (default ":8081"), NODE_ADDR (default "http://127.0.0.1:8081").
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamware/indexcoord/internal/broadcast"
	"github.com/dreamware/indexcoord/internal/cluster"
	"github.com/dreamware/indexcoord/internal/localstore"
	"github.com/dreamware/indexcoord/internal/obslog"
)

// logFatal is a variable so tests can intercept a fatal startup error
// without killing the test process.
var logFatal = func(msg string, kv ...interface{}) { obslog.L().Fatalw(msg, kv...) }

type nodeServer struct {
	id       string
	coordURL string
	store    *localstore.LocalIndexStore
}

func newNodeServer(id, coordURL string) *nodeServer {
	return &nodeServer{id: id, coordURL: coordURL, store: localstore.New()}
}

func main() {
	nodeID := mustGetenv("NODE_ID")
	listen := getenv("NODE_LISTEN", ":8081")
	public := getenv("NODE_ADDR", "http://127.0.0.1:8081")
	coord := mustGetenv("COORDINATOR_ADDR")

	srv := newNodeServer(nodeID, coord)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cluster.HealthStatus{Status: "ok"})
	})
	mux.HandleFunc("/cluster/create-index", srv.handleCreateIndex)

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		obslog.L().Infow("node listening", "node_id", nodeID, "addr", listen, "public", public)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logFatal("listen", "err", err)
		}
	}()

	register(context.Background(), coord, nodeID, public)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	obslog.L().Infow("node stopped", "node_id", nodeID)
}

// register announces this node to the coordinator, retrying to absorb
// coordinator startup delays.
func register(ctx context.Context, coord, id, addr string) {
	body := cluster.RegisterRequest{Node: cluster.NodeInfo{ID: id, Addr: addr}}
	var lastErr error
	for i := 0; i < 10; i++ {
		lastErr = cluster.PostJSON(ctx, coord+"/register", body, nil)
		if lastErr == nil {
			obslog.L().Infow("registered with coordinator", "coordinator", coord)
			return
		}
		obslog.L().Warnw("register retry", "attempt", i+1, "err", lastErr)
		time.Sleep(400 * time.Millisecond)
	}
	logFatal("failed to register with coordinator", "err", lastErr)
}

// handleCreateIndex materializes an index locally: for each mapping type in
// the notification, calls MapperService.add, rolling the local index back
// on any failure (mirroring the coordinator's own step 4 locally). Once
// materialized, it reports back to the coordinator's /cluster/notify
// endpoint so the Peer Acknowledgment Tracker can count this node.
func (s *nodeServer) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var notification broadcast.CreateIndexNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	handle, err := s.store.Create(notification.IndexName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	for typeName, source := range notification.Mappings {
		if _, err := handle.Mapper.Add(typeName, source); err != nil {
			s.store.Delete(notification.IndexName)
			obslog.L().Warnw("mapping failed on peer, not acknowledging", "index", notification.IndexName, "type", typeName, "err", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)

	go func() {
		url := fmt.Sprintf("%s/cluster/notify", s.coordURL)
		payload := struct {
			IndexName string `json:"index_name"`
			NodeID    string `json:"node_id"`
		}{IndexName: notification.IndexName, NodeID: s.id}
		if err := cluster.PostJSON(context.Background(), url, payload, nil); err != nil {
			obslog.L().Warnw("failed to report index materialization to coordinator", "index", notification.IndexName, "err", err)
		}
	}()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustGetenv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logFatal("missing required environment variable", "key", key)
	}
	return v
}
