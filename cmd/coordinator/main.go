// Package main implements the indexcoord coordinator service: the process
// that owns authoritative cluster state and orchestrates create-index
// requests across the cluster.
//
// HTTP API:
//
//	POST /indices/{name}   create an index
//	GET  /indices/{name}   read an index's committed metadata
//	POST /register         node registration
//	GET  /cluster/nodes    list known nodes
//	GET  /cluster/state    read a summary of the committed cluster state
//	POST /cluster/notify   peer reports a materialized index
//	GET  /health           health check
//
// Configuration is read by internal/config from INDEXCOORD_-prefixed
// environment variables and an optional config file named by
// INDEXCOORD_CONFIG_FILE.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dreamware/indexcoord/internal/cluster"
	"github.com/dreamware/indexcoord/internal/clusterqueue"
	"github.com/dreamware/indexcoord/internal/config"
	"github.com/dreamware/indexcoord/internal/coordinator"
	"github.com/dreamware/indexcoord/internal/localstore"
	"github.com/dreamware/indexcoord/internal/mapping"
	"github.com/dreamware/indexcoord/internal/metadata"
	"github.com/dreamware/indexcoord/internal/obslog"
	"github.com/dreamware/indexcoord/internal/routing"
)

// logFatal is a variable so tests can intercept a fatal startup error
// without killing the test process.
var logFatal = func(msg string, kv ...interface{}) { obslog.L().Fatalw(msg, kv...) }

func main() {
	cfg, err := config.Load(os.Getenv("INDEXCOORD_CONFIG_FILE"))
	if err != nil {
		logFatal("load config", "err", err)
	}

	nodes := cluster.NewDiscoveryNodes("coordinator")
	queue := clusterqueue.New(metadata.NewClusterState(nodes))
	registry := coordinator.NewNotifyRegistry()
	loader := mapping.New(cfg.MappingRoot)
	store := localstore.New()
	coord := coordinator.New(queue, registry, loader, store, routing.RoundRobinStrategy{}, "coordinator")

	srv := &server{cfg: cfg, nodes: nodes, queue: queue, registry: registry, coord: coord}

	mux := http.NewServeMux()
	mux.HandleFunc("/register", srv.handleRegister)
	mux.HandleFunc("/cluster/nodes", srv.handleListNodes)
	mux.HandleFunc("/cluster/notify", srv.handleNotify)
	mux.HandleFunc("/indices/", srv.handleIndex)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/cluster/state", srv.handleClusterState)

	httpSrv := &http.Server{
		Addr:              cfg.CoordinatorAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		obslog.L().Infow("coordinator listening", "addr", cfg.CoordinatorAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logFatal("listen", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	queue.Close()
	obslog.L().Infow("coordinator stopped")
}

type server struct {
	cfg      config.Config
	nodes    *cluster.DiscoveryNodes
	queue    *clusterqueue.Queue
	registry *coordinator.NotifyRegistry
	coord    *coordinator.Coordinator
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req cluster.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Node.ID == "" || req.Node.Addr == "" {
		http.Error(w, "missing id/addr", http.StatusBadRequest)
		return
	}
	s.nodes.Add(req.Node)
	obslog.L().Infow("node registered", "node_id", req.Node.ID, "addr", req.Node.Addr)
	w.WriteHeader(http.StatusNoContent)

	go probeNodeHealth(req.Node)
}

// probeNodeHealth confirms a just-registered node actually answers its own
// /health endpoint, logging the result; registration itself is not gated on
// this, since the node's liveness is already re-checked on every create-index
// acknowledgment round.
func probeNodeHealth(node cluster.NodeInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var status cluster.HealthStatus
	if err := cluster.GetJSON(ctx, node.Addr+"/health", &status); err != nil {
		obslog.L().Warnw("registered node failed its health check", "node_id", node.ID, "err", err)
		return
	}
	obslog.L().Infow("registered node is healthy", "node_id", node.ID, "status", status.Status)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cluster.HealthStatus{Status: "ok"})
}

// indexSummary is the read-only view of one index's settings exposed by
// GET /cluster/state.
type indexSummary struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

type clusterStateBody struct {
	Version      int64 `json:"version"`
	Nodes        []cluster.NodeInfo `json:"nodes"`
	Indices      map[string]indexSummary `json:"indices"`
	RoutingTable map[string]routing.IndexRoutingTable `json:"routing_table"`
}

// handleClusterState exposes a summary of the committed ClusterState
// (version, nodes, per-index shard and replica counts, routing table) so the
// end-to-end scenarios are observable over HTTP without reaching into the
// queue directly. Aliases, settings and mappings are not included.
func (s *server) handleClusterState(w http.ResponseWriter, _ *http.Request) {
	cs := s.queue.Current()
	indices := make(map[string]indexSummary)
	for name, idx := range cs.MetaData().Indices() {
		indices[name] = indexSummary{NumberOfShards: idx.NumberOfShards(), NumberOfReplicas: idx.NumberOfReplicas()}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(clusterStateBody{
		Version:      cs.Version(),
		Nodes:        cs.Nodes().All(),
		Indices:      indices,
		RoutingTable: cs.RoutingTable().Indices(),
	})
}

func (s *server) handleListNodes(w http.ResponseWriter, _ *http.Request) {
	_ = json.NewEncoder(w).Encode(struct {
		Nodes []cluster.NodeInfo `json:"nodes"`
	}{Nodes: s.nodes.All()})
}

// handleNotify is the C7 transport surface: a peer reports that it has
// materialized index_name locally (spec.md §4.4).
func (s *server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IndexName string `json:"index_name"`
		NodeID    string `json:"node_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	s.registry.Notify(body.IndexName, body.NodeID)
	w.WriteHeader(http.StatusNoContent)
}

// handleIndex dispatches POST /indices/{name} (create) and GET
// /indices/{name} (read).
func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path[len("/indices/"):]
	switch r.Method {
	case http.MethodPost:
		s.handleCreateIndex(w, r, name)
	case http.MethodGet:
		s.handleReadIndex(w, r, name)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type createIndexBody struct {
	Cause    string            `json:"cause"`
	Settings map[string]string `json:"settings"`
	Mappings map[string]string `json:"mappings"`
	Timeout  string            `json:"timeout"`
}

func (s *server) handleCreateIndex(w http.ResponseWriter, r *http.Request, name string) {
	var body createIndexBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
	}

	settings := metadata.NewSettings(body.Settings).
		WithDefault(metadata.SettingNumberOfShards, strconv.Itoa(s.cfg.DefaultNumberOfShards)).
		WithDefault(metadata.SettingNumberOfReplicas, strconv.Itoa(s.cfg.DefaultNumberOfReplicas))
	req := coordinator.NewCreateIndexRequest(name).
		Cause(body.Cause).
		Settings(settings).
		Mappings(body.Mappings).
		Timeout(s.cfg.DefaultAckTimeout)
	if body.Timeout != "" {
		if d, err := time.ParseDuration(body.Timeout); err == nil {
			req.Timeout(d)
		}
	}

	done := make(chan struct{})
	var resp coordinator.Response
	var failure error
	s.coord.CreateIndex(r.Context(), req, coordinator.ResultListenerFuncs{
		OnResponseFunc: func(r coordinator.Response) { resp = r; close(done) },
		OnFailureFunc:  func(err error) { failure = err; close(done) },
	})

	select {
	case <-done:
	case <-r.Context().Done():
		http.Error(w, "request canceled", http.StatusRequestTimeout)
		return
	}

	if failure != nil {
		status := http.StatusInternalServerError
		if createErr, ok := failure.(*coordinator.CreateError); ok {
			status = createErr.HTTPStatus()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(struct {
			Error string `json:"error"`
		}{Error: failure.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Acknowledged bool `json:"acknowledged"`
	}{Acknowledged: resp.Acknowledged})
}

func (s *server) handleReadIndex(w http.ResponseWriter, _ *http.Request, name string) {
	idx, ok := s.queue.Current().MetaData().Index(name)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Name             string            `json:"name"`
		NumberOfShards   int               `json:"number_of_shards"`
		NumberOfReplicas int               `json:"number_of_replicas"`
		Mappings         map[string]string `json:"mappings"`
	}{
		Name:             idx.Name(),
		NumberOfShards:   idx.NumberOfShards(),
		NumberOfReplicas: idx.NumberOfReplicas(),
		Mappings:         idx.Mappings(),
	})
}
