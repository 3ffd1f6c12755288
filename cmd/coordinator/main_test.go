package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/indexcoord/internal/cluster"
	"github.com/dreamware/indexcoord/internal/clusterqueue"
	"github.com/dreamware/indexcoord/internal/config"
	"github.com/dreamware/indexcoord/internal/coordinator"
	"github.com/dreamware/indexcoord/internal/localstore"
	"github.com/dreamware/indexcoord/internal/mapping"
	"github.com/dreamware/indexcoord/internal/metadata"
	"github.com/dreamware/indexcoord/internal/routing"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	nodes := cluster.NewDiscoveryNodes("coordinator")
	queue := clusterqueue.New(metadata.NewClusterState(nodes))
	t.Cleanup(queue.Close)
	registry := coordinator.NewNotifyRegistry()
	loader := mapping.New(t.TempDir())
	store := localstore.New()
	coord := coordinator.New(queue, registry, loader, store, routing.RoundRobinStrategy{}, "coordinator")
	return &server{cfg: config.Default(), nodes: nodes, queue: queue, registry: registry, coord: coord}
}

func TestHandleRegisterAddsNode(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(cluster.RegisterRequest{Node: cluster.NodeInfo{ID: "n1", Addr: "http://n1"}})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleRegister(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, srv.nodes.Has("n1"))
}

func TestHandleRegisterRejectsMissingFields(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(cluster.RegisterRequest{Node: cluster.NodeInfo{ID: "n1"}})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleRegister(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListNodes(t *testing.T) {
	srv := newTestServer(t)
	srv.nodes.Add(cluster.NodeInfo{ID: "n1", Addr: "http://n1"})

	req := httptest.NewRequest(http.MethodGet, "/cluster/nodes", nil)
	w := httptest.NewRecorder()
	srv.handleListNodes(w, req)

	var out struct {
		Nodes []cluster.NodeInfo `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Nodes, 1)
}

func TestHandleCreateIndexSingleNodeSucceedsSynchronously(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(createIndexBody{Settings: map[string]string{metadata.SettingNumberOfShards: "2"}})
	req := httptest.NewRequest(http.MethodPost, "/indices/logs", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleIndex(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Acknowledged bool `json:"acknowledged"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Acknowledged)
}

func TestHandleCreateIndexInvalidNameReturnsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/indices/LOGS", nil)
	w := httptest.NewRecorder()
	srv.handleIndex(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateIndexDuplicateReturnsConflict(t *testing.T) {
	srv := newTestServer(t)

	req1 := httptest.NewRequest(http.MethodPost, "/indices/logs", nil)
	srv.handleIndex(httptest.NewRecorder(), req1)

	req2 := httptest.NewRequest(http.MethodPost, "/indices/logs", nil)
	w2 := httptest.NewRecorder()
	srv.handleIndex(w2, req2)

	assert.Equal(t, http.StatusConflict, w2.Code)
}

func TestHandleReadIndexNotFound(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/indices/missing", nil)
	w := httptest.NewRecorder()
	srv.handleIndex(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleReadIndexAfterCreate(t *testing.T) {
	srv := newTestServer(t)
	createReq := httptest.NewRequest(http.MethodPost, "/indices/logs", nil)
	srv.handleIndex(httptest.NewRecorder(), createReq)

	readReq := httptest.NewRequest(http.MethodGet, "/indices/logs", nil)
	w := httptest.NewRecorder()
	srv.handleIndex(w, readReq)

	assert.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Name           string `json:"name"`
		NumberOfShards int    `json:"number_of_shards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "logs", out.Name)
	assert.Equal(t, metadata.DefaultNumberOfShards, out.NumberOfShards)
}

func TestProbeNodeHealthSucceedsAgainstAHealthyNode(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(handleHealth))
	defer node.Close()

	// probeNodeHealth only logs; this just exercises it against a real
	// server to confirm GetJSON decodes the /health body without error.
	probeNodeHealth(cluster.NodeInfo{ID: "n1", Addr: node.URL})
}

func TestHandleClusterStateReflectsCommittedIndex(t *testing.T) {
	srv := newTestServer(t)
	srv.nodes.Add(cluster.NodeInfo{ID: "n1", Addr: "http://n1"})

	createReq := httptest.NewRequest(http.MethodPost, "/indices/logs", nil)
	srv.handleIndex(httptest.NewRecorder(), createReq)

	req := httptest.NewRequest(http.MethodGet, "/cluster/state", nil)
	w := httptest.NewRecorder()
	srv.handleClusterState(w, req)

	var out clusterStateBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Nodes, 1)
	require.Contains(t, out.Indices, "logs")
	assert.Equal(t, metadata.DefaultNumberOfShards, out.Indices["logs"].NumberOfShards)
	assert.Contains(t, out.RoutingTable, "logs")
}

func TestHandleNotifyDeliversToRegistry(t *testing.T) {
	srv := newTestServer(t)
	delivered := make(chan struct{}, 1)
	srv.registry.Add(coordinator.ListenerFunc(func(indexName, nodeID string) {
		delivered <- struct{}{}
	}))

	body, _ := json.Marshal(struct {
		IndexName string `json:"index_name"`
		NodeID    string `json:"node_id"`
	}{IndexName: "logs", NodeID: "n1"})
	req := httptest.NewRequest(http.MethodPost, "/cluster/notify", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleNotify(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("expected listener to be notified")
	}
}
