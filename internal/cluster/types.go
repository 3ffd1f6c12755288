package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/slices"
)

// NodeInfo identifies a single cluster member.
type NodeInfo struct {
	ID   string `json:"id"`
	Addr string `json:"addr"`
}

// RegisterRequest is sent by a node announcing itself to the coordinator.
type RegisterRequest struct {
	Node NodeInfo `json:"node"`
}

// HealthStatus is the body every /health endpoint in this cluster returns.
type HealthStatus struct {
	Status string `json:"status"`
}

var httpClient = &http.Client{Timeout: 5 * time.Second}

// PostJSON marshals body, POSTs it to url, and decodes the response into out
// (a no-op if out is nil). A non-2xx status is reported as an error.
func PostJSON(ctx context.Context, url string, body any, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetJSON issues a GET to url and decodes the JSON response into out.
func GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// DiscoveryNodes is the set of known cluster members, one of which is
// distinguished as the local node (spec.md §3: "Nodes value ... one
// distinguished as local").
type DiscoveryNodes struct {
	mu      sync.RWMutex
	nodes   map[string]NodeInfo
	localID string
}

// NewDiscoveryNodes creates an empty node set with the given local node ID.
func NewDiscoveryNodes(localID string) *DiscoveryNodes {
	return &DiscoveryNodes{
		nodes:   make(map[string]NodeInfo),
		localID: localID,
	}
}

// Add registers or updates a node.
func (d *DiscoveryNodes) Add(n NodeInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes[n.ID] = n
}

// Remove drops a node from the set.
func (d *DiscoveryNodes) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.nodes, id)
}

// LocalID returns the ID of the node distinguished as local.
func (d *DiscoveryNodes) LocalID() string {
	return d.localID
}

// All returns every known node, sorted by ID for deterministic iteration.
func (d *DiscoveryNodes) All() []NodeInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]NodeInfo, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Peers returns every node except the local one — the set a create-index
// operation must wait on acknowledgment from (spec.md §4.6 step 7).
func (d *DiscoveryNodes) Peers() []NodeInfo {
	all := d.All()
	idx := slices.IndexFunc(all, func(n NodeInfo) bool { return n.ID == d.localID })
	if idx < 0 {
		return all
	}
	return append(all[:idx:idx], all[idx+1:]...)
}

// Count returns the total number of known nodes, local node included.
func (d *DiscoveryNodes) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes)
}

// Has reports whether a node ID is currently known.
func (d *DiscoveryNodes) Has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.nodes[id]
	return ok
}
