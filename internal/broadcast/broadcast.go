package broadcast

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/indexcoord/internal/cluster"
)

// CreateIndexNotification is the payload POSTed to every peer's
// /cluster/create-index endpoint once metadata has committed locally
// (spec.md §4.7).
type CreateIndexNotification struct {
	IndexName string            `json:"index_name"`
	Settings  map[string]string `json:"settings"`
	Mappings  map[string]string `json:"mappings"`
}

// PeerResult is one peer's outcome for a single notification.
type PeerResult struct {
	NodeID string
	Err    error
}

// Notify POSTs notification to every peer concurrently and returns each
// peer's result; it does not itself decide whether enough peers
// acknowledged — that's internal/coordinator's ack tracker's job. Notify
// returns once every peer has responded or the context is done, whichever
// comes first; a canceled context surfaces as an error per peer that
// hadn't yet responded.
func Notify(ctx context.Context, peers []cluster.NodeInfo, path string, notification CreateIndexNotification) []PeerResult {
	payload, err := json.Marshal(notification)
	if err != nil {
		out := make([]PeerResult, len(peers))
		for i, p := range peers {
			out[i] = PeerResult{NodeID: p.ID, Err: err}
		}
		return out
	}

	results := make([]PeerResult, len(peers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range peers {
		i, p := i, p
		g.Go(func() error {
			err := cluster.PostJSON(gctx, p.Addr+path, json.RawMessage(payload), nil)
			results[i] = PeerResult{NodeID: p.ID, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
