package coordinator

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dreamware/indexcoord/internal/broadcast"
	"github.com/dreamware/indexcoord/internal/cluster"
	"github.com/dreamware/indexcoord/internal/clusterqueue"
	"github.com/dreamware/indexcoord/internal/localstore"
	"github.com/dreamware/indexcoord/internal/mapping"
	"github.com/dreamware/indexcoord/internal/metadata"
	"github.com/dreamware/indexcoord/internal/obslog"
	"github.com/dreamware/indexcoord/internal/routing"
)

// CreateIndexRequest is the fluent builder of spec.md §6.
type CreateIndexRequest struct {
	id       string
	cause    string
	index    string
	settings metadata.Settings
	mappings map[string]string
	timeout  time.Duration
}

// NewCreateIndexRequest returns a request for index with spec defaults:
// empty settings, no mappings, a 5s timeout. Each request is tagged with a
// random correlation ID, which the metadata-commit log line carries; the
// routing-commit task logs nothing.
func NewCreateIndexRequest(index string) *CreateIndexRequest {
	return &CreateIndexRequest{
		id:       uuid.NewString(),
		index:    index,
		settings: metadata.EmptySettings(),
		mappings: map[string]string{},
		timeout:  5 * time.Second,
	}
}

func (r *CreateIndexRequest) Cause(cause string) *CreateIndexRequest { r.cause = cause; return r }
func (r *CreateIndexRequest) Settings(s metadata.Settings) *CreateIndexRequest {
	r.settings = s
	return r
}
func (r *CreateIndexRequest) Mappings(m map[string]string) *CreateIndexRequest {
	r.mappings = m
	return r
}
func (r *CreateIndexRequest) Timeout(d time.Duration) *CreateIndexRequest { r.timeout = d; return r }

func (r *CreateIndexRequest) IndexName() string { return r.index }

// RequestID returns this request's correlation ID.
func (r *CreateIndexRequest) RequestID() string { return r.id }

// Response is the outcome delivered to a ResultListener once a create-index
// call settles (spec.md §6).
type Response struct {
	Acknowledged bool
}

// ResultListener is the user_listener of spec.md §4.6/§4.7. Exactly one of
// OnResponse or OnFailure is called, exactly once, per CreateIndex call
// (spec.md §8 invariant 5).
type ResultListener interface {
	OnResponse(Response)
	OnFailure(err error)
}

// ResultListenerFuncs adapts two functions to ResultListener.
type ResultListenerFuncs struct {
	OnResponseFunc func(Response)
	OnFailureFunc  func(error)
}

func (f ResultListenerFuncs) OnResponse(r Response) { f.OnResponseFunc(r) }
func (f ResultListenerFuncs) OnFailure(err error)   { f.OnFailureFunc(err) }

// Coordinator is the Create-Index Coordinator (C6): it owns no cluster
// state directly, dispatching every mutation through queue.
type Coordinator struct {
	queue         *clusterqueue.Queue
	registry      *NotifyRegistry
	mappingLoader *mapping.Loader
	localStore    *localstore.LocalIndexStore
	strategy      routing.Strategy
	localNodeID   string
}

// New returns a Coordinator wired to its collaborators.
func New(
	queue *clusterqueue.Queue,
	registry *NotifyRegistry,
	mappingLoader *mapping.Loader,
	localStore *localstore.LocalIndexStore,
	strategy routing.Strategy,
	localNodeID string,
) *Coordinator {
	return &Coordinator{
		queue:         queue,
		registry:      registry,
		mappingLoader: mappingLoader,
		localStore:    localStore,
		strategy:      strategy,
		localNodeID:   localNodeID,
	}
}

// buildResult is what the metadata-commit task produces for CreateIndex to
// act on once the task has run; it never escapes this package.
type buildResult struct {
	state     metadata.ClusterState
	peers     []cluster.NodeInfo
	idxShards int
	idxRepl   int
	mappings  map[string]string
}

// CreateIndex is the spec.md §4.6 entry point. It is non-blocking: it
// enqueues the metadata-commit task and returns; listener is notified
// asynchronously once the operation settles.
func (c *Coordinator) CreateIndex(ctx context.Context, req *CreateIndexRequest, listener ResultListener) {
	go c.run(ctx, req, listener)
}

func (c *Coordinator) run(ctx context.Context, req *CreateIndexRequest, listener ResultListener) {
	// If ctx is canceled after the commit task was scheduled, Submit reports
	// a failure while the task may still arm a tracker that settles later;
	// the guard keeps the listener to a single call.
	var once sync.Once
	inner := listener
	listener = ResultListenerFuncs{
		OnResponseFunc: func(r Response) { once.Do(func() { inner.OnResponse(r) }) },
		OnFailureFunc:  func(err error) { once.Do(func() { inner.OnFailure(err) }) },
	}

	var buildErr *CreateError
	var built *buildResult

	settle := func(acknowledged bool) {
		c.commitRouting(ctx, req.index, built.idxShards, built.idxRepl, acknowledged, listener)
	}

	_, err := c.queue.Submit(ctx, func(cs metadata.ClusterState) metadata.ClusterState {
		result, cerr := c.build(cs, req)
		if cerr != nil {
			buildErr = cerr
			return cs
		}
		built = result
		// The tracker is registered here, inside the commit task and before
		// it returns, so a peer notification racing the broadcast below is
		// still counted (spec.md §4.6 step 7) rather than arriving before
		// anything is listening for it.
		if len(result.peers) > 0 {
			NewAckTracker(req.index, len(result.peers), req.timeout, c.registry, settle)
		}
		return result.state
	})
	if err != nil {
		listener.OnFailure(err)
		return
	}
	if buildErr != nil {
		listener.OnFailure(buildErr)
		return
	}

	if len(built.peers) == 0 {
		settle(true)
		return
	}
	notification := broadcast.CreateIndexNotification{IndexName: req.index, Mappings: built.mappings}
	go broadcast.Notify(ctx, built.peers, "/cluster/create-index", notification)
}

// build implements spec.md §4.6 steps 1-6. It must be pure with respect to
// cs — the only side effects it performs are on localStore and mapping
// loader, both scoped to this create-index call and run under the queue's
// single-writer guarantee.
func (c *Coordinator) build(cs metadata.ClusterState, req *CreateIndexRequest) (*buildResult, *CreateError) {
	name := req.index

	if cs.RoutingTable().HasIndex(name) || cs.MetaData().HasIndex(name) {
		return nil, &CreateError{Kind: KindAlreadyExists, IndexName: name}
	}
	if nameErr := metadata.ValidateName(name); nameErr != nil {
		return nil, &CreateError{Kind: KindInvalidName, IndexName: name, Reason: nameErr.Reason}
	}
	if cs.MetaData().HasAlias(name) {
		return nil, &CreateError{Kind: KindInvalidName, IndexName: name, Reason: metadata.ReasonCollidesWithAlias}
	}

	assembled, err := c.mappingLoader.Load(name, req.mappings)
	if err != nil {
		return nil, &CreateError{Kind: KindDirectoryCreate, IndexName: name, Cause: errors.Wrap(err, "load mapping sources")}
	}

	settings := req.settings.
		WithDefault(metadata.SettingNumberOfShards, strconv.Itoa(metadata.DefaultNumberOfShards)).
		WithDefault(metadata.SettingNumberOfReplicas, strconv.Itoa(metadata.DefaultNumberOfReplicas))

	handle, err := c.localStore.Create(name)
	if err != nil {
		return nil, &CreateError{Kind: KindDirectoryCreate, IndexName: name, Cause: errors.Wrap(err, "create local index")}
	}

	canonical := make(map[string]string, len(assembled))
	for typeName, source := range assembled {
		canon, addErr := handle.Mapper.Add(typeName, source)
		if addErr != nil {
			c.localStore.Delete(name)
			return nil, &CreateError{Kind: KindMapperParsing, IndexName: name, Type: typeName, Cause: errors.Wrapf(addErr, "mapping type %q", typeName)}
		}
		canonical[typeName] = canon
	}

	idx := metadata.NewIndexMetaData(name, settings, canonical)
	newState := cs.WithMetaData(cs.MetaData().WithIndex(idx))

	obslog.L().Infow("index metadata committed", "request_id", req.id, "index", name,
		"cause", req.cause, "shards", idx.NumberOfShards(), "replicas", idx.NumberOfReplicas())

	return &buildResult{
		state:     newState,
		peers:     cs.Nodes().Peers(),
		idxShards: idx.NumberOfShards(),
		idxRepl:   idx.NumberOfReplicas(),
		mappings:  canonical,
	}, nil
}

// commitRouting implements spec.md §4.7: the second task, run after
// settlement, that rebuilds the routing table and delivers the final
// Response.
func (c *Coordinator) commitRouting(ctx context.Context, indexName string, numShards, numReplicas int, acknowledged bool, listener ResultListener) {
	_, err := c.queue.Submit(ctx, func(cs metadata.ClusterState) metadata.ClusterState {
		nodeIDs := make([]string, 0, cs.Nodes().Count())
		for _, n := range cs.Nodes().All() {
			nodeIDs = append(nodeIDs, n.ID)
		}
		rt := c.strategy.Reroute(routing.RerouteInput{
			NodeIDs: nodeIDs,
			Pending: []routing.ReroutePendingIndex{
				{Name: indexName, NumberOfShards: numShards, NumberOfReplicas: numReplicas},
			},
			Current: cs.RoutingTable(),
		})
		return cs.WithRoutingTable(rt)
	})
	if err != nil {
		listener.OnFailure(err)
		return
	}
	listener.OnResponse(Response{Acknowledged: acknowledged})
}
