// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glasspane/glasspane/bridge"
	"github.com/glasspane/glasspane/lib/cell"
	"github.com/glasspane/glasspane/lib/clock"
	"github.com/glasspane/glasspane/lib/codec"
	"github.com/glasspane/glasspane/router"
)

// SelectionState is the lifecycle of the detail view.
type SelectionState int

const (
	// SelectionIdle means nothing is selected.
	SelectionIdle SelectionState = iota

	// SelectionRequesting means a selection exists but its detail data
	// has not arrived yet.
	SelectionRequesting

	// SelectionLoaded means the detail view shows current data for the
	// selected component.
	SelectionLoaded
)

func (s SelectionState) String() string {
	switch s {
	case SelectionIdle:
		return "idle"
	case SelectionRequesting:
		return "requesting"
	case SelectionLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("SelectionState(%d)", int(s))
	}
}

// EventKind classifies entries on the Events channel.
type EventKind int

const (
	// EventTreeChanged fires after any tree update is folded into the
	// mirror.
	EventTreeChanged EventKind = iota

	// EventSelectionChanged fires when the selected component changes,
	// including deselection.
	EventSelectionChanged

	// EventDetailLoaded fires when detail data for the current
	// selection arrives.
	EventDetailLoaded

	// EventReset fires when the agent invalidates the tree wholesale.
	EventReset

	// EventTargetChanged fires when the agent switches to a different
	// application target.
	EventTargetChanged

	// EventError reports a non-fatal failure: a send that could not be
	// encoded, an unsupported root target, a subscription that could
	// not be established.
	EventError
)

// Event is one entry on the Events channel.
type Event struct {
	Kind        EventKind
	ComponentID string
	Err         error
}

// DefaultFilterDebounce is how long SetFilter waits for further
// keystrokes before sending the filtered tree request.
const DefaultFilterDebounce = 250 * time.Millisecond

// defaultEventBuffer sizes the Events channel. Events beyond a full
// buffer are dropped; consumers that care re-read snapshot state.
const defaultEventBuffer = 64

// Client is the panel-side inspector. It mirrors the remote component
// tree, tracks selection, and keeps live subscriptions pointed at the
// right targets.
//
// Selection flows through the router: Select writes the component
// identifier into the route, and the observed route change is what
// triggers loading. Deep links, panel clicks, and programmatic
// navigation all converge on that one path.
//
// All state mutation happens under one internal mutex, on whichever
// goroutine delivers the stimulus (bridge dispatch, route change, or a
// direct method call). The cell observers registered via the accessor
// methods run under that mutex and must not call back into the client.
// Cross-goroutine consumers drain Events and read snapshots.
type Client struct {
	bridge        bridge.Bridge
	router        router.Router
	logger        *slog.Logger
	clock         clock.Clock
	filterDebounce time.Duration

	mu            sync.Mutex
	store         *TreeStore
	expansion     *ExpansionController
	subscriptions *SubscriptionManager

	selectedID   *cell.Cell[string]
	selectedData *cell.Cell[*DetailData]
	state        *cell.Cell[SelectionState]
	filter       *cell.Cell[string]
	treeVersion  *cell.Cell[uint64]
	stateView    *cell.Computed[map[string][]StateEntry]

	// pendingID is the identifier of the in-flight detail request, or
	// empty. Re-selecting the pending identifier sends nothing.
	pendingID string

	// autoLoaded marks placeholders whose subtree was requested because
	// an expansion preference already wanted them open. The mark keeps
	// an agent that cannot serve a node from being asked again on every
	// update; it is cleared when a root request starts a new generation.
	autoLoaded map[string]bool

	// targetSeen flips after the first target announcement. The restore
	// of a target's last selection is skipped for that first one, which
	// merely names the target the panel already started against.
	targetSeen bool

	pendingFilter string
	filterTimer   *clock.Timer

	events  chan Event
	removes []func()
	closed  bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock injects the clock driving the filter debounce. The default
// is the real clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// WithFilterDebounce overrides DefaultFilterDebounce.
func WithFilterDebounce(d time.Duration) Option {
	return func(c *Client) { c.filterDebounce = d }
}

// New builds a Client over the given bridge and router and registers
// its message handlers. No requests are sent until Start.
func New(b bridge.Bridge, nav router.Router, options ...Option) *Client {
	c := &Client{
		bridge:         b,
		router:         nav,
		logger:         slog.Default(),
		clock:          clock.Real(),
		filterDebounce: DefaultFilterDebounce,
		store:          NewTreeStore(),
		expansion:      NewExpansionController(),
		selectedID:     cell.New(""),
		selectedData:   cell.New[*DetailData](nil),
		state:          cell.New(SelectionIdle),
		filter:         cell.New(""),
		treeVersion:    cell.New[uint64](0),
		autoLoaded:     make(map[string]bool),
		events:         make(chan Event, defaultEventBuffer),
	}
	for _, option := range options {
		option(c)
	}
	c.subscriptions = NewSubscriptionManager(b)
	c.stateView = cell.Derive(func() map[string][]StateEntry {
		return GroupedState(c.selectedData.Get(), nil)
	}, c.selectedData)

	c.removes = append(c.removes,
		b.Handle(bridge.ChannelTreeUpdate, c.onTreeUpdate),
		b.Handle(bridge.ChannelDetailData, c.onDetailData),
		b.Handle(bridge.ChannelReset, c.onReset),
		b.Handle(bridge.ChannelTargetChanged, c.onTargetChanged),
		nav.WatchParam(router.ParamComponentID, c.onRouteChanged),
	)
	return c
}

// Start requests the root instances, subscribes to tree updates, and
// picks up a selection already present in the route (a deep link).
func (c *Client) Start() error {
	c.mu.Lock()
	err := c.requestRootsLocked()
	if err == nil {
		err = c.subscriptions.Rebind(bridge.StreamSubtree, RootTarget)
	}
	if err == nil {
		if id := c.router.Param(router.ParamComponentID); id != "" {
			c.selectedID.Set(id)
			err = c.requestDetailLocked(id)
		}
	}
	c.mu.Unlock()
	return err
}

// Events returns the event stream. The channel is buffered and never
// closed; when the buffer is full, events are dropped.
func (c *Client) Events() <-chan Event {
	return c.events
}

// SelectedID is the identifier of the selected component, or empty.
// Observers registered on the cell run under the client's lock.
func (c *Client) SelectedID() *cell.Cell[string] { return c.selectedID }

// SelectedData is the detail data of the selected component, nil until
// loaded. Observers registered on the cell run under the client's lock.
func (c *Client) SelectedData() *cell.Cell[*DetailData] { return c.selectedData }

// State is the selection lifecycle state. Observers registered on the
// cell run under the client's lock.
func (c *Client) State() *cell.Cell[SelectionState] { return c.state }

// Filter is the current filter text as typed, before debouncing.
func (c *Client) Filter() *cell.Cell[string] { return c.filter }

// StateView is the selected component's state shaped for display:
// grouped by section, ordered by key within each section. It is
// derived from SelectedData and recomputes whenever the data changes.
// Observers registered on the view run under the client's lock.
func (c *Client) StateView() *cell.Computed[map[string][]StateEntry] { return c.stateView }

// TreeVersion increments on every applied tree update. UIs that render
// the tree by polling compare versions to skip redundant rebuilds.
func (c *Client) TreeVersion() *cell.Cell[uint64] { return c.treeVersion }

// Visit runs fn under the client's lock with a consistent view of the
// mirror and the expansion state. fn must not call client methods or
// block.
func (c *Client) Visit(fn func(store *TreeStore, expansion *ExpansionController)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.store, c.expansion)
}

// Selection returns a snapshot of the selection state.
func (c *Client) Selection() (id string, data *DetailData, state SelectionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID.Get(), c.selectedData.Get(), c.state.Get()
}

// Select navigates to the given component. The route is the source of
// truth: this only writes the route parameter, and the resulting route
// change drives the actual request. Selecting the component whose
// request is already in flight sends nothing. An empty id deselects.
func (c *Client) Select(id string) {
	c.router.SetParam(router.ParamComponentID, id)
}

// ToggleExpansion flips a node between expanded and collapsed. When
// expanding reveals a placeholder (children exist remotely but are not
// loaded), the subtree is requested from the agent.
func (c *Client) ToggleExpansion(id string) {
	c.mu.Lock()
	node := c.store.Node(id)
	if node == nil || c.closed {
		c.mu.Unlock()
		return
	}
	expanded := c.expansion.Toggle(id, false)
	var err error
	if expanded && node.Placeholder() {
		err = c.requestSubtreeLocked(id)
	}
	c.mu.Unlock()
	if err != nil {
		c.reportError(err)
	}
}

// LoadSubtree requests the children of a node without changing its
// expansion state.
func (c *Client) LoadSubtree(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return bridge.ErrClosed
	}
	return c.requestSubtreeLocked(id)
}

// SetFilter updates the tree filter. The filtered tree request is sent
// only after the debounce window passes without further edits, so
// typing does not flood the agent with one request per keystroke.
func (c *Client) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filter.Set(text)
	c.pendingFilter = text
	if c.filterTimer != nil {
		c.filterTimer.Reset(c.filterDebounce)
		return
	}
	c.filterTimer = c.clock.AfterFunc(c.filterDebounce, c.flushFilter)
}

// flushFilter fires from the debounce timer.
func (c *Client) flushFilter() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.filterTimer = nil
	err := c.requestRootsLocked()
	c.mu.Unlock()
	if err != nil {
		c.reportError(err)
	}
}

// Refresh re-requests the root instances with the current filter.
func (c *Client) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return bridge.ErrClosed
	}
	return c.requestRootsLocked()
}

// Close tears down subscriptions and handler registrations. The Events
// channel stays open (and silent) so concurrent readers do not trip on
// a close.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.filterTimer != nil {
		c.filterTimer.Stop()
		c.filterTimer = nil
	}
	removes := c.removes
	c.removes = nil
	c.subscriptions.ReleaseAll()
	c.mu.Unlock()

	for _, remove := range removes {
		remove()
	}
}

// requestRootsLocked sends a root tree request carrying the debounced
// filter text. The request arms the queued reset: the roots that come
// back rebuild the mirror instead of merging over stale structure, so
// identifiers absent from the answer are gone.
func (c *Client) requestRootsLocked() error {
	c.store.QueueReset()
	c.autoLoaded = make(map[string]bool)
	return c.bridge.Send(bridge.ChannelTreeRequest, TreeRequest{
		TargetID: RootTarget,
		Filter:   c.pendingFilter,
	})
}

func (c *Client) requestSubtreeLocked(id string) error {
	return c.bridge.Send(bridge.ChannelTreeRequest, TreeRequest{
		TargetID: id,
		Filter:   c.pendingFilter,
	})
}

// requestDetailLocked starts a detail request for id and points the
// detail stream at it.
func (c *Client) requestDetailLocked(id string) error {
	c.pendingID = id
	c.state.Set(SelectionRequesting)
	if err := c.bridge.Send(bridge.ChannelDetailRequest, id); err != nil {
		return err
	}
	return c.subscriptions.Rebind(bridge.StreamDetail, id)
}

// onRouteChanged is the single entry point for selection changes.
func (c *Client) onRouteChanged(id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if id == "" {
		c.pendingID = ""
		c.selectedID.Set("")
		c.selectedData.Set(nil)
		c.state.Set(SelectionIdle)
		c.subscriptions.Release(bridge.StreamDetail)
		c.mu.Unlock()
		c.emit(Event{Kind: EventSelectionChanged})
		return
	}

	previous := c.selectedID.Get()
	if id != previous {
		c.selectedData.Set(nil)
	}
	c.selectedID.Set(id)
	c.expansion.ExpandPath(c.store.ResolvePath(id))

	if c.pendingID == id {
		// A request for this component is already in flight;
		// re-navigation must not duplicate it.
		c.mu.Unlock()
		return
	}
	err := c.requestDetailLocked(id)
	c.mu.Unlock()

	c.emit(Event{Kind: EventSelectionChanged, ComponentID: id})
	if err != nil {
		c.reportError(err)
	}
}

func (c *Client) onTreeUpdate(payload codec.RawMessage) {
	var update TreeUpdate
	if err := codec.Unmarshal(payload, &update); err != nil {
		c.logger.Warn("inspector: undecodable tree update dropped", "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err := c.store.Apply(update); err != nil {
		c.mu.Unlock()
		c.reportError(err)
		return
	}
	c.treeVersion.Set(c.treeVersion.Get() + 1)

	selected := c.selectedID.Get()
	if selected != "" {
		c.expansion.ExpandPath(c.store.ResolvePath(selected))
	}

	// Nodes already marked expanded but still placeholders — restored
	// preferences, or ancestors revealed by a deep link — get their
	// subtrees requested now that the tree is here.
	var loadErr error
	c.expansion.Expanded(func(id string) {
		if c.autoLoaded[id] {
			return
		}
		node := c.store.Node(id)
		if node == nil || !node.Placeholder() {
			return
		}
		c.autoLoaded[id] = true
		if err := c.requestSubtreeLocked(id); err != nil && loadErr == nil {
			loadErr = err
		}
	})

	// Recovery: the selection has no data and nothing is in flight,
	// typically right after a reset. Any change to the mirror is the
	// cue to re-request it.
	var recoverErr error
	recovered := false
	if selected != "" && c.selectedData.Get() == nil && c.pendingID == "" {
		recovered = true
		recoverErr = c.requestDetailLocked(selected)
	}
	c.mu.Unlock()

	c.emit(Event{Kind: EventTreeChanged, ComponentID: update.TargetID})
	if loadErr != nil {
		c.reportError(loadErr)
	}
	if recovered && recoverErr != nil {
		c.reportError(recoverErr)
	}
}

func (c *Client) onDetailData(payload codec.RawMessage) {
	var data DetailData
	if err := codec.Unmarshal(payload, &data); err != nil {
		c.logger.Warn("inspector: undecodable detail data dropped", "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if data.ID == c.pendingID {
		c.pendingID = ""
	}
	if data.ID != c.selectedID.Get() {
		// A response for a selection the user has already left.
		c.logger.Debug("inspector: stale detail response dropped",
			"component", data.ID,
			"selected", c.selectedID.Get(),
		)
		c.mu.Unlock()
		return
	}
	c.selectedData.Set(&data)
	c.state.Set(SelectionLoaded)
	c.mu.Unlock()

	c.emit(Event{Kind: EventDetailLoaded, ComponentID: data.ID})
}

func (c *Client) onReset(codec.RawMessage) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.store.QueueReset()
	c.pendingID = ""
	c.selectedData.Set(nil)
	// The selection itself survives the reset: if the component still
	// exists in the rebuilt tree, the roots update re-requests it.
	if c.selectedID.Get() != "" {
		c.state.Set(SelectionRequesting)
	} else {
		c.state.Set(SelectionIdle)
	}
	err := c.requestRootsLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventReset})
	if err != nil {
		c.reportError(err)
	}
}

func (c *Client) onTargetChanged(payload codec.RawMessage) {
	var changed TargetChanged
	if err := codec.Unmarshal(payload, &changed); err != nil {
		c.logger.Warn("inspector: undecodable target announcement dropped", "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.logger.Info("inspector: target changed",
		"target", changed.TargetID,
		"name", changed.Name,
	)
	c.subscriptions.ReleaseAll()
	c.store.QueueReset()
	c.pendingID = ""
	c.selectedData.Set(nil)
	if c.selectedID.Get() != "" {
		c.state.Set(SelectionRequesting)
	} else {
		c.state.Set(SelectionIdle)
	}

	// A re-announced target brings its last selection back. The first
	// announcement is the target the panel already started against, so
	// the current selection wins there.
	restore := ""
	if c.targetSeen && changed.LastSelectedChildID != "" {
		restore = changed.LastSelectedChildID
	}
	c.targetSeen = true

	err := c.requestRootsLocked()
	if err == nil {
		err = c.subscriptions.Rebind(bridge.StreamSubtree, RootTarget)
	}
	c.mu.Unlock()

	c.emit(Event{Kind: EventTargetChanged, ComponentID: changed.TargetID})
	if err != nil {
		c.reportError(err)
	}
	if restore != "" {
		c.Select(restore)
	}
}

// emit delivers an event without blocking. A full buffer drops the
// event; consumers recover by reading snapshot state.
func (c *Client) emit(event Event) {
	select {
	case c.events <- event:
	default:
		c.logger.Debug("inspector: event dropped, buffer full", "kind", event.Kind)
	}
}

func (c *Client) reportError(err error) {
	c.logger.Warn("inspector: operation failed", "error", err)
	c.emit(Event{Kind: EventError, Err: err})
}
