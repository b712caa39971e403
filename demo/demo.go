// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package demo is the built-in demo application: a small fixed
// component tree with one component whose state ticks once a second,
// so the live detail stream has something to show. The glasspane
// binary embeds it for offline use; glasspane-agent serves it over
// TCP for exercising the wire transport.
package demo

import (
	"log/slog"
	"time"

	"github.com/glasspane/glasspane/agent"
	"github.com/glasspane/glasspane/bridge"
	"github.com/glasspane/glasspane/inspector"
)

// App is a running demo application bound to one bridge endpoint.
type App struct {
	agent  *agent.Agent
	source *agent.StaticSource
	stop   chan struct{}
	done   chan struct{}
}

// Start serves the demo tree on the given endpoint and begins the
// clock ticker.
func Start(endpoint bridge.Bridge, logger *slog.Logger) *App {
	source := agent.NewStaticSource()
	source.SetRoots(Roots())
	for _, data := range Details() {
		source.SetDetail(data)
	}

	app := &App{
		agent:  agent.New(endpoint, source, agent.WithLogger(logger)),
		source: source,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go app.tick()
	return app
}

// Close stops the ticker and detaches from the bridge.
func (app *App) Close() {
	close(app.stop)
	<-app.done
	app.agent.Close()
}

// tick bumps the clock component's state once a second and pushes it
// to the live detail stream.
func (app *App) tick() {
	defer close(app.done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	beats := 0
	for {
		select {
		case <-app.stop:
			return
		case now := <-ticker.C:
			beats++
			app.source.SetDetail(inspector.DetailData{
				ID:   "status-clock",
				Name: "StatusClock",
				State: []inspector.StateEntry{
					{Section: "props", Key: "format", Value: "15:04:05"},
					{Section: "state", Key: "now", Value: now.Format("15:04:05")},
					{Section: "state", Key: "beats", Value: beats},
				},
			})
			_ = app.agent.NotifyDetailChanged("status-clock")
		}
	}
}

// Roots returns the demo component tree.
func Roots() []inspector.SerializedNode {
	return []inspector.SerializedNode{{
		ID:   "app",
		Name: "DemoApp",
		Children: []inspector.SerializedNode{
			{
				ID:   "header",
				Name: "Header",
				Children: []inspector.SerializedNode{
					{ID: "logo", Name: "Logo"},
					{ID: "search-box", Name: "SearchBox"},
				},
			},
			{
				ID:   "workspace",
				Name: "Workspace",
				Children: []inspector.SerializedNode{
					{
						ID:   "file-tree",
						Name: "FileTree",
						Children: []inspector.SerializedNode{
							{ID: "tree-node-src", Name: "TreeNode"},
							{ID: "tree-node-docs", Name: "TreeNode"},
						},
					},
					{
						ID:   "editor-pane",
						Name: "EditorPane",
						Children: []inspector.SerializedNode{
							{ID: "buffer-view", Name: "BufferView"},
							{ID: "minimap", Name: "Minimap", Inactive: true},
						},
					},
				},
			},
			{
				ID:   "status-bar",
				Name: "StatusBar",
				Children: []inspector.SerializedNode{
					{ID: "status-branch", Name: "BranchIndicator"},
					{ID: "status-clock", Name: "StatusClock"},
				},
			},
		},
	}}
}

// Details returns the inspected state for every demo component.
func Details() []inspector.DetailData {
	details := []inspector.DetailData{
		{
			ID:   "app",
			Name: "DemoApp",
			State: []inspector.StateEntry{
				{Section: "props", Key: "title", Value: "glasspane demo"},
				{Section: "state", Key: "theme", Value: "dark"},
			},
		},
		{
			ID:   "search-box",
			Name: "SearchBox",
			State: []inspector.StateEntry{
				{Section: "props", Key: "placeholder", Value: "search files"},
				{Section: "state", Key: "query", Value: ""},
				{Section: "state", Key: "focused", Value: false, Editable: true},
			},
		},
		{
			ID:   "editor-pane",
			Name: "EditorPane",
			State: []inspector.StateEntry{
				{Section: "props", Key: "path", Value: "internal/render/tree.go"},
				{Section: "state", Key: "dirty", Value: true},
				{Section: "state", Key: "cursor", Value: map[string]any{"line": 42, "column": 7}},
			},
		},
		{
			ID:   "status-clock",
			Name: "StatusClock",
			State: []inspector.StateEntry{
				{Section: "props", Key: "format", Value: "15:04:05"},
				{Section: "state", Key: "beats", Value: 0},
			},
		},
	}

	// The remaining components get minimal detail so every node in the
	// demo tree is inspectable.
	for _, id := range []string{
		"header", "logo", "workspace", "file-tree", "tree-node-src",
		"tree-node-docs", "buffer-view", "minimap", "status-bar",
		"status-branch",
	} {
		details = append(details, inspector.DetailData{
			ID:    id,
			Name:  id,
			State: []inspector.StateEntry{{Section: "props", Key: "id", Value: id}},
		})
	}
	return details
}
