// Package ui contains the Bubble Tea program that drives the section
// menu. The package is structured so the Model type focuses on message
// orchestration, while dedicated helpers own navigation, input,
// rendering, and state updates.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are
//     routed through a typed handler registry so each tea.Msg is handled
//     by a focused function (navigation for key presses, backend refresh
//     events, loader completions).
//   - Navigation helpers (navigation.go) manage the stack of menu levels
//     and cursor movement. Filter/input helpers (input.go) keep text
//     entry concerns isolated from the event loop.
//
// State ownership:
//   - Menu level state lives in internal/ui/state.Level, which tracks
//     items, filtering, selection, and viewport calculations.
//   - Per-section item stores are provided by internal/state and kept in
//     sync by the dispatcher so menu loaders always see the current
//     assignments.
//   - Section operations run through the internal/ui/command bus, letting
//     actions execute asynchronously.
//
// Backend interactions:
//   - A backend.Watcher merges the periodic tick with change triggers;
//     Update waits for those events and hands them to applyBackendEvent,
//     which routes them through the dispatcher, refreshes the capture
//     cache, and reloads any on-screen menus.
package ui
