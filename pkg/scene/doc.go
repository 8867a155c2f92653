// Package scene is the scheduler that ties the bicluster components together.
//
// A [Scene] owns the overlap model, the layout context and engine, a zoom
// state and opacity fade per node, and the event bus. User interaction
// (focus, hover, drag, hide, lock, search, thresholds, sorting) enters
// through Scene methods, which publish the matching event on the bus; the
// scene's own subscribers apply it to every node synchronously before the
// method returns. Other subscribers, such as a terminal view or an HTTP API,
// observe the same events.
//
// [Scene.Frame] advances the simulation by the elapsed time and returns a
// [Frame]: node rectangles with visibility and opacity, plus the band
// geometry of every visible edge on every enabled axis.
//
// # Concurrency
//
// All methods are safe for concurrent use; they serialise on one mutex.
// Bus handlers run while that mutex is held and must not call back into the
// scene.
package scene
