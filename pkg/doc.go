// Package pkg provides the core libraries of the interomap session engine.
//
// # Overview
//
// Interomap captures affect-mapping drawings: participants paint felt
// sensations onto a persona silhouette, each stroke colored from two affect
// ratings, and the engine serializes the full drawing for the embedding host
// after every change. The pkg directory is organized as:
//
//  1. [affect] - Rating scales and affect-to-color derivation
//  2. [canvas] - Surface boundary, stroke geometry, brush scaling
//  3. [drawing] - Stroke history, serialized output, budget-guarded composer
//  4. [session] - The session engine, snapshots, and store backends
//  5. [notify] - Host notification port and websocket fan-out
//  6. [render] - SVG export of serialized drawings
//
// The ambient packages [errors], [observability], and [buildinfo] provide
// structured errors, hook registries, and version metadata.
//
// # Architecture
//
// The typical event flow through a session:
//
//	Host event (persona, ratings, stroke, undo, layout)
//	         ↓
//	session.Session mutates the append-only history
//	         ↓
//	drawing.Composer rebuilds and budget-guards the encoded output
//	         ↓
//	notify.Notifier pushes the payload to the embedding host
package pkg
