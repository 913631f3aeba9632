// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

/*
Package services provides suture.Service wrappers for reelrec components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern and implements fmt.Stringer so supervisor events name it.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server and shuts it down gracefully on cancellation
  - Returns startup failures so the supervisor can restart it

Recommendation Training (RecommendService):
  - Retrains the collaborative model every TrainInterval
  - Skips a tick when a training run is already active
  - Publishes model and corpus gauges after every install

# Error Semantics

Serve returns ctx.Err() on a requested shutdown. Any other error is treated
by suture as a crash and the service is restarted with backoff. Training
failures are logged and counted but never crash the service: the previous
model keeps serving.
*/
package services
