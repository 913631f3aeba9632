// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

/*
Package supervisor provides process supervision for reelrec using suture v4.

The tree has two layers so a failing training loop never takes the HTTP
server down with it:

	RootSupervisor ("reelrec")
	├── DataSupervisor ("data-layer")
	│   └── RecommendService (periodic collaborative retraining)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog into the application's zerolog logger.

# Usage

	logger := logging.NewSlogLogger(logging.Logger())
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewRecommendService(engine, svcCfg, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Thread Safety

SupervisorTree methods may be called from any goroutine. Services added
after Serve starts are started immediately.
*/
package supervisor
