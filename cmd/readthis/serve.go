package main

import (
	"github.com/fwojciec/readthis/fsnotify"
	rtmcp "github.com/fwojciec/readthis/mcp"
)

// Run executes the serve command. It blocks until the client disconnects
// or the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if c.Watch {
		w, err := fsnotify.Watch(deps.Ctx, deps.Registry, deps.Registry.Path(), fsnotify.WithLogger(deps.Logger))
		if err != nil {
			return err
		}
		defer w.Close()
	}

	srv := rtmcp.NewServer(deps.Service, deps.Version)
	deps.Logger.Info("serving", "server", rtmcp.ServerName, "documents", deps.Registry.Current().Len())
	return srv.Run(deps.Ctx, deps.Transport)
}
