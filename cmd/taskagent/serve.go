package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amonks/taskagent/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web chat and task board",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address or port (default from [web] addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(sessionOptions{Stderr: cmd.ErrOrStderr(), Mirror: true})
	if err != nil {
		return err
	}
	defer s.Close()

	addr := serveAddr
	if addr == "" {
		addr = s.cfg.Web.Addr
	}
	addr, err = web.ResolveAddr(addr)
	if err != nil {
		return err
	}

	logger := log.New(cmd.ErrOrStderr(), "taskagent: ", log.LstdFlags)
	for _, warning := range s.warnings {
		logger.Print(warning)
	}

	server, err := web.NewServer(web.ServerOptions{
		Agent:  s.agent,
		Store:  s.store,
		Logger: logger,
		Events: s.events,
	})
	if err != nil {
		return err
	}
	s.emit("application_started", map[string]any{
		"integrations": s.integrations,
		"addr":         addr,
	})
	err = server.Serve(ctx, addr)
	if err != nil {
		s.emit("runtime_error", map[string]any{"error": err.Error()})
	}
	s.emit("application_exit", map[string]any{"reason": "shutdown"})
	return err
}
