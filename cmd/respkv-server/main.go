// Command respkv-server runs a RESP key/value server: a TCP listener, a
// shared in-memory keyspace, and the PING/ECHO/SET/GET/RPUSH/LPUSH/LRANGE/
// LLEN/LPOP/BLPOP command set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arjunr/respkv/internal/blocking"
	"github.com/arjunr/respkv/internal/command"
	"github.com/arjunr/respkv/internal/server"
	"github.com/arjunr/respkv/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "respkv-server",
		Short: "In-memory RESP key/value server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			log.SetLevel(level)

			keyspace := store.New()
			coordinator := blocking.New(keyspace)
			executor := command.NewExecutor(keyspace, coordinator)
			srv := server.New(addr, executor, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.WithField("addr", addr).Info("starting respkv-server")
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6379", "TCP address to listen on")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	return cmd
}
