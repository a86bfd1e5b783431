package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/encodeous/dvnode/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
)

// NewLogger logs to stderr and, if logPath is not empty, appends to logPath.
// The returned closer releases the log file.
func NewLogger(prefix string, level slog.Level, logPath string) (*slog.Logger, io.Closer, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	var closer io.Closer = io.NopCloser(nil)
	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// RunOptions selects what Run prints
type RunOptions struct {
	// Node prints only this node's table, all nodes are printed if it is Unreachable
	Node state.NodeId
	// SkipChanges stops after the initial convergence
	SkipChanges bool
	// MetricsAddr serves expvar and /debug/metrics while running, if set
	MetricsAddr string
}

// Run converges the network described by cfg, then replays each configured link change,
// writing the routing tables to out after every step.
func Run(ctx context.Context, cfg state.TopologyCfg, opts RunOptions, log *slog.Logger, out io.Writer) error {
	if opts.Node != state.Unreachable && !cfg.Contains(opts.Node) {
		return fmt.Errorf("%w: %s is outside [0, %d)", state.ErrUnknownNode, opts.Node, cfg.NumNodes)
	}
	m, err := NewMesh(cfg, log)
	if err != nil {
		return err
	}
	err = m.Start(ctx)
	if err != nil {
		return err
	}
	defer m.Stop()

	err = settle(m, "initial convergence", opts, out)
	if err != nil {
		return err
	}
	if opts.SkipChanges {
		return nil
	}
	for _, ch := range cfg.Changes {
		err = m.ChangeLink(ch.A, ch.B, ch.Cost)
		if err != nil {
			return err
		}
		err = settle(m, fmt.Sprintf("link %s-%s changed to %d", ch.A, ch.B, ch.Cost), opts, out)
		if err != nil {
			return err
		}
	}
	return nil
}

func settle(m *Mesh, title string, opts RunOptions, out io.Writer) error {
	ctx, cancel := context.WithTimeout(m.Context, state.SettleTimeout)
	defer cancel()
	err := m.WaitIdle(ctx)
	if err != nil {
		return err
	}
	m.Log.Info("network settled", "step", title)

	var snaps []Snapshot
	if opts.Node == state.Unreachable {
		snaps, err = m.Snapshots(ctx)
	} else {
		var snap Snapshot
		snap, err = m.Snapshot(ctx, opts.Node)
		snaps = []Snapshot{snap}
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "=== %s ===\n\n", title)
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		_, err = fmt.Fprintln(out, snap.String())
		if err != nil {
			return err
		}
	}
	return nil
}

// Bootstrap loads the topology at topologyPath and runs it until completion or SIGINT
func Bootstrap(topologyPath, logPath string, verbose bool, opts RunOptions) error {
	cfg, err := state.LoadTopology(topologyPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger, closer, err := NewLogger(cfg.Name, level, logPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(context.Canceled)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
			return
		}
	}()

	if opts.MetricsAddr != "" {
		srv := &http.Server{Addr: opts.MetricsAddr}
		go func() {
			logger.Info("serving metrics", "addr", opts.MetricsAddr)
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
	}

	return Run(ctx, *cfg, opts, logger, os.Stdout)
}
