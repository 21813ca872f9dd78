package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
)

func watchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <doc>",
		Short: "Re-validate a document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w, err := flowfile.NewWatcher(args[0], func(doc *flowfile.Document, err error) {
				stamp := Subtle.Sprint(time.Now().Format("15:04:05"))
				if err != nil {
					fmt.Fprintf(out, "%s %s %v\n", stamp, Bad.Sprint("invalid"), err)
					return
				}
				fmt.Fprintf(out, "%s %s %d nodes, %d edges\n", stamp, Good.Sprint("valid"), len(doc.Nodes), len(doc.Edges))
			},
				flowfile.WatchLogger(a.log.With(zap.String("doc", args[0]))),
				flowfile.WatchDebounce(debounce))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", args[0])
			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", flowfile.DefaultDebounce, "quiet period before reloading")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printStats writes every gathered sample as a table.
func printStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)

			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			}
			rows = append(rows, []string{mf.GetName(), strings.Join(labels, ","), fmt.Sprintf("%g", value)})
		}
	}

	table(w, []string{"METRIC", "LABELS", "VALUE"}, rows)
	return nil
}
