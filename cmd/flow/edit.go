package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/handle"
	"github.com/ha1tch/flow-toolkit/pkg/store"
)

func connectCmd(a *app) *cobra.Command {
	var (
		from, pointer, hover string
		mode                 string
		radius               float64
		output               string
	)

	cmd := &cobra.Command{
		Use:   "connect <doc>",
		Short: "Resolve a connection gesture against a document",
		Long: "Resolve the handle a connection dragged from --from would snap to when\n" +
			"released at --pointer, and add the edge when it is valid.",
		Example: "  flow connect graph.json --from a:out:source --pointer 395,50 -o graph.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := parseHandle(from)
			if err != nil {
				return err
			}
			p, err := parsePoint(pointer)
			if err != nil {
				return err
			}
			var hovered *flow.HandleRef
			if hover != "" {
				h, err := parseHandle(hover)
				if err != nil {
					return err
				}
				hovered = &h
			}

			if cmd.Flags().Changed("mode") {
				a.cfg.Connection.Mode = flow.ConnectionMode(mode)
				if err := flowfile.Validate(&a.cfg.Connection); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("radius") {
				a.cfg.Connection.Radius = radius
			}

			s, doc, err := a.openStore(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			g, err := s.StartConnect(origin.NodeID, origin.ID, origin.Type)
			if err != nil {
				return err
			}

			status, closest := g.Move(p, hovered)
			conn, ok := g.End(p, hovered)
			if closest == nil {
				Warn.Fprintf(out, "no handle within %g of %s\n", a.cfg.Connection.Radius, formatPoint(p))
				return nil
			}

			ref := flow.HandleRef{NodeID: closest.NodeID, ID: closest.ID, Type: closest.Type}
			fmt.Fprintf(out, "closest:    %s at %s\n", ref, formatPoint(closest.Point()))
			fmt.Fprintf(out, "status:     %s\n", statusText(status))
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "connection: %s/%s -> %s/%s\n", conn.Source, conn.SourceHandle, conn.Target, conn.TargetHandle)

			if output == "" {
				return nil
			}
			return a.save(s, doc, output)
		},
	}

	f := cmd.Flags()
	f.StringVar(&from, "from", "", "origin handle node:handle:type")
	f.StringVar(&pointer, "pointer", "", "release point x,y")
	f.StringVar(&hover, "hover", "", "handle under the pointer node:handle:type")
	f.StringVar(&mode, "mode", string(flow.ConnectionStrict), "connection mode (strict, loose)")
	f.Float64Var(&radius, "radius", 20, "snap radius")
	f.StringVarP(&output, "output", "o", "", "write the document with the new edge")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("pointer")
	return cmd
}

func statusText(s handle.Status) string {
	switch s {
	case handle.StatusValid:
		return Good.Sprint("valid")
	case handle.StatusInvalid:
		return Bad.Sprint("invalid")
	}
	return Subtle.Sprint("none")
}

func clampCmd(a *app) *cobra.Command {
	var (
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "clamp <doc> <node>",
		Short: "Drag a node to a position, honouring its extent",
		Long: "Drag a node (and every selected node) so that it lands at --to, clamped\n" +
			"to its extent, and print the resulting positions.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parsePoint(to)
			if err != nil {
				return err
			}

			s, doc, err := a.openStore(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s.OnError(warnings(cmd.ErrOrStderr()))

			n, ok := s.FindNode(args[1])
			if !ok {
				return flow.NewError(flow.CodeNodeNotFound, args[1])
			}

			// Grabbing the node at its own origin makes the pointer the
			// target position.
			g, err := s.StartDrag(n.ID, n.ComputedPosition)
			if err != nil {
				return err
			}
			ids := g.Items()
			g.Move(target)
			g.End()

			var rows [][]string
			for _, id := range ids {
				moved, _ := s.FindNode(id)
				rows = append(rows, []string{id, formatPoint(moved.Position), formatPoint(moved.ComputedPosition)})
			}
			if len(rows) == 0 {
				Warn.Fprintf(out, "node %q is not draggable\n", n.ID)
				return nil
			}
			table(out, []string{"NODE", "POSITION", "ABSOLUTE"}, rows)

			if output == "" {
				return nil
			}
			return a.save(s, doc, output)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "target absolute position x,y")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the updated document")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func applyCmd(a *app) *cobra.Command {
	var output string
	var stats bool

	cmd := &cobra.Command{
		Use:   "apply <doc> <changes>",
		Short: "Apply a change list to a document",
		Long: "Apply a JSON or YAML change list to a document. Node changes are applied\n" +
			"before edge changes; removing a node removes its edges. The result is\n" +
			"written to --output, or printed as JSON.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := flowfile.ReadChangesFile(args[1])
			if err != nil {
				return err
			}
			if err := flowfile.ValidateChanges(records); err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			nodeChanges, edgeChanges, err := flowfile.SplitChanges(records)
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			reg := prometheus.NewRegistry()
			s, doc, err := a.openStore(args[0], store.WithMetrics(store.NewMetrics("flow", reg)))
			if err != nil {
				return err
			}
			s.OnError(warnings(cmd.ErrOrStderr()))

			s.ApplyNodeChanges(nodeChanges)
			s.ApplyEdgeChanges(edgeChanges)

			if stats {
				if err := printStats(cmd.ErrOrStderr(), reg); err != nil {
					return err
				}
			}

			if output != "" {
				if err := a.save(s, doc, output); err != nil {
					return err
				}
				Good.Fprintf(cmd.OutOrStdout(), "applied %d changes, written %s\n", len(records), output)
				return nil
			}

			result := s.Document()
			result.Viewport = doc.Viewport
			data, err := flowfile.Encode(result, flowfile.FormatJSON)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format by extension)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print change counters to stderr")
	return cmd
}
