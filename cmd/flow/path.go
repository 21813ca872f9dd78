package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flow-toolkit/pkg/edges"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

func pathCmd(a *app) *cobra.Command {
	var (
		source, target         string
		sourceSide, targetSide string
		curvature, radius      float64
		offset                 float64
		asJSON                 bool
	)

	cmd := &cobra.Command{
		Use:   "path [kind]",
		Short: "Build an edge path between two points",
		Long: "Build an edge path between two points.\n\nKinds: " + kindList() +
			"\nThe kind defaults to the configured edge kind.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := a.cfg.Edges.Kind
			if len(args) == 1 {
				kind = edges.Kind(args[0])
			}

			sp, err := parsePoint(source)
			if err != nil {
				return err
			}
			tp, err := parsePoint(target)
			if err != nil {
				return err
			}
			ss, err := flow.ParseSide(sourceSide)
			if err != nil {
				return err
			}
			ts, err := flow.ParseSide(targetSide)
			if err != nil {
				return err
			}

			opts := a.cfg.EdgeOptions()
			if cmd.Flags().Changed("curvature") {
				opts.Curvature = &curvature
			}
			if cmd.Flags().Changed("border-radius") {
				opts.BorderRadius = &radius
			}
			if cmd.Flags().Changed("offset") {
				opts.Offset = &offset
			}

			p, err := edges.Build(kind, edges.Endpoints{
				SourceX: sp.X, SourceY: sp.Y, SourcePosition: ss,
				TargetX: tp.X, TargetY: tp.Y, TargetPosition: ts,
			}, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			fmt.Fprintln(out, p.D)
			Subtle.Fprintf(out, "label %s offset %s\n",
				formatPoint(geometry.Pt(p.LabelX, p.LabelY)), formatPoint(geometry.Pt(p.OffsetX, p.OffsetY)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&source, "source", "0,0", "source point x,y")
	f.StringVar(&target, "target", "100,100", "target point x,y")
	f.StringVar(&sourceSide, "source-side", string(flow.Bottom), "side the edge leaves the source")
	f.StringVar(&targetSide, "target-side", string(flow.Top), "side the edge enters the target")
	f.Float64Var(&curvature, "curvature", edges.DefaultCurvature, "bezier curvature")
	f.Float64Var(&radius, "border-radius", edges.DefaultBorderRadius, "smoothstep corner radius")
	f.Float64Var(&offset, "offset", edges.DefaultStepOffset, "step distance from the handles")
	f.BoolVar(&asJSON, "json", false, "print the path as JSON")
	return cmd
}

func kindList() string {
	var names []string
	for _, k := range edges.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
