package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

func infoCmd(a *app) *cobra.Command {
	var width, height, padding float64

	cmd := &cobra.Command{
		Use:   "info <doc>",
		Short: "Show document information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, doc, err := a.openStore(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			nodes, edgeList := s.Nodes(), s.Edges()

			fmt.Fprintf(out, "%s %s\n\n", Brand.Sprint("flow"), Subtle.Sprint(args[0]))
			fmt.Fprintf(out, "Version:  %d\n", doc.Version)
			fmt.Fprintf(out, "Nodes:    %d\n", len(nodes))
			fmt.Fprintf(out, "Edges:    %d\n", len(edgeList))

			var rects []geometry.Rect
			var rows [][]string
			for _, n := range nodes {
				if !n.Dimensions.IsZero() {
					rects = append(rects, n.Rect())
				}
				rows = append(rows, []string{
					n.ID,
					n.ParentID,
					formatPoint(n.ComputedPosition),
					fmt.Sprintf("%gx%g", n.Dimensions.Width, n.Dimensions.Height),
					fmt.Sprintf("%d/%d", len(n.HandleBounds.Source), len(n.HandleBounds.Target)),
				})
			}

			if len(rects) > 0 {
				bounds := rects[0]
				for _, r := range rects[1:] {
					bounds = bounds.Union(r)
				}
				fmt.Fprintf(out, "Bounds:   %s %gx%g\n", formatPoint(geometry.Pt(bounds.X, bounds.Y)), bounds.Width, bounds.Height)

				fit := viewport.ForBounds(bounds, width, height, a.cfg.Viewport.MinZoom, a.cfg.Viewport.MaxZoom, padding)
				fmt.Fprintf(out, "Fit:      x=%g y=%g zoom=%g (%gx%g)\n", fit.X, fit.Y, fit.Zoom, width, height)
			}
			if doc.Viewport != nil {
				fmt.Fprintf(out, "Viewport: x=%g y=%g zoom=%g\n", doc.Viewport.X, doc.Viewport.Y, doc.Viewport.Zoom)
			}

			if len(rows) > 0 {
				fmt.Fprintln(out)
				table(out, []string{"NODE", "PARENT", "POSITION", "SIZE", "HANDLES"}, rows)
			}

			var edgeRows [][]string
			for _, e := range edgeList {
				edgeRows = append(edgeRows, []string{e.ID, e.Source + handleSuffix(e.SourceHandle), e.Target + handleSuffix(e.TargetHandle)})
			}
			if len(edgeRows) > 0 {
				fmt.Fprintln(out)
				table(out, []string{"EDGE", "SOURCE", "TARGET"}, edgeRows)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&width, "width", 1280, "screen width for the fit viewport")
	f.Float64Var(&height, "height", 720, "screen height for the fit viewport")
	f.Float64Var(&padding, "padding", 0.1, "fit padding as a fraction of the screen")
	return cmd
}

func handleSuffix(id string) string {
	if id == "" {
		return ""
	}
	return "/" + id
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <doc>",
		Short: "Validate a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := flowfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := flowfile.Validate(doc); err != nil {
				a.log.Debug("validation failed", zap.String("path", args[0]), zap.Error(err))
				return err
			}

			Good.Fprintf(cmd.OutOrStdout(), "%s: valid, %d nodes, %d edges\n", args[0], len(doc.Nodes), len(doc.Edges))
			return nil
		},
	}
}

func convertCmd(a *app) *cobra.Command {
	var output string
	var withConfig bool

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between formats (json, yaml, flowz)",
		Example: "  flow convert graph.json -o graph.yaml\n" +
			"  flow convert graph.yaml --with-config -o graph.flowz",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			doc, err := flowfile.ReadFile(input)
			if err != nil {
				return err
			}

			if output == "" {
				ext := filepath.Ext(input)
				base := strings.TrimSuffix(input, ext)
				switch flowfile.FormatOf(input) {
				case flowfile.FormatJSON:
					output = base + ".yaml"
				default:
					output = base + ".json"
				}
			}

			if withConfig && flowfile.FormatOf(output) == flowfile.FormatBundle {
				err = flowfile.WriteBundleFile(output, doc, a.cfg)
			} else {
				err = flowfile.WriteFile(output, doc)
			}
			if err != nil {
				return err
			}

			a.log.Debug("converted", zap.String("input", input), zap.String("output", output))
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format by extension)")
	cmd.Flags().BoolVar(&withConfig, "with-config", false, "store the effective config in .flowz bundles")
	return cmd
}

func dotCmd(a *app) *cobra.Command {
	var output, title string

	cmd := &cobra.Command{
		Use:     "dot <doc>",
		Short:   "Generate Graphviz DOT output",
		Example: "  flow dot graph.json | neato -n -Tpng -o graph.png",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := flowfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = fmt.Sprintf("%s: %d nodes", filepath.Base(args[0]), len(doc.Nodes))
			}

			dot := flowfile.GenerateDOT(doc, title)
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}
			if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
				return err
			}
			a.log.Info("dot written", zap.String("path", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&title, "title", "t", "", "graph title")
	return cmd
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			Subtle.Fprintf(cmd.OutOrStdout(), "# %s\n", configPath(a))
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(a.cfg)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(a)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force)", path)
			}
			if err := flowfile.SaveConfig(path, flowfile.Default()); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "Written: %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func configPath(a *app) string {
	if a.configPath != "" {
		return a.configPath
	}
	return flowfile.DefaultConfigPath()
}
