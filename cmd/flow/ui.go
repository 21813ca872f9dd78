package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// table writes an aligned table to w.
func table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header, sep := "  ", "  "
	for i, h := range headers {
		header += fmt.Sprintf("%-*s  ", widths[i], h)
		sep += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(header, " "))
	Subtle.Fprintln(w, strings.TrimRight(sep, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// warnings returns an error handler printing each error as a warning.
func warnings(w io.Writer) func(error) {
	return func(err error) {
		Warn.Fprintf(w, "warning: %v\n", err)
	}
}

// parsePoint parses "x,y".
func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geometry.Pt(x, y), nil
}

// parseHandle parses "node:handle:type" or "node:type".
func parseHandle(s string) (flow.HandleRef, error) {
	parts := strings.Split(s, ":")

	var ref flow.HandleRef
	switch len(parts) {
	case 2:
		ref = flow.HandleRef{NodeID: parts[0], Type: flow.HandleType(parts[1])}
	case 3:
		ref = flow.HandleRef{NodeID: parts[0], ID: parts[1], Type: flow.HandleType(parts[2])}
	default:
		return ref, fmt.Errorf("handle %q: want node:handle:type", s)
	}

	if ref.NodeID == "" {
		return ref, fmt.Errorf("handle %q: missing node", s)
	}
	if ref.Type != flow.Source && ref.Type != flow.Target {
		return ref, fmt.Errorf("handle %q: type must be source or target", s)
	}
	return ref, nil
}

func formatPoint(p geometry.Point) string {
	return strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64)
}
