package flowfile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterStructValidation(documentLevel, Document{})
		validate.RegisterStructValidation(nodeLevel, Node{})
		validate.RegisterStructValidation(nodesConfigLevel, NodesConfig{})
	})
	return validate
}

// documentLevel checks what field tags cannot express: unique IDs and
// edges pointing at existing nodes.
func documentLevel(sl validator.StructLevel) {
	doc := sl.Current().Interface().(Document)

	nodes := make(map[string]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID != "" && nodes[n.ID] {
			sl.ReportError(doc.Nodes[i].ID, fmt.Sprintf("nodes[%d].id", i), "ID", "unique", n.ID)
		}
		nodes[n.ID] = true
	}
	for i, n := range doc.Nodes {
		if n.ParentID != "" && !nodes[n.ParentID] {
			sl.ReportError(n.ParentID, fmt.Sprintf("nodes[%d].parentNode", i), "ParentID", "exists", n.ParentID)
		}
	}

	edges := make(map[string]bool, len(doc.Edges))
	for i, e := range doc.Edges {
		if e.ID != "" && edges[e.ID] {
			sl.ReportError(e.ID, fmt.Sprintf("edges[%d].id", i), "ID", "unique", e.ID)
		}
		edges[e.ID] = true

		if e.Source != "" && !nodes[e.Source] {
			sl.ReportError(e.Source, fmt.Sprintf("edges[%d].source", i), "Source", "exists", e.Source)
		}
		if e.Target != "" && !nodes[e.Target] {
			sl.ReportError(e.Target, fmt.Sprintf("edges[%d].target", i), "Target", "exists", e.Target)
		}
	}
}

func nodeLevel(sl validator.StructLevel) {
	n := sl.Current().Interface().(Node)
	if pad, ok := extentPadding(n.Extent.Get()); ok && (len(pad) < 1 || len(pad) > 4) {
		sl.ReportError(pad, "extent", "Extent", "padding", fmt.Sprint(len(pad)))
	}
}

func nodesConfigLevel(sl validator.StructLevel) {
	c := sl.Current().Interface().(NodesConfig)
	if pad, ok := extentPadding(c.Extent.Get()); ok && (len(pad) < 1 || len(pad) > 4) {
		sl.ReportError(pad, "extent", "Extent", "padding", fmt.Sprint(len(pad)))
	}
}

// extentPadding returns the padding of extents that carry one explicitly.
func extentPadding(e flow.Extent) (flow.Padding, bool) {
	switch ext := e.(type) {
	case flow.ParentExtent:
		return ext.Padding, ext.Padding != nil
	case flow.RangeExtent:
		return ext.Padding, true
	}
	return nil, false
}

// ValidationError lists every problem Validate found.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks a document, a change record or a config.
func Validate(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Problems = append(out.Problems, describe(fe))
	}
	return out
}

// ValidateChanges checks every record of a change list.
func ValidateChanges(records []ChangeRecord) error {
	out := &ValidationError{}
	for i := range records {
		if err := Validate(&records[i]); err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return err
			}
			for _, p := range ve.Problems {
				out.Problems = append(out.Problems, fmt.Sprintf("change %d: %s", i, p))
			}
		}
	}
	if len(out.Problems) > 0 {
		return out
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "unique":
		return fmt.Sprintf("%s %q is not unique", field, fe.Param())
	case "exists":
		return fmt.Sprintf("%s refers to unknown node %q", field, fe.Param())
	case "padding":
		return fmt.Sprintf("%s padding must have 1 to 4 values, got %s", field, fe.Param())
	case "gte", "gt":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
