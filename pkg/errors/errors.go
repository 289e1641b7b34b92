// Package errors provides structured error handling for the chart builder.
//
// Every failure the builder surfaces is one of the typed errors below,
// optionally wrapped in a ChartError that records the failing operation and
// its category. All types support errors.As through Unwrap chains.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindAttribute indicates an accessor misuse (unknown name, wrong shape).
	KindAttribute
	// KindStructure indicates an invalid tree mutation.
	KindStructure
	// KindRoot indicates a tree that cannot be flattened.
	KindRoot
	// KindLifecycle indicates a controller operation in the wrong state.
	KindLifecycle
	// KindContainer indicates a container that could not be resolved.
	KindContainer
	// KindRender indicates a failure reported by the surface or runtime.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid document or configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindStructure:
		return "structure"
	case KindRoot:
		return "root"
	case KindLifecycle:
		return "lifecycle"
	case KindContainer:
		return "container"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ChartError represents a structured error raised by a builder operation.
type ChartError struct {
	// Op is the operation that failed (e.g., "node.Set").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ChartError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

// UnknownAttributeError reports an accessor call for a name that has no
// registered descriptor on the node's class.
type UnknownAttributeError struct {
	// Class is the node class name.
	Class string
	// Name is the attribute name that was requested.
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q on class %s", e.Name, e.Class)
}

// AttributeValueError reports a value whose shape does not fit the
// attribute's descriptor kind.
type AttributeValueError struct {
	Name string
	Kind string
	Got  any
}

func (e *AttributeValueError) Error() string {
	return fmt.Sprintf("attribute %q (%s) cannot accept %T", e.Name, e.Kind, e.Got)
}

// InvalidChildError reports a rejected AddChild call.
type InvalidChildError struct {
	// Reason describes why the child was rejected.
	Reason string
}

func (e *InvalidChildError) Error() string {
	return "invalid child: " + e.Reason
}

// InvalidRootError reports a tree that cannot be flattened.
type InvalidRootError struct {
	Reason string
}

func (e *InvalidRootError) Error() string {
	return "invalid root: " + e.Reason
}

// DestroyedControllerError reports a lifecycle operation invoked after the
// controller was destroyed.
type DestroyedControllerError struct {
	// Op is the rejected operation (e.g., "Render").
	Op string
}

func (e *DestroyedControllerError) Error() string {
	return fmt.Sprintf("chart: %s called after Destroy", e.Op)
}

// ContainerNotFoundError reports a container identifier that did not
// resolve against the document.
type ContainerNotFoundError struct {
	ID string
}

func (e *ContainerNotFoundError) Error() string {
	if e.ID == "" {
		return "container not found: no document to resolve against"
	}
	return fmt.Sprintf("container not found: %q", e.ID)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "chart.Render").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the chart runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ChartError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
