// Package inspect serves a running chart's flattened spec and node tree
// over HTTP for debugging.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-drift/chart/pkg/node"
	"github.com/go-drift/chart/pkg/spec"
)

// Source provides the data served by the inspector. *chart.Chart
// implements it.
type Source interface {
	Options() (spec.Spec, error)
	Root() *node.Node
}

// server manages the HTTP server for tree inspection.
type server struct {
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
}

var srv server

// maxTreeDepth limits recursion depth when serializing the node tree.
const maxTreeDepth = 500

// TreeNode is one node of the serialized node tree.
type TreeNode struct {
	Class      string     `json:"class"`
	Type       string     `json:"type,omitempty"`
	Virtual    bool       `json:"virtual,omitempty"`
	Attributes []string   `json:"attributes,omitempty"`
	Depth      int        `json:"depth"`
	Error      string     `json:"error,omitempty"`
	Children   []TreeNode `json:"children,omitempty"`
}

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// Start serves source on addr (for example ":8080", or ":0" for an
// ephemeral port) and returns the bound address. If the server is already
// running, its address is returned and source is ignored.
func Start(addr string, source Source) (string, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.server != nil {
		return srv.listener.Addr().String(), nil
	}

	// Bind listener first to fail fast on port conflicts
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("inspect server listen: %w", err)
	}

	server := &http.Server{Handler: Handler(source), ReadHeaderTimeout: 5 * time.Second}
	srv.server = server
	srv.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			srv.mu.Lock()
			if srv.server == server {
				srv.server = nil
				srv.listener = nil
			}
			srv.mu.Unlock()
			slog.Error("inspect server stopped", "err", err)
		}
	}()

	return listener.Addr().String(), nil
}

// Stop gracefully shuts down the server started by Start.
func Stop() {
	srv.mu.Lock()
	server := srv.server
	srv.server = nil
	srv.listener = nil
	srv.mu.Unlock()

	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

// Handler returns the inspector's routes for source.
func Handler(source Source) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/spec", func(w http.ResponseWriter, r *http.Request) { handleSpec(w, r, source) })
	mux.HandleFunc("/tree", func(w http.ResponseWriter, r *http.Request) { handleTree(w, r, source) })
	mux.HandleFunc("/health", handleHealth)
	return mux
}

// handleSpec returns the current flattened spec as JSON, or YAML with
// ?format=yaml.
func handleSpec(w http.ResponseWriter, r *http.Request, source Source) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			http.Error(w, fmt.Sprintf("panic: %v", rec), http.StatusInternalServerError)
		}
	}()

	if source == nil {
		http.Error(w, "no chart", http.StatusServiceUnavailable)
		return
	}
	s, err := source.Options()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	format, err := spec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if format == spec.FormatYAML {
		data, err := s.Marshal(spec.FormatYAML)
		if err != nil {
			http.Error(w, fmt.Sprintf("yaml encode error: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
		return
	}

	// Encode to buffer first so we can catch errors
	data, err := json.MarshalIndent(safeValue(map[string]any(s)), "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleTree returns the live node tree as JSON, including virtual nodes.
func handleTree(w http.ResponseWriter, r *http.Request, source Source) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			http.Error(w, fmt.Sprintf("panic: %v", rec), http.StatusInternalServerError)
		}
	}()

	var root *node.Node
	if source != nil {
		root = source.Root()
	}
	if root == nil {
		http.Error(w, "no node tree", http.StatusServiceUnavailable)
		return
	}

	data, err := json.MarshalIndent(serializeTree(root, 0), "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func serializeTree(n *node.Node, depth int) TreeNode {
	attrs := n.Attributes()
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := TreeNode{
		Class:      n.Class().Name(),
		Type:       n.Type(),
		Virtual:    n.IsVirtual(),
		Attributes: names,
		Depth:      n.Depth(),
	}
	if err := n.Err(); err != nil {
		out.Error = err.Error()
	}

	// Recurse into children (with depth limit)
	if depth < maxTreeDepth {
		for _, child := range n.Children() {
			out.Children = append(out.Children, serializeTree(child, depth+1))
		}
	}
	return out
}

// safeValue replaces floats in v with SafeFloat so non-finite values
// encode as strings.
func safeValue(v any) any {
	switch t := v.(type) {
	case float64:
		return SafeFloat(t)
	case float32:
		return SafeFloat(t)
	case spec.Spec:
		return safeValue(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = safeValue(e)
		}
		return out
	case []spec.Spec:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = safeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = safeValue(e)
		}
		return out
	case []float64:
		out := make([]SafeFloat, len(t))
		for i, e := range t {
			out[i] = SafeFloat(e)
		}
		return out
	default:
		return v
	}
}
