package loader

import (
	"context"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/internal/ctxlog"
	"github.com/vk/eventgraph/registry"
)

// ReadFileFunc fetches the raw bytes of a graph document. Hosts typically
// pass os.ReadFile, but anything keyed by filename works (asset packs,
// embedded filesystems, test fixtures).
type ReadFileFunc func(filename string) ([]byte, error)

// Factory loads graphs by filename and caches the result, so repeated
// requests for the same file return the same finalized *graph.Graph.
type Factory struct {
	registry *registry.Registry
	readFile ReadFileFunc
	graphs   map[string]*graph.Graph
}

// NewFactory creates a factory resolving node kinds against reg and
// reading documents through readFile.
func NewFactory(reg *registry.Registry, readFile ReadFileFunc) *Factory {
	return &Factory{
		registry: reg,
		readFile: readFile,
		graphs:   make(map[string]*graph.Graph),
	}
}

// LoadGraph returns the graph stored in filename, building and finalizing
// it on first request and serving the cached graph unchanged afterwards.
// It returns nil when the file cannot be read or does not parse; failed
// loads are not cached, so a later request retries.
func (f *Factory) LoadGraph(ctx context.Context, filename string) *graph.Graph {
	if g, ok := f.graphs[filename]; ok {
		return g
	}
	logger := ctxlog.FromContext(ctx)
	data, err := f.readFile(filename)
	if err != nil {
		logger.Error("failed to read graph document", "file", filename, "error", err)
		return nil
	}
	g := graph.NewGraph(filename)
	if !ParseData(ctx, f.registry, g, data, filename) {
		return nil
	}
	f.graphs[filename] = g
	return g
}
