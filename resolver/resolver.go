// Package resolver loads .proto files through a Provider, follows their
// imports, and registers every reached definition into a type registry.
// Well-known google/protobuf imports are served from the static catalog
// without touching the provider.
package resolver

import (
	"bytes"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/protoweave/protoweave/parser"
	"github.com/protoweave/protoweave/registry"
	"github.com/protoweave/protoweave/schema"
	"github.com/protoweave/protoweave/wellknown"
)

// Resolver walks import graphs depth-first. It is not safe for concurrent
// use; parse work can be parallelized upstream and handed over via Preload.
type Resolver struct {
	provider Provider
	registry *registry.Registry
	parse    func(io.Reader, string) (*schema.File, error)
	logger   zerolog.Logger

	resolved map[string]*schema.File // fully resolved, by import path
	pending  map[string]*schema.File // preloaded parses awaiting resolution
	visiting map[string]struct{}     // DFS membership for cycle detection
	stack    []string                // DFS path for cycle diagnostics
	graph    map[string][]string     // direct import edges
	publics  map[string][]string     // direct public-import edges
}

// New returns a resolver registering into reg. The logger defaults to a nop.
func New(provider Provider, reg *registry.Registry) *Resolver {
	return &Resolver{
		provider: provider,
		registry: reg,
		parse:    parser.Parse,
		logger:   zerolog.Nop(),
		resolved: make(map[string]*schema.File),
		pending:  make(map[string]*schema.File),
		visiting: make(map[string]struct{}),
		graph:    make(map[string][]string),
		publics:  make(map[string][]string),
	}
}

// SetLogger replaces the resolver's logger.
func (r *Resolver) SetLogger(logger zerolog.Logger) {
	r.logger = logger
}

// Preload hands an already-parsed file to the resolver. Resolve uses it in
// place of a provider fetch; its imports are still resolved normally.
func (r *Resolver) Preload(file *schema.File) {
	if _, ok := r.resolved[file.Path]; ok {
		return
	}
	r.pending[file.Path] = file
}

// Resolve loads the file at path, resolves its imports depth-first, and
// registers its definitions. Repeated resolution of the same path returns
// the memoized file without re-reading or re-parsing anything.
func (r *Resolver) Resolve(path string) (*schema.File, error) {
	if f, ok := r.resolved[path]; ok {
		return f, nil
	}
	if _, ok := r.visiting[path]; ok {
		cycle := strings.Join(append(append([]string(nil), r.stack...), path), " -> ")
		return nil, &FileError{Path: path, Err: ErrCircularDependency, Reason: errors.New(cycle)}
	}
	r.visiting[path] = struct{}{}
	r.stack = append(r.stack, path)
	defer func() {
		delete(r.visiting, path)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	file, err := r.load(path)
	if err != nil {
		return nil, err
	}
	if err := r.finish(file); err != nil {
		return nil, err
	}
	return file, nil
}

// load produces the parsed file for path: catalog first, then preloaded
// parses, then the provider.
func (r *Resolver) load(path string) (*schema.File, error) {
	if wellknown.IsWellKnownImport(path) {
		f, ok := wellknown.Lookup(path)
		if !ok {
			return nil, &FileError{Path: path, Err: ErrUnknownWellKnown}
		}
		r.logger.Debug().Str("path", path).Msg("serving well-known import from catalog")
		return f, nil
	}

	if f, ok := r.pending[path]; ok {
		delete(r.pending, path)
		return f, nil
	}

	src, err := r.provider.Provide(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileError{Path: path, Err: ErrFileNotFound, Reason: err}
		}
		return nil, &FileError{Path: path, Err: ErrReadFailed, Reason: err}
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &FileError{Path: path, Err: ErrReadFailed, Reason: err}
	}

	file, err := r.parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, &FileError{Path: path, Err: ErrParseFailed, Reason: err}
	}
	r.logger.Debug().
		Str("path", path).
		Str("package", file.Package).
		Int("imports", len(file.Imports)).
		Msg("parsed proto file")
	return file, nil
}

// finish resolves file's imports left to right, failing on the first broken
// one, then commits the file to the registry and the memo.
func (r *Resolver) finish(file *schema.File) error {
	edges := make([]string, 0, len(file.Imports))
	for _, imp := range file.Imports {
		if _, err := r.Resolve(imp.Path); err != nil {
			return err
		}
		edges = append(edges, imp.Path)
		if imp.Public {
			r.publics[file.Path] = append(r.publics[file.Path], imp.Path)
		}
	}

	if err := r.registry.AddFile(file); err != nil {
		return errors.Wrapf(err, "registering %s", file.Path)
	}
	r.graph[file.Path] = edges
	r.resolved[file.Path] = file
	return nil
}

// PublicImports returns the transitive closure of path's public imports:
// every file whose definitions path re-exports to its own importers.
func (r *Resolver) PublicImports(path string) []string {
	var out []string
	seen := map[string]struct{}{path: {}}
	var walk func(p string)
	walk = func(p string) {
		for _, pub := range r.publics[p] {
			if _, ok := seen[pub]; ok {
				continue
			}
			seen[pub] = struct{}{}
			out = append(out, pub)
			walk(pub)
		}
	}
	walk(path)
	return out
}

// Graph returns the direct import edges of every resolved file.
func (r *Resolver) Graph() map[string][]string {
	out := make(map[string][]string, len(r.graph))
	for path, edges := range r.graph {
		cp := make([]string, len(edges))
		copy(cp, edges)
		out[path] = cp
	}
	return out
}

// Link rewrites every unresolved type reference in the resolved files to its
// fully-qualified name, marking it as a message or enum reference. All
// unresolvable references are reported together.
func (r *Resolver) Link() error {
	paths := make([]string, 0, len(r.resolved))
	for p := range r.resolved {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var errs *multierror.Error
	for _, path := range paths {
		file := r.resolved[path]
		for _, msg := range file.Messages {
			errs = r.linkMessage(file, scopedName(file.Package, msg.Name), msg, errs)
		}
		for _, svc := range file.Services {
			errs = r.linkService(file, svc, errs)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	r.logger.Debug().Int("files", len(paths)).Msg("linked type references")
	return nil
}

func (r *Resolver) linkMessage(file *schema.File, scope string, msg *schema.Message, errs *multierror.Error) *multierror.Error {
	for _, f := range msg.Fields {
		if err := r.linkType(f.Type, scope); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "%s: field %s.%s", file.Path, scope, f.Name))
		}
	}
	for _, nested := range msg.Messages {
		errs = r.linkMessage(file, scope+"."+nested.Name, nested, errs)
	}
	return errs
}

func (r *Resolver) linkType(t *schema.Type, scope string) error {
	switch t.Kind {
	case schema.KindNamed:
		fqn, err := r.registry.ResolveReference(t.Named, scope)
		if err != nil {
			return err
		}
		_, kind, ok := r.registry.Lookup(fqn)
		if !ok {
			return errors.Errorf("reference %s resolved to unregistered name %s", t.Named, fqn)
		}
		t.Named = fqn
		t.Kind = kind
	case schema.KindMap:
		return r.linkType(t.Value, scope)
	}
	return nil
}

func (r *Resolver) linkService(file *schema.File, svc *schema.Service, errs *multierror.Error) *multierror.Error {
	for _, m := range svc.Methods {
		in, err := r.registry.ResolveReference(m.Input, file.Package)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "%s: rpc %s.%s input", file.Path, svc.Name, m.Name))
		} else {
			m.Input = in
		}
		out, err := r.registry.ResolveReference(m.Output, file.Package)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "%s: rpc %s.%s output", file.Path, svc.Name, m.Name))
		} else {
			m.Output = out
		}
	}
	return errs
}

func scopedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
