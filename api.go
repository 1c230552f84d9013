// Package protoweave loads protobuf schemas and encodes and decodes
// messages against them without generated code. Files are parsed into the
// schema model, imports are resolved transitively, and every type
// registers under its fully-qualified name; the dynamic codec then works
// on plain maps keyed by field name.
package protoweave

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/protoweave/protoweave/dynamic"
	"github.com/protoweave/protoweave/parser"
	"github.com/protoweave/protoweave/registry"
	"github.com/protoweave/protoweave/resolver"
	"github.com/protoweave/protoweave/schema"
	"github.com/protoweave/protoweave/wire"
)

// Protoweave owns a registry and a resolver over it. Load methods serialize
// internally; Marshal and Unmarshal are safe for concurrent use alongside
// them.
type Protoweave struct {
	mu       sync.Mutex
	registry *registry.Registry
	resolver *resolver.Resolver
	logger   zerolog.Logger
	wire     wire.Config
}

// New creates a Protoweave instance. Without options, imports resolve
// against the current directory.
func New(opts ...Option) (*Protoweave, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	provider := cfg.provider
	if provider == nil {
		roots := cfg.searchPaths
		if len(roots) == 0 {
			roots = []string{"."}
		}
		provider = resolver.SearchPath(roots)
	}
	reg := registry.NewRegistry()
	res := resolver.New(provider, reg)
	res.SetLogger(cfg.logger)

	return &Protoweave{
		registry: reg,
		resolver: res,
		logger:   cfg.logger,
		wire:     cfg.wire,
	}, nil
}

// LoadFile resolves a file and its imports, registers every definition and
// links type references. The path is provider-relative, matching how import
// statements are written.
func (p *Protoweave) LoadFile(ctx context.Context, path string) (*schema.File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := p.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	if err := p.resolver.Link(); err != nil {
		return nil, err
	}
	p.logger.Debug().Str("path", path).Msg("loaded proto file")
	return file, nil
}

// LoadFiles resolves several files in order. Failures do not stop the load;
// they accumulate and come back together, with every loadable file already
// registered.
func (p *Protoweave) LoadFiles(ctx context.Context, paths ...string) ([]*schema.File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs *multierror.Error
	files := make([]*schema.File, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		file, err := p.resolver.Resolve(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		files = append(files, file)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if err := p.resolver.Link(); err != nil {
		return nil, err
	}
	p.logger.Debug().Int("files", len(files)).Msg("loaded proto files")
	return files, nil
}

// LoadDir loads every .proto file under dir. Files are parsed in parallel,
// then resolved in path order against the parsed set, so imports between
// files in the tree never touch the provider. Paths register relative to
// dir with forward slashes, matching import statements.
func (p *Protoweave) LoadDir(ctx context.Context, dir string) ([]*schema.File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	paths, err := protoFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no .proto files under %s", dir)
	}

	parsed := make([]*schema.File, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, rel := range paths {
		i, rel := i, rel
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				return errors.Wrapf(err, "opening %s", rel)
			}
			defer f.Close()
			file, err := parser.Parse(f, rel)
			if err != nil {
				return err
			}
			parsed[i] = file
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, file := range parsed {
		p.resolver.Preload(file)
	}
	var errs *multierror.Error
	files := make([]*schema.File, 0, len(paths))
	for _, rel := range paths {
		file, err := p.resolver.Resolve(rel)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		files = append(files, file)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if err := p.resolver.Link(); err != nil {
		return nil, err
	}
	p.logger.Debug().Str("dir", dir).Int("files", len(files)).Msg("loaded proto directory")
	return files, nil
}

// protoFiles lists the .proto files under dir as sorted, slash-separated
// relative paths.
func protoFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".proto") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Parse parses a single .proto source without resolving imports or
// registering anything. The path only labels errors.
func (p *Protoweave) Parse(r io.Reader, path string) (*schema.File, error) {
	return parser.Parse(r, path)
}

// Unmarshal decodes data as the named message type over the loaded
// registry. Both fully-qualified names and unique suffixes work.
func (p *Protoweave) Unmarshal(data []byte, messageType string) (map[string]any, error) {
	return dynamic.Unmarshal(data, messageType, p.registry, p.wire)
}

// Marshal encodes a field map as the named message type over the loaded
// registry.
func (p *Protoweave) Marshal(fields map[string]any, messageType string) ([]byte, error) {
	return dynamic.Marshal(fields, messageType, p.registry)
}

// Registry exposes the underlying registry for direct schema lookups.
func (p *Protoweave) Registry() *registry.Registry { return p.registry }

// Files returns every loaded file path, sorted.
func (p *Protoweave) Files() []string { return p.registry.Files() }

// Messages returns all registered message names, sorted.
func (p *Protoweave) Messages() []string { return p.registry.ListMessages() }

// Enums returns all registered enum names, sorted.
func (p *Protoweave) Enums() []string { return p.registry.ListEnums() }

// Services returns all registered service names, sorted.
func (p *Protoweave) Services() []string { return p.registry.ListServices() }
