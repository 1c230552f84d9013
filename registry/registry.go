package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/protoweave/protoweave/schema"
)

// Registry stores the schema of every loaded file. Encoding, decoding and
// reference resolution all look types up here by fully-qualified name.
// Nested definitions register under their enclosing message, so a message
// Inner inside Outer in package pkg is "pkg.Outer.Inner". Safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	messages map[string]*schema.Message // fully qualified name -> message
	enums    map[string]*schema.Enum    // fully qualified name -> enum
	services map[string]*schema.Service // fully qualified name -> service
	origins  map[string]string          // fully qualified name -> defining file
	packages map[string]string          // file path -> package
	types    map[string][]string        // file path -> defined type names
	entries  map[*schema.Field]*schema.Message
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[string]*schema.Message),
		enums:    make(map[string]*schema.Enum),
		services: make(map[string]*schema.Service),
		origins:  make(map[string]string),
		packages: make(map[string]string),
		types:    make(map[string][]string),
		entries:  make(map[*schema.Field]*schema.Message),
	}
}

type pending struct {
	fqn     string
	msg     *schema.Message
	enum    *schema.Enum
	service *schema.Service
}

// AddFile registers a file's package and every definition it holds,
// messages and enums recursively. Re-adding a path that is already
// registered is a no-op. A name already registered from a different file
// fails with a DuplicateError and leaves the registry untouched.
func (r *Registry) AddFile(f *schema.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, loaded := r.packages[f.Path]; loaded {
		return nil
	}

	// Collect and validate before committing anything, so a collision in
	// the middle of a file cannot leave half of it registered.
	var batch []pending
	for _, msg := range f.Messages {
		batch = r.collectMessage(batch, f.Package, msg)
	}
	for _, enum := range f.Enums {
		batch = append(batch, pending{fqn: fullName(f.Package, enum.Name), enum: enum})
	}
	for _, svc := range f.Services {
		batch = append(batch, pending{fqn: fullName(f.Package, svc.Name), service: svc})
	}

	seen := make(map[string]struct{}, len(batch))
	for _, p := range batch {
		if prev, exists := r.origins[p.fqn]; exists {
			return &DuplicateError{FQN: p.fqn, File: f.Path, Prev: prev, Err: duplicateKind(p)}
		}
		if _, dup := seen[p.fqn]; dup {
			return &DuplicateError{FQN: p.fqn, File: f.Path, Prev: f.Path, Err: duplicateKind(p)}
		}
		seen[p.fqn] = struct{}{}
	}

	r.packages[f.Path] = f.Package
	names := make([]string, 0, len(batch))
	for _, p := range batch {
		switch {
		case p.msg != nil:
			r.messages[p.fqn] = p.msg
		case p.enum != nil:
			r.enums[p.fqn] = p.enum
		default:
			r.services[p.fqn] = p.service
		}
		r.origins[p.fqn] = f.Path
		names = append(names, p.fqn)
	}
	sort.Strings(names)
	r.types[f.Path] = names
	return nil
}

// collectMessage walks a message and its nested definitions into the batch.
func (r *Registry) collectMessage(batch []pending, scope string, msg *schema.Message) []pending {
	fqn := fullName(scope, msg.Name)
	batch = append(batch, pending{fqn: fqn, msg: msg})
	for _, nested := range msg.Messages {
		batch = r.collectMessage(batch, fqn, nested)
	}
	for _, enum := range msg.Enums {
		batch = append(batch, pending{fqn: fullName(fqn, enum.Name), enum: enum})
	}
	return batch
}

func duplicateKind(p pending) error {
	switch {
	case p.msg != nil:
		return ErrDuplicateMessage
	case p.enum != nil:
		return ErrDuplicateEnum
	default:
		return ErrDuplicateService
	}
}

func fullName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

func parentScope(s string) string {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return ""
	}
	return s[:i]
}

// ResolveReference resolves a type reference written in source to a
// registered fully-qualified name. Candidates are probed in order: the
// reference as written, then the reference qualified by scope, walking
// scope outward one dotted element at a time. A leading dot makes the
// reference absolute.
func (r *Registry) ResolveReference(ref, scope string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rest, absolute := strings.CutPrefix(ref, "."); absolute {
		if r.has(rest) {
			return rest, nil
		}
		return "", &UnknownTypeError{Ref: ref, Scope: scope}
	}

	if r.has(ref) {
		return ref, nil
	}
	for s := scope; s != ""; s = parentScope(s) {
		if candidate := s + "." + ref; r.has(candidate) {
			return candidate, nil
		}
	}
	return "", &UnknownTypeError{Ref: ref, Scope: scope}
}

func (r *Registry) has(fqn string) bool {
	if _, ok := r.messages[fqn]; ok {
		return true
	}
	_, ok := r.enums[fqn]
	return ok
}

// Lookup reports whether a fully-qualified name is registered, which file
// defined it and whether it is a message or an enum.
func (r *Registry) Lookup(fqn string) (string, schema.Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.messages[fqn]; ok {
		return r.origins[fqn], schema.KindMessage, true
	}
	if _, ok := r.enums[fqn]; ok {
		return r.origins[fqn], schema.KindEnum, true
	}
	return "", "", false
}

// Message retrieves a message definition by name. An exact fully-qualified
// match wins; otherwise the name matches as a dotted suffix when the match
// is unique.
func (r *Registry) Message(name string) (*schema.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}
	var found *schema.Message
	var matches []string
	for fqn, msg := range r.messages {
		if strings.HasSuffix(fqn, "."+name) {
			found = msg
			matches = append(matches, fqn)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, name)
	case 1:
		return found, nil
	default:
		sort.Strings(matches)
		return nil, fmt.Errorf("%w: %s is ambiguous, matches %v", ErrMessageNotFound, name, matches)
	}
}

// Enum retrieves an enum definition by name, with the same suffix fallback
// as Message.
func (r *Registry) Enum(name string) (*schema.Enum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if enum, exists := r.enums[name]; exists {
		return enum, nil
	}
	var found *schema.Enum
	var matches []string
	for fqn, enum := range r.enums {
		if strings.HasSuffix(fqn, "."+name) {
			found = enum
			matches = append(matches, fqn)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrEnumNotFound, name)
	case 1:
		return found, nil
	default:
		sort.Strings(matches)
		return nil, fmt.Errorf("%w: %s is ambiguous, matches %v", ErrEnumNotFound, name, matches)
	}
}

// Service retrieves a service definition by name, with the same suffix
// fallback as Message.
func (r *Registry) Service(name string) (*schema.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if svc, exists := r.services[name]; exists {
		return svc, nil
	}
	var found *schema.Service
	var matches []string
	for fqn, svc := range r.services {
		if strings.HasSuffix(fqn, "."+name) {
			found = svc
			matches = append(matches, fqn)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	case 1:
		return found, nil
	default:
		sort.Strings(matches)
		return nil, fmt.Errorf("%w: %s is ambiguous, matches %v", ErrServiceNotFound, name, matches)
	}
}

// Package returns the package declared by a loaded file.
func (r *Registry) Package(file string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pkg, ok := r.packages[file]
	return pkg, ok
}

// FileTypes returns the fully-qualified names a file defines, sorted.
func (r *Registry) FileTypes(file string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.types[file]...)
}

// Files returns every loaded file path, sorted.
func (r *Registry) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	files := make([]string, 0, len(r.packages))
	for f := range r.packages {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// ListMessages returns all registered message names, sorted.
func (r *Registry) ListMessages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.messages)
}

// ListEnums returns all registered enum names, sorted.
func (r *Registry) ListEnums() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.enums)
}

// ListServices returns all registered service names, sorted.
func (r *Registry) ListServices() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.services)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MapEntry returns the synthetic entry message for a map field, with key
// as field 1 and value as field 2. Entries are cached per field and never
// registered under a fully-qualified name.
func (r *Registry) MapEntry(field *schema.Field) (*schema.Message, error) {
	if field.Type == nil || field.Type.Kind != schema.KindMap {
		return nil, fmt.Errorf("field %s is not a map", field.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if msg, ok := r.entries[field]; ok {
		return msg, nil
	}
	msg := &schema.Message{
		Name:     field.Name + "Entry",
		MapEntry: true,
		Fields: []*schema.Field{
			{Name: "key", Number: 1, OneofIndex: -1, Type: field.Type.Key},
			{Name: "value", Number: 2, OneofIndex: -1, Type: field.Type.Value},
		},
	}
	r.entries[field] = msg
	return msg, nil
}
