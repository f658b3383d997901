// Package module implements the design's include/module contract:
// $include names a module by a literal path, which is loaded, compiled and
// run exactly once no matter how many activations reach the same $include
// concurrently, and the value it evaluates to is cached and handed back to
// every caller (including the one that triggered the load). A cache map
// plus a searchPaths list handle lookup and circular-load detection, with
// "only one loader wins" provided by golang.org/x/sync/singleflight instead
// of a hand-rolled mutex-and-loading-map dance, and the actual
// lex/compile/run pipeline supplied by the caller via the Runner hook.
package module

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"smile/internal/errors"
	"smile/internal/symbol"
	"smile/internal/value"
)

const extension = ".smile"

// Module is one resolved $include target: the source it was loaded from and
// the value it evaluated to (or the failure it evaluated with — a module
// that fails to compile or run is cached as a failure, not retried, and
// every subsequent $include of it rethrows that same failure).
type Module struct {
	Name string
	Path string

	Result  value.SmileArg
	Loaded  bool
	LoadErr error
}

// Runner compiles and runs one module's source text, returning the value
// $include resolves to. internal/interp supplies the real implementation
// (compiler.New().Compile -> interp.New().Run) when it constructs a
// Resolver; keeping the signature here import-free of both compiler and
// interp avoids interp -> module -> interp becoming a cycle.
type Runner func(symbols *symbol.Table, path string, source []byte) (value.SmileArg, error)

// Resolver is the IncludeResolver interp.Interp.Include is set to: Resolve
// is called with the literal path string an $include form names.
type Resolver struct {
	Symbols *symbol.Table
	Run     Runner

	group singleflight.Group

	mu          sync.Mutex
	baseDir     string
	searchPaths []string
	cache       map[string]*Module
}

// NewResolver builds a Resolver searching the current directory and a
// conventional ./lib directory by default; AddSearchPath extends the list
// for programs that keep modules elsewhere.
func NewResolver(symbols *symbol.Table, run Runner) *Resolver {
	return &Resolver{
		Symbols:     symbols,
		Run:         run,
		baseDir:     ".",
		searchPaths: []string{".", "./lib"},
		cache:       make(map[string]*Module),
	}
}

// SetBaseDir anchors relative $include paths to dir, typically the
// directory of the program currently being loaded.
func (r *Resolver) SetBaseDir(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseDir = dir
}

// AddSearchPath appends a directory Resolve falls back to for a path that
// isn't itself relative (no "./" or "../" prefix) and isn't found relative
// to baseDir.
func (r *Resolver) AddSearchPath(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchPaths = append(r.searchPaths, dir)
}

// Resolve loads, compiles and runs the module named by path exactly once,
// returning the value every $include of that path evaluates to.
func (r *Resolver) Resolve(path string) (value.SmileArg, error) {
	resolved, err := r.locate(path)
	if err != nil {
		return value.SmileArg{}, pkgerrors.Wrapf(err, "resolving module %q", path)
	}

	if mod := r.cached(resolved); mod != nil {
		return moduleResult(mod)
	}

	v, err, _ := r.group.Do(resolved, func() (interface{}, error) {
		if mod := r.cached(resolved); mod != nil {
			return mod, nil
		}

		mod := r.load(resolved)
		r.mu.Lock()
		r.cache[resolved] = mod
		r.mu.Unlock()
		if mod.LoadErr != nil {
			return mod, mod.LoadErr
		}
		return mod, nil
	})
	if err != nil {
		return value.SmileArg{}, err
	}
	return moduleResult(v.(*Module))
}

func (r *Resolver) cached(resolved string) *Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[resolved]
}

func (r *Resolver) load(resolved string) *Module {
	mod := &Module{Name: filepath.Base(resolved), Path: resolved}
	source, err := os.ReadFile(resolved)
	if err != nil {
		mod.LoadErr = errors.Wrap(errors.IOError, err, "reading module "+resolved)
		return mod
	}
	result, err := r.Run(r.Symbols, resolved, source)
	if err != nil {
		mod.LoadErr = errors.Wrap(errors.EvalError, err, "evaluating module "+resolved)
		return mod
	}
	mod.Result = result
	mod.Loaded = true
	return mod
}

func moduleResult(mod *Module) (value.SmileArg, error) {
	if !mod.Loaded {
		return value.SmileArg{}, mod.LoadErr
	}
	return mod.Result, nil
}

// locate turns the literal string an $include names into a filesystem path:
// an explicit relative path ("./", "../") resolves against baseDir only; a
// bare name is tried against baseDir and then each search path in turn. A
// path with no extension gets .smile appended, matching the reader/compiler
// convention of naming modules by their unqualified symbol (e.g. "queue"
// rather than "queue.smile").
func (r *Resolver) locate(path string) (string, error) {
	r.mu.Lock()
	baseDir := r.baseDir
	searchPaths := append([]string(nil), r.searchPaths...)
	r.mu.Unlock()

	candidate := path
	if filepath.Ext(candidate) == "" {
		candidate += extension
	}

	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || filepath.IsAbs(path) {
		full := filepath.Join(baseDir, candidate)
		if fileExists(full) {
			return filepath.Clean(full), nil
		}
		return "", errors.NewException(errors.IOError, "module not found: "+path)
	}

	if full := filepath.Join(baseDir, candidate); fileExists(full) {
		return filepath.Clean(full), nil
	}
	for _, dir := range searchPaths {
		full := filepath.Join(dir, candidate)
		if fileExists(full) {
			return filepath.Clean(full), nil
		}
	}
	return "", errors.NewException(errors.IOError, "module not found: "+path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
