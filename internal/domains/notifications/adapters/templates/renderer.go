// Package templates renders liquid email templates from an embedded or on-disk directory.
package templates

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/verdavida/lawncare/internal/domains/notifications/ports"
)

var (
	ErrTemplateNameRequired = errors.New("template name is required")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrNilModel             = errors.New("model cannot be nil")
	ErrRender               = errors.New("failed to render template")
)

// Extension is appended to template names when reading from the source directory.
const Extension = ".liquid"

//go:embed files/*.liquid
var embedded embed.FS

// Binder is implemented by models that expose their own template variables.
type Binder interface {
	Bindings() map[string]any
}

// Renderer parses templates on first use and caches the compiled form by name.
type Renderer struct {
	source fs.FS
	engine *liquid.Engine
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*liquid.Template
}

// Option configures the renderer.
type Option func(*Renderer)

// WithLogger sets the renderer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSource reads templates from fsys instead of the embedded set.
func WithSource(fsys fs.FS) Option {
	return func(r *Renderer) {
		if fsys != nil {
			r.source = fsys
		}
	}
}

// WithFilter registers a liquid filter on the engine.
func WithFilter(name string, fn any) Option {
	return func(r *Renderer) {
		r.engine.RegisterFilter(name, fn)
	}
}

// NewRenderer builds a renderer over the embedded templates.
func NewRenderer(opts ...Option) *Renderer {
	source, _ := fs.Sub(embedded, "files")
	r := &Renderer{
		source: source,
		engine: liquid.NewEngine(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  make(map[string]*liquid.Template),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// NewFromPath reads templates from dir, or from the embedded set when dir is empty.
func NewFromPath(dir string, opts ...Option) *Renderer {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return NewRenderer(opts...)
	}
	return NewRenderer(append([]Option{WithSource(os.DirFS(dir))}, opts...)...)
}

// Render renders the named template against model.
func (r *Renderer) Render(ctx context.Context, name string, model any) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrTemplateNameRequired
	}
	tpl, err := r.template(ctx, name)
	if err != nil {
		return "", err
	}
	if model == nil {
		return "", ErrNilModel
	}
	bindings, err := toBindings(model)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrRender, name, err)
	}

	out, renderErr := tpl.RenderString(bindings)
	if renderErr != nil {
		r.logger.ErrorContext(ctx, "error rendering template",
			slog.String("template", name),
			slog.String("error", renderErr.Error()),
		)
		return "", fmt.Errorf("%w %s: %w", ErrRender, name, renderErr)
	}
	r.logger.DebugContext(ctx, "rendered template", slog.String("template", name))
	return out, nil
}

func (r *Renderer) template(ctx context.Context, name string) (*liquid.Template, error) {
	r.mu.RLock()
	tpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	src, err := fs.ReadFile(r.source, name+Extension)
	if err != nil {
		r.logger.ErrorContext(ctx, "template file not found",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	parsed, parseErr := r.engine.ParseTemplate(src)
	if parseErr != nil {
		// Left out of the cache so a corrected file is picked up on the next call.
		r.logger.ErrorContext(ctx, "failed to parse template",
			slog.String("template", name),
			slog.String("error", parseErr.Error()),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, name, parseErr)
	}

	// Concurrent first renders parse the same source; the last one stored wins.
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[name] = parsed
	r.logger.DebugContext(ctx, "loaded and cached template", slog.String("template", name))
	return parsed, nil
}

func toBindings(model any) (liquid.Bindings, error) {
	switch m := model.(type) {
	case Binder:
		return m.Bindings(), nil
	case map[string]any:
		return m, nil
	}
	raw, err := json.Marshal(model)
	if err != nil {
		return nil, err
	}
	var bindings map[string]any
	if err := json.Unmarshal(raw, &bindings); err != nil {
		return nil, fmt.Errorf("model must encode to a JSON object: %w", err)
	}
	return bindings, nil
}

var _ ports.Renderer = (*Renderer)(nil)
