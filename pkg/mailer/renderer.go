package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"

	"github.com/happydeel/mailroom/pkg/sanitizer"
)

// headerSafe keeps user values from breaking the Subject header.
var headerSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Renderer converts Markdown templates with YAML front matter into an HTML
// document and a plain-text alternative.
type Renderer struct {
	fs fs.FS
	md goldmark.Markdown

	// Parsed templates only; rendered output is never cached.
	templateCache map[string]*cachedTemplate
	layoutCache   map[string]*template.Template
	templateDir   string
	layoutDir     string

	mu sync.RWMutex
}

type cachedTemplate struct {
	metadata map[string]any
	html     *texttemplate.Template
	text     *texttemplate.Template
	subject  *texttemplate.Template // nil when front matter has no Subject
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir string // Default: "."
	LayoutDir   string // Default: "layouts"
}

// NewRenderer creates a renderer with default directories.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a renderer with custom directories.
func NewRendererWithConfig(filesystem fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}

	return &Renderer{
		fs:            filesystem,
		templateDir:   cfg.TemplateDir,
		layoutDir:     cfg.LayoutDir,
		md:            goldmark.New(goldmark.WithExtensions(NewButtonExtension())),
		templateCache: make(map[string]*cachedTemplate),
		layoutCache:   make(map[string]*template.Template),
	}
}

// RenderResult is one rendered message.
type RenderResult struct {
	Metadata map[string]any
	Subject  string // Executed front matter Subject, empty when absent
	HTML     string
	Text     string
}

// Render executes templateName with data and wraps it in layout.
// Rendering is deterministic: equal inputs produce byte-identical output.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	cached, err := r.getTemplate(templateName)
	if err != nil {
		return nil, err
	}

	var source bytes.Buffer
	if err := cached.html.Execute(&source, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s: %v", ErrRenderFailed, templateName, err)
	}

	var fragment bytes.Buffer
	if err := r.md.Convert(source.Bytes(), &fragment); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %v", ErrRenderFailed, err)
	}

	var text bytes.Buffer
	if err := cached.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: execute %s as text: %v", ErrRenderFailed, templateName, err)
	}

	var subject string
	if cached.subject != nil {
		var buf bytes.Buffer
		if err := cached.subject.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("%w: execute subject: %v", ErrRenderFailed, err)
		}
		subject = strings.TrimSpace(headerSafe.Replace(buf.String()))
	}

	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return nil, err
	}

	var doc bytes.Buffer
	err = layoutTmpl.Execute(&doc, map[string]any{
		"Content":  template.HTML(sanitizer.EmailFragment(fragment.String())), //nolint:gosec // sanitized by EmailFragment
		"Metadata": cached.metadata,
		"Subject":  subject,
		"Data":     data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: execute layout %s: %v", ErrRenderFailed, layout, err)
	}

	return &RenderResult{
		Metadata: cached.metadata,
		Subject:  subject,
		HTML:     doc.String(),
		Text:     strings.TrimSpace(text.String()) + "\n",
	}, nil
}

func (r *Renderer) getTemplate(name string) (*cachedTemplate, error) {
	r.mu.RLock()
	if cached, ok := r.templateCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.templateCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	cached := &cachedTemplate{metadata: parsed.Metadata}
	if cached.html, err = texttemplate.New(name).Funcs(htmlFuncs()).Parse(parsed.Body); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	if cached.text, err = texttemplate.New(name).Funcs(textFuncs()).Parse(parsed.Body); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRenderFailed, name, err)
	}
	if subject, ok := parsed.Metadata["Subject"].(string); ok && subject != "" {
		if cached.subject, err = texttemplate.New(name + ":subject").Funcs(textFuncs()).Parse(subject); err != nil {
			return nil, fmt.Errorf("%w: parse subject of %s: %v", ErrRenderFailed, name, err)
		}
	}

	r.templateCache[name] = cached
	return cached, nil
}

func (r *Renderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	if cached, ok := r.layoutCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.layoutCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	layoutTmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse layout %s: %v", ErrRenderFailed, name, err)
	}

	r.layoutCache[name] = layoutTmpl
	return layoutTmpl, nil
}
