package render

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Glamour standard styles
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleASCII = "ascii"
)

// maxRenderers bounds the cache. Every bubble width gets its own renderer,
// and resizing the terminal keeps producing new widths.
const maxRenderers = 8

// sharedRenderer serializes Render calls; a glamour.TermRenderer keeps
// state between them
type sharedRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

func (s *sharedRenderer) render(markdown string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Render(markdown)
}

// rendererCache keeps the most recently used renderers, oldest evicted first
type rendererCache struct {
	mu    sync.Mutex
	limit int
	order []string
	items map[string]*sharedRenderer
}

func newRendererCache(limit int) *rendererCache {
	return &rendererCache{
		limit: limit,
		items: make(map[string]*sharedRenderer),
	}
}

var renderers = newRendererCache(maxRenderers)

// cacheKey identifies the renderer built for opts
func cacheKey(opts Options) string {
	return fmt.Sprintf("%s:%d:%t:%t:%t:%t",
		opts.Style,
		opts.Width,
		opts.EnableEmoji,
		opts.PreserveNewLines,
		opts.TableWrap,
		opts.InlineTableLinks,
	)
}

// get returns the renderer for opts, building it on first use
func (c *rendererCache) get(opts Options) (*sharedRenderer, error) {
	key := cacheKey(opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.items[key]; ok {
		c.touch(key)
		return r, nil
	}

	renderer, err := createRenderer(opts)
	if err != nil {
		return nil, err
	}
	r := &sharedRenderer{renderer: renderer}
	c.items[key] = r
	c.order = append(c.order, key)

	if len(c.order) > c.limit {
		delete(c.items, c.order[0])
		c.order = c.order[1:]
	}
	return r, nil
}

// touch moves key to the most recently used end
func (c *rendererCache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(append(c.order[:i:i], c.order[i+1:]...), key)
			return
		}
	}
}

func (c *rendererCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *rendererCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.items = make(map[string]*sharedRenderer)
}

// createRenderer creates a new TermRenderer with the specified options.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := opts.Style
	if style == "" {
		style = StyleDark
	}

	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}

	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}

	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}
