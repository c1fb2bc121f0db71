package lcd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/keyzone/internal/cachemanager"
	"github.com/zjrosen/keyzone/internal/display"
)

type glyphKey string

// glyphCache memoizes styled glyph strings. A screen repeats the same few
// colour/character pairs, so each pair is rendered once.
type glyphCache struct {
	cache *cachemanager.InMemoryCacheManager[glyphKey, string]
	rt    *cachemanager.ReadThroughCache[glyphKey, string, cell]
}

type cell struct {
	glyph  display.Glyph
	cursor bool
}

func newGlyphCache() *glyphCache {
	cache := cachemanager.NewInMemoryCacheManager[glyphKey, string](
		"glyphs", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
	return &glyphCache{
		cache: cache,
		rt:    cachemanager.NewReadThroughCache(cachemanager.CacheManager[glyphKey, string](cache), renderCell, false),
	}
}

func (c *glyphCache) render(g display.Glyph, cursor bool) string {
	in := cell{glyph: g, cursor: cursor}
	s, _ := c.rt.Get(context.Background(), in.key(), in, cachemanager.NoExpiration)
	return s
}

func (c *glyphCache) size() int {
	return c.cache.Len()
}

func (c cell) key() glyphKey {
	return glyphKey(fmt.Sprintf("%s:%d:%t", c.glyph.Color, c.glyph.Char, c.cursor))
}

func renderCell(_ context.Context, c cell) (string, error) {
	style := lipgloss.NewStyle()
	if c.glyph.Color != "" {
		style = style.Foreground(lipgloss.Color(c.glyph.Color.Hex()))
	}
	if c.cursor {
		style = style.Reverse(true)
	}
	return style.Render(string(c.glyph.Char)), nil
}
