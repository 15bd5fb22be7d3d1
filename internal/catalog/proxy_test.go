package catalog_test

import (
	"testing"

	"gamelist/internal/catalog"
	"gamelist/pkg/types"

	"github.com/stretchr/testify/assert"
)

func visibleTitles(p *catalog.Proxy) []string {
	titles := make([]string, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		titles = append(titles, p.Game(i).Title())
	}
	return titles
}

func TestProxySort(t *testing.T) {
	c := catalog.New()
	c.Add(gameFile("/g/1.iso", "GZZE01", "zelda", 300))
	c.Add(gameFile("/g/2.iso", "GAAP01", "Animal Crossing", 100))
	c.Add(gameFile("/g/3.iso", "GMMJ01", "Metroid", 200))

	p := catalog.NewProxy(c)
	defer p.Close()

	assert.Equal(t, []string{"Animal Crossing", "Metroid", "zelda"}, visibleTitles(p))

	p.SetSort(types.ColTitle, false)
	assert.Equal(t, []string{"zelda", "Metroid", "Animal Crossing"}, visibleTitles(p))

	p.SetSort(types.ColSize, true)
	assert.Equal(t, []string{"Animal Crossing", "Metroid", "zelda"}, visibleTitles(p))

	p.SetSort(types.ColCountry, true)
	assert.Equal(t, []string{"Animal Crossing", "Metroid", "zelda"}, visibleTitles(p))

	col, asc := p.Sort()
	assert.Equal(t, types.ColCountry, col)
	assert.True(t, asc)
}

func TestProxyMapToSource(t *testing.T) {
	c := catalog.New()
	c.Add(gameFile("/g/b.iso", "GBBE01", "Bravo", 1))
	c.Add(gameFile("/g/a.iso", "GAAE01", "Alpha", 1))

	p := catalog.NewProxy(c)
	defer p.Close()

	src, ok := p.MapToSource(0)
	assert.True(t, ok)
	assert.Equal(t, 1, src)

	row, ok := p.MapFromSource(0)
	assert.True(t, ok)
	assert.Equal(t, 1, row)

	_, ok = p.MapToSource(2)
	assert.False(t, ok)
	assert.Nil(t, p.Game(-1))
}

func TestProxyFollowsCatalog(t *testing.T) {
	c := catalog.New()
	p := catalog.NewProxy(c)
	defer p.Close()

	assert.Equal(t, 0, p.Len())
	c.Add(gameFile("/g/a.iso", "GAAE01", "Alpha", 1))
	assert.Equal(t, 1, p.Len())
	c.RemoveGame("/g/a.iso")
	assert.Equal(t, 0, p.Len())
}

func TestProxyFilter(t *testing.T) {
	c := catalog.New()
	c.Add(gameFile("/g/mario.iso", "GMSE01", "Super Mario Sunshine", 1))
	c.Add(gameFile("/g/kart.iso", "GM4E01", "Mario Kart Double Dash", 1))
	c.Add(gameFile("/g/zelda.iso", "GZLE01", "Wind Waker", 1))

	p := catalog.NewProxy(c)
	defer p.Close()

	p.SetFilter("  MARIO ")
	assert.Equal(t, []string{"Mario Kart Double Dash", "Super Mario Sunshine"}, visibleTitles(p))

	p.SetFilter("gzle")
	assert.Equal(t, []string{"Wind Waker"}, visibleTitles(p))

	p.SetFilter("zelda.iso")
	assert.Equal(t, []string{"Wind Waker"}, visibleTitles(p))

	p.SetFilter("")
	assert.Equal(t, 3, p.Len())
}
