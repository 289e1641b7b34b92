package surface

import (
	"fmt"
	"image/color"
)

// Background fills a Raster with a solid color.
type Background struct {
	Color color.Color
}

func (Background) Name() string { return "background" }

func (b Background) Apply(s Surface) error {
	r, ok := s.(*Raster)
	if !ok {
		return fmt.Errorf("background needs a raster surface, got %T", s)
	}
	c := b.Color
	if c == nil {
		c = color.White
	}
	return r.Fill(c)
}

// Caption draws a line of text in the top-left corner of a Raster.
type Caption struct {
	Text  string
	Color color.Color
}

func (Caption) Name() string { return "caption" }

func (c Caption) Apply(s Surface) error {
	r, ok := s.(*Raster)
	if !ok {
		return fmt.Errorf("caption needs a raster surface, got %T", s)
	}
	col := c.Color
	if col == nil {
		col = color.Black
	}
	return r.DrawText(c.Text, 4, 13, col)
}
