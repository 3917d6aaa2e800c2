package profile

import (
	"bytes"
	"fmt"
	"time"

	"riobot/domain/interfaces"
	"riobot/domain/utils"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// tableColumn defines a column in the leaderboard table
type tableColumn struct {
	Header    string
	XPosition int
	ColorRGB  [3]float64
}

// tableStyle defines the visual style of the table
type tableStyle struct {
	Width     int
	MinHeight int
	Padding   int
	RowHeight int
	Podium    [3][4]float64 // RGBA row tint for ranks 1-3
}

// LeaderboardImageGenerator renders the leaderboard panel as a PNG
type LeaderboardImageGenerator struct {
	style tableStyle
}

// NewLeaderboardImageGenerator creates a generator with the default style
func NewLeaderboardImageGenerator() *LeaderboardImageGenerator {
	return &LeaderboardImageGenerator{
		style: tableStyle{
			Width:     420,
			MinHeight: 120,
			Padding:   15,
			RowHeight: 26,
			Podium: [3][4]float64{
				{1, 0.84, 0, 0.1},     // gold
				{0.8, 0.8, 0.8, 0.08}, // silver
				{0.8, 0.5, 0.2, 0.06}, // bronze
			},
		},
	}
}

// Generate draws one row per entry; names are looked up by user id
func (g *LeaderboardImageGenerator) Generate(entries []interfaces.LeaderboardEntry, names map[int64]string) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithFields(log.Fields{
			"duration_ms": time.Since(start).Milliseconds(),
			"row_count":   len(entries),
		}).Debug("Leaderboard image generation completed")
	}()

	p := g.style.Padding
	columns := []tableColumn{
		{Header: "#", XPosition: p, ColorRGB: [3]float64{0.85, 0.85, 0.9}},
		{Header: "Membre", XPosition: p + 25, ColorRGB: [3]float64{1, 1, 1}},
		{Header: "Niv.", XPosition: p + 195, ColorRGB: [3]float64{0.85, 0.85, 1}},
		{Header: "XP", XPosition: p + 245, ColorRGB: [3]float64{0.85, 1, 0.85}},
		{Header: "Rios", XPosition: p + 320, ColorRGB: [3]float64{1, 0.9, 0.6}},
	}

	height := max(25+30+len(entries)*g.style.RowHeight+15, g.style.MinHeight)
	dc := gg.NewContext(g.style.Width, height)
	dc.SetFillRule(gg.FillRuleWinding)

	// vertical gradient background
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		dc.SetRGB(0.02+t*0.03, 0.02+t*0.05, 0.05+t*0.1)
		dc.DrawLine(0, float64(y), float64(g.style.Width), float64(y))
		dc.Stroke()
	}

	face, err := loadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	rankFace, err := loadFont(gobold.TTF, 9)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	y := float64(25)
	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, float64(g.style.Width), 20)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for _, col := range columns {
		drawSharpText(dc, col.Header, float64(col.XPosition), y)
	}
	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(g.style.Width), y+8)
	dc.Stroke()

	y += 30
	for i, e := range entries {
		if i < len(g.style.Podium) {
			c := g.style.Podium[i]
			dc.SetRGBA(c[0], c[1], c[2], c[3])
		} else {
			dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
		}
		dc.DrawRectangle(0, y-15, float64(g.style.Width), float64(g.style.RowHeight))
		dc.Fill()

		if i < len(g.style.Podium) {
			c := g.style.Podium[i]
			dc.SetRGB(c[0], c[1], c[2])
			dc.DrawCircle(float64(p+3), y-4, 6)
			dc.Fill()
			dc.SetRGB(0, 0, 0)
			dc.SetFontFace(rankFace)
			dc.DrawStringAnchored(fmt.Sprintf("%d", e.Rank), float64(p+3), y-5, 0.5, 0.4)
			dc.SetFontFace(face)
		} else {
			dc.SetRGB(columns[0].ColorRGB[0], columns[0].ColorRGB[1], columns[0].ColorRGB[2])
			drawSharpText(dc, fmt.Sprintf("%d", e.Rank), float64(columns[0].XPosition), y)
		}

		name := names[e.UserID]
		if name == "" {
			name = fmt.Sprintf("Membre %d", e.UserID)
		}
		if r := []rune(name); len(r) > 18 {
			name = string(r[:17]) + "…"
		}
		cells := []string{
			name,
			fmt.Sprintf("%d", e.Level),
			utils.FormatShortNotation(e.XP),
			utils.FormatShortNotation(e.Currency),
		}
		for j, text := range cells {
			col := columns[j+1]
			dc.SetRGB(col.ColorRGB[0], col.ColorRGB[1], col.ColorRGB[2])
			drawSharpText(dc, text, float64(col.XPosition), y)
		}
		y += float64(g.style.RowHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSharpText draws text over a faint offset shadow
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()
	dc.DrawString(text, x, y)
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}), nil
}
