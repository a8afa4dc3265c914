package chart

import (
	"bytes"
	"fmt"
	"strings"
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// svgBuilder accumulates one SVG document. All drawing helpers emit
// fixed-precision coordinates so identical input renders identical
// bytes.
type svgBuilder struct {
	buf bytes.Buffer
}

func newSVG(width, height int) *svgBuilder {
	b := &svgBuilder{}
	fmt.Fprintf(&b.buf,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\" font-family=\"Helvetica, Arial, sans-serif\">\n",
		width, height, width, height)
	fmt.Fprintf(&b.buf, "<rect width=\"%d\" height=\"%d\" fill=\"#ffffff\"/>\n", width, height)
	return b
}

func (b *svgBuilder) rect(x, y, w, h float64, fill string) {
	fmt.Fprintf(&b.buf, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"/>\n",
		x, y, w, h, fill)
}

func (b *svgBuilder) line(x1, y1, x2, y2 float64, stroke string, width float64) {
	fmt.Fprintf(&b.buf, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"%.2f\"/>\n",
		x1, y1, x2, y2, stroke, width)
}

func (b *svgBuilder) circle(cx, cy, r float64, fill string) {
	fmt.Fprintf(&b.buf, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"/>\n", cx, cy, r, fill)
}

func (b *svgBuilder) polyline(points []point, stroke string, width float64) {
	if len(points) == 0 {
		return
	}
	var sb strings.Builder
	for i, p := range points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.2f,%.2f", p.x, p.y)
	}
	fmt.Fprintf(&b.buf, "<polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\"/>\n",
		sb.String(), stroke, width)
}

// text draws a label. anchor is an SVG text-anchor: start, middle, end.
func (b *svgBuilder) text(x, y float64, anchor string, size int, fill, content string) {
	fmt.Fprintf(&b.buf, "<text x=\"%.2f\" y=\"%.2f\" text-anchor=\"%s\" font-size=\"%d\" fill=\"%s\">%s</text>\n",
		x, y, anchor, size, fill, textEscaper.Replace(content))
}

// vtext draws a label rotated 90 degrees counter-clockwise around its
// own position, for y-axis titles.
func (b *svgBuilder) vtext(x, y float64, size int, fill, content string) {
	fmt.Fprintf(&b.buf, "<text x=\"%.2f\" y=\"%.2f\" text-anchor=\"middle\" font-size=\"%d\" fill=\"%s\" transform=\"rotate(-90 %.2f %.2f)\">%s</text>\n",
		x, y, size, fill, x, y, textEscaper.Replace(content))
}

func (b *svgBuilder) close() []byte {
	b.buf.WriteString("</svg>\n")
	return b.buf.Bytes()
}

type point struct {
	x, y float64
}
