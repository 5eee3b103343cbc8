package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/muesli/termenv"
)

// Caret marks the end of the live field.
const Caret = "▏"

// SnapshotRenderer draws an expression tree on three terminal rows: exponents
// and numerators above, the baseline in the middle, denominators below.
// It implements ports.Renderer.
type SnapshotRenderer struct {
	profile termenv.Profile
}

// SnapshotOption configures a SnapshotRenderer.
type SnapshotOption func(*SnapshotRenderer)

// WithProfile forces a color profile (termenv.Ascii disables styling).
func WithProfile(p termenv.Profile) SnapshotOption {
	return func(r *SnapshotRenderer) {
		r.profile = p
	}
}

// NewSnapshotRenderer creates a renderer using the color profile of stdout.
func NewSnapshotRenderer(opts ...SnapshotOption) *SnapshotRenderer {
	r := &SnapshotRenderer{profile: termenv.ColorProfile()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type row int

const (
	top row = iota
	mid
	bot
)

type segment struct {
	text string
	live bool
}

// canvas holds three rows that always have the same visible width.
type canvas struct {
	rows  [3][]segment
	width int
}

func (c *canvas) put(r row, s segment) {
	c.rows[r] = append(c.rows[r], s)
}

// align pads every row to the widest one.
func (c *canvas) align() {
	for r := range c.rows {
		if w := rowWidth(c.rows[r]); w > c.width {
			c.width = w
		}
	}
	for r := range c.rows {
		if gap := c.width - rowWidth(c.rows[r]); gap > 0 {
			c.rows[r] = append(c.rows[r], segment{text: strings.Repeat(" ", gap)})
		}
	}
}

func rowWidth(segs []segment) int {
	n := 0
	for _, s := range segs {
		n += utf8.RuneCountInString(s.text)
	}
	return n
}

// Render implements ports.Renderer.
func (r *SnapshotRenderer) Render(snap domain.Snapshot) (string, error) {
	c := &canvas{}
	for i, n := range snap.Nodes {
		live := domain.FieldNone
		if snap.IsLive(i) {
			live = snap.LiveField
		}
		r.node(c, n, live)
		c.align()
	}
	if snap.Mode == domain.ModeNormal {
		c.put(mid, segment{text: Caret, live: true})
		c.align()
	}

	var lines []string
	for i := range c.rows {
		line := strings.TrimRight(r.paint(c.rows[i]), " ")
		if line == "" && row(i) != mid {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (r *SnapshotRenderer) node(c *canvas, n domain.Node, live domain.Field) {
	switch n.Kind {
	case domain.NodeText:
		c.put(mid, segment{text: n.Content})

	case domain.NodeSqrt:
		content := field(inline(n.Content), live == domain.FieldContent)
		c.put(top, segment{text: " " + strings.Repeat("_", width(content))})
		c.put(mid, segment{text: "√"})
		c.put(mid, content)

	case domain.NodeAbs:
		c.put(mid, segment{text: "|"})
		c.put(mid, field(inline(n.Content), live == domain.FieldContent))
		c.put(mid, segment{text: "|"})

	case domain.NodeFunction:
		c.put(mid, segment{text: n.Name + "("})
		c.put(mid, field(inline(n.Content), live == domain.FieldContent))
		c.put(mid, segment{text: ")"})

	case domain.NodeSuperscript:
		c.put(mid, segment{text: n.Base})
		c.align()
		exp := field(n.Exponent, live == domain.FieldExponent)
		c.put(top, exp)

	case domain.NodeFraction:
		num := field(n.Numerator, live == domain.FieldNumerator)
		den := field(n.Denominator, live == domain.FieldDenominator)
		w := max(width(num), width(den))
		c.center(top, num, w)
		c.put(mid, segment{text: strings.Repeat("─", w)})
		c.center(bot, den, w)
	}
}

// field renders one editable field; the live one carries the caret and an
// empty idle one keeps a blank cell so it stays visible.
func field(text string, live bool) segment {
	if live {
		return segment{text: text + Caret, live: true}
	}
	if text == "" {
		text = " "
	}
	return segment{text: text}
}

// inline shows the first '/' of flat content as a fraction slash.
func inline(text string) string {
	num, den, ok := strings.Cut(text, "/")
	if !ok {
		return text
	}
	return num + "⁄" + den
}

// center pads s on both sides to w cells, keeping the padding unstyled.
func (c *canvas) center(r row, s segment, w int) {
	gap := w - width(s)
	left := gap / 2
	if left > 0 {
		c.put(r, segment{text: strings.Repeat(" ", left)})
	}
	c.put(r, s)
	if gap-left > 0 {
		c.put(r, segment{text: strings.Repeat(" ", gap-left)})
	}
}

func width(s segment) int {
	return utf8.RuneCountInString(s.text)
}

func (r *SnapshotRenderer) paint(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.live && r.profile != termenv.Ascii {
			b.WriteString(r.profile.String(s.text).Underline().String())
			continue
		}
		b.WriteString(s.text)
	}
	return b.String()
}
