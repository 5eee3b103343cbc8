package tui

import (
	"testing"

	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(edit domain.EditState, nodes ...domain.Node) domain.Snapshot {
	doc := domain.NewDocument("test")
	doc.Expression = nodes
	doc.Edit = edit
	return domain.NewSnapshot(doc)
}

func TestSnapshotRenderer_Render(t *testing.T) {
	tests := []struct {
		name string
		snap domain.Snapshot
		want string
	}{
		{
			"Empty",
			snapshotOf(domain.NormalState()),
			"▏",
		},
		{
			"Sqrt With Prefix",
			snapshotOf(domain.NormalState(), domain.NewText("1+"), domain.NewSqrt("16")),
			"   __\n1+√16▏",
		},
		{
			"Live Denominator",
			snapshotOf(domain.ActiveState(domain.ModeFractionDenominator, 0), domain.NewFraction("3", "4")),
			"3\n──\n4▏",
		},
		{
			"Centered Numerator",
			snapshotOf(domain.NormalState(), domain.NewFraction("1", "100")),
			" 1\n───▏\n100",
		},
		{
			"Empty Idle Numerator",
			snapshotOf(domain.ActiveState(domain.ModeFractionDenominator, 0), domain.NewFraction("", "")),
			"─\n▏",
		},
		{
			"Live Exponent",
			snapshotOf(domain.ActiveState(domain.ModeSuperscript, 0), domain.NewSuperscript("x", "2")),
			" 2▏\nx",
		},
		{
			"Inline Fraction In Function",
			snapshotOf(domain.NormalState(), domain.NewFunction("sin", "1/2")),
			"sin(1⁄2)▏",
		},
		{
			"Live Empty Abs",
			snapshotOf(domain.ActiveState(domain.ModeAbs, 0), domain.NewAbs("")),
			"|▏|",
		},
	}

	r := NewSnapshotRenderer(WithProfile(termenv.Ascii))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotRenderer_StylesLiveField(t *testing.T) {
	r := NewSnapshotRenderer(WithProfile(termenv.ANSI))
	got, err := r.Render(snapshotOf(domain.ActiveState(domain.ModeSqrt, 0), domain.NewSqrt("2")))
	require.NoError(t, err)

	assert.Contains(t, got, "\x1b[4m2▏")
}
