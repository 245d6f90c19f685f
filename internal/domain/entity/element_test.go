package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignIdentifiers(t *testing.T) {
	dets := []Detection{
		{ClassName: "button"},
		{ClassName: "text"},
		{ClassName: "button"},
		{ClassName: "image"},
		{ClassName: "text"},
	}
	ids := AssignIdentifiers(dets)
	require.Equal(t, []string{"button_1", "text_1", "button_2", "image_1", "text_2"}, ids)

	// повторный прогон даёт ту же последовательность
	require.Equal(t, ids, AssignIdentifiers(dets))
}

func TestAssignIdentifiers_IdenticalDetectionsAreDistinct(t *testing.T) {
	d := Detection{ClassName: "button", Confidence: 0.9, CenterX: 10, CenterY: 10, Width: 4, Height: 4}
	require.Equal(t, []string{"button_1", "button_2"}, AssignIdentifiers([]Detection{d, d}))
}

func TestAssignIdentifiers_Empty(t *testing.T) {
	require.Empty(t, AssignIdentifiers(nil))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Button 1", DisplayName("button_1"))
	require.Equal(t, "Nav Bar 12", DisplayName("nav_bar_12"))
	require.Equal(t, "Icon 2", DisplayName("ICON_2"))
}

func TestElements(t *testing.T) {
	els := Elements([]Detection{{ClassName: "button"}, {ClassName: "button"}})
	require.Len(t, els, 2)
	require.Equal(t, "button_1", els[0].ID)
	require.Equal(t, "button_2", els[1].ID)
}
