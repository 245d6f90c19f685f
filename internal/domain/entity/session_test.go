package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession(10)
	require.Equal(t, StateMainMenu, s.State)
	require.Equal(t, int64(10), s.Key)
	require.NotNil(t, s.Store)
	require.False(t, s.Submitted)
}

func TestSession_ResetClearsImageState(t *testing.T) {
	s := NewSession(1)
	s.ImageName = "home.png"
	s.Detections = []Detection{{ClassName: "button", Confidence: 0.9, Width: 10, Height: 10}}
	s.ElementIDs = []string{"button_1"}
	s.AnnotatedPath = "/tmp/a.jpeg"
	s.Store.Set(FieldFont, "ok")
	s.Store.Set(AssessmentKey("button_1"), "good")
	snap := s.Store.Snapshot()
	s.Snapshot = &snap
	s.Submitted = true
	s.PendingField = NoteKey("button_1")
	s.SetState(StateSubmitted)
	gen := s.Generation

	s.Reset()

	require.Empty(t, s.ImageName)
	require.Empty(t, s.Detections)
	require.Empty(t, s.ElementIDs)
	require.Empty(t, s.AnnotatedPath)
	require.Zero(t, s.Store.Len())
	require.False(t, s.Submitted)
	require.Nil(t, s.Snapshot)
	require.Empty(t, s.PendingField)
	require.Equal(t, StateMainMenu, s.State)
	require.Equal(t, gen+1, s.Generation)

	// снимок, взятый до сброса, не меняется
	v, ok := snap.Get(AssessmentKey("button_1"))
	require.True(t, ok)
	require.Equal(t, "good", v)
}

func TestSession_IsKnownField(t *testing.T) {
	s := NewSession(1)
	s.ElementIDs = []string{"button_1", "text_1"}

	require.True(t, s.IsKnownField(FieldColor))
	require.True(t, s.IsKnownField(AssessmentKey("button_1")))
	require.True(t, s.IsKnownField(NoteKey("text_1")))
	require.False(t, s.IsKnownField(NoteKey("button_2")))
	require.False(t, s.IsKnownField("assessment_"))
	require.False(t, s.IsKnownField("layout"))
}

func TestSession_SeedForm(t *testing.T) {
	s := NewSession(1)
	s.Detections = []Detection{{ClassName: "button"}, {ClassName: "text"}}
	s.ElementIDs = AssignIdentifiers(s.Detections)
	s.Store.Set(FieldFont, "Konsisten")

	s.SeedForm()

	require.Equal(t, 7, s.Store.Len())
	require.Equal(t, "Konsisten", s.Store.GetOr(FieldFont, ""))
	v, ok := s.Store.Get(NoteKey("text_1"))
	require.True(t, ok)
	require.Empty(t, v)
	require.Equal(t, []string{"button_1", "text_1"}, s.Store.Snapshot().ElementIDs())
}
