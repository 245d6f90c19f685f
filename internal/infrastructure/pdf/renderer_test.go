package pdf

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ui-assessment-bot/internal/domain/entity"
	"ui-assessment-bot/internal/report"
)

func pageCount(out []byte) int {
	return bytes.Count(out, []byte("<</Type /Page\n"))
}

func TestRender_FullReport(t *testing.T) {
	snap := entity.NewSnapshot(map[string]string{
		entity.FieldFont:                 "Konsisten",
		entity.AssessmentKey("button_1"): "Kontras cukup",
		entity.NoteKey("button_1"):       strings.Repeat("catatan panjang ", 40),
		entity.AssessmentKey("text_1"):   "Кнопка слишком мелкая ✓ 按钮",
	})
	doc := report.Build(report.Input{
		Snapshot:    snap,
		Image:       image.NewRGBA(image.Rect(0, 0, 1200, 800)),
		SourceName:  "home.png",
		GeneratedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	})

	out, err := NewRenderer("test").Render(doc)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	require.GreaterOrEqual(t, pageCount(out), 1)
}

func TestRender_WithoutImage(t *testing.T) {
	doc := report.Build(report.Input{
		Snapshot: entity.NewSnapshot(nil),
		ImageErr: &entity.AssetMissingError{},
	})

	out, err := NewRenderer("test").Render(doc)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	require.Equal(t, 1, pageCount(out))
}

func TestRender_LongTableBreaksPages(t *testing.T) {
	fields := map[string]string{}
	for i := 1; i <= 120; i++ {
		fields[entity.AssessmentKey(fmt.Sprintf("button_%d", i))] = "ok"
	}
	doc := report.Build(report.Input{Snapshot: entity.NewSnapshot(fields)})

	out, err := NewRenderer("test").Render(doc)
	require.NoError(t, err)
	require.Greater(t, pageCount(out), 1)
}

func TestLatin1(t *testing.T) {
	require.Equal(t, "café ??", latin1("café ✓按"))
}

func TestMimeType(t *testing.T) {
	require.Equal(t, "application/pdf", NewRenderer("").MimeType())
}
