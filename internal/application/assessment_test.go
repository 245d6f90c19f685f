package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ui-assessment-bot/internal/domain/entity"
	"ui-assessment-bot/internal/infrastructure/scratch"
	"ui-assessment-bot/internal/infrastructure/storage"
	"ui-assessment-bot/internal/report"
)

type fixture struct {
	svc      *AssessmentService
	sessions *SessionService
	repo     *storage.MemorySessionRepository
	detector *fakeDetector
	renderer *captureRenderer
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := scratch.NewStore(dir)
	require.NoError(t, err)

	repo := storage.NewMemorySessionRepository()
	sessions := NewSessionService(repo)
	detector := &fakeDetector{detections: twoButtons}
	renderer := &captureRenderer{}
	svc := NewAssessmentService(sessions, detector, countingAnnotator{}, store, renderer)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }

	return &fixture{svc: svc, sessions: sessions, repo: repo, detector: detector, renderer: renderer, dir: dir}
}

func (f *fixture) scratchFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	return len(entries)
}

func TestAssessmentService_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 400, 200))
	require.NoError(t, err)
	require.Equal(t, 2, out.Drawn)
	require.Empty(t, out.Skipped)
	require.Equal(t, "button_1", out.Elements[0].ID)
	require.Equal(t, "button_2", out.Elements[1].ID)
	require.Equal(t, "button (91%)", out.Elements[0].Detection.Label())
	require.Equal(t, "button (80%)", out.Elements[1].Detection.Label())
	require.NotEmpty(t, out.Annotated)
	require.Equal(t, 1, f.scratchFiles(t))

	view, err := f.sessions.View(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateAssessing, view.State)

	fields := map[string]string{
		entity.FieldFont:                 "Konsisten",
		entity.FieldColor:                "Kontras baik",
		entity.FieldScale:                "Jelas",
		entity.AssessmentKey("button_2"): "Terlalu kecil",
		entity.NoteKey("button_2"):       "Perbesar",
		entity.AssessmentKey("button_1"): "Baik",
		entity.NoteKey("button_1"):       "",
	}
	for k, v := range fields {
		require.NoError(t, f.svc.SetField(ctx, 1, k, v))
	}

	snap, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 7, snap.Len())

	dl, err := f.svc.Download(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Laporan_Penilaian_UI_home_png_20261019093000.pdf", dl.FileName)
	require.Equal(t, "application/pdf", dl.MimeType)
	require.True(t, strings.HasPrefix(string(dl.Content), "%PDF"))

	tables := reportTables(f.renderer.doc)
	require.Len(t, tables, 2)
	require.Len(t, tables[0].Rows, 3)
	require.Equal(t, []string{"Font/Tipografi", "Konsisten"}, tables[0].Rows[0])
	require.Len(t, tables[1].Rows, 2)
	require.Equal(t, []string{"Button 1", "Baik", report.NoNote}, tables[1].Rows[0])
	require.Equal(t, []string{"Button 2", "Terlalu kecil", "Perbesar"}, tables[1].Rows[1])

	var pictures int
	for _, b := range f.renderer.doc.Blocks {
		if _, ok := b.(report.Picture); ok {
			pictures++
		}
	}
	require.Equal(t, 1, pictures)
}

func TestAssessmentService_UntouchedElementsStillReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 400, 200))
	require.NoError(t, err)
	require.NoError(t, f.svc.SetField(ctx, 1, entity.FieldFont, "Konsisten"))

	snap, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 7, snap.Len())

	_, err = f.svc.Download(ctx, 1)
	require.NoError(t, err)

	tables := reportTables(f.renderer.doc)
	require.Len(t, tables, 2)
	require.Equal(t, []string{"Warna/Skema", report.CategoryPlaceholder}, tables[0].Rows[1])
	require.Equal(t, [][]string{
		{"Button 1", report.NotAssessed, report.NoNote},
		{"Button 2", report.NotAssessed, report.NoNote},
	}, tables[1].Rows)
}

func TestAssessmentService_EditAfterSubmitKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 400, 200))
	require.NoError(t, err)
	require.NoError(t, f.svc.SetField(ctx, 1, entity.FieldFont, "before"))

	snap, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.SetField(ctx, 1, entity.FieldFont, "after"))
	v, _ := snap.Get(entity.FieldFont)
	require.Equal(t, "before", v)

	_, err = f.svc.Download(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "before", reportTables(f.renderer.doc)[0].Rows[0][1])

	session, err := f.repo.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateSubmitted, session.State)
}

func TestAssessmentService_NewUploadResets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OnUpload(ctx, 1, "a.png", screenshotPNG(t, 400, 200))
	require.NoError(t, err)
	require.NoError(t, f.svc.SetField(ctx, 1, entity.AssessmentKey("button_1"), "ok"))
	_, err = f.svc.Submit(ctx, 1)
	require.NoError(t, err)

	f.detector.detections = []entity.Detection{
		{ClassName: "text", Confidence: 0.7, CenterX: 50, CenterY: 50, Width: 10, Height: 10},
	}
	out, err := f.svc.OnUpload(ctx, 1, "b.png", screenshotPNG(t, 400, 200))
	require.NoError(t, err)
	require.Equal(t, "text_1", out.Elements[0].ID)

	session, err := f.repo.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, session.Submitted)
	require.Nil(t, session.Snapshot)
	require.Equal(t, 5, session.Store.Len())
	_, ok := session.Store.Get(entity.AssessmentKey("button_1"))
	require.False(t, ok)
	require.Empty(t, session.Store.GetOr(entity.AssessmentKey("text_1"), "x"))
	require.Equal(t, "b.png", session.ImageName)
	require.Equal(t, 1, f.scratchFiles(t))

	err = f.svc.SetField(ctx, 1, entity.AssessmentKey("button_1"), "ok")
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = f.svc.Download(ctx, 1)
	require.ErrorIs(t, err, ErrNotSubmitted)
}

func TestAssessmentService_ServiceError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.detector.err = &entity.ServiceError{Provider: "fake", Status: 503, Err: errors.New("unavailable")}

	_, err := f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 100, 100))
	var svcErr *entity.ServiceError
	require.True(t, errors.As(err, &svcErr))

	session, err := f.repo.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, session.Busy)
	require.Empty(t, session.Detections)
	require.Equal(t, entity.StateMainMenu, session.State)
	require.Zero(t, f.scratchFiles(t))

	// можно сразу загрузить снова
	f.detector.err = nil
	_, err = f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 100, 100))
	require.NoError(t, err)
}

func TestAssessmentService_UnsupportedImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OnUpload(ctx, 1, "notes.txt", []byte("plain text"))
	require.ErrorIs(t, err, ErrUnsupportedImage)
	require.Zero(t, f.detector.calls)

	session, err := f.repo.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, session.Busy)
}

func TestAssessmentService_NoDetections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.detector.detections = nil

	out, err := f.svc.OnUpload(ctx, 1, "blank.png", screenshotPNG(t, 50, 50))
	require.NoError(t, err)
	require.Empty(t, out.Elements)

	session, err := f.repo.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)

	require.ErrorIs(t, f.svc.SetField(ctx, 1, entity.FieldFont, "x"), ErrNothingToAssess)
	_, err = f.svc.Submit(ctx, 1)
	require.ErrorIs(t, err, ErrNothingToAssess)
}

func TestAssessmentService_MalformedDetectionStillGetsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.detector.detections = []entity.Detection{
		{ClassName: "button", Confidence: 0.9, CenterX: 10, CenterY: 10, Width: -5, Height: 5},
		{ClassName: "button", Confidence: 0.9, CenterX: 10, CenterY: 10, Width: 5, Height: 5},
	}

	out, err := f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 50, 50))
	require.NoError(t, err)
	require.Equal(t, 1, out.Drawn)
	require.Len(t, out.Skipped, 1)
	require.Len(t, out.Elements, 2)
	require.NoError(t, f.svc.SetField(ctx, 1, entity.NoteKey("button_1"), "box is broken"))
}

func TestAssessmentService_BeginAndFillPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.FillPending(ctx, 1, "x")
	require.ErrorIs(t, err, ErrNoPendingField)

	_, err = f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 400, 200))
	require.NoError(t, err)

	_, err = f.svc.BeginField(ctx, 1, "assessment_slider_1")
	require.ErrorIs(t, err, ErrUnknownField)

	current, err := f.svc.BeginField(ctx, 1, entity.NoteKey("button_2"))
	require.NoError(t, err)
	require.Empty(t, current)

	session, _ := f.repo.Get(ctx, 1)
	require.Equal(t, entity.StateAwaitingField, session.State)

	field, err := f.svc.FillPending(ctx, 1, "Perlu jarak")
	require.NoError(t, err)
	require.Equal(t, entity.NoteKey("button_2"), field)
	require.Equal(t, entity.StateAssessing, session.State)
	require.Equal(t, "Perlu jarak", session.Store.GetOr(field, ""))
}

func TestAssessmentService_ConcurrentUploadRejectedAndStaleDiscarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.detector.started = make(chan struct{}, 1)
	f.detector.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.OnUpload(ctx, 1, "first.png", screenshotPNG(t, 100, 100))
		done <- err
	}()
	<-f.detector.started

	_, err := f.svc.OnUpload(ctx, 1, "second.png", screenshotPNG(t, 100, 100))
	require.ErrorIs(t, err, ErrDetectionInProgress)

	require.NoError(t, f.svc.Cancel(ctx, 1))
	close(f.detector.release)

	require.ErrorIs(t, <-done, ErrStaleResult)
	require.Zero(t, f.scratchFiles(t))

	session, err := f.repo.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, session.Detections)
	require.Equal(t, entity.StateMainMenu, session.State)
}

func TestAssessmentService_DownloadWithoutScratchFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OnUpload(ctx, 1, "home.png", screenshotPNG(t, 400, 200))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, 1)
	require.NoError(t, err)

	session, _ := f.repo.Get(ctx, 1)
	require.NoError(t, os.Remove(session.AnnotatedPath))

	dl, err := f.svc.Download(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, dl.Content)
	require.Contains(t, f.renderer.doc.Blocks, report.Block(report.Paragraph{Text: report.ImageUnavailable, Italic: true}))
}

func TestAssessmentService_CancelAndClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OnUpload(ctx, 1, "a.png", screenshotPNG(t, 100, 100))
	require.NoError(t, err)
	_, err = f.svc.OnUpload(ctx, 2, "b.png", screenshotPNG(t, 100, 100))
	require.NoError(t, err)
	require.Equal(t, 2, f.scratchFiles(t))

	require.NoError(t, f.svc.Cancel(ctx, 1))
	require.Equal(t, 1, f.scratchFiles(t))

	img, err := f.svc.AnnotatedImage(ctx, 1)
	var missing *entity.AssetMissingError
	require.True(t, errors.As(err, &missing))
	require.Nil(t, img)

	f.svc.Close()
	require.Zero(t, f.scratchFiles(t))
}
