package report

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"ui-assessment-bot/internal/domain/entity"
)

// Предельный размер изображения в отчёте
const (
	MaxImageWidth  = 5.3 * Inch
	MaxImageHeight = 6.3 * Inch
)

// Тексты отчёта
const (
	Title               = "Laporan Penilaian Desain UI"
	imageSectionTitle   = "Gambar Hasil Deteksi"
	generalSectionTitle = "Penilaian Umum (Bawaan Sistem)"
	elementSectionTitle = "Penilaian Elemen (Hasil Deteksi Model)"

	ImageUnavailable    = "Gambar hasil deteksi tidak tersedia."
	CategoryPlaceholder = "-"
	NotAssessed         = "Tidak Dinilai/Kosong"
	NoNote              = "Tidak ada catatan khusus."

	timestampLayout = "2006-01-02 15:04:05"
)

var categoryTitles = map[string]string{
	entity.FieldFont:  "Font/Tipografi",
	entity.FieldColor: "Warna/Skema",
	entity.FieldScale: "Skala/Hierarki",
}

var (
	generalStyle = TableStyle{
		HeaderFill: color.RGBA{R: 128, G: 128, B: 128, A: 255},
		HeaderText: color.RGBA{R: 245, G: 245, B: 245, A: 255},
		BodyFill:   color.RGBA{R: 245, G: 245, B: 220, A: 255},
	}
	elementStyle = TableStyle{
		HeaderFill:      color.RGBA{R: 0, G: 0, B: 139, A: 255},
		HeaderText:      color.RGBA{R: 245, G: 245, B: 245, A: 255},
		BodyFill:        color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BoldFirstColumn: true,
	}
)

// Input всё, что нужно для отчёта
type Input struct {
	Snapshot    entity.Snapshot
	Image       image.Image // nil, если размеченного изображения нет
	ImageErr    error       // причина отсутствия изображения
	SourceName  string      // имя исходного файла
	GeneratedAt time.Time
}

// Build собирает документ. Отсутствие или поломка изображения превращается в текст внутри отчёта.
func Build(in Input) *Document {
	doc := &Document{Title: Title}

	doc.add(
		Heading{Text: Title, Level: 1},
		Spacer{Height: 0.2 * Inch},
		Paragraph{Text: "Tanggal Laporan: " + in.GeneratedAt.Format(timestampLayout)},
		Paragraph{Text: "Screenshot Asal: " + in.SourceName},
		Spacer{Height: 0.4 * Inch},
	)

	doc.add(imageBlocks(in.Image, in.ImageErr)...)

	doc.add(
		Heading{Text: generalSectionTitle, Level: 2},
		Spacer{Height: 0.1 * Inch},
		GeneralTable(in.Snapshot),
		Spacer{Height: 0.4 * Inch},
	)

	doc.add(
		Heading{Text: elementSectionTitle, Level: 2},
		Spacer{Height: 0.1 * Inch},
		ElementTable(in.Snapshot),
	)

	return doc
}

func imageBlocks(img image.Image, imgErr error) []Block {
	if img == nil {
		var missing *entity.AssetMissingError
		if imgErr != nil && !errors.As(imgErr, &missing) {
			return imageFailure(imgErr)
		}
		return []Block{
			Paragraph{Text: ImageUnavailable, Italic: true},
			Spacer{Height: 0.2 * Inch},
		}
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return imageFailure(fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy()))
	}

	w, h := FitImage(float64(b.Dx()), float64(b.Dy()), MaxImageWidth, MaxImageHeight)
	return []Block{
		Heading{Text: imageSectionTitle, Level: 2},
		Spacer{Height: 0.1 * Inch},
		Picture{Image: img, Width: w, Height: h},
		Spacer{Height: 0.4 * Inch},
	}
}

// ImageFailureText текст вместо изображения, которое не удалось вставить
func ImageFailureText(err error) string {
	return fmt.Sprintf("Gagal menambahkan gambar ke PDF: %v", err)
}

func imageFailure(err error) []Block {
	return []Block{
		Paragraph{Text: ImageFailureText(err), Italic: true},
		Spacer{Height: 0.2 * Inch},
	}
}

// FitImage вписывает размер в рамку с сохранением пропорций:
// сначала ограничивает ширину, затем, если нужно, высоту.
func FitImage(width, height, maxWidth, maxHeight float64) (float64, float64) {
	if width > maxWidth {
		height = height * (maxWidth / width)
		width = maxWidth
	}
	if height > maxHeight {
		width = width * (maxHeight / height)
		height = maxHeight
	}
	return width, height
}

// GeneralTable таблица фиксированных категорий: ровно три строки
func GeneralTable(snap entity.Snapshot) Table {
	rows := make([][]string, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		rows = append(rows, []string{categoryTitles[c], snap.Text(c, CategoryPlaceholder)})
	}
	return Table{
		Header:       []string{"Kategori", "Penilaian"},
		Rows:         rows,
		ColumnWidths: []float64{2 * Inch, 4.5 * Inch},
		Style:        generalStyle,
	}
}

// ElementTable строка на каждый элемент, у которого есть оценка или заметка
func ElementTable(snap entity.Snapshot) Table {
	ids := snap.ElementIDs()
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{
			entity.DisplayName(id),
			snap.Text(entity.AssessmentKey(id), NotAssessed),
			snap.Text(entity.NoteKey(id), NoNote),
		})
	}
	return Table{
		Header:       []string{"Nama Elemen", "Penilaian UI", "Penilaian Tambahan (Catatan)"},
		Rows:         rows,
		ColumnWidths: []float64{1.5 * Inch, 2.5 * Inch, 2.5 * Inch},
		Style:        elementStyle,
	}
}
