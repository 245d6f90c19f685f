// Package pdf рендерит документ отчёта в PDF через go-pdf/fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"log"
	"strings"

	"github.com/go-pdf/fpdf"

	"ui-assessment-bot/internal/report"
)

const (
	pageMargin  = report.Inch
	fontFamily  = "Helvetica"
	bodySize    = 10.0
	tableSize   = 9.0
	lineSpacing = 1.25
	cellPadding = 4.0
	jpegQuality = 90
)

var headingSizes = map[int]float64{1: 18, 2: 14}

// Renderer рендерит report.Document в PDF формата Letter
type Renderer struct {
	creator string
}

// NewRenderer создаёт рендерер; creator пишется в метаданные файла
func NewRenderer(creator string) *Renderer {
	return &Renderer{creator: creator}
}

// MimeType тип итогового файла
func (r *Renderer) MimeType() string {
	return report.MimeTypePDF
}

// Render возвращает готовый PDF. Текст вне Latin-1 заменяется на '?'.
func (r *Renderer) Render(doc *report.Document) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(r.creator, true)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()

	for _, b := range doc.Blocks {
		switch v := b.(type) {
		case report.Heading:
			w.heading(v)
		case report.Paragraph:
			w.paragraph(v)
		case report.Spacer:
			pdf.Ln(v.Height)
		case report.Picture:
			w.picture(v)
		case report.Table:
			w.table(v)
		}
		if pdf.Err() {
			return nil, fmt.Errorf("render pdf: %w", pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images int
}

// latin1 оставляет только символы, которые есть во встроенных шрифтах
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xff {
			return '?'
		}
		return r
	}, s)
}

func (w *writer) text(s string) string {
	return w.tr(latin1(s))
}

func (w *writer) heading(h report.Heading) {
	size, ok := headingSizes[h.Level]
	if !ok {
		size = headingSizes[2]
	}
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.SetFont(fontFamily, "B", size)
	w.pdf.MultiCell(0, size*lineSpacing, w.text(h.Text), "", "L", false)
}

func (w *writer) paragraph(p report.Paragraph) {
	style := ""
	if p.Italic {
		style = "I"
	}
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.SetFont(fontFamily, style, bodySize)
	w.pdf.MultiCell(0, bodySize*lineSpacing, w.text(p.Text), "", "L", false)
}

func (w *writer) picture(p report.Picture) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, p.Image, &jpeg.Options{Quality: jpegQuality}); err != nil {
		log.Printf("Failed to encode report image: %v", err)
		w.paragraph(report.Paragraph{Text: report.ImageFailureText(err), Italic: true})
		return
	}

	w.images++
	name := fmt.Sprintf("annotated-%d", w.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	w.pdf.RegisterImageOptionsReader(name, opts, &buf)
	if w.pdf.Err() {
		return
	}

	if w.pdf.GetY()+p.Height > w.bottom() {
		w.pdf.AddPage()
	}
	left, _, _, _ := w.pdf.GetMargins()
	y := w.pdf.GetY()
	w.pdf.ImageOptions(name, left, y, p.Width, p.Height, false, opts, 0, "")
	w.pdf.SetXY(left, y+p.Height)
}

func (w *writer) bottom() float64 {
	_, pageH := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()
	return pageH - bottom
}

func (w *writer) table(t report.Table) {
	widths := columnWidths(t)
	w.row(t.Header, widths, true, t.Style)
	for _, row := range t.Rows {
		h := w.rowHeight(row, widths, false, t.Style)
		if w.pdf.GetY()+h > w.bottom() {
			// заголовок повторяется на новой странице
			w.pdf.AddPage()
			w.row(t.Header, widths, true, t.Style)
		}
		w.row(row, widths, false, t.Style)
	}
}

func columnWidths(t report.Table) []float64 {
	n := len(t.Header)
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	widths := make([]float64, n)
	for i := range widths {
		if i < len(t.ColumnWidths) {
			widths[i] = t.ColumnWidths[i]
		} else {
			widths[i] = report.Inch
		}
	}
	return widths
}

func (w *writer) cellFont(header bool, col int, style report.TableStyle) {
	fontStyle := ""
	if header || (col == 0 && style.BoldFirstColumn) {
		fontStyle = "B"
	}
	w.pdf.SetFont(fontFamily, fontStyle, tableSize)
}

// cellLines текст ячейки, разбитый по ширине колонки; минимум одна строка
func (w *writer) cellLines(cell string, width float64) []string {
	lines := w.pdf.SplitText(latin1(cell), width)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (w *writer) rowHeight(cells []string, widths []float64, header bool, style report.TableStyle) float64 {
	lineH := tableSize * lineSpacing
	maxLines := 1
	for i, width := range widths {
		w.cellFont(header, i, style)
		maxLines = max(maxLines, len(w.cellLines(cellAt(cells, i), width)))
	}
	return float64(maxLines)*lineH + 2*cellPadding
}

func (w *writer) row(cells []string, widths []float64, header bool, style report.TableStyle) {
	h := w.rowHeight(cells, widths, header, style)
	lineH := tableSize * lineSpacing

	fill, ink := style.BodyFill, color.RGBA{A: 255}
	if header {
		fill, ink = style.HeaderFill, style.HeaderText
	}

	left, _, _, _ := w.pdf.GetMargins()
	x, y := left, w.pdf.GetY()
	for i, width := range widths {
		w.pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
		w.pdf.Rect(x, y, width, h, "FD")

		w.cellFont(header, i, style)
		w.pdf.SetTextColor(int(ink.R), int(ink.G), int(ink.B))
		for k, line := range w.cellLines(cellAt(cells, i), width) {
			w.pdf.SetXY(x, y+cellPadding+float64(k)*lineH)
			w.pdf.CellFormat(width, lineH, w.tr(line), "", 0, "L", false, 0, "")
		}
		x += width
	}
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.SetXY(left, y+h)
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
