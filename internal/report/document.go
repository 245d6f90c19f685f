// Package report собирает отчёт об оценке UI как упорядоченный список блоков.
// Превращением блоков в PDF занимается отдельный рендерер.
package report

import (
	"image"
	"image/color"
)

// Inch пунктов в дюйме; все размеры документа в пунктах
const Inch = 72.0

// Block элемент документа
type Block interface {
	block()
}

// Heading заголовок; Level 1 крупнее, чем 2
type Heading struct {
	Text  string
	Level int
}

// Paragraph обычный текст
type Paragraph struct {
	Text   string
	Italic bool
}

// Spacer вертикальный отступ
type Spacer struct {
	Height float64
}

// Picture изображение уже вписанное в заданный размер
type Picture struct {
	Image  image.Image
	Width  float64
	Height float64
}

// TableStyle оформление таблицы
type TableStyle struct {
	HeaderFill      color.RGBA
	HeaderText      color.RGBA
	BodyFill        color.RGBA
	BoldFirstColumn bool
}

// Table таблица с заголовком; текст ячеек переносится, а не обрезается
type Table struct {
	Header       []string
	Rows         [][]string
	ColumnWidths []float64
	Style        TableStyle
}

func (Heading) block()   {}
func (Paragraph) block() {}
func (Spacer) block()    {}
func (Picture) block()   {}
func (Table) block()     {}

// Document упорядоченный список блоков
type Document struct {
	Title  string
	Blocks []Block
}

func (d *Document) add(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}
