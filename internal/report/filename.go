package report

import (
	"path/filepath"
	"strings"
	"time"
)

// MimeTypePDF тип файла отчёта
const MimeTypePDF = "application/pdf"

// FileName имя файла для скачивания:
// Laporan_Penilaian_UI_{имя без точек}_{YYYYMMDDhhmmss}.pdf
func FileName(source string, at time.Time) string {
	return "Laporan_Penilaian_UI_" + sanitizeName(source) + "_" + at.Format("20060102150405") + ".pdf"
}

func sanitizeName(source string) string {
	base := filepath.Base(strings.ReplaceAll(source, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "screenshot"
	}
	return b.String()
}
