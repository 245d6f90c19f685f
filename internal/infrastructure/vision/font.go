package vision

import (
	"log"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Каталоги, где ищется шрифт, если путь относительный и файла рядом нет
var fontDirs = []string{
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/TTF",
	"/Library/Fonts",
	`C:\Windows\Fonts`,
}

// LoadFace загружает контурный шрифт; если не получилось, возвращает встроенный моноширинный.
// Ошибкой это не считается, пишем только предупреждение.
func LoadFace(path string, size float64) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}

	data, err := readFont(path)
	if err != nil {
		log.Printf("Font %q not available, using built-in face: %v", path, err)
		return basicfont.Face7x13
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		log.Printf("Font %q is not a valid TrueType/OpenType file, using built-in face: %v", path, err)
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("Font %q face error, using built-in face: %v", path, err)
		return basicfont.Face7x13
	}
	return face
}

func readFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil || filepath.IsAbs(path) {
		return data, err
	}
	for _, dir := range fontDirs {
		if b, dirErr := os.ReadFile(filepath.Join(dir, path)); dirErr == nil {
			return b, nil
		}
	}
	return nil, err
}
