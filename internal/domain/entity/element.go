package entity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AssignIdentifiers выдаёт каждой детекции идентификатор "{class}_{n}".
// n считается отдельно для каждого класса, с единицы, в порядке списка.
func AssignIdentifiers(detections []Detection) []string {
	counts := make(map[string]int)
	ids := make([]string, len(detections))
	for i, d := range detections {
		counts[d.ClassName]++
		ids[i] = fmt.Sprintf("%s_%d", d.ClassName, counts[d.ClassName])
	}
	return ids
}

// DisplayName человекочитаемое имя элемента: "button_1" -> "Button 1"
func DisplayName(id string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(id, "_", " "))
}

// Element детекция вместе с её идентификатором
type Element struct {
	ID        string
	Detection Detection
}

// Elements склеивает детекции с идентификаторами
func Elements(detections []Detection) []Element {
	ids := AssignIdentifiers(detections)
	out := make([]Element, len(detections))
	for i, d := range detections {
		out[i] = Element{ID: ids[i], Detection: d}
	}
	return out
}
