package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "ui-assessment-bot/internal/application"
	"ui-assessment-bot/internal/domain/entity"
)

// Данные inline-кнопок
const (
	callbackFieldPrefix = "f:"
	callbackSubmit      = "submit"
	callbackReport      = "report"
)

// formText список найденных элементов и заполненность полей
func formText(view *app.SessionView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧩 Найдено элементов: %d\n", len(view.Elements))
	for i, el := range view.Elements {
		fmt.Fprintf(&sb, "%d. %s (уверенность %.2f)\n", i+1, entity.DisplayName(el.ID), el.Detection.Confidence)
	}
	filled := 0
	for _, v := range view.Fields {
		if strings.TrimSpace(v) != "" {
			filled++
		}
	}
	fmt.Fprintf(&sb, "\nЗаполнено полей: %d из %d.", filled, len(entity.Categories)+2*len(view.Elements))
	if view.Submitted {
		sb.WriteString("\n✅ Оценка отправлена, правки попадут в отчёт после повторной отправки.")
	}
	return sb.String()
}

// formFields поля формы в порядке кнопок: категории, затем оценка и заметка каждого элемента
func formFields(view *app.SessionView) []string {
	fields := append([]string(nil), entity.Categories...)
	for _, el := range view.Elements {
		fields = append(fields, entity.AssessmentKey(el.ID), entity.NoteKey(el.ID))
	}
	return fields
}

// parseFieldCallback находит поле по номеру из "f:{n}".
// В callback уходит номер, а не ключ: Telegram ограничивает данные кнопки 64 байтами.
func parseFieldCallback(view *app.SessionView, data string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(data, callbackFieldPrefix))
	if err != nil {
		return "", false
	}
	fields := formFields(view)
	if n < 0 || n >= len(fields) {
		return "", false
	}
	return fields[n], true
}

// formKeyboard кнопка на каждое поле формы, затем «Отправить» и «Отчёт»
func formKeyboard(view *app.SessionView) tgbotapi.InlineKeyboardMarkup {
	n := 0
	button := func(key, label string) tgbotapi.InlineKeyboardButton {
		if strings.TrimSpace(view.Fields[key]) != "" {
			label = "✓ " + label
		}
		data := callbackFieldPrefix + strconv.Itoa(n)
		n++
		return tgbotapi.NewInlineKeyboardButtonData(label, data)
	}

	categories := make([]tgbotapi.InlineKeyboardButton, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		categories = append(categories, button(c, categoryLabels[c]))
	}
	rows := [][]tgbotapi.InlineKeyboardButton{categories}

	for _, el := range view.Elements {
		name := entity.DisplayName(el.ID)
		assessment := button(entity.AssessmentKey(el.ID), name+": оценка")
		note := button(entity.NoteKey(el.ID), "заметка")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(assessment, note))
	}

	actions := tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Отправить", callbackSubmit))
	if view.Submitted {
		actions = append(actions, tgbotapi.NewInlineKeyboardButtonData("📄 Отчёт", callbackReport))
	}
	rows = append(rows, actions)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// parseSet разбирает аргументы /set: "<поле> <текст>"
func parseSet(args string) (field, text string, ok bool) {
	field, text, _ = strings.Cut(strings.TrimSpace(args), " ")
	if field == "" {
		return "", "", false
	}
	return field, strings.TrimSpace(text), true
}
