package telegram

import (
	"errors"
	"fmt"
	"strings"

	app "ui-assessment-bot/internal/application"
	"ui-assessment-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогаю оценивать дизайн интерфейсов.

📸 Отправьте скриншот экрана (фото или файл), я найду на нём UI-элементы, а вы оцените каждый из них.

📋 Команды:
/form — показать форму оценки
/submit — отправить оценку
/report — получить PDF-отчёт
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте скриншот интерфейса
2️⃣ Бот отметит найденные элементы рамками
3️⃣ Нажимайте кнопки формы и пишите оценку текстом
4️⃣ /submit фиксирует оценку, /report присылает PDF

✍️ Поле можно заполнить и одной командой:
/set font Шрифт читаемый
/set assessment_button_1 Кнопка слишком мелкая

📋 Команды:
/form — показать форму оценки
/cancel — отменить ввод или сбросить скриншот`

	msgSendScreenshot   = "📸 Отправьте скриншот интерфейса для оценки."
	msgProcessing       = "⏳ Ищу UI-элементы на изображении..."
	msgNoElements       = "🔍 На изображении не найдено ни одного UI-элемента. Попробуйте другой скриншот."
	msgPartial          = "⚠️ Пропущено некорректных детекций: %d."
	msgFieldPrompt      = "✍️ Введите текст для поля «%s»."
	msgFieldCurrent     = "Сейчас: %s"
	msgFieldSaved       = "💾 Сохранено: %s"
	msgSetUsage         = "Использование: /set <поле> <текст>"
	msgSubmitted        = "✅ Оценка отправлена. Полей заполнено: %d. Получите отчёт командой /report."
	msgReportReady      = "📄 Отчёт об оценке UI"
	msgUploadAgain      = "Чтобы начать заново, отправьте новый скриншот."
	msgInputCancelled   = "❌ Ввод отменён."
	msgSessionCancelled = "❌ Скриншот и оценки сброшены. Отправьте новый скриншот."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."

	msgBusy             = "⏳ Предыдущий скриншот ещё обрабатывается, подождите."
	msgUnsupportedImage = "⚠️ Не удалось прочитать изображение. Поддерживаются PNG, JPEG, GIF, BMP и WebP."
	msgServiceError     = "⚠️ Сервис детекции недоступен. Попробуйте загрузить скриншот ещё раз."
	msgNothingToAssess  = "📸 Сначала отправьте скриншот с UI-элементами."
	msgUnknownField     = "❓ Такого поля нет в текущей форме."
	msgNotSubmitted     = "📝 Сначала отправьте оценку командой /submit."
	msgStale            = "ℹ️ Результат для прежнего скриншота отброшен."
	msgInternalError    = "⚠️ Что-то пошло не так. Попробуйте ещё раз."
	msgDownloadError    = "⚠️ Не удалось скачать файл из Telegram. Попробуйте ещё раз."
)

var categoryLabels = map[string]string{
	entity.FieldFont:  "Шрифт",
	entity.FieldColor: "Цвет",
	entity.FieldScale: "Масштаб",
}

// errorText сообщение пользователю для ошибки сервиса
func errorText(err error) string {
	var svcErr *entity.ServiceError
	switch {
	case errors.Is(err, app.ErrDetectionInProgress):
		return msgBusy
	case errors.Is(err, app.ErrUnsupportedImage):
		return msgUnsupportedImage
	case errors.As(err, &svcErr):
		return msgServiceError
	case errors.Is(err, app.ErrNothingToAssess):
		return msgNothingToAssess
	case errors.Is(err, app.ErrUnknownField):
		return msgUnknownField
	case errors.Is(err, app.ErrNotSubmitted):
		return msgNotSubmitted
	case errors.Is(err, app.ErrStaleResult):
		return msgStale
	default:
		return msgInternalError
	}
}

// fieldLabel название поля для кнопок и подсказок
func fieldLabel(key string) string {
	if label, ok := categoryLabels[key]; ok {
		return label
	}
	if id, ok := strings.CutPrefix(key, entity.AssessmentPrefix); ok && id != "" {
		return fmt.Sprintf("%s: оценка", entity.DisplayName(id))
	}
	if id, ok := strings.CutPrefix(key, entity.NotePrefix); ok && id != "" {
		return fmt.Sprintf("%s: заметка", entity.DisplayName(id))
	}
	return key
}
