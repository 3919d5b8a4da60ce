package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"keypoint-extractor/internal/domain/entity"
)

const msgCaption = "📍 %s: %d точек\n%s"

// Notifier отправляет превью и CSV обработанного файла в чат Telegram.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier оборачивает уже авторизованного клиента
func NewNotifier(api *tgbotapi.BotAPI, chatID int64) *Notifier {
	return &Notifier{api: api, chatID: chatID}
}

// Connect авторизует бота по токену и возвращает уведомитель для chatID.
func Connect(token string, chatID int64) (*Notifier, error) {
	return ConnectWithClient(token, tgbotapi.APIEndpoint, http.DefaultClient, chatID)
}

// ConnectWithClient позволяет указать адрес API и HTTP-клиент.
func ConnectWithClient(token, endpoint string, client tgbotapi.HTTPClient, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return NewNotifier(api, chatID), nil
}

// Notify реализует port.ResultNotifier. Неуспешные результаты не отправляются.
func (n *Notifier) Notify(ctx context.Context, result entity.FileResult) error {
	if !result.Succeeded() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FilePath(result.Artifacts.PreviewPath))
	photo.Caption = caption(result)
	if _, err := n.api.Send(photo); err != nil {
		return fmt.Errorf("send preview: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(n.chatID, tgbotapi.FilePath(result.Artifacts.CSVPath))
	if _, err := n.api.Send(doc); err != nil {
		return fmt.Errorf("send keypoints: %w", err)
	}
	return nil
}

// caption перечисляет координаты в том же порядке, что и CSV
func caption(result entity.FileResult) string {
	coords := make([]string, 0, len(result.Keypoints))
	for _, p := range result.Keypoints {
		coords = append(coords, fmt.Sprintf("(%d, %d)", p.X, p.Y))
	}
	return fmt.Sprintf(msgCaption, filepath.Base(result.Path), len(result.Keypoints), strings.Join(coords, " "))
}
