package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"go-jobradar/internal/dedup"
)

// Notifier pushes freshly discovered jobs to a Telegram chat. Sends are paced
// at one message per second to stay clear of Telegram's 429s.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Notifier{
		api:     api,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}, nil
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// SendJob sends one job card with an inline link button.
func (n *Notifier) SendJob(ctx context.Context, job dedup.NormalizedJob) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	msgText := fmt.Sprintf("💼 *%s*\n", escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("🏢 %s\n", escapeMarkdown(job.Company))
	msgText += fmt.Sprintf("📍 %s\n", escapeMarkdown(job.Location))
	if job.Salary != "" {
		msgText += fmt.Sprintf("💰 %s\n", escapeMarkdown(job.Salary))
	}
	msgText += fmt.Sprintf("📝 %s\n", escapeMarkdown(string(job.Type)))
	if len(job.Tags) > 0 {
		msgText += fmt.Sprintf("🏷 %s\n", escapeMarkdown(strings.Join(job.Tags, ", ")))
	}
	msgText += fmt.Sprintf("🔖 Source: %s", escapeMarkdown(job.Source))
	if len(job.DuplicateIDs) > 0 {
		msgText += fmt.Sprintf(" \\(\\+%d more boards\\)", len(job.DuplicateIDs))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.URL),
		),
	)

	msg := tgbotapi.NewMessage(n.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := n.api.Send(msg)
	return err
}

// SendStatus sends a plain informational message.
func (n *Notifier) SendStatus(ctx context.Context, message string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, "ℹ️ "+message)
	_, err := n.api.Send(msg)
	return err
}

// SendError reports a failure to the chat.
func (n *Notifier) SendError(ctx context.Context, errReq error) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("❌ Error: %v", errReq))
	_, err := n.api.Send(msg)
	return err
}
