// Package bot is the admin command surface: manual publish triggers plus
// field-by-field vacancy and ad submission forms over long polling.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cntech-bot/app/generator"
	"cntech-bot/app/publisher"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ botAPI = (*tgbotapi.BotAPI)(nil)

type triggerer interface {
	Run(ctx context.Context, maxCount int)
	RunDigest(ctx context.Context, maxCount int)
}

type formatter interface {
	VacancyPost(ctx context.Context, data generator.VacancyData, polish bool) string
	AdPost(ctx context.Context, data generator.AdData, polish bool) string
	NormalizeVacancy(ctx context.Context, raw string) string
}

type channelPublisher interface {
	PublishMessage(text string) publisher.Outcome
}

type Bot struct {
	api             botAPI
	pipeline        triggerer
	generator       formatter
	publisher       channelPublisher
	adminIDs        map[int64]bool
	polishVacancies bool
	polishAds       bool
	digestCount     int
	sourceCount     int
	seenLen         func() int
	version         string
	startedAt       time.Time

	mu    sync.Mutex
	forms map[int64]*formState
}

type Options struct {
	AdminIDs        []int64
	PolishVacancies bool
	PolishAds       bool
	DigestCount     int
	SourceCount     int
	SeenLen         func() int
	Version         string
}

func New(api botAPI, pipeline triggerer, generator formatter, publisher channelPublisher, opts Options) *Bot {
	admins := make(map[int64]bool, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = true
	}

	return &Bot{
		api:             api,
		pipeline:        pipeline,
		generator:       generator,
		publisher:       publisher,
		adminIDs:        admins,
		polishVacancies: opts.PolishVacancies,
		polishAds:       opts.PolishAds,
		digestCount:     opts.DigestCount,
		sourceCount:     opts.SourceCount,
		seenLen:         opts.SeenLen,
		version:         opts.Version,
		startedAt:       time.Now(),
		forms:           make(map[int64]*formState),
	}
}

// Run consumes long-polling updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	slog.Info("Bot command loop started", "admins", len(b.adminIDs))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !b.adminIDs[msg.From.ID] {
		slog.Debug("Ignoring message from non-admin", "chat_id", msg.Chat.ID)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	b.mu.Lock()
	form := b.forms[msg.Chat.ID]
	b.mu.Unlock()
	if form != nil {
		b.advanceForm(ctx, msg.Chat.ID, form, msg.Text)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "skip":
		b.mu.Lock()
		form := b.forms[chatID]
		b.mu.Unlock()
		if form != nil {
			b.advanceForm(ctx, chatID, form, "")
		}
		return
	case "cancel":
		b.clearForm(chatID)
		b.reply(chatID, "❌ Действие отменено.")
		return
	}

	// Any other command abandons an in-progress form
	b.clearForm(chatID)

	switch msg.Command() {
	case "start", "help":
		b.reply(chatID, helpText)
	case "post_now":
		b.reply(chatID, "🔄 Запускаю сбор и публикацию одной новости...")
		b.pipeline.Run(ctx, 1)
		b.reply(chatID, "✅ Готово. Подробности в журнале.")
	case "digest":
		b.reply(chatID, "🔄 Собираю дайджест...")
		b.pipeline.RunDigest(ctx, b.digestCount)
		b.reply(chatID, "✅ Готово. Подробности в журнале.")
	case "status":
		b.reply(chatID, b.statusText())
	case "post_vacancy":
		b.startForm(chatID, formVacancy)
		b.reply(chatID, "💼 **Добавление новой вакансии**\n\nЗаполним информацию по шагам. /skip пропускает поле, /cancel отменяет.\n\n"+vacancySteps[0].prompt)
	case "post_vacancy_free":
		b.startForm(chatID, formFreeform)
		b.reply(chatID, "💼 **Свободная вакансия**\n\nПришлите одним сообщением текст вакансии в свободной форме. Если есть ссылка — вставьте её прямо в текст.")
	case "post_ad":
		b.startForm(chatID, formAd)
		b.reply(chatID, "📣 **Добавление рекламного поста**\n\nЗаполним данные по шагам. /skip пропускает поле, /cancel отменяет.\n\n"+adSteps[0].prompt)
	default:
		b.reply(chatID, "Неизвестная команда. /help покажет список.")
	}
}

func (b *Bot) advanceForm(ctx context.Context, chatID int64, form *formState, text string) {
	text = strings.TrimSpace(text)

	if form.confirming {
		b.confirmForm(ctx, chatID, form, text)
		return
	}

	if form.kind == formFreeform {
		if text == "" {
			b.reply(chatID, "Пришлите текст вакансии одним сообщением.")
			return
		}
		b.reply(chatID, "🔄 Обрабатываю текст вакансии...")
		form.preview = b.generator.NormalizeVacancy(ctx, text)
		form.confirming = true
		b.reply(chatID, "📋 **Предпросмотр вакансии:**\n\n"+form.preview+"\n\nОпубликовать? (да / отмена)")
		return
	}

	steps := form.steps()
	steps[form.step].assign(form, text)
	form.step++

	if form.step < len(steps) {
		b.reply(chatID, steps[form.step].prompt)
		return
	}

	form.confirming = true
	if form.kind == formVacancy {
		form.preview = b.generator.VacancyPost(ctx, form.vacancy, false)
		b.reply(chatID, "📋 **Предпросмотр вакансии:**\n\n"+form.preview+"\n\nОпубликовать? (да / ai / отмена)")
	} else {
		form.preview = b.generator.AdPost(ctx, form.ad, false)
		b.reply(chatID, "📋 **Предпросмотр рекламы:**\n\n"+form.preview+"\n\nОпубликовать? (да / ai / отмена)")
	}
}

func (b *Bot) confirmForm(ctx context.Context, chatID int64, form *formState, answer string) {
	switch strings.ToLower(answer) {
	case "отмена", "нет":
		b.clearForm(chatID)
		b.reply(chatID, "❌ Публикация отменена.")
		return
	case "да", "ai":
	default:
		b.reply(chatID, "Ответьте: да, ai или отмена.")
		return
	}

	forcePolish := strings.EqualFold(answer, "ai")
	text := form.preview

	switch form.kind {
	case formVacancy:
		if forcePolish || b.polishVacancies {
			text = b.generator.VacancyPost(ctx, form.vacancy, true)
		}
	case formAd:
		if forcePolish || b.polishAds {
			text = b.generator.AdPost(ctx, form.ad, true)
		}
	}

	b.clearForm(chatID)

	outcome := b.publisher.PublishMessage(text)
	if !outcome.Delivered {
		b.reply(chatID, "❌ Не удалось опубликовать пост. Попробуйте позже.")
		return
	}
	b.reply(chatID, "✅ Пост опубликован в канал!")
}

func (b *Bot) startForm(chatID int64, kind formKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forms[chatID] = &formState{kind: kind}
}

func (b *Bot) clearForm(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.forms, chatID)
}

func (b *Bot) statusText() string {
	uptime := time.Since(b.startedAt).Round(time.Second)
	return fmt.Sprintf("📊 **Статус бота**\n\nВерсия: %s\nАптайм: %s\nИсточников: %d\nОпубликовано ссылок: %d",
		b.version, uptime, b.sourceCount, b.seenLen())
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Bot reply failed", "chat_id", chatID, "error", err)
	}
}

const helpText = `🤖 **Бот IT-новостей из Китая**

Доступные команды:
/post_now — опубликовать одну свежую новость
/digest — опубликовать дайджест
/post_vacancy — добавить вакансию по шагам
/post_vacancy_free — вакансия в свободной форме
/post_ad — добавить рекламный пост
/status — состояние бота
/cancel — отменить текущее действие`
