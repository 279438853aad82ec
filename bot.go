package expenses_bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// PublicURL switches delivery from polling to webhook mode.
	PublicURL  string
	ListenAddr string
}

// Deps are the collaborators the bot routes between.
type Deps struct {
	Storage    Storage
	Flow       *Flow
	Stats      *Stats
	Categories *Categories
	Users      *Users
	Sessions   *Sessions
}

type Bot struct {
	logger *logrus.Logger
	token  string
	api    *tgbotapi.BotAPI
	deps   Deps
	config Config
	server *http.Server
	stopC  chan struct{}
	doneC  chan struct{}
}

func New(token string, logger *logrus.Logger, deps Deps, config Config) (*Bot, error) {
	return &Bot{
		logger: logger,
		token:  token,
		deps:   deps,
		config: config,
		stopC:  make(chan struct{}, 1),
		doneC:  make(chan struct{}, 1),
	}, nil
}

func (b *Bot) handleError(chatID int64, err error) error {
	if err, ok := err.(fmt.Stringer); ok {
		_, _ = b.api.Send(tgbotapi.NewMessage(chatID, err.String()))
		return nil
	}
	if _, ok := err.(*UnknownCommandError); !ok {
		_, _ = b.api.Send(tgbotapi.NewMessage(chatID, "sorry, internal error :("))
		return err
	}
	return nil
}

func userID(u *tgbotapi.User) int64 {
	if u == nil {
		return 0
	}
	return int64(u.ID)
}

func userHandle(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (b *Bot) handle(update *tgbotapi.Update) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if update.CallbackQuery != nil {
		query := update.CallbackQuery
		_, _ = b.api.AnswerCallbackQuery(tgbotapi.NewCallback(query.ID, ""))
		if query.Message == nil || query.Message.Chat == nil {
			return nil
		}
		sess := b.deps.Sessions.Get(query.Message.Chat.ID, userID(query.From), userHandle(query.From))
		return b.send(sess.ChatID, b.deps.Flow.Handle(ctx, sess, Input{Data: query.Data}))
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}
	b.logger.WithFields(logrus.Fields{
		"id":   msg.MessageID,
		"text": msg.Text,
	}).Debug("handle message")

	cmd, err := ParseCommand(msg)
	if err != nil {
		return b.handleError(msg.Chat.ID, err)
	}
	sess := b.deps.Sessions.Get(msg.Chat.ID, userID(msg.From), userHandle(msg.From))
	if cmd != nil {
		return b.handleCommand(ctx, sess, cmd)
	}
	return b.send(sess.ChatID, b.deps.Flow.Handle(ctx, sess, Input{Text: msg.Text}))
}

func (b *Bot) handleCommand(ctx context.Context, sess *Session, cmd Command) error {
	switch cmd := cmd.(type) {
	case *HelpCommand:
		_, _ = b.api.Send(tgbotapi.NewMessage(sess.ChatID, manual))
		return nil
	case *StartCommand:
		return b.send(sess.ChatID, b.deps.Flow.Start(sess))
	case *CancelCommand:
		prompts := append([]Prompt{{Text: "Cancelled"}}, b.deps.Flow.Start(sess)...)
		return b.send(sess.ChatID, prompts)
	case *ReloadCategoriesCommand:
		cats := b.deps.Categories.Reload(ctx)
		text := "Categories reloaded:\n" + strings.Join(cats, ", ")
		_, _ = b.api.Send(tgbotapi.NewMessage(sess.ChatID, text))
		return nil
	case *ListCategoriesCommand:
		_, _ = b.api.Send(tgbotapi.NewMessage(sess.ChatID, strings.Join(b.deps.Categories.List(), ", ")))
		return nil
	case *TestSheetCommand:
		if err := b.deps.Storage.Ping(ctx); err != nil {
			return b.handleError(sess.ChatID, NewStoreError(err))
		}
		rows, err := b.deps.Storage.FetchAllRecords(ctx)
		if err != nil {
			return b.handleError(sess.ChatID, NewStoreError(err))
		}
		_, _ = b.api.Send(tgbotapi.NewMessage(sess.ChatID, fmt.Sprintf("Spreadsheet OK, %d records", len(rows))))
		return nil
	case *ExportCommand:
		records, err := b.deps.Stats.Snapshot(ctx)
		if err != nil {
			return b.handleError(sess.ChatID, err)
		}
		doc := tgbotapi.NewDocumentUpload(sess.ChatID, tgbotapi.FileReader{
			Name:   "expenses.csv",
			Reader: ExportCSV(records),
			Size:   -1,
		})
		if _, err := b.api.Send(doc); err != nil {
			return b.handleError(sess.ChatID, err)
		}
		return nil
	case *WhoamiCommand:
		if cmd.Name != "" {
			b.deps.Users.Register(sess.UserID, cmd.Name)
		}
		name := b.deps.Users.DisplayName(sess.UserID, sess.Handle)
		_, _ = b.api.Send(tgbotapi.NewMessage(sess.ChatID, "You are "+name))
		return nil
	}
	return nil
}

func (b *Bot) send(chatID int64, prompts []Prompt) error {
	for i := range prompts {
		msg := tgbotapi.NewMessage(chatID, prompts[i].Text)
		if markup, ok := replyMarkup(&prompts[i]); ok {
			msg.ReplyMarkup = markup
		}
		if _, err := b.api.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func replyMarkup(p *Prompt) (interface{}, bool) {
	if len(p.Buttons) == 0 {
		return nil, false
	}
	if p.Inline() {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(p.Buttons))
		for _, row := range p.Buttons {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...), true
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(p.Buttons))
	for _, row := range p.Buttons {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(btn.Label))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	markup.OneTimeKeyboard = true
	return markup, true
}

func (b *Bot) loop(updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case update := <-updates:
			if err := b.handle(&update); err != nil {
				b.logger.WithError(err).Error("failed to handle update")
			}
		case <-b.stopC:
			return
		}
	}
}

func (b *Bot) Start() error {
	defer func() {
		b.doneC <- struct{}{}
	}()

	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return err
	}
	b.api = api
	b.logger.WithField("name", api.Self.UserName).Info("started")

	if b.config.PublicURL != "" {
		if _, err := b.api.SetWebhook(tgbotapi.NewWebhook(b.config.PublicURL + "/" + b.token)); err != nil {
			return err
		}
		updates := b.api.ListenForWebhook("/" + b.token)
		b.server = &http.Server{Addr: b.config.ListenAddr}

		g := new(errgroup.Group)
		g.Go(func() error {
			if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			b.loop(updates)
			return b.server.Shutdown(context.Background())
		})
		return g.Wait()
	}

	updates, err := b.api.GetUpdatesChan(tgbotapi.UpdateConfig{Offset: 0, Limit: 0, Timeout: 60})
	if err != nil {
		return err
	}
	b.loop(updates)
	return nil
}

func (b *Bot) Stop() error {
	b.stopC <- struct{}{}
	if b.api != nil {
		b.api.StopReceivingUpdates()
		b.api = nil
	}
	<-b.doneC
	b.logger.Info("stopped")
	return nil
}
