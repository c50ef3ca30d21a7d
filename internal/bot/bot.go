package bot

import (
	"context"
	"errors"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/maxaizer/jobs-alert/internal/events"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

type Dependencies struct {
	Listings   listingsSource
	Recipients recipientRepository
	Visitors   visitorRepository
}

type listingsSource interface {
	Listings(ctx context.Context) ([]entities.Listing, error)
}

type recipientRepository interface {
	Subscribe(ctx context.Context, chatID int64) (bool, error)
	Unsubscribe(ctx context.Context, chatID int64) (bool, error)
	IsAdmin(chatID int64) bool
}

type visitorRepository interface {
	GetAll(ctx context.Context) ([]entities.Visitor, error)
}

type Bot struct {
	tg       *botApi.BotAPI
	api      apiInterface
	bus      EventBus.Bus
	deps     Dependencies
	handlers map[string]commandHandler
	inFlight sync.WaitGroup
	now      func() time.Time
}

func NewBot(token string, bus EventBus.Bus, deps Dependencies) (*Bot, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	b, err := newBot(api, bus, deps)
	if err != nil {
		return nil, err
	}
	b.tg = api
	return b, nil
}

func newBot(api apiInterface, bus EventBus.Bus, deps Dependencies) (*Bot, error) {

	if api == nil {
		return nil, errors.New("api is nil")
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if deps.Listings == nil {
		return nil, errors.New("listings source is nil")
	}

	if deps.Recipients == nil {
		return nil, errors.New("recipients repository is nil")
	}

	if deps.Visitors == nil {
		return nil, errors.New("visitors repository is nil")
	}

	b := &Bot{api: api, bus: bus, deps: deps, now: time.Now}
	b.handlers = b.commandHandlers()
	return b, nil
}

// Messenger delivers alerts through the same telegram connection the bot listens on.
func (b *Bot) Messenger() *Messenger {
	return &Messenger{api: b.api}
}

func (b *Bot) Run(ctx context.Context) {

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.tg.GetUpdatesChan(updateConfig)

	for update := range updates {

		if update.Message == nil || update.Message.From == nil {
			continue
		}

		if update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup() {
			continue
		}

		b.inFlight.Add(1)
		go func(message *botApi.Message) {
			defer b.inFlight.Done()
			b.handleMessage(ctx, message)
		}(update.Message)
	}
}

// Stop stops polling for updates and waits for commands already being answered.
func (b *Bot) Stop() {
	if b.tg != nil {
		b.tg.StopReceivingUpdates()
	}
	b.inFlight.Wait()
}

func (b *Bot) handleMessage(ctx context.Context, message *botApi.Message) {

	cmd := message.Command()
	if cmd == "" {
		return
	}

	b.bus.Publish(events.UserInteractedTopic, events.UserInteracted{
		UserID:   message.From.ID,
		UserName: message.From.UserName,
		Command:  cmd,
		At:       b.now(),
	})

	handler, ok := b.handlers[cmd]
	if !ok {
		b.send(plainReply(message.Chat.ID, unknownCommandText))
		return
	}

	for _, reply := range handler(ctx, message.From, message.Chat.ID) {
		b.send(reply)
	}
}

func (b *Bot) send(chattable botApi.Chattable) {
	_, _ = sendWithLogError(b.api, chattable)
}
