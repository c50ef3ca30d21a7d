package bot

import (
	"context"
	"fmt"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/jobs-alert/internal/logger"
	"github.com/maxaizer/jobs-alert/internal/services"
	log "github.com/sirupsen/logrus"
	"strings"
)

const (
	startCommandName    = "start"
	helpCommandName     = "help"
	jobsCommandName     = "jobs"
	subCommandName      = "sub"
	unsubCommandName    = "unsub"
	visitorsCommandName = "misctest"
)

const (
	greetingText       = "Jobs Alert Bot.\nUse /help to see available commands."
	gettingJobsText    = "Getting all available jobs..."
	noJobsText         = "No jobs are open right now."
	jobsFailedText     = "Couldn't get the jobs right now, please try again later."
	doneText           = "Done."
	subscribingText    = "Subscribing to alerts for new jobs..."
	subscribedText     = "Done. You will receive new job updates."
	alreadySubText     = "You are already subscribed."
	unsubscribingText  = "Un-subscribing from alerts for new jobs..."
	unsubscribedText   = "Done. You will no longer receive new job updates."
	notSubscribedText  = "You were not subscribed."
	visitorsDeniedText = "TEST OK"
	internalErrorText  = "Internal error!"
	unknownCommandText = "Unknown command. Use /help to see available commands."
	visitedAtLayout    = "Mon at 03:04PM (Jan 02 2006)"
)

var helpText = strings.Join([]string{
	"AVAILABLE COMMANDS:",
	"/start -> Start interaction with the bot.",
	"/help -> Show this help message.",
	"",
	"/jobs -> List all available jobs.",
	"/sub -> Subscribe to alerts for new jobs.",
	"/unsub -> Un-subscribe from alerts for new jobs.",
	"",
	"/misctest",
}, "\n")

func (b *Bot) commandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		startCommandName:    b.onStart,
		helpCommandName:     b.onHelp,
		jobsCommandName:     b.onJobs,
		subCommandName:      b.onSubscribe,
		unsubCommandName:    b.onUnsubscribe,
		visitorsCommandName: b.onVisitors,
	}
}

func (b *Bot) onStart(_ context.Context, _ *botApi.User, chatID int64) []botApi.Chattable {
	return []botApi.Chattable{plainReply(chatID, greetingText)}
}

func (b *Bot) onHelp(_ context.Context, _ *botApi.User, chatID int64) []botApi.Chattable {
	return []botApi.Chattable{plainReply(chatID, helpText)}
}

func (b *Bot) onJobs(ctx context.Context, _ *botApi.User, chatID int64) []botApi.Chattable {

	b.send(plainReply(chatID, gettingJobsText))

	listings, err := b.deps.Listings.Listings(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFeed).Errorf("couldn't get listings for %d: %v", chatID, err)
		return []botApi.Chattable{plainReply(chatID, jobsFailedText)}
	}
	if len(listings) == 0 {
		return []botApi.Chattable{plainReply(chatID, noJobsText)}
	}

	replies := make([]botApi.Chattable, 0, len(listings)+1)
	for _, message := range services.FormatListings(listings, b.now()) {
		replies = append(replies, markdownReply(chatID, message.Text))
	}
	return append(replies, plainReply(chatID, doneText))
}

func (b *Bot) onSubscribe(ctx context.Context, _ *botApi.User, chatID int64) []botApi.Chattable {

	b.send(plainReply(chatID, subscribingText))

	added, err := b.deps.Recipients.Subscribe(ctx, chatID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("couldn't subscribe %d: %v", chatID, err)
		return []botApi.Chattable{plainReply(chatID, internalErrorText)}
	}
	if !added {
		return []botApi.Chattable{plainReply(chatID, alreadySubText)}
	}
	log.Infof("chat %d subscribed to alerts", chatID)
	return []botApi.Chattable{plainReply(chatID, subscribedText)}
}

func (b *Bot) onUnsubscribe(ctx context.Context, _ *botApi.User, chatID int64) []botApi.Chattable {

	b.send(plainReply(chatID, unsubscribingText))

	removed, err := b.deps.Recipients.Unsubscribe(ctx, chatID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("couldn't unsubscribe %d: %v", chatID, err)
		return []botApi.Chattable{plainReply(chatID, internalErrorText)}
	}
	if !removed {
		return []botApi.Chattable{plainReply(chatID, notSubscribedText)}
	}
	log.Infof("chat %d unsubscribed from alerts", chatID)
	return []botApi.Chattable{plainReply(chatID, unsubscribedText)}
}

func (b *Bot) onVisitors(ctx context.Context, user *botApi.User, chatID int64) []botApi.Chattable {

	if !b.deps.Recipients.IsAdmin(user.ID) {
		return []botApi.Chattable{plainReply(chatID, visitorsDeniedText)}
	}

	visitors, err := b.deps.Visitors.GetAll(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("couldn't get visitors: %v", err)
		return []botApi.Chattable{plainReply(chatID, internalErrorText)}
	}

	var sb strings.Builder
	sb.WriteString("VISITORS:\n")
	for _, visitor := range visitors {
		sb.WriteString(fmt.Sprintf("- %s on %s\n", visitor.UserName, visitor.LastSeenAt.Format(visitedAtLayout)))
	}
	return []botApi.Chattable{plainReply(chatID, sb.String())}
}
