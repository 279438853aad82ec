package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	expbot "github.com/azatv/expenses-bot"
	"github.com/azatv/expenses-bot/storage/sheets"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := parseConfig(); err != nil {
		expbot.NewLogger(logrus.ErrorLevel, "bot").Fatal(err)
	}
	logger := expbot.NewLogger(logLevel, "bot")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	storage, err := sheets.New(ctx, credsPath, spreadsheetID, dataSheet)
	if err != nil {
		cancel()
		logger.Fatal(err)
	}

	categories := expbot.NewCategories(storage, configSheet, expbot.DefaultCategories, logger)
	categories.Reload(ctx)
	cancel()

	users := expbot.NewUsers(userNames)
	rates := expbot.NewHTTPRates(rateAPIURL)
	stats := expbot.NewStats(storage, rates)
	flow := expbot.NewFlow(storage, stats, categories, users, currencies, logger)

	bot, err := expbot.New(botToken, logger, expbot.Deps{
		Storage:    storage,
		Flow:       flow,
		Stats:      stats,
		Categories: categories,
		Users:      users,
		Sessions:   expbot.NewSessions(),
	}, expbot.Config{
		PublicURL:  publicURL,
		ListenAddr: listenAddr,
	})
	if err != nil {
		logger.Fatal(err)
	}

	errC := make(chan error, 1)
	go func(bot *expbot.Bot) {
		if err := bot.Start(); err != nil {
			errC <- err
		}
	}(bot)

	sigC := make(chan error, 1)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sigC <- fmt.Errorf("received signal %s", <-c)
	}()

	select {
	case sig := <-sigC:
		bot.Stop()
		logger.Info(sig)
		return
	case err := <-errC:
		logger.Fatal("error ", err)
		return
	}
}
