package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var (
	logLevel      log.Level
	botToken      string
	credsPath     string
	spreadsheetID string
	dataSheet     string
	configSheet   string
	publicURL     string
	listenAddr    string
	rateAPIURL    string
	currencies    []string
	userNames     map[int64]string
)

type specification struct {
	LogLevel      string `envconfig:"LOG_LEVEL" default:"INFO"`
	BotToken      string `envconfig:"BOT_TOKEN"`
	CredsPath     string `envconfig:"GOOGLE_CREDS_PATH"`
	SpreadsheetID string `envconfig:"SPREADSHEET_ID"`
	DataSheet     string `envconfig:"DATA_SHEET" default:"Data"`
	ConfigSheet   string `envconfig:"CONFIG_SHEET" default:"Config"`
	PublicURL     string `envconfig:"PUBLIC_URL"`
	ListenAddr    string `envconfig:"LISTEN_ADDR" default:":8080"`
	RateAPIURL    string `envconfig:"RATE_API_URL" default:"https://api.frankfurter.app"`
	Currencies    string `envconfig:"CURRENCIES" default:"₽,€,$"`
	// USER_NAMES maps telegram ids to display names: "123:Liza,456:Azat"
	UserNames string `envconfig:"USER_NAMES"`
}

func parseConfig() error {
	_ = godotenv.Load()

	config := new(specification)
	err := envconfig.Process("", config)
	if err != nil {
		return err
	}

	logLevel, err = log.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	log.SetFormatter(&log.TextFormatter{DisableSorting: false})
	log.SetOutput(os.Stdout)
	log.SetLevel(logLevel)

	botToken = config.BotToken
	if botToken == "" {
		log.Fatal("BOT_TOKEN is not provided")
	}
	credsPath = config.CredsPath
	if credsPath == "" {
		log.Fatal("GOOGLE_CREDS_PATH is not provided")
	}
	spreadsheetID = config.SpreadsheetID
	if spreadsheetID == "" {
		log.Fatal("SPREADSHEET_ID is not provided")
	}

	dataSheet = config.DataSheet
	configSheet = config.ConfigSheet
	publicURL = strings.TrimRight(config.PublicURL, "/")
	listenAddr = config.ListenAddr
	rateAPIURL = strings.TrimRight(config.RateAPIURL, "/")

	currencies = nil
	for _, c := range strings.Split(config.Currencies, ",") {
		if c = strings.TrimSpace(c); c != "" {
			currencies = append(currencies, c)
		}
	}
	if len(currencies) == 0 {
		log.Fatal("CURRENCIES is empty")
	}

	userNames, err = parseUserNames(config.UserNames)
	if err != nil {
		return err
	}

	return nil
}

func parseUserNames(s string) (map[int64]string, error) {
	names := make(map[int64]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf(`invalid USER_NAMES entry "%s"`, pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf(`invalid USER_NAMES id in "%s"`, pair)
		}
		names[id] = strings.TrimSpace(parts[1])
	}
	return names, nil
}
