package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lomoval/event-organizer/internal/app"
	"github.com/lomoval/event-organizer/internal/cli"
	"github.com/lomoval/event-organizer/internal/logger"
	memorystorage "github.com/lomoval/event-organizer/internal/storage/memory"
	"github.com/lomoval/event-organizer/internal/users"
	log "github.com/sirupsen/logrus"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/organizer.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	if flag.Arg(0) == "version" {
		printVersion()
		return
	}

	config, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	logFile, err := logger.PrepareLogger(config.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		os.Exit(1)
	}
	defer logFile.Close()

	clock := time.Now
	organizer := app.New(memorystorage.New(memorystorage.WithClock(clock)), users.New())
	organizer.Seed(config.Users, config.Events)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	log.Info("organizer is running...")
	menu := cli.New(organizer, os.Stdin, os.Stdout, config.Organizer.UpcomingDays, cli.WithClock(clock))
	if err := menu.Run(ctx); err != nil {
		log.Errorf("menu failed: %v", err)
		cancel()
		logFile.Close()
		os.Exit(1) //nolint:gocritic
	}
	log.Info("organizer stopped")
}
