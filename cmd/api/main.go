package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/dev0b1/selah-sub001/internal/config"
	"github.com/dev0b1/selah-sub001/internal/http/middleware"
	"github.com/dev0b1/selah-sub001/internal/http/server"
)

// initLog configures the service logger.
func initLog(logConfig *config.LogConfig) {
	if logConfig.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(logConfig.Level)
	if err != nil {
		logrus.WithError(err).Warnf("Invalid log level '%s', falling back to 'info'", logConfig.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	logrus.SetOutput(os.Stdout)
}

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	if *configPath == "" {
		possiblePaths := []string{
			"./configs/config.yaml",
			"../configs/config.yaml",
			"/etc/selah/config.yaml",
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				*configPath = path
				break
			}
		}

		if *configPath == "" {
			*configPath = "./configs/config.yaml"
		}
	}

	absConfigPath, err := filepath.Abs(*configPath)
	if err != nil {
		logrus.Fatalf("Could not resolve config path: %v", err)
	}

	cfg, err := config.Load(absConfigPath)
	if err != nil {
		logrus.Fatalf("Could not load config: %v", err)
	}

	initLog(&cfg.Log)
	middleware.InitZerologWithConfig(&cfg.Log)

	logrus.Infof("Using config file: %s", absConfigPath)

	app, err := server.NewApp(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Start(); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}
