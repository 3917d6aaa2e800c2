package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"

	"riobot/config"
)

// ConfigureLogging applies the configured level and format to the global
// logger. An unknown level falls back to info.
func ConfigureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
