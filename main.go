package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"value-helper/cli"
	"value-helper/logging"
)

func main() {
	logging.Setup()

	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			slog.Debug("⚠️ .env file not found, using system environment variables", "path", envPath, "error", err)
		} else {
			slog.Debug("✅ Loaded environment variables", "path", envPath)
		}
	}

	if err := cli.Execute(); err != nil {
		slog.Error("❌ Command failed", "error", err)
		os.Exit(1)
	}
}
