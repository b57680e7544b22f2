package main

import (
	"github.com/joho/godotenv"

	"github.com/irwanphan/voice-news-summary/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional .env for API keys; absence is fine.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
