package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/lerhino/rhino-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// Optional: production deployments configure through real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}
}
