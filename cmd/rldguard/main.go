package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"rldguard/internal/app"
	"rldguard/internal/config"
	"rldguard/internal/middleware"
	"rldguard/internal/models"
)

// @title        rldguard API
// @version      1.0
// @description  RLD compliance checks and override approvals for HubSpot deals.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config.yaml")
	issue := flag.Bool("issue-token", false, "print a bearer token for the CRM card and exit")
	userID := flag.String("user-id", "", "HubSpot user id for -issue-token")
	firstName := flag.String("first-name", "", "first name for -issue-token")
	lastName := flag.String("last-name", "", "last name for -issue-token")
	email := flag.String("email", "", "email for -issue-token")
	teams := flag.String("teams", "", "comma separated teams for -issue-token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime for -issue-token")
	flag.Parse()

	if *issue {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		actor := models.Actor{ID: *userID, FirstName: *firstName, LastName: *lastName, Email: *email, Teams: splitList(*teams)}
		if actor.ID == "" {
			fmt.Fprintln(os.Stderr, "-user-id is required")
			os.Exit(2)
		}
		token, err := middleware.IssueToken([]byte(cfg.Auth.JWTSecret), actor, *ttl)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(token)
		return
	}

	app.Run(*configPath)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
