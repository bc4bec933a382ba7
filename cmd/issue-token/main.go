// Command issue-token mints an API bearer token for a user, creating the
// user when the username is unknown.
//
//	issue-token -username ann
//	issue-token -id 12
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Kerhoff/ChoreboT/internal/app"
	"github.com/Kerhoff/ChoreboT/internal/auth"
	"github.com/Kerhoff/ChoreboT/internal/config"
	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/pkg/logger"
)

func main() {
	userID := flag.Int64("id", 0, "existing user id")
	username := flag.String("username", "", "username; created when missing")
	firstName := flag.String("first-name", "", "first name for a new user")
	lastName := flag.String("last-name", "", "last name for a new user")
	flag.Parse()

	if (*userID == 0) == (*username == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -id or -username is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StorageDriver == config.StorageMemory {
		log.Fatal("issue-token needs persistent storage; set STORAGE_DRIVER=postgres")
	}

	// Logs go to stderr so stdout carries only the token.
	l := logger.NewWithOutput(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc, closeStorage, err := app.NewService(ctx, cfg, l)
	if err != nil {
		l.Fatalf("Failed to initialise storage: %v", err)
	}
	defer closeStorage()

	var user *models.User
	if *userID != 0 {
		user, err = svc.GetUser(ctx, *userID)
	} else {
		user, err = svc.Users.GetByUsername(ctx, *username)
		if err == nil && user == nil {
			user, err = svc.Users.Create(ctx, &models.User{
				Username:  *username,
				FirstName: *firstName,
				LastName:  *lastName,
			})
			if err == nil {
				l.Infof("Created user %s (id=%d)", user.Username, user.ID)
			}
		}
	}
	if err != nil {
		l.Fatalf("Failed to resolve user: %v", err)
	}

	tokens, err := auth.NewJWTService(auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		TokenTTL: cfg.TokenTTL,
	})
	if err != nil {
		l.Fatalf("Failed to create token service: %v", err)
	}

	token, err := tokens.Generate(user.ID, user.Username)
	if err != nil {
		l.Fatalf("Failed to issue token: %v", err)
	}

	l.Infof("Issued token for %s (id=%d), valid for %s", user.Username, user.ID, tokens.TTL())
	fmt.Println(token)
}
