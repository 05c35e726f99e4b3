// Command tokengen prints a bearer token for local testing, signed with the
// same configuration the server verifies against.
package main

import (
	"flag"
	"fmt"
	"log"

	"shop-service/internal/config"
	"shop-service/internal/domain/entities"
	"shop-service/internal/security"
)

func main() {
	userID := flag.String("user", "", "user id placed in the sub claim")
	seller := flag.Bool("seller", false, "grant the seller capability")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	issuer := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL)
	token, err := issuer.Issue(entities.Identity{UserID: *userID, IsSeller: *seller})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
