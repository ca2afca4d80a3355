// Command token mints an HS256 access token signed with JWT_SECRET, for
// local development and integration scripts.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Supraja1508/Backend/internal/config"
	"github.com/Supraja1508/Backend/internal/tokens"
)

func main() {
	user := flag.String("user", "", "principal id placed in the userId and sub claims")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_ACCESS_TOKEN_TTL)")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "usage: token -user <id> [-ttl 1h]")
		os.Exit(2)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.JWT.AccessTokenTTL
	}
	if lifetime <= 0 {
		lifetime = 15 * time.Minute
	}
	tok, err := tokens.GenerateAccessToken(cfg.JWT.Secret, *user, lifetime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
