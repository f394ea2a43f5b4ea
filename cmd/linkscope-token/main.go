// linkscope-token mints API tokens for the linkscope server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmorval/linkscope/pkg/auth"
)

func main() {
	subject := flag.String("subject", "", "Token subject (investigator id)")
	role := flag.String("role", auth.RoleViewer, "Role: investigator or viewer")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	secret := os.Getenv("LINKSCOPE_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "LINKSCOPE_JWT_SECRET must be set")
		os.Exit(1)
	}
	if *subject == "" {
		fmt.Fprintln(os.Stderr, "-subject is required")
		os.Exit(1)
	}

	manager, err := auth.NewJWTManager(secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "auth: %v\n", err)
		os.Exit(1)
	}

	token, err := manager.GenerateToken(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
