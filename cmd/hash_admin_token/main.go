package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"robolab/internal/util"
)

// Prints a bcrypt hash suitable for ADMIN_TOKEN_BCRYPT. The token comes from
// the first argument, or from the first line of stdin when none is given.
func main() {
	log.SetPrefix("[ADMIN] ")
	log.SetFlags(0)

	var token string
	if len(os.Args) > 1 {
		token = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read token from stdin: %v", err)
		}
		token = line
	}

	token = strings.TrimSpace(token)
	if token == "" {
		log.Fatal("Token must not be empty")
	}

	hash, err := util.HashToken(token)
	if err != nil {
		log.Fatalf("Failed to hash token: %v", err)
	}
	fmt.Println(hash)
}
