package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/patric-chuzhbe/todolists/internal/client"
)

func main() {
	serverAddr := flag.String("s", "http://localhost:8080", "base URL of the todo list server")
	logout := flag.Bool("logout", false, "drop the saved session and exit")
	flag.Parse()

	if addr := os.Getenv("TODOLISTS_SERVER"); addr != "" && *serverAddr == "http://localhost:8080" {
		*serverAddr = addr
	}

	session, err := client.LoadSession()
	if err != nil {
		log.Fatalf("cannot load session: %v", err)
	}

	if *logout {
		if err := session.Clear(); err != nil {
			log.Fatalf("cannot clear session: %v", err)
		}
		fmt.Println("logged out")
		return
	}

	api := client.NewAPI(*serverAddr, session)
	if err := client.Run(api, session); err != nil {
		log.Fatalf("client error: %v", err)
	}
}
