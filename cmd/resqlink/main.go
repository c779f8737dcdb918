package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Madan2468/resqLink-frontend/internal/api"
	"github.com/Madan2468/resqLink-frontend/internal/app"
	"github.com/Madan2468/resqLink-frontend/internal/cache"
	"github.com/Madan2468/resqLink-frontend/internal/cases"
	"github.com/Madan2468/resqLink-frontend/internal/credential"
	"github.com/Madan2468/resqLink-frontend/internal/geo"
	"github.com/Madan2468/resqLink-frontend/internal/model"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	switch flag.Arg(0) {
	case "login":
		if err := runLogin(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	case "logout":
		if err := credential.Delete(credential.TokenKey); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Credential removed.")
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts the interactive application.
func run(configPath string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if os.Getenv("RESQLINK_DEBUG") != "" {
		f, err := tea.LogToFile("resqlink-debug.log", "resqlink")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	}

	// A missing credential is not an error. The app runs in read-only
	// mode and the profile page explains how to sign in.
	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		token = ""
	}

	// The snapshot cache is best-effort. When it cannot be opened the
	// app simply starts cold.
	var snapshotCache *cache.Cache
	if c, err := cache.Open(cfg.CachePath); err == nil {
		snapshotCache = c
		defer snapshotCache.Close()
	}

	client := api.NewClient(cfg.API.BaseURL, token)
	store := cases.NewStore(client)
	resolver := geo.NewResolver(cfg.Geo.ReverseURL, cfg.Geo.PositionURL)

	p := tea.NewProgram(
		app.New(store, snapshotCache, resolver, cfg),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// runLogin reads an API token from stdin and stores it in the system
// keyring.
func runLogin() error {
	fmt.Print("Paste your ResQLink API token: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	if err := credential.Set(credential.TokenKey, token); err != nil {
		return err
	}

	fmt.Println("Credential stored. Restart resqlink to fetch your reports.")
	return nil
}
