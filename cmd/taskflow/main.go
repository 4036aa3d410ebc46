package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/app"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String(
		"config", model.DefaultConfigPath(), "path to config file",
	)
	serverURL := flag.String(
		"server", "", "backend URL (overrides config)",
	)
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}

	if os.Getenv("TASKFLOW_DEBUG") != "" {
		f, err := tea.LogToFile("taskflow-debug.log", "debug")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	}

	sessions, err := session.Open()
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	client := api.NewClient(
		cfg.Server.URL,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
	)

	// Re-install the stored credential so an existing session resumes
	// without a login round.
	if cred, err := sessions.Load(); err == nil {
		client.SetCredential(cred.Username, cred.Password)
	}

	program := tea.NewProgram(
		app.New(client, sessions),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
