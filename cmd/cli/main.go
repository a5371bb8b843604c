package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseURL   string `json:"base_url"`
	ProjectID string `json:"project_id"`
	Token     string `json:"token"` // bearer session token
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".taskly")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cli_config.json"), nil
}

func loadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func saveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// --- Cobra root and top-level commands ---

var rootCmd = &cobra.Command{
	Use:   "taskly",
	Short: "Taskly CLI",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ---- Register ----

func cmdRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	name := fs.String("name", "", "Display name")
	password := fs.String("password", "", "Password (min 8 characters)")
	baseURL := fs.String("base-url", "http://localhost:4000/api", "Taskly API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *name == "" || *password == "" {
		return fmt.Errorf("email, name and password are required")
	}

	body, err := json.Marshal(map[string]string{
		"email":    *email,
		"name":     *name,
		"password": *password,
	})
	if err != nil {
		return err
	}

	url := strings.TrimRight(*baseURL, "/") + "/auth/create-account"
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("register failed: %s", strings.TrimSpace(string(msg)))
	}

	fmt.Println("Account created. Check your email for the confirmation code, then run:")
	fmt.Println("  taskly confirm --token <code>")
	return nil
}

// ---- Confirm ----

func cmdConfirm(args []string) error {
	fs := flag.NewFlagSet("confirm", flag.ExitOnError)
	token := fs.String("token", "", "6-digit confirmation code")
	baseURL := fs.String("base-url", "http://localhost:4000/api", "Taskly API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		return fmt.Errorf("token is required")
	}

	body, err := json.Marshal(map[string]string{"token": *token})
	if err != nil {
		return err
	}

	url := strings.TrimRight(*baseURL, "/") + "/auth/confirm-account"
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("confirm failed: %s", strings.TrimSpace(string(msg)))
	}

	fmt.Println("Account confirmed. You can log in now.")
	return nil
}

// ---- Login ----

func cmdLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	baseURL := fs.String("base-url", "http://localhost:4000/api", "Taskly API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}

	body, err := json.Marshal(map[string]string{
		"email":    *email,
		"password": *password,
	})
	if err != nil {
		return err
	}

	url := strings.TrimRight(*baseURL, "/") + "/auth/login"
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed: %s", strings.TrimSpace(string(msg)))
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return err
	}
	if login.Token == "" {
		return fmt.Errorf("no session token received")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.BaseURL = strings.TrimRight(*baseURL, "/")
	cfg.Token = login.Token
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Println("Logged in successfully")
	return nil
}

// ---- Projects ----

func cmdProjects(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: taskly projects [list|create|use]")
		return nil
	}

	sub := args[0]
	switch sub {
	case "list":
		return projectsList(args[1:])
	case "create":
		return projectsCreate(args[1:])
	case "use":
		return projectsUse(args[1:])
	default:
		fmt.Println("Usage: taskly projects [list|create|use]")
		return nil
	}
}

func requireAuthConfig() (*Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" || cfg.Token == "" {
		return nil, fmt.Errorf("not logged in; run `taskly login` first")
	}
	return cfg, nil
}

func doAuthedRequest(cfg *Config, method, path string, body io.Reader) (*http.Response, error) {
	url := strings.TrimRight(cfg.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.Token)
	client := &http.Client{}
	return client.Do(req)
}

func projectsList(args []string) error {
	_ = args
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodGet, "/projects", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("list projects failed: %s", strings.TrimSpace(string(msg)))
	}

	var projects []struct {
		ID          string `json:"id"`
		ProjectName string `json:"project_name"`
		ClientName  string `json:"client_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Println("No projects found. Create one with `taskly projects create`.")
		return nil
	}

	fmt.Println("Projects:")
	for _, p := range projects {
		active := ""
		if cfg.ProjectID == p.ID {
			active = " (active)"
		}
		fmt.Printf("  %s%s\n    ID: %s\n    Client: %s\n", p.ProjectName, active, p.ID, p.ClientName)
	}
	return nil
}

func projectsCreate(args []string) error {
	fs := flag.NewFlagSet("projects create", flag.ExitOnError)
	name := fs.String("name", "", "Project name")
	client := fs.String("client", "", "Client name")
	description := fs.String("description", "", "Project description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *client == "" || *description == "" {
		return fmt.Errorf("usage: taskly projects create --name <name> --client <client> --description <text>")
	}

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{
		"project_name": *name,
		"client_name":  *client,
		"description":  *description,
	})
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodPost, "/projects", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create project failed: %s", strings.TrimSpace(string(msg)))
	}

	var project struct {
		ID          string `json:"id"`
		ProjectName string `json:"project_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return err
	}

	cfg.ProjectID = project.ID
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Created project %s (ID: %s) and set as active\n", project.ProjectName, project.ID)
	return nil
}

func projectsUse(args []string) error {
	fs := flag.NewFlagSet("projects use", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: taskly projects use <project-id>")
	}
	id := fs.Arg(0)

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodGet, "/projects/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("get project failed: %s", strings.TrimSpace(string(msg)))
	}

	cfg.ProjectID = id
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("Active project set to %s\n", id)
	return nil
}

// ---- Tasks ----

func cmdTasks(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: taskly tasks [list]")
		return nil
	}

	switch args[0] {
	case "list":
		return tasksList(args[1:])
	default:
		fmt.Println("Usage: taskly tasks [list]")
		return nil
	}
}

func tasksList(args []string) error {
	_ = args
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}
	if cfg.ProjectID == "" {
		return fmt.Errorf("no active project; run `taskly projects use <project-id>` first")
	}

	resp, err := doAuthedRequest(cfg, http.MethodGet, "/projects/"+cfg.ProjectID+"/tasks", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("list tasks failed: %s", strings.TrimSpace(string(msg)))
	}

	var tasks []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks in the active project.")
		return nil
	}

	fmt.Println("Tasks:")
	for _, t := range tasks {
		fmt.Printf("  [%s] %s (ID: %s)\n", t.Status, t.Name, t.ID)
	}
	return nil
}

// ---- Cobra command wiring ----

func init() {
	registerCmd := &cobra.Command{
		Use:                "register",
		Short:              "Create a Taskly account",
		DisableFlagParsing: true, // delegate flag parsing to cmdRegister (uses flag package)
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRegister(args)
		},
	}

	confirmCmd := &cobra.Command{
		Use:                "confirm",
		Short:              "Confirm an account with the emailed code",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdConfirm(args)
		},
	}

	loginCmd := &cobra.Command{
		Use:                "login",
		Short:              "Login to Taskly",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdLogin(args)
		},
	}

	projectsCmd := &cobra.Command{
		Use:                "projects",
		Short:              "Manage projects",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdProjects(args)
		},
	}

	tasksCmd := &cobra.Command{
		Use:                "tasks",
		Short:              "List tasks in the active project",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdTasks(args)
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireAuthConfig()
			if err != nil {
				return err
			}

			resp, err := doAuthedRequest(cfg, http.MethodGet, "/auth/user", nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("request failed: %s", strings.TrimSpace(string(body)))
			}

			var user struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Name  string `json:"name"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
				return err
			}

			fmt.Println("Current user:")
			fmt.Printf("  ID:    %s\n", user.ID)
			fmt.Printf("  Name:  %s\n", user.Name)
			fmt.Printf("  Email: %s\n", user.Email)
			return nil
		},
	}

	rootCmd.AddCommand(registerCmd, confirmCmd, loginCmd, projectsCmd, tasksCmd, whoamiCmd)
}
