package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/reddit-cli/internal/app"
	"github.com/glabrego/reddit-cli/internal/config"
	"github.com/glabrego/reddit-cli/internal/reddit"
	"github.com/glabrego/reddit-cli/internal/storage"
	"github.com/glabrego/reddit-cli/internal/tui"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reddit",
	Short: "Browse reddit text posts in the terminal",
	Long: `Browse reddit text posts and their comments in a three-tab terminal UI.

Only self posts are listed. Link and media posts are skipped.

Examples:
  reddit                      # front page
  reddit -s golang            # r/golang
  reddit -s golang --sort best
  reddit -c <reddit_session>  # save a session cookie and browse as that user`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the saved session (cookie and tabs)",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently opened posts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	flagSubreddit   string
	flagSort        string
	flagCookie      string
	flagClearCookie bool
	flagTabs        []string
	flagLimit       int
)

func init() {
	rootCmd.Flags().StringVarP(&flagSubreddit, "subreddit", "s", "", "Subreddit to open instead of the front page")
	rootCmd.Flags().StringVarP(&flagCookie, "cookie", "c", "", "reddit_session cookie to save and use")
	rootCmd.Flags().StringVar(&flagSort, "sort", "hot", "Initial listing sort: hot, best or controversial")

	configCmd.Flags().StringVarP(&flagCookie, "cookie", "c", "", "Save a reddit_session cookie")
	configCmd.Flags().BoolVar(&flagClearCookie, "clear-cookie", false, "Remove the saved cookie")
	configCmd.Flags().StringArrayVarP(&flagTabs, "tab", "t", nil, "Saved tab such as r/golang, can be repeated; replaces the saved list")
	configCmd.MarkFlagsMutuallyExclusive("cookie", "clear-cookie")

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of posts to list")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	sort, err := reddit.ParseSortMode(flagSort)
	if err != nil {
		return fmt.Errorf("invalid --sort: %w", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	store := config.NewStore(cfg.SessionPath)
	session, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not read %s (%v), using defaults\n", store.Path(), err)
	}
	if cmd.Flags().Changed("cookie") {
		cookie := strings.TrimSpace(flagCookie)
		session, err = store.Update(&cookie, nil)
		if err != nil {
			return fmt.Errorf("save cookie: %w", err)
		}
	}

	logFile, err := setupLogging(cfg.DebugLogPath)
	if err != nil {
		return fmt.Errorf("debug log: %w", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	repo, err := openHistory(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	client, err := reddit.NewClient(cfg.APIBaseURL, session.Cookie, cfg.UserAgent, nil)
	if err != nil {
		return fmt.Errorf("client error: %w", err)
	}
	service := app.NewService(client, repo)

	model := tui.NewModel(service, tui.Options{
		Query:     subredditQuery(flagSubreddit),
		Sort:      sort,
		SavedTabs: session.Tabs,
		BaseURL:   cfg.APIBaseURL,
	})
	log.Printf("starting query=%q sort=%s cookie=%t tabs=%d", subredditQuery(flagSubreddit), sort, session.Cookie != "", len(session.Tabs))

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	store := config.NewStore(cfg.SessionPath)

	var cookie *string
	switch {
	case flagClearCookie:
		empty := ""
		cookie = &empty
	case cmd.Flags().Changed("cookie"):
		trimmed := strings.TrimSpace(flagCookie)
		cookie = &trimmed
	}
	var tabs []string
	if cmd.Flags().Changed("tab") {
		tabs = append([]string{}, flagTabs...)
	}

	var session config.Session
	if cookie != nil || tabs != nil {
		session, err = store.Update(cookie, tabs)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	} else {
		session, err = store.Load()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not read %s (%v), showing defaults\n", store.Path(), err)
		}
	}

	printSession(cmd.OutOrStdout(), store.Path(), session)
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	repo, err := openHistory(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	visits, err := repo.RecentVisits(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	printVisits(cmd.OutOrStdout(), visits)
	return nil
}

func openHistory(path string) (*storage.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	repo, err := storage.NewRepository(path)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("storage write check failed (%v). Verify REDDIT_DB_PATH is writable: %s", err, path)
	}
	return repo, nil
}

// setupLogging routes the log package to path, or discards it so stray
// output cannot corrupt the alt screen.
func setupLogging(path string) (*os.File, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	return tea.LogToFile(path, "reddit")
}

// subredditQuery turns a -s value into a listing query: "golang" and
// "r/golang" both give "r/golang".
func subredditQuery(name string) string {
	name = strings.Trim(strings.TrimSpace(name), "/")
	name = strings.TrimPrefix(name, "r/")
	if name == "" {
		return ""
	}
	return "r/" + name
}

func printSession(w io.Writer, path string, session config.Session) {
	fmt.Fprintf(w, "config: %s\n", path)
	fmt.Fprintf(w, "cookie: %s\n", session.MaskedCookie())
	if len(session.Tabs) == 0 {
		fmt.Fprintln(w, "tabs:   (none)")
		return
	}
	fmt.Fprintf(w, "tabs:   %s\n", strings.Join(session.Tabs, ", "))
}

func printVisits(w io.Writer, visits []storage.Visit) {
	if len(visits) == 0 {
		fmt.Fprintln(w, "No posts opened yet.")
		return
	}
	for _, v := range visits {
		fmt.Fprintf(w, "%s  %-20s %s (%dx)\n", v.LastVisitedAt.Local().Format("2006-01-02 15:04"), v.Subreddit, v.Title, v.Count)
	}
}
