// Command wpfetch runs content client operations against a WordPress site and
// prints what came back, one line per record, followed by the result status.
//
//	wpfetch [-base URL] posts | post <slug> | pages | categories | search <term>
//
// Without a command it reads commands from stdin until EOF or "quit".
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/debemdeboas/recipe-archive/internal/logger"
	"github.com/debemdeboas/recipe-archive/internal/sanitize"
	"github.com/debemdeboas/recipe-archive/internal/util"
	"github.com/debemdeboas/recipe-archive/internal/wordpress"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func main() {
	godotenv.Load()

	base := flag.String("base", envOr("WP_BASE_URL", wordpress.DefaultBaseURL), "WordPress REST API base URL")
	perPage := flag.Int("per-page", wordpress.DefaultPerPage, "Number of posts to list")
	timeout := flag.Duration("timeout", 10*time.Second, "Per-request timeout")
	level := flag.String("log-level", envOr("LOG_LEVEL", "warn"), "Log level")
	flag.Parse()

	logger.New(*level)

	client := wordpress.NewClient(*base, wordpress.WithPerPage(*perPage))
	ctx := context.Background()

	if flag.NArg() > 0 {
		if !run(ctx, os.Stdout, client, flag.Args(), *timeout) {
			os.Exit(1)
		}
		return
	}

	fmt.Println("Enter commands one by one. Type 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("wpfetch> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		run(ctx, os.Stdout, client, strings.Fields(line), *timeout)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading input:", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// run executes one command and reports whether it succeeded.
func run(ctx context.Context, w io.Writer, client *wordpress.Client, args []string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		lines  []string
		status wordpress.Status
		err    error
	)

	switch cmd, rest := args[0], args[1:]; cmd {
	case "posts":
		res := client.Posts(ctx)
		lines, status, err = postLines(res.Value), res.Status, res.Err
	case "post":
		if len(rest) != 1 {
			fmt.Fprintln(w, failStyle.Render("usage: post <slug>"))
			return false
		}
		res := client.PostBySlug(ctx, rest[0])
		if res.Value != nil {
			lines = postLines([]wordpress.Post{*res.Value})
			lines = append(lines, "", util.PlainText(sanitize.Clean(res.Value.Content.Rendered)))
		}
		status, err = res.Status, res.Err
	case "pages":
		res := client.Pages(ctx)
		for _, p := range res.Value {
			lines = append(lines, fmt.Sprintf("%-30s %s", p.Slug, util.PlainText(p.Title.Rendered)))
		}
		status, err = res.Status, res.Err
	case "categories":
		res := client.Categories(ctx)
		for _, c := range res.Value {
			lines = append(lines, fmt.Sprintf("%-30s %-30s %d", c.Slug, c.Name, c.Count))
		}
		status, err = res.Status, res.Err
	case "search":
		if len(rest) == 0 {
			fmt.Fprintln(w, failStyle.Render("usage: search <term>"))
			return false
		}
		res := client.Search(ctx, strings.Join(rest, " "))
		lines, status, err = postLines(res.Value), res.Status, res.Err
	default:
		fmt.Fprintln(w, failStyle.Render("unknown command: "+cmd))
		return false
	}

	for _, line := range lines {
		fmt.Fprintln(w, outputStyle.Render(line))
	}
	return printStatus(w, status, err)
}

func postLines(posts []wordpress.Post) []string {
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		author := "-"
		if a := p.Author(); a != nil {
			author = a.Name
		}
		lines = append(lines, fmt.Sprintf("%-30s %-20s %-12s %s", p.Slug, p.Date, author, util.PlainText(p.Title.Rendered)))
	}
	return lines
}

func printStatus(w io.Writer, status wordpress.Status, err error) bool {
	if status == wordpress.StatusOK {
		fmt.Fprintln(w, okStyle.Render("status: "+status.String()))
		return true
	}
	msg := "status: " + status.String()
	if err != nil {
		msg += " (" + err.Error() + ")"
	}
	fmt.Fprintln(w, failStyle.Render(msg))
	return false
}
