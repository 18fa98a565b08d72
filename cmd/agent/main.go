package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/charmbracelet/lipgloss"

	"github.com/petasbytes/news-agent/internal/cache"
	"github.com/petasbytes/news-agent/internal/config"
	"github.com/petasbytes/news-agent/internal/observability"
	"github.com/petasbytes/news-agent/internal/provider"
	"github.com/petasbytes/news-agent/internal/runner"
	"github.com/petasbytes/news-agent/internal/searchweb"
	"github.com/petasbytes/news-agent/internal/store"
	"github.com/petasbytes/news-agent/memory"
	"github.com/petasbytes/news-agent/tools"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	threadID := flag.String("thread", "default", "conversation thread to resume")
	flag.Parse()

	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	threads, err := memory.NewThreadStore(cfg.ThreadsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "thread store: %v\n", err)
		os.Exit(1)
	}
	persisted, err := threads.Load(*threadID)
	if err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("warning: failed to load thread %q: %v", *threadID, err)))
	}

	client := provider.NewAnthropicClient()
	tb := tools.New(
		cache.New(cfg.CacheTTL, cfg.CacheCapacity),
		st,
		searchweb.NewClient(cfg.TavilyAPIKey),
		cfg.SummaryMaxLen,
	)
	r := runner.New(client, provider.Model(cfg.Model), tb.Registry(), cfg.TokenBudget)

	// Rebuild the model conversation from the persisted text transcript.
	conv := make([]anthropic.MessageParam, 0, len(persisted))
	for _, m := range persisted {
		if m.Role == "user" {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("News agent — thread %q (Ctrl-C to quit)\n", *threadID)

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print(userStyle.Render("You") + ": ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if strings.TrimSpace(user) == "" {
			continue
		}

		fmt.Print(assistantStyle.Render("Agent") + ": ")
		frags, done := r.StreamTurn(ctx, conv, user)
		for f := range frags {
			fmt.Print(f)
		}
		res := <-done
		fmt.Println()
		if res.Err != nil {
			fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("error: %v", res.Err)))
			log.Error("turn failed", "thread", *threadID, "error", res.Err)
			continue
		}
		conv = res.Conv
		if strings.TrimSpace(res.Final) == "" {
			fmt.Println(warnStyle.Render("(no assistant text returned)"))
		}

		// Persist a minimal text-only transcript; tool blocks stay transient.
		persisted = append(persisted, memory.Message{Role: "user", Text: user})
		if strings.TrimSpace(res.Final) != "" {
			persisted = append(persisted, memory.Message{Role: "assistant", Text: res.Final})
		}
		if err := threads.Save(*threadID, persisted); err != nil {
			fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("warning: failed to save thread: %v", err)))
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
