package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Rrens/medical-agent/internal/call"
	"github.com/Rrens/medical-agent/internal/call/textagent"
	"github.com/Rrens/medical-agent/internal/client"
	"github.com/Rrens/medical-agent/internal/config"
	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/llm/registry"
	"github.com/Rrens/medical-agent/internal/logging"
	"github.com/Rrens/medical-agent/internal/security"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	apiURL := flag.String("api", cfg.Voice.APIURL, "consultation API base URL")
	email := flag.String("email", os.Getenv("USER")+"@localhost", "patient email")
	name := flag.String("name", os.Getenv("USER"), "patient name")
	provider := flag.String("provider", cfg.LLM.DefaultProvider, "LLM provider for the conversation")
	flag.Parse()

	// keep the terminal for the conversation
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "console"
	if closer, err := logging.Setup(cfg.Logging); err == nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *apiURL, *email, *name, *provider); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, apiURL, email, name, providerName string) error {
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	token, err := jwtManager.GenerateAccessToken(email, name)
	if err != nil {
		return fmt.Errorf("failed to mint token: %w", err)
	}

	api := client.New(apiURL, client.WithToken(token))
	user, err := api.EnsureUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	in := newLineReader(os.Stdin)
	fmt.Printf("Welcome %s (%d credits).\n", user.Name, user.Credits)

	session, err := intake(ctx, api, in)
	if err != nil {
		return err
	}

	llmRouter := registry.New(cfg.LLM)
	provider, ok := llmRouter.Lookup(providerName)
	if !ok {
		return fmt.Errorf("llm provider %q is not configured", providerName)
	}

	assistantID := cfg.Voice.AssistantID
	if assistantID == "" {
		assistantID = "text-agent"
	}

	out := &printer{printed: map[int]string{}}
	engine := &lineEngine{}
	dictation := call.NewDictation(engine, nil)
	controller := call.New(
		call.Config{AssistantID: assistantID, IdleTimeout: cfg.Voice.IdleTimeout},
		textagent.New(provider, ""),
		api,
		call.WithDictation(dictation),
		call.WithObserver(out),
	)
	defer controller.Close()

	if err := controller.StartCall(ctx, session); err != nil {
		return fmt.Errorf("failed to start consultation: %w", err)
	}

	con := &console{
		controller: controller,
		dictation:  dictation,
		engine:     engine,
		session:    session,
		out:        os.Stdout,
	}
	fmt.Println("Type your message. /dictate toggles dictation, /send sends dictated text, /start reconnects, /end finishes.")
	for {
		line, err := in.next(ctx)
		if err != nil {
			return err
		}
		done, err := con.handle(ctx, line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// intake creates the session, shows the matches and selects a specialist
func intake(ctx context.Context, api *client.Client, in *lineReader) (*domain.Session, error) {
	fmt.Print("Describe your symptoms: ")
	symptoms, err := in.next(ctx)
	if err != nil {
		return nil, err
	}

	created, err := api.CreateSession(ctx, symptoms)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	fmt.Println("Recommended specialists:")
	for i, m := range created.MatchedSpecialists {
		fmt.Printf("  %d. %s (%d%%) - %s\n", i+1, m.Specialist, m.MatchScore, m.Reasoning)
	}

	choice := 1
	fmt.Print("Choose a specialist [1]: ")
	line, err := in.next(ctx)
	if err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(created.MatchedSpecialists) {
		choice = n
	}

	return api.SelectSpecialist(ctx, created.SessionID, created.MatchedSpecialists[choice-1].SpecialistID)
}

type lineReader struct {
	lines chan string
	errs  chan error
}

func newLineReader(f *os.File) *lineReader {
	r := &lineReader{lines: make(chan string), errs: make(chan error, 1)}
	go func() {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			r.lines <- strings.TrimSpace(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			r.errs <- err
			return
		}
		r.errs <- errors.New("input closed")
	}()
	return r
}

func (r *lineReader) next(ctx context.Context) (string, error) {
	select {
	case line := <-r.lines:
		return line, nil
	case err := <-r.errs:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// printer writes committed assistant text and status changes to stdout
type printer struct {
	printed map[int]string
}

func (p *printer) StatusChanged(status call.Status) {
	fmt.Printf("[%s]\n", status)
}

func (p *printer) TranscriptChanged(messages []call.Message) {
	for i, m := range messages {
		if m.Role != domain.RoleAssistant || m.Stable == p.printed[i] {
			continue
		}
		prev := p.printed[i]
		text := m.Stable
		if strings.HasPrefix(text, prev) {
			text = strings.TrimSpace(text[len(prev):])
		}
		if text != "" {
			fmt.Printf("Doctor: %s\n", text)
		}
		p.printed[i] = m.Stable
	}
}
