package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/internal/pipeline"
	srv "github.com/Naveen-2402/darkai/internal/server"
	"github.com/Naveen-2402/darkai/provider"
	provmodels "github.com/Naveen-2402/darkai/provider/models"
)

func main() {
	var root = &cobra.Command{Use: "darkai"}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if serveAddr == "" {
				serveAddr = os.Getenv("DARKAI_HTTP_ADDR")
			}
			return srv.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")

	var chatRole string
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Plain streaming chat in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), cfg.LLM)
			if err != nil {
				return err
			}
			return runChatREPL(cmd.Context(), cfg, llm, chatRole)
		},
	}
	chat.Flags().StringVar(&chatRole, "role", "a helpful assistant", "system role for the conversation")

	var quote = &cobra.Command{
		Use:   "quote",
		Short: "Print one dark humor motivational quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), cfg.LLM)
			if err != nil {
				return err
			}
			q, err := pipeline.New(cfg, llm, nil).Quote(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(q)
			return nil
		},
	}

	var tokenSubject string
	var tokenTTL time.Duration
	var token = &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if cfg.Server.JWTSecret == "" {
				return fmt.Errorf("server.jwt_secret not configured")
			}
			signed, err := srv.SignJWT(tokenSubject, []byte(cfg.Server.JWTSecret), tokenTTL)
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}
	token.Flags().StringVar(&tokenSubject, "subject", "local", "token subject")
	token.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	root.AddCommand(serve, chat, quote, token)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runChatREPL reads lines from stdin and answers each with a plain
// completion, continuing automatically when the model stops at the
// output-length bound.
func runChatREPL(ctx context.Context, cfg *config.Config, llm provider.Provider, role string) error {
	conv := []provmodels.Message{{Role: "system", Content: role}}
	opts := provmodels.Options{Temperature: cfg.Chat.Temperature, TopP: cfg.Chat.TopP}

	fmt.Println("Type your message. Ctrl-D to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		conv = append(conv, provmodels.Message{Role: "user", Content: line})
		answer, err := provider.Completion(ctx, llm, conv, opts, cfg.LLM.MaxContinuations)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			conv = conv[:len(conv)-1]
			continue
		}
		fmt.Println(answer)
		conv = append(conv, provmodels.Message{Role: "assistant", Content: answer})
	}
}
