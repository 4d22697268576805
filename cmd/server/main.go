package main

import (
	"context"
	"log"
	"os"

	"go-rental-pos/internal/assistant"
	"go-rental-pos/internal/auth"
	"go-rental-pos/internal/config"
	"go-rental-pos/internal/database"
	"go-rental-pos/internal/handlers"
	"go-rental-pos/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	root := &cobra.Command{
		Use:   "rental-pos",
		Short: "Point of sale and equipment rental server",
	}
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := database.Connect(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			st := store.New(db)

			as := assistant.New(st, engineOpener(cfg))
			as.LoadInBackground()

			jwtManager := auth.NewManager(cfg.JWTSecret)
			h := handlers.New(st, as, jwtManager, cfg)
			r := handlers.NewRouter(h)

			log.Println("Server starting on " + cfg.BaseURL)
			return r.Run(cfg.HTTPAddr)
		},
	}
}

// engineOpener picks the inference backend: the hosted API when a key is
// configured, otherwise the local GGUF model.
func engineOpener(cfg *config.Config) assistant.EngineOpener {
	if cfg.GeminiAPIKey != "" {
		return func() (assistant.Engine, error) {
			return assistant.OpenGemini(context.Background(), cfg.GeminiAPIKey, 200)
		}
	}
	return func() (assistant.Engine, error) {
		return assistant.OpenLlama(cfg.ModelPath)
	}
}

func seedCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.Connect(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if err := database.SeedAdmin(db, username, password); err != nil {
				return err
			}
			log.Printf("Admin account %q ready", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "admin username")
	cmd.Flags().StringVar(&password, "password", "admin123", "initial admin password")
	return cmd
}
