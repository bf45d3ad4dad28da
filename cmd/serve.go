package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/logger"
	"github.com/sphynx-hq/sphynx/internal/server"
)

const defaultHistoryFile = "search_history.json"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the candidate search API over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address. Default is :8080.")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the sphynx server", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	historyFile := config.HistoryFile
	if historyFile == "" {
		historyFile = defaultHistoryFile
	}

	gh := newDirectory(config, logger)
	scorer := newScorer(ctx, config.AI, logger)
	store := newHistoryStore(historyFile)

	pipe := newPipeline(config, gh, scorer, store, logger, 0)

	address := viper.GetString("server.address")
	if address == "" {
		address = config.Server.Address
	}

	srv := server.New(server.Config{Address: address}, pipe, store, logger)

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
