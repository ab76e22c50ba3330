package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-netplay/internal/arena"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/botclient"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/config"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/discovery"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/repository"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/repository/storage"
)

// RunApp - wires the components and runs the server group until a signal
// arrives or one of the servers fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var recorder arena.ResultRecorder
	if conf.Archive.Enabled {
		redisStorage, err := storage.New(ctx, conf.Archive.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		recorder = repository.NewResultRepository(redisStorage.Connection)
	}

	server := arena.New(logger, conf.Game.Pin, recorder)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting game server", "addr", conf.Game.GetGameAddr())
		return server.Start(ctx, conf.Game.GetGameAddr())
	})

	if conf.Discovery.Enabled {
		gamePort, err := strconv.Atoi(conf.Game.Port)
		if err != nil {
			return fmt.Errorf("invalid game port %q: %w", conf.Game.Port, err)
		}

		responder := discovery.NewResponder(logger, conf.ServerName, gamePort, conf.Game.Pin != "")

		group.Go(func() error {
			log.Info("Starting discovery responder", "port", conf.Discovery.Port)
			return responder.Start(ctx, conf.Discovery.Port)
		})
	}

	if conf.Bot.Enabled {
		seatAddr := "127.0.0.1:" + conf.Game.Port

		group.Go(func() error {
			log.Info("Bot seat enabled, joining over loopback", "name", conf.Bot.Name)
			return botclient.Seat(ctx, logger, seatAddr, conf.Game.Pin, conf.Bot.Name, conf.Bot.Depth)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("server group failed: %w", err)
	}

	log.Info("Application stopped")

	return nil
}
