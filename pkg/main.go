package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pkg "git.solsynth.dev/hypernet/socialgraph/pkg/internal"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/cache"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/http"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____             _       _\n/ ___|  ___   ___(_) __ _| |\n\\___ \\ / _ \\ / __| |/ _` | |\n ___) | (_) | (__| | (_| | |\n|____/ \\___/ \\___|_|\\__,_|_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Socialgraph"), pkg.AppVersion)
	fmt.Printf("The social graph service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Load environment
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file was loaded, using process environment only.")
	}

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("SOCIALGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}
	zerolog.SetGlobalLevel(lo.Ternary(viper.GetBool("debug.verbose"), zerolog.DebugLevel, zerolog.InfoLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(ctx, database.Config{
		Driver: viper.GetString("database.driver"),
		DSN:    viper.GetString("database.dsn"),
		Name:   viper.GetString("database.name"),
		Debug:  viper.GetBool("debug.database"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}
	defer db.Close()
	log.Info().Str("driver", db.Driver()).Msg("Database connected.")

	// Initialize cache
	cacheStore, err := cache.NewStore()
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	options, err := services.OptionsFromSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when reading service options.")
	}
	core := services.NewCore(db, cacheStore, options)

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", core.DoAutoDatabaseCleanup)
	quartz.Start()

	// Server
	httpServer := http.NewServer(core)
	grpcServer := grpc.NewGrpc(core)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(httpServer.Listen)
	eg.Go(grpcServer.Listen)
	eg.Go(func() error {
		<-egCtx.Done()
		grpcServer.Stop()
		return httpServer.Shutdown()
	})
	log.Info().
		Str("bind", viper.GetString("bind")).
		Str("grpc_bind", viper.GetString("grpc_bind")).
		Msg("Servers are listening.")

	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("A server stopped unexpectedly.")
	}

	quartz.Stop()
}
