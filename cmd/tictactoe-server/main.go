// Command tictactoe-server serves the browser game.
package main

import (
    "context"
    "errors"
    "flag"
    "log"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-minimax/internal/app"
    "github.com/jaminalder/tictactoe-minimax/internal/config"
    "github.com/jaminalder/tictactoe-minimax/internal/msgcat"
    "github.com/jaminalder/tictactoe-minimax/internal/obslog"
    "github.com/jaminalder/tictactoe-minimax/internal/store"
    "github.com/jaminalder/tictactoe-minimax/internal/web"
)

func main() {
    configPath := flag.String("config", "", "optional YAML config file")
    flag.Parse()

    cfg, err := config.Load(*configPath)
    if err != nil {
        log.Fatalf("config error: %v", err)
    }
    logger, err := obslog.Init(cfg.Log)
    if err != nil {
        log.Fatalf("logger init error: %v", err)
    }
    defer func() { _ = logger.Sync() }()

    cat, err := msgcat.New(cfg.MessagesDir)
    if err != nil {
        logger.Fatal("message catalog", zap.Error(err))
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    var st store.Store = store.NewMemory(cfg.SessionTTL)
    if cfg.RedisURL != "" {
        st, err = store.OpenRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
        if err != nil {
            logger.Fatal("redis store", zap.Error(err))
        }
        logger.Info("sessions stored in redis", zap.Duration("ttl", cfg.SessionTTL))
    }

    svc := app.NewService(
        app.WithStore(st),
        app.WithSeed(cfg.Seed),
        app.WithLogger(logger.Named("game")),
    )
    defer func() { _ = svc.Close() }()

    srv := &http.Server{
        Addr: cfg.Addr,
        Handler: web.NewServer(svc,
            web.WithLogger(logger.Named("http")),
            web.WithCatalog(cat),
            web.WithDefaults(cfg.Mode(), cfg.Difficulty()),
        ),
        ReadHeaderTimeout: 5 * time.Second,
        // streams end with the signal context
        BaseContext: func(net.Listener) context.Context { return ctx },
    }

    errCh := make(chan error, 1)
    go func() {
        logger.Info("listening", zap.String("addr", cfg.Addr))
        errCh <- srv.ListenAndServe()
    }()

    select {
    case <-ctx.Done():
    case err := <-errCh:
        if !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server stopped", zap.Error(err))
        }
        return
    }

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Warn("shutdown", zap.Error(err))
    }
    logger.Info("stopped")
}
