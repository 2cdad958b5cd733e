package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-local/internal/application/inventory"
	"github.com/jhoicas/inventario-local/internal/application/scan"
	"github.com/jhoicas/inventario-local/internal/application/usecase"
	"github.com/jhoicas/inventario-local/internal/domain/repository"
	"github.com/jhoicas/inventario-local/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/inventario-local/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-local/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-local/internal/infrastructure/scanner"
	"github.com/jhoicas/inventario-local/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/inventario-local/internal/interfaces/http"
	"github.com/jhoicas/inventario-local/pkg/config"
	"github.com/jhoicas/inventario-local/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		blobs repository.BlobStore
		kv    *postgres.KVStore
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		blobs = storage.NewMemoryStore()
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		kv = postgres.NewKVStore(pool)
		if err := kv.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("crear tabla kv_store")
		}
		blobs = kv
	default:
		fs, err := storage.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			log.Fatal().Err(err).Msg("directorio de datos")
		}
		blobs = fs
	}

	recognizer := scanner.NewChannelRecognizer(cfg.Scan.Enabled, 16)
	feed := notify.NewFeed(cfg.App.FeedSize)

	inventoryUC := usecase.NewInventoryUseCase(usecase.Deps{
		Store:      inventory.NewItemStore(blobs, cfg.Storage.Key),
		Recognizer: recognizer,
		ScanConfig: scan.Config{
			MinConfidence: cfg.Scan.MinConfidence,
			IdleTimeout:   cfg.Scan.IdleTimeout,
		},
		Notifier:  notify.Fanout{notify.NewLogNotifier(log.Component("notify")), feed},
		Confirmer: httpRouter.RequestConfirmer{},
		Reports:   infrapdf.NewMarotoReportGenerator(cfg.App.Name),
		Log:       log.Component("inventory"),
	})

	// Un catálogo ilegible no detiene el arranque: se inicia vacío y se avisa al operador.
	_ = inventoryUC.Load(ctx)
	if kv != nil {
		// El valor calculado en PostgreSQL sobre el blob debe coincidir con el del catálogo cargado.
		stored, err := kv.CatalogValue(ctx, cfg.Storage.Key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("valor del catálogo en PostgreSQL")
		case !stored.Equal(inventoryUC.Stats().TotalValue):
			log.Warn().Str("stored", stored.String()).Str("loaded", inventoryUC.Stats().TotalValue.String()).Msg("el valor persistido no coincide con el catálogo cargado")
		default:
			log.Info().Str("total_value", stored.String()).Msg("valor del catálogo verificado")
		}
	}
	if cfg.App.SeedDemo {
		if added, err := inventoryUC.SeedDemo(ctx); err != nil {
			log.Error().Err(err).Msg("datos de demostración")
		} else if len(added) > 0 {
			log.Info().Int("items", len(added)).Msg("datos de demostración agregados")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "items": len(inventoryUC.Items())})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC: inventoryUC,
		Recognizer:  recognizer,
		Feed:        feed,
		Categories:  cfg.App.Categories,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	inventoryUC.CloseScan()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
