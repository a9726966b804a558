package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"dispocam/internal/adapter"
	"dispocam/internal/config"
	"dispocam/internal/database"
	"dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	dispsync "dispocam/internal/modules/sync"
	"dispocam/internal/offline"
	"dispocam/internal/storage"
)

// One-shot drain of the offline queue. Run it when the device is back on a
// good connection and you do not want to wait for the background interval.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	localDB, err := database.Connect(cfg.OfflineDBPath)
	if err != nil {
		log.Fatalf("local db open failed: %v", err)
	}
	if err := localDB.AutoMigrate(&camera.Camera{}, &photo.Photo{}); err != nil {
		log.Fatalf("local db migrate failed: %v", err)
	}
	queue, err := offline.NewStore(localDB)
	if err != nil {
		log.Fatalf("offline store open failed: %v", err)
	}

	timeouts := adapter.Timeouts{Read: cfg.RPCReadTimeout, Upload: cfg.RPCUploadTimeout}

	var rpcTarget adapter.Adapter
	if cfg.RPCBaseURL != "" {
		rpcTarget = adapter.NewRPC(cfg.RPCBaseURL, timeouts)
	}

	var directTarget adapter.Adapter
	if cfg.DatabaseURL != "" {
		remoteDB, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("remote db connect failed: %v", err)
		}
		objects, err := storage.NewS3Store(storage.S3Config{
			Bucket:     cfg.S3Bucket,
			Region:     cfg.S3Region,
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			log.Fatalf("object store init failed: %v", err)
		}
		directTarget = adapter.NewDirect(remoteDB, objects, timeouts)
	}

	if rpcTarget == nil && directTarget == nil {
		log.Fatal("no remote target configured (set RPC_BASE_URL or DATABASE_URL); nothing to drain to")
	}

	orch := dispsync.NewOrchestrator(dispsync.OrchestratorDeps{
		RPC:      rpcTarget,
		Direct:   directTarget,
		Queue:    queue,
		Cache:    camera.NewRepository(localDB),
		Photos:   photo.NewRepository(localDB),
		Liveness: dispsync.StaticLiveness(true),
	})
	reconciler := dispsync.NewReconciler(orch, queue, nil, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	synced, err := reconciler.DrainOnce(ctx)
	if err != nil {
		log.Fatalf("drain failed: %v", err)
	}

	remaining, err := queue.ListAll(ctx)
	if err != nil {
		log.Fatalf("queue recount failed: %v", err)
	}

	log.Printf("drain completed: synced=%d remaining=%d", synced, len(remaining))
}
