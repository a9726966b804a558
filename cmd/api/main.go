package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dispocam/internal/adapter"
	"dispocam/internal/config"
	"dispocam/internal/database"
	domcamera "dispocam/internal/domain/camera"
	"dispocam/internal/domain/photo"
	"dispocam/internal/middleware"
	"dispocam/internal/modules/camera"
	"dispocam/internal/modules/capture"
	"dispocam/internal/modules/gallery"
	"dispocam/internal/modules/live"
	dispsync "dispocam/internal/modules/sync"
	"dispocam/internal/offline"
	jwtsvc "dispocam/internal/pkg/jwt"
	"dispocam/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// The on-device database holds the camera cache, the photo cache and the
	// offline queue. It must always open; remote targets are optional.
	localDB, err := database.Connect(cfg.OfflineDBPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := localDB.AutoMigrate(&domcamera.Camera{}, &photo.Photo{}); err != nil {
		log.Fatal(err)
	}
	queue, err := offline.NewStore(localDB)
	if err != nil {
		log.Fatal(err)
	}

	cameraCache := domcamera.NewRepository(localDB)
	photoCache := photo.NewRepository(localDB)

	timeouts := adapter.Timeouts{Read: cfg.RPCReadTimeout, Upload: cfg.RPCUploadTimeout}

	var rpcTarget adapter.Adapter
	var pinger dispsync.Pinger
	if cfg.RPCBaseURL != "" {
		rpc := adapter.NewRPC(cfg.RPCBaseURL, timeouts)
		rpcTarget = rpc
		pinger = rpc
	}

	var directTarget adapter.Adapter
	if cfg.DatabaseURL != "" {
		remoteDB, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
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
			log.Fatal(err)
		}
		directTarget = adapter.NewDirect(remoteDB, objects, timeouts)
	}

	if rpcTarget == nil && directTarget == nil {
		log.Println("no remote target configured; uploads go straight to the offline queue")
	}

	hub := live.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var liveness dispsync.LivenessPort = dispsync.StaticLiveness(false)
	var health *dispsync.HealthChecker
	var reconciler *dispsync.Reconciler
	if pinger != nil {
		health = dispsync.NewHealthChecker(pinger, cfg.HealthInterval, func() {
			if reconciler != nil {
				reconciler.Notify()
			}
		})
		liveness = health
	}

	orch := dispsync.NewOrchestrator(dispsync.OrchestratorDeps{
		RPC:      rpcTarget,
		Direct:   directTarget,
		Queue:    queue,
		Cache:    cameraCache,
		Photos:   photoCache,
		Liveness: liveness,
		Events:   hub,
	})
	reconciler = dispsync.NewReconciler(orch, queue, hub, cfg.ReconcileInterval)

	if health != nil {
		go health.Run(ctx)
	}
	go reconciler.Run(ctx)

	j := jwtsvc.New(cfg.JWTSecret, cfg.GuestTokenTTL)

	cameraService := camera.NewService(cameraCache, rpcTarget, directTarget, liveness, j)
	cameraHandler := camera.NewHandler(cameraService)

	galleryService := gallery.NewService(rpcTarget, directTarget, cameraCache, photoCache, queue, liveness)
	galleryHandler := gallery.NewHandler(galleryService)

	captureHandler := capture.NewHandler(orch)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		cameraHandler.RegisterRoutes(v1)
		v1.GET("/ws/cameras/:id", hub.Serve)

		// public, but a joined session unlocks hidden photos
		viewing := v1.Group("/")
		viewing.Use(middleware.GuestAuthOptional(j))
		{
			galleryHandler.RegisterRoutes(viewing)
		}

		// protected (capture endpoints)
		protected := v1.Group("/")
		protected.Use(middleware.GuestAuth(j))
		{
			captureHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
