package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screenforge/internal/artifact"
	"screenforge/internal/gateway/config"
	"screenforge/internal/gateway/handler"
	"screenforge/internal/gateway/server"
	"screenforge/internal/llm"
	"screenforge/internal/pipeline"
	"screenforge/internal/preset"
	"screenforge/internal/qa"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	client, err := llm.NewGeminiClient(ctx, cfg.Model.APIKey, cfg.Model.ScanModel)
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}
	defer client.Close()

	wrapped := llm.Wrap(client,
		llm.WithLogging(nil),
		llm.Retry(3, 300*time.Millisecond),
	)

	var assembleClient llm.Client
	if cfg.Model.AssembleModel != cfg.Model.ScanModel {
		ac, err := llm.NewGeminiClient(ctx, cfg.Model.APIKey, cfg.Model.AssembleModel)
		if err != nil {
			log.Fatalf("assemble client: %v", err)
		}
		defer ac.Close()
		assembleClient = llm.Wrap(ac,
			llm.WithLogging(nil),
			llm.Retry(3, 300*time.Millisecond),
		)
	}

	pipe := pipeline.New(wrapped, pipeline.Config{
		ScanTimeout:     cfg.Pipeline.ScanTimeout,
		AssembleTimeout: cfg.Pipeline.AssembleTimeout,
		CacheTTL:        cfg.Pipeline.CacheTTL,
		AssembleClient:  assembleClient,
	})

	presets := preset.Builtin()
	if cfg.Presets != "" {
		presets, err = preset.LoadFile(cfg.Presets)
		if err != nil {
			log.Fatalf("presets: %v", err)
		}
	}

	var store artifact.Store = artifact.Noop{}
	if cfg.Artifact.Enabled {
		s3, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			log.Printf("artifact store disabled: %v", err)
		} else {
			store = s3
		}
	}

	reconstruct := &handler.ReconstructHandler{
		Pipeline:  pipe,
		Presets:   presets,
		Artifacts: store,
		Hub:       handler.NewHub(),
	}
	verify := &handler.VerifyHandler{Tester: qa.New(wrapped)}

	srv := server.New(cfg.Port, server.NewMux(reconstruct, verify))

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
