package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetdesk-api/internal/config"
	"github.com/fleetdesk-api/internal/domain"
	"github.com/fleetdesk-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/fleetdesk-api/internal/infrastructure/jwt"
	s3infra "github.com/fleetdesk-api/internal/infrastructure/s3"
	"github.com/fleetdesk-api/internal/infrastructure/sns"
	"github.com/fleetdesk-api/internal/pending"
	"github.com/fleetdesk-api/internal/ratelimit"
	transporthttp "github.com/fleetdesk-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// S3 store for profile images.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// OTPs go out over SNS only in production; elsewhere they are logged so
	// the flow stays testable without an AWS account.
	var smsSender sns.SMSSender
	if cfg.IsProduction() {
		sender, err := sns.NewSender(cfg)
		if err != nil {
			log.Fatalf("sns sender: %v", err)
		}
		smsSender = sender
	} else {
		smsSender = sns.NewLogSender()
	}

	pendingCache := pending.New(cfg.PendingRetention, cfg.PendingSweepInterval)
	defer pendingCache.Stop()

	limiter := ratelimit.New(map[ratelimit.Bucket]ratelimit.BucketConfig{
		ratelimit.BucketOTP:   {Window: cfg.OTPRateWindow, Max: cfg.OTPRateMax},
		ratelimit.BucketLogin: {Window: cfg.LoginRateWindow, Max: cfg.LoginRateMax},
	})
	defer limiter.Stop()

	deps := &transporthttp.Deps{
		AccountRepos: map[domain.Role]transporthttp.AccountRepository{
			domain.RoleOrganization: dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Organizations, domain.RoleOrganization),
			domain.RoleManager:      dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Managers, domain.RoleManager),
			domain.RoleSecurity:     dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.SecurityStaff, domain.RoleSecurity),
		},
		VesselStore: dynamo.NewRecordStore[domain.Vessel](dynamoClient, cfg.DynamoTables.Vessels, "vessel_id"),
		ObjectStore: s3Store,
		SMSSender:   smsSender,
		JWTProvider: jwtProvider,
		Pending:     pendingCache,
		Limiter:     limiter,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
