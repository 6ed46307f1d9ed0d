package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	app "github.com/mohammadpnp/account-import/internal/application/account"
	"github.com/mohammadpnp/account-import/internal/application/auth"
	"github.com/mohammadpnp/account-import/internal/config"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"github.com/mohammadpnp/account-import/internal/infrastructure/db/models"
	"github.com/mohammadpnp/account-import/internal/infrastructure/federated"
	infrafile "github.com/mohammadpnp/account-import/internal/infrastructure/file"
	"github.com/mohammadpnp/account-import/internal/infrastructure/firebase"
	"github.com/mohammadpnp/account-import/internal/infrastructure/lock"
	"github.com/mohammadpnp/account-import/internal/infrastructure/metrics"
	"github.com/mohammadpnp/account-import/internal/infrastructure/repository"
	"github.com/mohammadpnp/account-import/internal/infrastructure/session"
	"github.com/mohammadpnp/account-import/internal/infrastructure/spreadsheet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Container holds the use cases shared by the API server and the CLI.
type Container struct {
	Config   config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Watcher  *auth.StateWatcher
	Sessions *session.Manager

	RunImport        app.RunImport
	PasswordSignIn   auth.SignInWithPassword
	CredentialSignIn auth.SignInWithCredential
	// GetProfile is nil when profiles live outside the database.
	GetProfile app.GetProfileByID

	closers []func()
}

type backend struct {
	identity domain.IdentityProvider
	profiles domain.ProfileStore
	query    domain.ProfileQueryRepository
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Watcher:  auth.NewStateWatcher(),
	}
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(c.Registry)

	sessions, err := session.NewManager(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}
	c.Sessions = sessions

	httpClient := &http.Client{Timeout: cfg.HTTP.ClientTimeout}

	var b backend
	switch cfg.Identity.Backend {
	case config.BackendFirebase:
		b = c.firebaseBackend(ctx, httpClient)
	default:
		b, err = c.postgresBackend(ctx)
		if err != nil {
			c.Close()
			return nil, err
		}
	}

	guard, err := c.importGuard()
	if err != nil {
		c.Close()
		return nil, err
	}

	importer := app.NewImportAccounts(b.identity, b.profiles, recorder, logger.Named("import"))
	c.RunImport = app.NewRunImport(
		infrafile.NewLocalSource(cfg.Import.BaseDir),
		spreadsheet.NewDecoder(),
		importer,
		app.RunImportConfig{Encoding: cfg.Import.Encoding, Guard: guard},
		logger.Named("import"),
	)

	c.PasswordSignIn = auth.NewSignInWithPassword(b.identity, sessions, c.Watcher, recorder, logger.Named("auth"))
	c.CredentialSignIn = auth.NewSignInWithCredential(
		c.verifiers(ctx, httpClient),
		b.identity,
		b.profiles,
		sessions,
		c.Watcher,
		recorder,
		logger.Named("auth"),
	)

	if b.query != nil {
		c.GetProfile = app.NewGetProfileByID(b.query)
	}

	return c, nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) postgresBackend(ctx context.Context) (backend, error) {
	db, err := gorm.Open(postgres.Open(c.Config.Database.URL), &gorm.Config{TranslateError: true})
	if err != nil {
		return backend{}, fmt.Errorf("failed to connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		c.closers = append(c.closers, func() { _ = sqlDB.Close() })
	}
	if err := models.AutoMigrate(db); err != nil {
		return backend{}, err
	}

	pool, err := pgxpool.New(ctx, c.Config.Database.URL)
	if err != nil {
		return backend{}, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	c.closers = append(c.closers, pool.Close)

	return backend{
		identity: repository.NewAccountRepository(db),
		profiles: repository.NewProfileRepository(pool),
		query:    repository.NewProfileQueryRepository(db),
	}, nil
}

func (c *Container) firebaseBackend(ctx context.Context, httpClient *http.Client) backend {
	cfg := c.Config.Firebase

	storeClient := httpClient
	if cfg.AccessToken != "" {
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		storeClient = oauth2.NewClient(tokenCtx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}))
	}

	return backend{
		identity: firebase.NewIdentityClient(httpClient, cfg.IdentityURL, cfg.APIKey),
		profiles: firebase.NewProfileStore(storeClient, cfg.FirestoreURL, cfg.ProjectID, cfg.APIKey),
	}
}

func (c *Container) importGuard() (app.RunGuard, error) {
	if c.Config.Redis.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(c.Config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	c.closers = append(c.closers, func() { _ = client.Close() })

	return lock.NewRedisGuard(client, lock.DefaultKey, c.Config.Import.LockTTL, c.Logger.Named("lock")), nil
}

// verifiers builds the federated credential checkers. Google is only enabled
// with a client ID and skipped when its discovery document is unreachable.
func (c *Container) verifiers(ctx context.Context, httpClient *http.Client) map[domain.ProviderID]domain.CredentialVerifier {
	verifiers := map[domain.ProviderID]domain.CredentialVerifier{
		domain.ProviderFacebook: federated.NewFacebookVerifier(httpClient, c.Config.Facebook.GraphURL),
	}

	if c.Config.Google.ClientID != "" {
		google, err := federated.NewGoogleVerifier(ctx, c.Config.Google.Issuer, c.Config.Google.ClientID)
		if err != nil {
			c.Logger.Warn("google sign in disabled", zap.Error(err))
		} else {
			verifiers[domain.ProviderGoogle] = google
		}
	}

	return verifiers
}
