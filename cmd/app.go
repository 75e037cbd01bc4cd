package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/access"
	"github.com/frahmantamala/employee-dashboard/internal/auth"
	authPostgres "github.com/frahmantamala/employee-dashboard/internal/auth/postgres"
	"github.com/frahmantamala/employee-dashboard/internal/clock"
	clockPostgres "github.com/frahmantamala/employee-dashboard/internal/clock/postgres"
	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/frahmantamala/employee-dashboard/internal/leave"
	leavePostgres "github.com/frahmantamala/employee-dashboard/internal/leave/postgres"
	"github.com/frahmantamala/employee-dashboard/internal/payroll"
	payrollPostgres "github.com/frahmantamala/employee-dashboard/internal/payroll/postgres"
	"github.com/frahmantamala/employee-dashboard/internal/user"
	userPostgres "github.com/frahmantamala/employee-dashboard/internal/user/postgres"
	"github.com/frahmantamala/employee-dashboard/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// application holds the services shared by the server, seed and roles
// commands.
type application struct {
	Config   *internal.Config
	Logger   *slog.Logger
	SQLX     *sqlx.DB
	Gorm     *gorm.DB
	Bus      *events.EventBus
	Location *time.Location

	Users    *user.Service
	Auth     *auth.Service
	Claims   auth.ClaimStoreAPI
	Clock    *clock.Service
	Leave    *leave.Service
	Payroll  *payroll.Service
	Resolver *access.Resolver

	RoleMirror *auth.RoleMirror
	Notifier   *auth.SessionNotifier
}

// newApplication wires every service. With syncEvents the identity and leave
// services publish through the bus synchronously, which batch commands need.
func newApplication(cfg *internal.Config, syncEvents bool) (*application, error) {
	lg := logger.LoggerWrapper()

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	sdb, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(sdb, cfg.App.Env)
	if err != nil {
		_ = sdb.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	var publisher events.Publisher = bus
	if syncEvents {
		publisher = events.SyncPublisher{Bus: bus}
	}

	users := user.NewService(userPostgres.NewUserRepository(gdb), lg)
	claims := authPostgres.NewClaimRepository(gdb)

	bcryptCost := cfg.Security.BCryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewCredentialRepository(gdb), claims, users, tokens, publisher, bcryptCost, lg)

	app := &application{
		Config:   cfg,
		Logger:   lg,
		SQLX:     sdb,
		Gorm:     gdb,
		Bus:      bus,
		Location: loc,

		Users:    users,
		Auth:     authService,
		Claims:   claims,
		Clock:    clock.NewService(clockPostgres.NewClockRepository(gdb), clockPostgres.NewReportStore(sdb), lg, loc),
		Leave:    leave.NewService(leavePostgres.NewLeaveRepository(gdb), users, publisher, lg),
		Payroll:  payroll.NewService(payrollPostgres.NewPayrollRepository(gdb), users, lg),
		Resolver: access.NewResolver(users, lg),

		RoleMirror: auth.NewRoleMirror(users, claims, lg),
		Notifier:   auth.NewSessionNotifier(cfg.Server.AllowedOrigins, lg),
	}

	app.RoleMirror.Register(bus)
	app.Notifier.Register(bus)

	return app, nil
}

func (a *application) Close() error {
	return a.SQLX.Close()
}

// initDB opens the pgx pool that both sqlx and gorm share.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(sdb *sqlx.DB, env string) (*gorm.DB, error) {
	level := gormLogger.Warn
	if env == "development" {
		level = gormLogger.Info
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sdb.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}
	return gdb, nil
}
