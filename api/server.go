package api

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/models"
	"github.com/BrickVest/BrickVest-Backend/providers"
	"github.com/BrickVest/BrickVest-Backend/providers/chain"
	"github.com/BrickVest/BrickVest-Backend/providers/kyc"
	"github.com/BrickVest/BrickVest-Backend/services"
	"github.com/BrickVest/BrickVest-Backend/services/disbursement"
	"github.com/BrickVest/BrickVest-Backend/services/ledger"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/tasks"
	"github.com/BrickVest/BrickVest-Backend/services/notification"
	"github.com/BrickVest/BrickVest-Backend/services/resilience"
	"github.com/BrickVest/BrickVest-Backend/services/voucher"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// / If there's a better place to access this
// / TODO, I feel the config should be the one accessible like this
var TokenController *utils.JWTToken

type Server struct {
	router    *gin.Engine
	store     *db.Store
	config    *utils.Config
	logger    *logging.Logger
	provider  *providers.ProviderService
	redis     *services.RedisService
	scheduler *tasks.TaskScheduler

	ledger        *ledger.LedgerService
	disbursements *disbursement.DisbursementService
	schedules     *disbursement.ScheduleService
	vouchers      *voucher.VoucherService
	notifications *notification.Notification
	oracle        chain.Oracle
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	store := db.NewStore(conn)
	g := gin.Default()
	l := logging.NewLogger()
	p := providers.NewProviderService()

	redisService, err := services.NewRedisService(&services.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
	})
	if err != nil {
		l.WithError(err).Warn("Redis unavailable, request rate limiting is disabled")
		redisService = nil
	}

	chainService := chain.NewChainService(c, l)
	p.AddProvider(chainService.Provider())
	kycService := kyc.NewKYCService(c, l)
	p.AddProvider(kycService.Provider())

	retrier := resilience.NewRetrier(store, l,
		c.RetryMaxAttempts, time.Duration(c.RetryBaseDelayMS)*time.Millisecond)
	breaker := resilience.NewBreaker(resilience.BreakerConfig{
		Name:             providers.Chain,
		FailureThreshold: c.BreakerFailures,
		RecoveryTimeout:  time.Duration(c.BreakerTimeoutSecs) * time.Second,
		OnStateChange: func(from, to resilience.State) {
			l.Warn(fmt.Sprintf("chain circuit breaker moved from %s to %s", from, to))
		},
	})

	ledgerService := ledger.NewLedgerService(store, l)
	notificationService := notification.NewNotificationService(store, c, l)
	disbursementService := disbursement.NewDisbursementService(store, ledgerService, notificationService, l)
	scheduleService := disbursement.NewScheduleService(store, disbursementService, l)
	voucherService, err := voucher.NewVoucherService(c, store, kycService, chainService, breaker, retrier, l)
	if err != nil {
		panic(fmt.Sprintf("Could not initialise voucher authority: %v", err))
	}

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())
	if redisService != nil {
		g.Use(RateLimitMiddleware(redisService, l))
	}

	TokenController = utils.NewJWTToken(c)

	return &Server{
		router:        g,
		store:         store,
		config:        c,
		logger:        l,
		provider:      p,
		redis:         redisService,
		scheduler:     tasks.NewTaskScheduler(l),
		ledger:        ledgerService,
		disbursements: disbursementService,
		schedules:     scheduleService,
		vouchers:      voucherService,
		notifications: notificationService,
		oracle:        chainService,
	}
}

func (s *Server) Start() {

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to BrickVest!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Wallet{}.router(s)
	Subscription{}.router(s)
	Disbursement{}.router(s)
	Schedule{}.router(s)
	Voucher{}.router(s)
	Notifications{}.router(s)

	s.startScheduleSweep()

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}

// startScheduleSweep runs the due-schedule sweep on its configured
// interval for the lifetime of the server.
func (s *Server) startScheduleSweep() {
	interval := time.Duration(s.config.SweepIntervalSecs) * time.Second

	_, err := s.scheduler.AddTask("schedule-sweep", "Disbursement Schedule Sweep",
		func(ctx context.Context) error {
			_, err := s.schedules.Sweep(ctx, time.Now())
			return err
		}, interval)
	if err != nil {
		s.logger.WithError(err).Error("could not register schedule sweep")
		return
	}

	if err := s.scheduler.ScheduleTask("schedule-sweep", interval); err != nil {
		s.logger.WithError(err).Error("could not start schedule sweep")
	}
}

func (s *Server) Stop() {
	s.scheduler.Stop()
	if s.redis != nil {
		s.redis.Close()
	}
}
