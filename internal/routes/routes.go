package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
	domainBooking "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/handlers"
	"github.com/BruksfildServices01/tutor-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/tutor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tutor-scheduler/internal/logger"
	"github.com/BruksfildServices01/tutor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tutor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tutor-scheduler/internal/notify"
	ucBooking "github.com/BruksfildServices01/tutor-scheduler/internal/usecase/booking"
	ucReview "github.com/BruksfildServices01/tutor-scheduler/internal/usecase/review"
	ucTutor "github.com/BruksfildServices01/tutor-scheduler/internal/usecase/tutor"
)

// Deps are the process-wide services built in main. Redis and Store are
// optional.
type Deps struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Audit    *audit.Dispatcher
	Notifier *notify.Dispatcher
	Gateway  domainBooking.PaymentGateway
	Redis    *redis.Client
	Store    ucTutor.ObjectStore
}

// RegisterRoutes wires repositories, use cases and handlers onto r. The
// returned expirer is scheduled by main.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) *ucBooking.ExpireBookings {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestIDMiddleware(),
		logger.GinMiddleware(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.CORSMiddleware(cfg.CORS.AllowedOrigins),
	)

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	reviewRepo := infraRepo.NewReviewGormRepository(db)
	tutorRepo := infraRepo.NewTutorGormRepository(db)

	var (
		tutorCache  ucTutor.Cache
		invalidator ucReview.CacheInvalidator
		locker      ucBooking.SlotLocker
	)
	if deps.Redis != nil {
		tc := cache.NewTutorCache(deps.Redis, cfg.Redis.CacheTTL, deps.Metrics)
		tutorCache = tc
		invalidator = tc
		locker = cache.NewSlotLocker(deps.Redis, cfg.Redis.SlotLockTTL)
	}

	policy := domainBooking.Policy{CancellationNotice: cfg.CancellationNotice}

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		locker,
		deps.Audit,
		deps.Notifier,
		deps.Metrics,
		deps.Logger,
	)

	transitionBookingUC := ucBooking.NewTransitionBooking(
		bookingRepo,
		policy,
		deps.Audit,
		deps.Notifier,
		deps.Metrics,
		deps.Logger,
	)

	paymentsUC := ucBooking.NewPayments(
		bookingRepo,
		deps.Gateway,
		cfg.Payment.Currency,
		deps.Audit,
		deps.Notifier,
		deps.Logger,
	)

	queryBookingsUC := ucBooking.NewQueryBookings(bookingRepo)
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo)
	expireBookingsUC := ucBooking.NewExpireBookings(bookingRepo, transitionBookingUC, deps.Logger)

	// ======================================================
	// USE CASES — REVIEWS / TUTORS
	// ======================================================
	createReviewUC := ucReview.NewCreateReview(
		reviewRepo,
		invalidator,
		deps.Audit,
		deps.Notifier,
		deps.Metrics,
		deps.Logger,
	)
	listReviewsUC := ucReview.NewListReviews(reviewRepo)

	searchTutorsUC := ucTutor.NewSearchTutors(tutorRepo, tutorCache, deps.Logger)
	profilesUC := ucTutor.NewProfiles(tutorRepo, tutorCache, deps.Audit, deps.Logger)
	avatarUC := ucTutor.NewUploadAvatar(tutorRepo, deps.Store, tutorCache, deps.Audit, deps.Logger)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, deps.Audit, deps.Logger)
	userHandler := handlers.NewUserHandler(searchTutorsUC, profilesUC, avatarUC)
	subjectHandler := handlers.NewSubjectHandler(db, deps.Audit)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		transitionBookingUC,
		paymentsUC,
		queryBookingsUC,
		availabilityUC,
	)

	reviewHandler := handlers.NewReviewHandler(createReviewUC, listReviewsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	limiter := middleware.RateLimit(cfg.RateLimit)

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", limiter, authHandler.Register)
		api.POST("/auth/login", limiter, authHandler.Login)

		// ------------------------------
		// PUBLIC READS
		// ------------------------------
		api.GET("/users/tutors", userHandler.SearchTutors)
		api.GET("/subjects", subjectHandler.List)
		api.GET("/subjects/:id", subjectHandler.Get)
		api.GET("/reviews/tutor/:id", reviewHandler.ForTutor)
		api.GET("/users/:id", userHandler.Get)
		api.GET("/users/:id/availability", userHandler.GetAvailability)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/auth/me", authHandler.Me)
			secured.GET("/auth/logout", authHandler.Logout)

			secured.PUT("/users/:id", userHandler.Update)
			secured.POST("/users/:id/avatar", userHandler.UploadAvatar)
			secured.PUT("/users/:id/availability", userHandler.ReplaceAvailability)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", limiter, bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/export", bookingHandler.Export)
			secured.GET("/bookings/availability", bookingHandler.Availability)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PUT("/bookings/:id", bookingHandler.Update)
			secured.POST("/bookings/:id/payment", bookingHandler.StartPayment)
			secured.PUT("/bookings/:id/confirm-payment", bookingHandler.Pay)
			secured.PUT("/bookings/:id/pay", bookingHandler.Pay)
			secured.GET("/bookings/:id/receipt", bookingHandler.Receipt)

			// ------------------------------
			// REVIEWS
			// ------------------------------
			secured.POST("/reviews", reviewHandler.Create)
			secured.GET("/reviews", reviewHandler.Mine)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/subjects", subjectHandler.Create)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}

	return expireBookingsUC
}
