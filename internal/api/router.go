package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/pool-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/pool-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot"
	closedslotHttp "github.com/nekogravitycat/pool-booking-backend/internal/closedslot/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/group"
	groupHttp "github.com/nekogravitycat/pool-booking-backend/internal/group/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	inventoryHttp "github.com/nekogravitycat/pool-booking-backend/internal/inventory/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
	trainerHttp "github.com/nekogravitycat/pool-booking-backend/internal/trainer/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/pool-booking-backend/internal/user/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	InventoryService    inventory.Service
	TrainerService      trainer.Service
	ClosedSlotService   closedslot.Service
	BookingService      booking.Service
	GroupService        group.Service
	AvailabilityService availability.Service
	JWTManager          *auth.JWTManager
}

func corsOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8081"}
	}
	var origins []string
	for _, o := range strings.Split(cfg.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, logging, auth) and registers the routes of every module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Custom binding tags live with the DTOs that use them.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := userHttp.RegisterValidators(v); err != nil {
			log.Fatal().Err(err).Msg("failed to register validators")
		}
	}

	r := gin.New()
	r.Use(logger.GinMiddleware(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins(cfg)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(corsConfig.AllowOrigins) == 0 {
		log.Warn().Msg("PROD_ORIGINS is empty; cross-origin requests will be rejected")
		corsConfig.AllowOrigins = []string{"null"}
	}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := RequireAdmin(cfg.UserService)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	inventoryHandler := inventoryHttp.NewHandler(cfg.InventoryService)
	trainerHandler := trainerHttp.NewHandler(cfg.TrainerService)
	closedSlotHandler := closedslotHttp.NewHandler(cfg.ClosedSlotService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)
	groupHandler := groupHttp.NewHandler(cfg.GroupService, cfg.UserService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		inventoryHttp.RegisterRoutes(v1, inventoryHandler, authMiddleware, adminMiddleware)
		trainerHttp.RegisterRoutes(v1, trainerHandler, authMiddleware, adminMiddleware)
		closedslotHttp.RegisterRoutes(v1, closedSlotHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		groupHttp.RegisterRoutes(v1, groupHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware)
	}

	return r
}
