package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/pool-booking-backend/internal/api"
	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/availability"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/closedslot"
	"github.com/nekogravitycat/pool-booking-backend/internal/db"
	"github.com/nekogravitycat/pool-booking-backend/internal/group"
	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Cache        cache.Cache
	CacheTTL     time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	JWTManager  *auth.JWTManager
	UserService user.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNop()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	tx := db.NewTransactor(cfg.DBPool)
	invalidator := cache.NewDayInvalidator(cfg.Cache)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, invalidator)

	// Removing a lane or slot sweeps groups its cascade emptied.
	groupRepo := group.NewPgxRepository(cfg.DBPool)

	// Inventory Module
	inventoryRepo := inventory.NewPgxRepository(cfg.DBPool)
	inventoryService := inventory.NewService(inventoryRepo, tx, invalidator, groupRepo)

	// Trainer Module
	trainerRepo := trainer.NewPgxRepository(cfg.DBPool)
	trainerService := trainer.NewService(trainerRepo, inventoryService, invalidator)

	// Closed Slot Module
	closedSlotRepo := closedslot.NewPgxRepository(cfg.DBPool)
	closedSlotService := closedslot.NewService(closedSlotRepo, tx, inventoryService, invalidator)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, tx, userService, inventoryService, trainerService, closedSlotService, invalidator)

	// Group Module
	groupService := group.NewService(groupRepo, tx, bookingService, userService, inventoryService, invalidator)

	// Availability Module
	availabilityService := availability.NewService(inventoryService, bookingService, closedSlotService, trainerService, cfg.Cache, cfg.CacheTTL)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		InventoryService:    inventoryService,
		TrainerService:      trainerService,
		ClosedSlotService:   closedSlotService,
		BookingService:      bookingService,
		GroupService:        groupService,
		AvailabilityService: availabilityService,
		JWTManager:          jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:      router,
		JWTManager:  jwtManager,
		UserService: userService,
	}
}
