package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"

	config "github.com/qrcodesmart/qr-services/configs"
	"github.com/qrcodesmart/qr-services/internal/db"
	handlers "github.com/qrcodesmart/qr-services/internal/qrsvc/handlers"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/service"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/store"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "qr"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// mongo connection
	mongoDb, cancelMongo, err := db.ConnectMongo(os.Getenv("MONGO_URI"))
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	defer cancelMongo()
	log.Printf("mongo connection established successfully")

	if err := db.CreateTTLIndexForCollection(mongoDb, store.CheckoutCollection); err != nil {
		log.Fatalf("Failed to ensure checkout session TTL index: %v", err)
	}

	// pg connection for scan history
	dbpool, err := db.ConnectPostgres()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	userStore := store.NewUserStore(mongoDb)
	recordStore := store.NewRecordStore(mongoDb)
	checkoutStore := store.NewCheckoutStore(mongoDb)
	scanLogStore := store.NewScanLogStore(dbpool)

	tokenAuth := jwtauth.New("HS256", []byte(os.Getenv("JWT_SECRET_KEY")), nil)

	authService := service.NewAuthService(userStore, tokenAuth, os.Getenv("ADMIN_EMAIL"))
	qrService := service.NewQrService(recordStore, userStore, scanLogStore)

	provider := service.NewHostedCheckout(os.Getenv("CHECKOUT_BASE_URL"), os.Getenv("CHECKOUT_API_KEY"))
	paymentService := service.NewPaymentService(userStore, checkoutStore, provider,
		os.Getenv("CHECKOUT_WEBHOOK_SECRET"), os.Getenv("CHECKOUT_SUCCESS_URL"), os.Getenv("CHECKOUT_CANCEL_URL"))

	adminService := service.NewAdminService(userStore, recordStore, scanLogStore)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(tokenAuth, authService, qrService, paymentService, adminService)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("QR_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
