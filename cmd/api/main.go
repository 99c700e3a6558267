package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gymstudio/internal/config"
	"gymstudio/internal/database"
	"gymstudio/internal/middleware"
	"gymstudio/internal/modules/appointment"
	"gymstudio/internal/modules/attendance"
	"gymstudio/internal/modules/lead"
	"gymstudio/internal/modules/livefeed"
	"gymstudio/internal/modules/payment"
	"gymstudio/internal/modules/registration"
	"gymstudio/internal/notification"
	jwtsvc "gymstudio/internal/pkg/jwt"
	"gymstudio/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatal(err)
	}
	gwCfg, err := config.LoadGatewayConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	payRepo := repository.NewPaymentRepository(db)
	attRepo := repository.NewAttendanceRepository(db)
	clientRepo := repository.NewClientRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	var sender notification.Sender
	if cfg.AMQPURL != "" {
		amqpSender, err := notification.NewAMQPSender(cfg.AMQPURL, "gymstudio.notifications")
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = amqpSender.Close() }()
		sender = amqpSender
		log.Printf("notifications: amqp exchange=gymstudio.notifications")
	} else {
		sender = notification.NewLogSender()
		log.Printf("notifications: log sender (AMQP_URL not set)")
	}

	hub := livefeed.NewHub()
	defer hub.Close()

	gateway := payment.NewHTTPGateway(gwCfg)

	regService := registration.NewService(eventRepo, regRepo, sender)
	regHandler := registration.NewHandler(regService)

	apptService := appointment.NewService(apptRepo, clientRepo)
	apptHandler := appointment.NewHandler(apptService)

	payService := payment.NewService(regRepo, eventRepo, payRepo, gateway, sender, gwCfg, log.Printf)
	payHandler := payment.NewHandler(payService)

	attService := attendance.NewService(attRepo, apptRepo, hub, log.Printf)
	attHandler := attendance.NewHandler(attService)

	leadService := lead.NewService(leadRepo, log.Printf)
	leadHandler := lead.NewHandler(leadService)

	feedHandler := livefeed.NewHandler(hub, log.Printf)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		regHandler.RegisterRoutes(v1)
		payHandler.RegisterRoutes(v1)
		apptHandler.RegisterPublicRoutes(v1)
		leadHandler.RegisterPublicRoutes(v1)

		// staff
		staff := v1.Group("/")
		staff.Use(middleware.JWTAuth(j))
		{
			regHandler.RegisterStaffRoutes(staff)
			apptHandler.RegisterStaffRoutes(staff)
			attHandler.RegisterRoutes(staff)
			leadHandler.RegisterStaffRoutes(staff)
			feedHandler.RegisterRoutes(staff)
		}
	}

	log.Printf("listening on :%s env=%s", cfg.Port, cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
