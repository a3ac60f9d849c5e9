package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"exam-service/internal/db"
	"exam-service/internal/event"
	"exam-service/internal/handlers"
	"exam-service/internal/repository"
	"exam-service/internal/selection"
	"exam-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "exam_service"
	}

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(dbName)

	ticketRepo := repository.NewTicketRepository(database)
	examRepo := repository.NewExamRepository(database)
	marathonRepo := repository.NewMarathonRepository(database)
	sessionRepo := repository.NewRandomSessionRepository(database)
	userRepo := repository.NewUserRepository(database)

	sampler := selection.NewSampler()

	examService := service.NewExamService(examRepo, ticketRepo, userRepo, sampler, nil)
	marathonService := service.NewMarathonService(marathonRepo, ticketRepo, userRepo, sampler, nil)
	practiceService := service.NewPracticeService(sessionRepo, ticketRepo, userRepo, sampler, nil)

	examHandler := handlers.NewExamHandler(examService)
	marathonHandler := handlers.NewMarathonHandler(marathonService)
	practiceHandler := handlers.NewPracticeHandler(practiceService)

	// Public routes
	publicExam := r.Group("/public/exam")
	{
		publicExam.GET("/answers", func(c *gin.Context) {
			examHandler.GetAnswerKey(c)
			if publisher != nil {
				publisher.Publish("exam.answers_viewed", nil)
			}
		})
	}

	setupExamRoutes(r, examHandler, publisher)
	setupMarathonRoutes(r, marathonHandler, publisher)
	setupPracticeRoutes(r, practiceHandler, publisher)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":6680"
	}
	r.Run(addr)
}

// requireUser rejects requests the gateway forwarded without an identity.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func setupExamRoutes(r *gin.Engine, examHandler *handlers.ExamHandler, publisher *event.EventPublisher) {
	protectedExam := r.Group("/protected/exam")
	protectedExam.Use(requireUser())
	{
		protectedExam.POST("/", func(c *gin.Context) {
			examHandler.CreateExam(c)
			if publisher != nil {
				publisher.Publish("exam.created", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedExam.POST("/:id/answer", func(c *gin.Context) {
			examHandler.SubmitAnswer(c)
			if publisher != nil {
				publisher.Publish("exam.answer_submitted", gin.H{
					"exam_id":   c.Param("id"),
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedExam.GET("/:id/results", examHandler.GetResults)
		protectedExam.GET("/:id/share", func(c *gin.Context) {
			examHandler.GetShareTemplate(c)
			if publisher != nil {
				publisher.Publish("exam.shared", gin.H{
					"exam_id":   c.Param("id"),
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedExam.POST("/ticket/select", func(c *gin.Context) {
			examHandler.SelectTicket(c)
			if publisher != nil {
				publisher.Publish("exam.ticket_selected", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
	}
}

func setupMarathonRoutes(r *gin.Engine, marathonHandler *handlers.MarathonHandler, publisher *event.EventPublisher) {
	protectedMarathon := r.Group("/protected/marathon")
	protectedMarathon.Use(requireUser())
	{
		protectedMarathon.POST("/", func(c *gin.Context) {
			marathonHandler.CreateMarathon(c)
			if publisher != nil {
				publisher.Publish("marathon.created", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedMarathon.POST("/:id/answer", func(c *gin.Context) {
			marathonHandler.SubmitAnswer(c)
			if publisher != nil {
				publisher.Publish("marathon.answer_submitted", gin.H{
					"marathon_id": c.Param("id"),
					"user_id":     c.GetHeader("X-User-ID"),
					"timestamp":   time.Now(),
				})
			}
		})

		protectedMarathon.GET("/progress", marathonHandler.GetProgress)
		protectedMarathon.GET("/:id/results", marathonHandler.GetResults)
		protectedMarathon.GET("/:id/unanswered", marathonHandler.GetUnanswered)

		protectedMarathon.POST("/:id/unanswered/answer", func(c *gin.Context) {
			marathonHandler.SubmitUnansweredAnswer(c)
			if publisher != nil {
				publisher.Publish("marathon.answer_submitted", gin.H{
					"marathon_id": c.Param("id"),
					"user_id":     c.GetHeader("X-User-ID"),
					"timestamp":   time.Now(),
				})
			}
		})
	}
}

func setupPracticeRoutes(r *gin.Engine, practiceHandler *handlers.PracticeHandler, publisher *event.EventPublisher) {
	protectedPractice := r.Group("/protected/practice")
	protectedPractice.Use(requireUser())
	{
		protectedPractice.POST("/", func(c *gin.Context) {
			practiceHandler.CreateSession(c)
			if publisher != nil {
				publisher.Publish("practice.created", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		protectedPractice.POST("/:id/answer", func(c *gin.Context) {
			practiceHandler.SubmitAnswer(c)
			if publisher != nil {
				publisher.Publish("practice.answer_submitted", gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})
	}
}
