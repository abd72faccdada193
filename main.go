package main

import (
	"log"
	"os"

	"dance-platform/internal"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db := internal.MustDB(dbURL)
	defer db.Close()

	st := internal.NewPgStore(db)

	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/auth/register", internal.Register(db))
		api.POST("/auth/login", internal.Login(db, secret))
		api.POST("/auth/logout", internal.Logout())
		api.GET("/me", internal.Auth(secret), internal.Me(db))

		api.GET("/events", internal.Auth(secret), internal.ListEvents(db))
		api.GET("/events/:id/entries", internal.Auth(secret), internal.ListEventEntries(st))

		api.GET("/rankings", internal.Auth(secret), internal.Rankings(st))
		api.GET("/fee", internal.Auth(secret), internal.GetFee())
		api.POST("/nationals-fee", internal.Auth(secret), internal.NationalsFee(st))

		// judges
		judge := api.Group("/judge", internal.Auth(secret), internal.RequireJudge())
		{
			judge.POST("/scores", internal.JudgeSubmitScore(db, st))
		}

		// admin
		admin := api.Group("/admin", internal.Auth(secret), internal.RequireAdmin())
		{
			admin.GET("/logs", internal.AdminLogs(db))

			admin.POST("/entries/:id/item-number", internal.AdminAssignItemNumber(db, st))
			admin.PUT("/events/:id/reorder", internal.AdminReorderPerformances(db, st))
			admin.POST("/sync-item-numbers", internal.AdminSyncItemNumbers(db, st))

			admin.POST("/judge-assignments", internal.AdminAssignJudge(db, st))
			admin.POST("/judge-assignments/region", internal.AdminAssignJudgeToRegion(db, st))
			admin.DELETE("/judge-assignments/:id", internal.AdminRemoveAssignment(db, st))

			admin.PUT("/scores/:id", internal.AdminOverrideScoreHandler(db, st))
			admin.POST("/performances/:id/withdraw", internal.AdminWithdrawPerformance(db, st))
		}
	}

	log.Printf("Listening on :%s", port)
	_ = r.Run(":" + port)
}
