package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"dormops-backend/config"
	"dormops-backend/internal/authz"
	"dormops-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(mw.RequireAuth(h.jwt))
	{
		authed.GET("/me/dorms", h.GetMyDorms)
		authed.PUT("/subscriptions", h.PutSubscription)
		authed.DELETE("/subscriptions", h.DeleteSubscription)
		authed.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	dorm := authed.Group("/dorms/:dorm_id")
	dorm.Use(mw.ResolveMembership(h.store))
	{
		dorm.GET("/whoami", h.WhoAmI)
		dorm.GET("/dashboard", mw.Require(authz.OpOccupantView), caching, h.GetDashboard)

		dorm.GET("/occupants", mw.Require(authz.OpOccupantView), h.ListOccupants)
		dorm.POST("/occupants", mw.Require(authz.OpOccupantManage), h.CreateOccupant)
		dorm.PATCH("/occupants/:id", mw.Require(authz.OpOccupantManage), h.UpdateOccupant)
		dorm.GET("/occupants/:id/balance", mw.Require(authz.OpLedgerView), h.GetOccupantBalance)

		dorm.GET("/rooms", mw.Require(authz.OpOccupantView), h.ListRooms)
		dorm.POST("/rooms", mw.Require(authz.OpOccupantManage), h.CreateRoom)
		dorm.POST("/assignments", mw.Require(authz.OpRoomAssign), h.AssignRoom)

		dorm.GET("/fine-rules", mw.Require(authz.OpFineView), h.ListFineRules)
		dorm.POST("/fine-rules", mw.Require(authz.OpFineIssue), h.CreateFineRule)
		dorm.GET("/fines", mw.Require(authz.OpFineView), h.ListFines)
		dorm.POST("/fines", mw.Require(authz.OpFineIssue), h.IssueFine)
		dorm.POST("/fines/:id/void", mw.Require(authz.OpFineVoid), h.VoidFine)

		dorm.GET("/ledger", mw.Require(authz.OpLedgerView), h.ListLedger)
		dorm.GET("/ledger/summary", mw.Require(authz.OpLedgerView), caching, h.GetLedgerSummary)
		dorm.POST("/ledger", mw.Require(authz.OpLedgerWrite), h.AddLedgerEntry)
		dorm.POST("/ledger/:id/void", mw.Require(authz.OpLedgerWrite), h.VoidLedgerEntry)

		dorm.GET("/committees", mw.Require(authz.OpCommitteeView), h.ListCommittees)
		dorm.POST("/committees", mw.Require(authz.OpCommitteeManage), h.CreateCommittee)
		dorm.POST("/committees/:id/members", mw.Require(authz.OpCommitteeManage), h.AddCommitteeMember)
		dorm.POST("/committees/:id/expenses", mw.Require(authz.OpCommitteeManage), h.AddCommitteeExpense)

		dorm.GET("/events", mw.Require(authz.OpEventView), h.ListEvents)
		dorm.POST("/events", mw.Require(authz.OpEventManage), h.CreateEvent)
		dorm.POST("/events/:id/publish", mw.Require(authz.OpEventManage), h.PublishEvent)
		dorm.POST("/events/:id/teams", mw.Require(authz.OpEventManage), h.CreateEventTeam)
		dorm.POST("/events/:id/categories", mw.Require(authz.OpEventManage), h.CreateScoreCategory)
		dorm.POST("/events/:id/scores", mw.Require(authz.OpScoreWrite), h.AwardScore)
		dorm.GET("/events/:id/leaderboard", mw.Require(authz.OpEventView), caching, h.GetLeaderboard)

		dorm.GET("/evaluations", mw.Require(authz.OpEvaluationView), h.ListEvaluationCycles)
		dorm.POST("/evaluations", mw.Require(authz.OpEvaluationManage), h.CreateEvaluationCycle)
		dorm.POST("/evaluations/:id/submissions", mw.Require(authz.OpEvaluationSubmit), h.SubmitEvaluation)
		dorm.GET("/evaluations/:id/results", mw.Require(authz.OpEvaluationView), h.GetEvaluationResults)

		dorm.GET("/semesters", mw.Require(authz.OpOccupantView), h.ListSemesters)
		dorm.POST("/semesters", mw.Require(authz.OpSemesterManage), h.CreateSemester)
		dorm.POST("/semesters/:id/archive", mw.Require(authz.OpSemesterArchive), h.ArchiveSemester)

		dorm.GET("/cleaning", mw.Require(authz.OpCleaningView), h.ListCleaningTasks)
		dorm.POST("/cleaning", mw.Require(authz.OpCleaningManage), h.CreateCleaningTask)
		dorm.DELETE("/cleaning/:id", mw.Require(authz.OpCleaningManage), h.DeleteCleaningTask)

		dorm.POST("/organizer/draft", mw.Require(authz.OpOrganizerInvoke), h.DraftEventConcept)
	}

	return r
}
