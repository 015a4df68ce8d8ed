// Package controllers file: controllers/schedule_controller.go
package controllers

import (
	"net/http"

	"badminton-club/club"
	"badminton-club/fees"
	"badminton-club/logger"
	"badminton-club/models"
	"badminton-club/services"

	"github.com/gin-gonic/gin"
)

// qrCodeSize is the edge length in pixels of schedule QR codes.
const qrCodeSize = 300

// ScheduleController serves play sessions, votes and guests.
type ScheduleController struct {
	ClubService    services.ClubServiceInterface
	ApplicationURL string
	Encode         services.QREncoder // nil uses go-qrcode
}

// NewScheduleController creates a ScheduleController. applicationURL is the
// public base URL that schedule QR codes link to.
func NewScheduleController(service services.ClubServiceInterface, applicationURL string) *ScheduleController {
	logger.Debug.Println("NewScheduleController: Initializing ScheduleController")
	return &ScheduleController{ClubService: service, ApplicationURL: applicationURL}
}

// scheduleView is a schedule with the counters the list page shows.
type scheduleView struct {
	models.Schedule
	AttendingCount int          `json:"attendingCount"`
	HasUnpaid      bool         `json:"hasUnpaid"`
	MyVote         *models.Vote `json:"myVote,omitempty"`
}

type scheduleRequest struct {
	CourtName string `json:"courtName" binding:"required"`
	Location  string `json:"location"`
	PlayTime  string `json:"playTime"`
	PlayDate  string `json:"playDate" binding:"required"`
}

type voteRequest struct {
	Attending *bool `json:"attending" binding:"required"`
}

type guestRequest struct {
	Name string `json:"name" binding:"required"`
}

type completeRequest struct {
	Quantity            int64  `json:"quantity"`
	PricePerShuttlecock *int64 `json:"pricePerShuttlecock"`
}

type scheduleQuery struct {
	Status string `form:"status"`
	Date   string `form:"date"`
}

// ---------------- listing ----------------

// List returns schedules filtered by status and date, with tab counters.
func (sc *ScheduleController) List(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var q scheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	var date models.Date
	if q.Date != "" {
		d, err := models.ParseDate(q.Date)
		if err != nil {
			respondError(c, models.NewError(models.CodeInvalidInput, "date must be YYYY-MM-DD"))
			return
		}
		date = d
	}

	state := sc.ClubService.State()
	filtered := club.FilterSchedules(state.Schedules, state.Users, state.Payments, club.ParseScheduleStatus(q.Status), date)
	views := make([]scheduleView, 0, len(filtered))
	for _, s := range filtered {
		views = append(views, sc.view(state, s, user.ID))
	}

	c.JSON(http.StatusOK, gin.H{
		"schedules": views,
		"counts":    club.CountSchedules(state.Schedules),
	})
}

// Get returns one schedule.
func (sc *ScheduleController) Get(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	state := sc.ClubService.State()
	s, found := state.Schedule(c.Param("id"))
	if !found {
		respondError(c, models.WithMetadata(models.CodeNotFound, "schedule not found", map[string]string{"scheduleId": c.Param("id")}))
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": sc.view(state, s, user.ID)})
}

func (sc *ScheduleController) view(state club.State, s models.Schedule, userID string) scheduleView {
	v := scheduleView{
		Schedule:       s,
		AttendingCount: club.AttendingCount(s),
		HasUnpaid:      club.HasUnpaidForSchedule(s, state.Users, state.Payments),
	}
	if vote, ok := club.UserVote(s, userID); ok {
		v.MyVote = &vote
	}
	return v
}

// ---------------- schedule management ----------------

// Create adds a new open schedule.
func (sc *ScheduleController) Create(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	s, err := sc.ClubService.AddSchedule(c.Request.Context(), user.ID, club.ScheduleInput{
		CourtName: req.CourtName,
		Location:  req.Location,
		PlayTime:  req.PlayTime,
		PlayDate:  req.PlayDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info.Printf("[CreateSchedule] %s created schedule %s on %s", user.ID, s.ID, s.PlayDate)
	c.JSON(http.StatusCreated, gin.H{"schedule": s})
}

// Complete closes a schedule, bills attendees and records the shuttlecock expense.
// The price defaults to the usual shuttlecock price when omitted.
func (sc *ScheduleController) Complete(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	price := int64(fees.DefaultShuttlecockPrice)
	if req.PricePerShuttlecock != nil {
		price = *req.PricePerShuttlecock
	}

	s, err := sc.ClubService.CompleteSchedule(c.Request.Context(), user.ID, c.Param("id"), req.Quantity, price)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info.Printf("[CompleteSchedule] Schedule %s completed: %d shuttlecocks, %s",
		s.ID, req.Quantity, fees.FormatVND(s.ShuttlecockInfo.TotalCost))
	c.JSON(http.StatusOK, gin.H{"schedule": s})
}

// ---------------- votes and guests ----------------

// Vote records whether the signed-in user attends.
func (sc *ScheduleController) Vote(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	scheduleID := c.Param("id")
	if err := sc.ClubService.CastVote(c.Request.Context(), scheduleID, user.ID, *req.Attending); err != nil {
		respondError(c, err)
		return
	}
	s, _ := sc.ClubService.State().Schedule(scheduleID)
	c.JSON(http.StatusOK, gin.H{"schedule": s})
}

// RemoveVote drops a member's or guest's vote.
func (sc *ScheduleController) RemoveVote(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	scheduleID := c.Param("id")
	if err := sc.ClubService.RemoveVote(c.Request.Context(), user.ID, scheduleID, c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	s, _ := sc.ClubService.State().Schedule(scheduleID)
	c.JSON(http.StatusOK, gin.H{"schedule": s})
}

// AddGuest adds an attending guest to a schedule.
func (sc *ScheduleController) AddGuest(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var req guestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	vote, err := sc.ClubService.AddGuest(c.Request.Context(), user.ID, c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vote": vote})
}

// ToggleGuestPayment flips a guest's paid flag, creating the payment when needed.
func (sc *ScheduleController) ToggleGuestPayment(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	p, err := sc.ClubService.ToggleGuestPayment(c.Request.Context(), user.ID, c.Param("id"), c.Param("guestId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// ---------------- sharing ----------------

// QRCode serves a PNG QR code linking to the schedule page.
func (sc *ScheduleController) QRCode(c *gin.Context) {
	scheduleID := c.Param("id")
	if _, ok := sc.ClubService.State().Schedule(scheduleID); !ok {
		respondError(c, models.WithMetadata(models.CodeNotFound, "schedule not found", map[string]string{"scheduleId": scheduleID}))
		return
	}

	png, err := services.GenerateQRCode(sc.ApplicationURL, scheduleID, qrCodeSize, qrCodeSize, sc.Encode)
	if err != nil {
		logger.Error.Printf("[QRCode] Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"schedule-"+scheduleID+".png\"")
	c.Data(http.StatusOK, "image/png", png)
}
