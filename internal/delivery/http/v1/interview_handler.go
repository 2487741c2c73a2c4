package v1

import (
	"net/http"
	"strconv"
	"time"

	"go-hiring-backend/internal/delivery/http/response"
	"go-hiring-backend/internal/domain"
	"go-hiring-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

// NewInterviewHandler registers interview routes
func NewInterviewHandler(r *gin.RouterGroup, interviewUC domain.InterviewUsecase) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	// Employer routes
	employers := r.Group("/employers")
	{
		employers.POST("/applications/:id/interview", handler.ScheduleDirect)
		employers.POST("/applications/:id/interview/slots", handler.ProposeSlots)
	}

	// Candidate routes
	candidates := r.Group("/candidates")
	{
		candidates.POST("/interviews/:id/select", handler.SelectSlot)
	}

	// Routes shared by both parties
	r.GET("/applications/:id/interview", handler.GetForApplication)
	interviews := r.Group("/interviews")
	{
		interviews.GET("", handler.ListMine)
		interviews.GET("/room/:slug", handler.GetBySlug)
		interviews.PATCH("/:id/status", handler.UpdateStatus)
		interviews.POST("/:id/start", handler.MarkStarted)
		interviews.PATCH("/:id/notes", handler.UpdateNotes)
	}
}

// SlotRequest is one proposed time slot
type SlotRequest struct {
	StartAt         time.Time `json:"start_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,oneof=15 30 45 60"`
}

// ProposeSlotsRequest is the payload for the negotiation path
type ProposeSlotsRequest struct {
	Slots             []SlotRequest `json:"slots" binding:"required,min=1,max=5,dive"`
	Timezone          string        `json:"timezone" binding:"required"`
	SelectionDeadline *time.Time    `json:"selection_deadline"`
}

// ProposeSlots godoc
// @Summary      Propose interview time slots
// @Description  Offer the candidate 1-5 time slots to choose from (Employer only)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Application ID"
// @Param        body  body      ProposeSlotsRequest  true  "Proposed slots"
// @Success      201   {object}  response.Response{data=domain.NegotiationSummary}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /employers/applications/{id}/interview/slots [post]
// @Security     BearerAuth
func (h *InterviewHandler) ProposeSlots(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != "employer" && role != "admin" {
		c.Error(apperror.Forbidden("Only employers can propose interview times"))
		return
	}

	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	var req ProposeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	in := domain.ProposeSlotsInput{
		ApplicationID:     applicationID,
		Timezone:          req.Timezone,
		SelectionDeadline: req.SelectionDeadline,
	}
	for _, s := range req.Slots {
		in.Slots = append(in.Slots, domain.SlotProposal{StartAt: s.StartAt, DurationMinutes: s.DurationMinutes})
	}

	summary, err := h.interviewUC.ProposeSlots(c, userID, in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Interview slots proposed", summary)
}

// ScheduleDirectRequest is the payload for the single fixed time path
type ScheduleDirectRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=15,max=240"`
	Timezone        string    `json:"timezone"`
}

// ScheduleDirect godoc
// @Summary      Schedule an interview at a fixed time
// @Description  Create or reschedule an interview directly without slot negotiation (Employer only)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Application ID"
// @Param        body  body      ScheduleDirectRequest  true  "Interview time"
// @Success      201   {object}  response.Response{data=domain.Interview}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /employers/applications/{id}/interview [post]
// @Security     BearerAuth
func (h *InterviewHandler) ScheduleDirect(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != "employer" && role != "admin" {
		c.Error(apperror.Forbidden("Only employers can schedule interviews"))
		return
	}

	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	var req ScheduleDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	iv, err := h.interviewUC.ScheduleDirect(c, userID, domain.ScheduleDirectInput{
		ApplicationID:   applicationID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Timezone:        req.Timezone,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Interview scheduled", iv)
}

// SelectSlotRequest is the candidate's slot choice
type SelectSlotRequest struct {
	SlotID   string `json:"slot_id" binding:"required"`
	Timezone string `json:"timezone"`
}

// SelectSlot godoc
// @Summary      Select a proposed interview slot
// @Description  Commit to one of the proposed time slots (Candidate only)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Interview ID"
// @Param        body  body      SelectSlotRequest  true  "Slot choice"
// @Success      200   {object}  response.Response{data=domain.Interview}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /candidates/interviews/{id}/select [post]
// @Security     BearerAuth
func (h *InterviewHandler) SelectSlot(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))
	if role != "candidate" {
		c.Error(apperror.Forbidden("Only candidates can select interview times"))
		return
	}

	interviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid interview ID"))
		return
	}

	var req SelectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	iv, err := h.interviewUC.SelectSlot(c, userID, interviewID, req.SlotID, req.Timezone)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview time confirmed", iv)
}

// GetBySlug godoc
// @Summary      Get interview by room slug
// @Description  Fetch an interview through its public room slug (named parties only)
// @Tags         interviews
// @Produce      json
// @Param        slug  path      string  true  "Room slug"
// @Success      200   {object}  response.Response{data=domain.InterviewDetail}
// @Failure      404   {object}  response.Response
// @Router       /interviews/room/{slug} [get]
// @Security     BearerAuth
func (h *InterviewHandler) GetBySlug(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	detail, err := h.interviewUC.GetBySlug(c, userID, c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview retrieved", detail)
}

// GetForApplication godoc
// @Summary      Get an application's current interview
// @Description  Fetch the active interview attached to an application (named parties only)
// @Tags         interviews
// @Produce      json
// @Param        id  path      int  true  "Application ID"
// @Success      200 {object}  response.Response{data=domain.Interview}
// @Failure      404 {object}  response.Response
// @Router       /applications/{id}/interview [get]
// @Security     BearerAuth
func (h *InterviewHandler) GetForApplication(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid application ID"))
		return
	}

	iv, err := h.interviewUC.GetForApplication(c, userID, applicationID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview retrieved", iv)
}

// ListMine godoc
// @Summary      List my interviews
// @Description  List interviews for the authenticated owner, with status/time filters
// @Tags         interviews
// @Produce      json
// @Param        status  query     string  false  "Status filter"
// @Param        from    query     string  false  "Earliest scheduled time (RFC3339)"
// @Param        to      query     string  false  "Latest scheduled time (RFC3339)"
// @Success      200     {object}  response.Response{data=[]domain.Interview}
// @Failure      401     {object}  response.Response
// @Router       /interviews [get]
// @Security     BearerAuth
func (h *InterviewHandler) ListMine(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	f := domain.InterviewFilter{Status: c.Query("status")}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.Error(apperror.BadRequest("Invalid 'from' timestamp"))
			return
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.Error(apperror.BadRequest("Invalid 'to' timestamp"))
			return
		}
		f.To = &t
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	interviews, err := h.interviewUC.ListForOwner(c, userID, role, f)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interviews retrieved", interviews)
}

// UpdateInterviewStatusRequest is the manual status edit payload
type UpdateInterviewStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_progress completed cancelled"`
}

// UpdateStatus godoc
// @Summary      Update interview status
// @Description  Manually move the interview through its lifecycle (either party or admin)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                           true  "Interview ID"
// @Param        body  body      UpdateInterviewStatusRequest  true  "New status"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/status [patch]
// @Security     BearerAuth
func (h *InterviewHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	role := c.GetString(string(domain.KeyUserRole))

	interviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid interview ID"))
		return
	}

	var req UpdateInterviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.interviewUC.UpdateStatus(c, userID, role, interviewID, req.Status); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview status updated", nil)
}

// MarkStarted godoc
// @Summary      Mark interview as started
// @Description  Record the observed start of a scheduled interview
// @Tags         interviews
// @Produce      json
// @Param        id  path      int  true  "Interview ID"
// @Success      200 {object}  response.Response
// @Failure      404 {object}  response.Response
// @Failure      409 {object}  response.Response
// @Router       /interviews/{id}/start [post]
// @Security     BearerAuth
func (h *InterviewHandler) MarkStarted(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	interviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid interview ID"))
		return
	}

	if err := h.interviewUC.MarkStarted(c, userID, interviewID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview started", nil)
}

// UpdateNotesRequest is the notes payload
type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"required,max=4000"`
}

// UpdateNotes godoc
// @Summary      Update interview notes
// @Description  Attach free-text notes to a non-terminal interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Interview ID"
// @Param        body  body      UpdateNotesRequest  true  "Notes"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /interviews/{id}/notes [patch]
// @Security     BearerAuth
func (h *InterviewHandler) UpdateNotes(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	interviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid interview ID"))
		return
	}

	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.interviewUC.UpdateNotes(c, userID, interviewID, req.Notes); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview notes updated", nil)
}
