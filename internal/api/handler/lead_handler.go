package handler

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/response"
	"CAConnect/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadSvc       service.LeadService
	engagementSvc service.LeadEngagementService
}

func NewLeadHandler(leadSvc service.LeadService, engagementSvc service.LeadEngagementService) *LeadHandler {
	return &LeadHandler{
		leadSvc:       leadSvc,
		engagementSvc: engagementSvc,
	}
}

func (s *LeadHandler) CreateLead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.LeadCreateDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	leadID, err := s.leadSvc.CreateLead(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{
		"leadId": leadID,
	})
}

// GetOpenLeads lists the lead board. Accountants see their own viewed state
// per lead.
func (s *LeadHandler) GetOpenLeads(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.LeadQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	leads, err := s.leadSvc.GetOpenLeads(c.Request.Context(), userID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, leads)
}

func (s *LeadHandler) GetMyLeads(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, pageSize := pagination(c)
	leads, err := s.leadSvc.GetMyLeads(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, leads)
}

func (s *LeadHandler) CloseLead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil || leadID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.leadSvc.CloseLead(c.Request.Context(), userID, leadID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ViewLead records the accountant's view and returns the lead with contact
// details revealed.
func (s *LeadHandler) ViewLead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil || leadID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	lead, err := s.engagementSvc.RecordLeadView(c.Request.Context(), userID, leadID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lead)
}

func (s *LeadHandler) GetViewerCount(c *gin.Context) {
	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil || leadID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	count, err := s.engagementSvc.GetViewerCount(c.Request.Context(), leadID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{
		"viewerCount": count,
	})
}

func (s *LeadHandler) HideLead(c *gin.Context) {
	s.setHidden(c, true)
}

func (s *LeadHandler) UnhideLead(c *gin.Context) {
	s.setHidden(c, false)
}

func (s *LeadHandler) setHidden(c *gin.Context, hidden bool) {
	userID := c.GetUint64("user_id")
	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil || leadID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.engagementSvc.SetLeadHidden(c.Request.Context(), userID, leadID, hidden); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *LeadHandler) UpdateNotes(c *gin.Context) {
	userID := c.GetUint64("user_id")
	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil || leadID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.EngagementNoteDTO
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.engagementSvc.UpdateLeadNotes(c.Request.Context(), userID, leadID, req.Notes); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *LeadHandler) GetEngagedLeads(c *gin.Context) {
	userID := c.GetUint64("user_id")
	includeHidden := c.DefaultQuery("includeHidden", "false") == "true"
	page, pageSize := pagination(c)
	leads, err := s.engagementSvc.GetEngagedLeads(c.Request.Context(), userID, includeHidden, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, leads)
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
