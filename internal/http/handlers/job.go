package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursejobs/internal/http/response"
	"github.com/yungbote/coursejobs/internal/services"
)

type JobHandler struct {
	jobs services.SubmissionService
}

func NewJobHandler(jobs services.SubmissionService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobs.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
