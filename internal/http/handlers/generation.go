package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/http/response"
	"github.com/yungbote/coursejobs/internal/services"
)

type GenerationHandler struct {
	jobs services.SubmissionService
}

func NewGenerationHandler(jobs services.SubmissionService) *GenerationHandler {
	return &GenerationHandler{jobs: jobs}
}

// POST /api/ai/courses/generate
func (h *GenerationHandler) GenerateCourse(c *gin.Context) {
	var req jobs.CourseGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	job, err := h.jobs.SubmitCourseGeneration(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}

// POST /api/ai/lectures/generate
func (h *GenerationHandler) GenerateLecture(c *gin.Context) {
	var req jobs.LectureGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	job, err := h.jobs.SubmitLectureGeneration(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}

// POST /api/ai/sub-lectures/generate
func (h *GenerationHandler) GenerateSubLecture(c *gin.Context) {
	var req jobs.SubLectureGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	job, err := h.jobs.SubmitSubLectureGeneration(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}
