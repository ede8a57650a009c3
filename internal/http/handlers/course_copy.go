package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursejobs/internal/domain/jobs"
	"github.com/yungbote/coursejobs/internal/http/response"
	"github.com/yungbote/coursejobs/internal/services"
)

type CourseCopyHandler struct {
	jobs services.SubmissionService
}

func NewCourseCopyHandler(jobs services.SubmissionService) *CourseCopyHandler {
	return &CourseCopyHandler{jobs: jobs}
}

type copyCourseBody struct {
	TargetClientID     string `json:"targetClientId"`
	NewCourseTitle     string `json:"newCourseTitle"`
	CopyPublishedState bool   `json:"copyPublishedState"`
}

// POST /api/courses/:id/copy
func (h *CourseCopyHandler) CopyCourse(c *gin.Context) {
	var body copyCourseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	job, err := h.jobs.SubmitCourseCopy(c.Request.Context(), jobs.CourseCopyRequest{
		SourceCourseID:     c.Param("id"),
		TargetTenantID:     body.TargetClientID,
		NewCourseTitle:     body.NewCourseTitle,
		CopyPublishedState: body.CopyPublishedState,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}
