package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) ListStudents(c *gin.Context) {
	students, err := h.services.Directory.Students(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]studentView, 0, len(students))
	for _, s := range students {
		items = append(items, newStudentView(s))
	}
	c.JSON(http.StatusOK, items)
}

func (h HandlerSet) ListTeachers(c *gin.Context) {
	teachers, err := h.services.Directory.Teachers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]teacherView, 0, len(teachers))
	for _, t := range teachers {
		items = append(items, newTeacherView(t))
	}
	c.JSON(http.StatusOK, items)
}

func (h HandlerSet) Statistics(c *gin.Context) {
	stats, err := h.services.Directory.Statistics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
