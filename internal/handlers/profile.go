package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unisms/internal/middleware"
	"unisms/internal/service"
)

type studentProfileRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	Level          string `json:"level"`
	Specialization string `json:"specialization"`
}

func (h HandlerSet) UpdateStudentProfile(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	var req studentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	student, err := h.services.Profiles.UpdateStudent(c.Request.Context(), claims.UserID, service.StudentProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Level:          req.Level,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profil mis à jour",
		"user":    newStudentView(student),
	})
}

type teacherProfileRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	Grade          string `json:"grade"`
	Specialization string `json:"specialization"`
}

func (h HandlerSet) UpdateTeacherProfile(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	var req teacherProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	teacher, err := h.services.Profiles.UpdateTeacher(c.Request.Context(), claims.UserID, service.TeacherProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Grade:          req.Grade,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profil mis à jour",
		"user":    newTeacherView(teacher),
	})
}
