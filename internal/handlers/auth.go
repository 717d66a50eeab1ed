package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unisms/internal/service"
)

type studentSignupRequest struct {
	PermanentID    string `json:"ip" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Level          string `json:"level" binding:"required"`
	Specialization string `json:"specialization"`
}

func (h HandlerSet) SignupStudent(c *gin.Context) {
	var req studentSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.services.Auth.SignupStudent(c.Request.Context(), service.StudentSignupInput{
		PermanentID:    req.PermanentID,
		Phone:          req.Phone,
		Level:          req.Level,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Inscription réussie",
		"studentId": id,
	})
}

type teacherSignupRequest struct {
	PermanentID    string `json:"ip" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Grade          string `json:"grade" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
}

func (h HandlerSet) SignupTeacher(c *gin.Context) {
	var req teacherSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.services.Auth.SignupTeacher(c.Request.Context(), service.TeacherSignupInput{
		PermanentID:    req.PermanentID,
		Phone:          req.Phone,
		Grade:          req.Grade,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Inscription réussie",
		"teacherId": id,
	})
}

// loginRequest is checked by the auth service so that blank credentials
// answer like wrong ones.
type loginRequest struct {
	Identifier      string `json:"identifier"`
	PasswordOrPhone string `json:"passwordOrPhone"`
	UserType        string `json:"userType"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Secret:     req.PasswordOrPhone,
		UserType:   req.UserType,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	var user any
	switch {
	case result.Admin != nil:
		user = newAdminView(*result.Admin)
	case result.Student != nil:
		user = newStudentView(*result.Student)
	case result.Teacher != nil:
		user = newTeacherView(*result.Teacher)
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  user,
	})
}
