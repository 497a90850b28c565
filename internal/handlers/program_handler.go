package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"internship-platform/internal/services"
)

type ProgramHandler struct {
	programService *services.ProgramService
}

func NewProgramHandler(programService *services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// GetPrograms lists all active programs
func (h *ProgramHandler) GetPrograms(c *gin.Context) {
	programs, err := h.programService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    programs,
		"count":   len(programs),
	})
}

// GetProgramByID returns a single active program
func (h *ProgramHandler) GetProgramByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid program id")
		return
	}

	program, err := h.programService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    program,
	})
}

// CreateProgram creates a program (admin only)
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var input services.ProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	program, err := h.programService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    program,
	})
}

// UpdateProgram rewrites a program (admin only)
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid program id")
		return
	}

	var input services.ProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	program, err := h.programService.Update(c.Request.Context(), uint(id), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    program,
	})
}
