package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civic-stack/grievance-portal/src/portal/complaints"
	"github.com/civic-stack/grievance-portal/src/portal/escalation"
)

type Admin struct {
	svc *complaints.Service
	esc *escalation.Service
}

func NewAdmin(svc *complaints.Service, esc *escalation.Service) Admin {
	return Admin{svc: svc, esc: esc}
}

func (h Admin) ListAll(c *gin.Context) {
	cs, err := h.svc.ListAll()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": cs})
}

func (h Admin) SetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	complaint, err := h.svc.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

func (h Admin) AddMessage(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	msg, err := h.svc.AppendMessage(c.Param("id"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h Admin) Escalate(c *gin.Context) {
	var req struct {
		AuthorityName  string `json:"authorityName" binding:"required"`
		AuthorityEmail string `json:"authorityEmail" binding:"required"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	ident := CurrentIdentity(c)
	esc, err := h.esc.Escalate(c.Request.Context(), c.Param("id"), ident.ID,
		req.AuthorityName, req.AuthorityEmail, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"escalation": esc})
}

func (h Admin) ListEscalations(c *gin.Context) {
	es, err := h.esc.ListAll()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"escalations": es})
}
