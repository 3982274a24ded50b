package webserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civic-stack/grievance-portal/src/portal/authz"
	"github.com/civic-stack/grievance-portal/src/portal/complaints"
	"github.com/civic-stack/grievance-portal/src/portal/media"
	"github.com/civic-stack/grievance-portal/src/portal/perr"
)

const maxMediaBytes = 10 << 20

type Complaints struct {
	svc   *complaints.Service
	media media.Store // nil when no blob store is configured
}

func NewComplaints(svc *complaints.Service, mediaStore media.Store) Complaints {
	return Complaints{svc: svc, media: mediaStore}
}

// Submit accepts JSON or multipart form submissions; a multipart "media"
// file is uploaded to the blob store first. Upload failures degrade to a
// complaint without media, never to a rejected submission.
func (h Complaints) Submit(c *gin.Context) {
	ident := CurrentIdentity(c)

	var in complaints.SubmitInput
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req struct {
			SubmissionType string `json:"submissionType" binding:"required"`
			Subject        string `json:"subject" binding:"required"`
			Description    string `json:"description" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
			return
		}
		in = complaints.SubmitInput{
			SubmissionType: req.SubmissionType,
			Subject:        req.Subject,
			Description:    req.Description,
		}
	} else {
		in = complaints.SubmitInput{
			SubmissionType: c.PostForm("submissionType"),
			Subject:        c.PostForm("subject"),
			Description:    c.PostForm("description"),
		}
		in.MediaURL = h.uploadMedia(c)
	}
	in.SubmitterID = ident.ID

	complaint, err := h.svc.Submit(in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"complaint": complaint})
}

// uploadMedia returns the stored media URL, or "" when there is no usable
// upload.
func (h Complaints) uploadMedia(c *gin.Context) string {
	if h.media == nil {
		return ""
	}
	fh, err := c.FormFile("media")
	if err != nil {
		return ""
	}
	if fh.Size > maxMediaBytes {
		log.Printf("media upload rejected: %s exceeds %d bytes", fh.Filename, int64(maxMediaBytes))
		return ""
	}
	f, err := fh.Open()
	if err != nil {
		log.Printf("ERROR: open media upload: %v", perr.Dependency("media", err))
		return ""
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxMediaBytes))
	if err != nil {
		log.Printf("ERROR: read media upload: %v", perr.Dependency("media", err))
		return ""
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()
	url, err := h.media.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		log.Printf("ERROR: media upload: %v", perr.Dependency("media", err))
		return ""
	}
	return url
}

func (h Complaints) ListMine(c *gin.Context) {
	ident := CurrentIdentity(c)
	cs, err := h.svc.ListForOwner(ident.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": cs})
}

func (h Complaints) Get(c *gin.Context) {
	complaint, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !authz.CanRead(CurrentIdentity(c), complaint) {
		writeError(c, perr.Authorization("not authorized for this complaint"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": complaint})
}

// Status is the owner-facing lightweight probe.
func (h Complaints) Status(c *gin.Context) {
	complaint, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !authz.CanRead(CurrentIdentity(c), complaint) {
		writeError(c, perr.Authorization("not authorized for this complaint"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": complaint.ID, "status": complaint.Status})
}

func (h Complaints) Messages(c *gin.Context) {
	complaint, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !authz.CanRead(CurrentIdentity(c), complaint) {
		writeError(c, perr.Authorization("not authorized for this complaint"))
		return
	}
	msgs, err := h.svc.ListMessages(complaint.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
