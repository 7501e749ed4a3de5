package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdfmerge/files"
	"pdfmerge/pdf"
	"pdfmerge/session"
)

// skippedFile describes an uploaded part that was not added
type skippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func HandleListFiles(c *gin.Context, sess *session.Session) {
	c.JSON(http.StatusOK, sess.View())
}

func HandleUpload(c *gin.Context, config *Config, sess *session.Session, logger *logrus.Logger) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File[UploadField]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	added := []string{}
	skipped := []skippedFile{}
	duplicates := 0
	for _, header := range form.File[UploadField] {
		data, err := readPDFFile(header, config.MaxFileSize)
		if err != nil {
			logger.WithError(err).WithField("name", header.Filename).Warn("Upload rejected")
			skipped = append(skipped, skippedFile{Name: header.Filename, Reason: err.Error()})
			continue
		}

		f, err := sess.AddFile(header.Filename, data)
		if err != nil {
			if errors.Is(err, files.ErrDuplicateFile) {
				duplicates++
			}
			skipped = append(skipped, skippedFile{Name: header.Filename, Reason: session.Message(err)})
			continue
		}
		added = append(added, f.ID)
	}

	status := http.StatusOK
	if len(added) == 0 {
		status = http.StatusBadRequest
		if duplicates == len(skipped) {
			status = http.StatusConflict
		}
	}

	c.JSON(status, gin.H{
		"added":   added,
		"skipped": skipped,
		"view":    sess.View(),
	})
}

func HandleClear(c *gin.Context, sess *session.Session) {
	sess.Clear()
	c.JSON(http.StatusOK, sess.View())
}

func HandleRemove(c *gin.Context, sess *session.Session) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	if err := sess.Remove(index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func HandleMove(c *gin.Context, sess *session.Session) {
	from, errFrom := strconv.Atoi(c.PostForm("from"))
	to, errTo := strconv.Atoi(c.PostForm("to"))
	if errFrom != nil || errTo != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to must be integers"})
		return
	}
	if err := sess.Move(from, to); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func HandlePageCount(c *gin.Context, sess *session.Session) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	count, err := sess.PageCount(index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "total_pages": count})
}

func HandleSelect(c *gin.Context, sess *session.Session) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	if err := sess.Select(index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func HandleDeselect(c *gin.Context, sess *session.Session) {
	sess.Deselect()
	c.JSON(http.StatusOK, sess.View())
}

func HandleMerge(c *gin.Context, sess *session.Session, logger *logrus.Logger) {
	out, err := sess.Merge()
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, out, logger)
}

func HandleSplit(c *gin.Context, sess *session.Session, logger *logrus.Logger) {
	out, err := sess.Split(c.PostForm(PagesField))
	if err != nil {
		respondError(c, err)
		return
	}
	sendDocument(c, out, logger)
}

// sendDocument hands a composed document to the client as a download
func sendDocument(c *gin.Context, out *pdf.OutputDocument, logger *logrus.Logger) {
	logger.WithFields(logrus.Fields{
		"filename": out.Filename,
		"pages":    out.Pages,
		"bytes":    len(out.Data),
	}).Debug("Sending document")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, PDFContentType, out.Data)
}

// respondError maps session and composition errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrBusy), errors.Is(err, files.ErrDuplicateFile):
		status = http.StatusConflict
	case errors.Is(err, files.ErrIndexOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoFiles),
		errors.Is(err, pdf.ErrMalformedRangeToken),
		errors.Is(err, pdf.ErrEmptySelection),
		errors.Is(err, pdf.ErrInsufficientInput):
		status = http.StatusBadRequest
	case errors.Is(err, pdf.ErrDocumentLoad), errors.Is(err, pdf.ErrPageCountMismatch):
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{"error": truncateMessage(session.Message(err), MaxErrorLength)})
}

// truncateMessage cuts msg to at most limit bytes without splitting a UTF-8 sequence
func truncateMessage(msg string, limit int) string {
	if len(msg) <= limit {
		return msg
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut] + "..."
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

// readPDFFile reads an uploaded part after checking its size and PDF header
func readPDFFile(header *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if header.Size > maxSize {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("file exceeds maximum allowed %d bytes", maxSize)
	}
	if !pdf.SniffPDF(data) {
		return nil, errors.New("invalid PDF file: header does not match")
	}
	return data, nil
}
