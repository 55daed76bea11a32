package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/models"
	"school-supply-tracker-api-server/internal/services"
)

const maxSignatureBytes = 2 << 20

type PickupHandler struct {
	Pickups *services.PickupService
}

// SubmitPickupRequest is the JSON form of a submission. Signature is a
// base64 PNG, optionally as a data URL straight from a canvas.
type SubmitPickupRequest struct {
	OrgName   string              `json:"orgName"`
	Lines     []models.PickupLine `json:"lines"`
	Signature string              `json:"signature"`
}

// Submit accepts either multipart/form-data (orgName, lines as JSON,
// signature file) or a JSON body.
func (h *PickupHandler) Submit(c *gin.Context) {
	var (
		req services.PickupRequest
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req, err = readMultipartPickup(c)
	} else {
		req, err = readJSONPickup(c)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	receipts, err := h.Pickups.Submit(c.Request.Context(), auth.CurrentUser(c.Request.Context()), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"receipts": receipts})
}

// History lists pickups; clients only see their own.
func (h *PickupHandler) History(c *gin.Context) {
	pickups, err := h.Pickups.ListPickups(c.Request.Context(), auth.CurrentUser(c.Request.Context()))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickups": pickups})
}

func readJSONPickup(c *gin.Context) (services.PickupRequest, error) {
	var body SubmitPickupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		return services.PickupRequest{}, apperr.Validation(apperr.CodeInvalidInput, "%s", err.Error())
	}
	sig, err := decodeSignature(body.Signature)
	if err != nil {
		return services.PickupRequest{}, err
	}
	return services.PickupRequest{OrgName: body.OrgName, Lines: body.Lines, Signature: sig}, nil
}

func readMultipartPickup(c *gin.Context) (services.PickupRequest, error) {
	req := services.PickupRequest{OrgName: c.PostForm("orgName")}
	if raw := c.PostForm("lines"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Lines); err != nil {
			return req, apperr.Validation(apperr.CodeInvalidInput, "lines must be a JSON array: %s", err.Error())
		}
	}
	fh, err := c.FormFile("signature")
	if err != nil {
		// A missing file is an empty signature, reported by the service.
		return req, nil
	}
	f, err := fh.Open()
	if err != nil {
		return req, err
	}
	defer f.Close()
	req.Signature, err = io.ReadAll(io.LimitReader(f, maxSignatureBytes+1))
	if err != nil {
		return req, err
	}
	if len(req.Signature) > maxSignatureBytes {
		return req, apperr.Validation(apperr.CodeInvalidInput, "signature image is too large")
	}
	return req, nil
}

func decodeSignature(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if i := strings.Index(s, ","); strings.HasPrefix(s, "data:") && i >= 0 {
		s = s[i+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apperr.Validation(apperr.CodeInvalidSignature, "signature is not valid base64")
	}
	if len(b) > maxSignatureBytes {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "signature image is too large")
	}
	return b, nil
}
