package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/logger"
	"school-supply-tracker-api-server/internal/metrics"
	"school-supply-tracker-api-server/internal/models"
	"school-supply-tracker-api-server/internal/s3"
	"school-supply-tracker-api-server/internal/socket"
)

// Signatures are stored as PNG, matching the object key extension.
const signatureContentType = "image/png"

// PickupRequest is one signed submission covering one or more items.
type PickupRequest struct {
	OrgName   string
	Lines     []models.PickupLine
	Signature []byte
}

type PickupService struct {
	Items   ItemStore
	Ledger  Ledger
	Blobs   BlobStore
	Hub     Broadcaster
	Metrics *metrics.Metrics

	Now func() time.Time
}

func (s *PickupService) ready() error {
	if s == nil || s.Items == nil || s.Ledger == nil {
		return apperr.NotInitialized("document store")
	}
	if s.Blobs == nil {
		return apperr.NotInitialized("blob store")
	}
	return nil
}

func (s *PickupService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit validates req against current stock, stores the signature once and
// commits every line atomically. Nothing is written when validation fails.
func (s *PickupService) Submit(ctx context.Context, sess *auth.Session, req PickupRequest) ([]models.PickupReceipt, error) {
	receipts, err := s.submit(ctx, sess, req)
	if err != nil {
		s.rejected(err)
		return nil, err
	}
	return receipts, nil
}

func (s *PickupService) submit(ctx context.Context, sess *auth.Session, req PickupRequest) ([]models.PickupReceipt, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.Auth("unauthenticated", "sign in to submit a pickup")
	}
	if len(req.Signature) == 0 {
		return nil, apperr.Validation(apperr.CodeEmptySignature, "please provide a signature")
	}
	if http.DetectContentType(req.Signature) != signatureContentType {
		return nil, apperr.Validation(apperr.CodeInvalidSignature, "signature must be a PNG image")
	}
	lines, err := mergeLines(req.Lines)
	if err != nil {
		return nil, err
	}
	orgName := strings.TrimSpace(req.OrgName)
	if orgName == "" {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "organization name is required")
	}

	// Validate every line against one snapshot before writing anything.
	snapshot, err := s.Items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.SupplyItem, len(snapshot))
	for _, item := range snapshot {
		byID[item.ID] = item
	}
	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, apperr.ItemNotFound(line.ItemID)
		}
		if line.Quantity > item.AvailableQuantity {
			return nil, apperr.InsufficientStock(item.Name, line.Quantity, item.AvailableQuantity)
		}
	}

	at := s.now().UTC()
	signatureURL, err := s.Blobs.UploadFile(ctx, bytes.NewReader(req.Signature), s3.SignatureKey(at), signatureContentType)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	pickups := make([]models.SupplyPickup, len(lines))
	for i, line := range lines {
		item := byID[line.ItemID]
		pickups[i] = models.SupplyPickup{
			ID:             uuid.NewString(),
			BatchID:        batchID,
			OrgName:        orgName,
			SupplyItemID:   item.ID,
			SupplyItemName: item.Name,
			Quantity:       line.Quantity,
			Unit:           item.Unit,
			SignatureURL:   signatureURL,
			Timestamp:      at,
			IssuedBy:       sess.User.UID,
			IssuedByEmail:  sess.User.Email,
		}
	}

	remaining, err := s.Ledger.Commit(ctx, pickups)
	if err != nil {
		logger.Warn("pickup commit failed", "batch", batchID, "signature", signatureURL, "error", err)
		return nil, err
	}

	receipts := make([]models.PickupReceipt, len(pickups))
	for i, p := range pickups {
		receipts[i] = models.PickupReceipt{
			PickupID:       p.ID,
			BatchID:        batchID,
			SupplyItemID:   p.SupplyItemID,
			SupplyItemName: p.SupplyItemName,
			Quantity:       p.Quantity,
			Unit:           p.Unit,
			SignatureURL:   signatureURL,
			Remaining:      remaining[p.SupplyItemID],
		}
	}
	s.committed(receipts)
	logger.Info("pickup recorded", "batch", batchID, "org", orgName, "lines", len(receipts), "uid", sess.User.UID)
	return receipts, nil
}

// mergeLines folds repeated items into one line, keeping first-seen order.
func mergeLines(lines []models.PickupLine) ([]models.PickupLine, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation(apperr.CodeNoItems, "please add at least one supply item to your request")
	}
	index := make(map[string]int, len(lines))
	merged := make([]models.PickupLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperr.Validation(apperr.CodeInvalidQuantity, "quantity for %q must be greater than zero", line.ItemID)
		}
		if i, ok := index[line.ItemID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

// ListPickups returns history newest first. Clients only see their own pickups.
func (s *PickupService) ListPickups(ctx context.Context, sess *auth.Session) ([]models.SupplyPickup, error) {
	if s == nil || s.Ledger == nil {
		return nil, apperr.NotInitialized("document store")
	}
	if sess == nil {
		return nil, apperr.Auth("unauthenticated", "sign in to view pickups")
	}
	issuedBy := ""
	if !sess.User.Role.AtLeast(models.RolePowerUser) {
		issuedBy = sess.User.UID
	}
	return s.Ledger.List(ctx, issuedBy)
}

func (s *PickupService) committed(receipts []models.PickupReceipt) {
	if s.Metrics != nil {
		s.Metrics.PickupsSubmitted.Inc()
		s.Metrics.PickupLines.Add(float64(len(receipts)))
		for _, r := range receipts {
			s.Metrics.UnitsWithdrawn.WithLabelValues(r.SupplyItemID).Add(float64(r.Quantity))
		}
	}
	if s.Hub != nil {
		s.Hub.Broadcast(socket.EventPickupRecorded, map[string]interface{}{
			"batchId": receipts[0].BatchID,
			"lines":   len(receipts),
		})
		s.Hub.Broadcast(socket.EventInventoryUpdated, nil)
	}
}

func (s *PickupService) rejected(err error) {
	if s == nil || s.Metrics == nil {
		return
	}
	reason := string(apperr.KindUnknown)
	var e *apperr.Error
	if errors.As(err, &e) {
		reason = string(e.Kind)
		if e.Code != "" {
			reason = e.Code
		}
	}
	s.Metrics.PickupsRejected.WithLabelValues(reason).Inc()
}
