package models

import "time"

// SupplyPickup is one line of a signed pickup. Records are append-only;
// SupplyItemName and Unit are snapshots taken when the pickup was written.
type SupplyPickup struct {
	ID             string    `bson:"_id" json:"id"`
	BatchID        string    `bson:"batch_id" json:"batchId"`
	OrgName        string    `bson:"org_name" json:"orgName"`
	SupplyItemID   string    `bson:"supply_item_id" json:"supplyItemId"`
	SupplyItemName string    `bson:"supply_item_name" json:"supplyItemName"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	Unit           Unit      `bson:"unit" json:"unit"`
	SignatureURL   string    `bson:"signature_url" json:"signatureUrl"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
	IssuedBy       string    `bson:"issued_by" json:"issuedBy"`
	IssuedByEmail  string    `bson:"issued_by_email" json:"issuedByEmail"`
}

// PickupLine is one requested item of a submission.
type PickupLine struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// PickupReceipt is returned for each line that was recorded.
type PickupReceipt struct {
	PickupID       string `json:"pickupId"`
	BatchID        string `json:"batchId"`
	SupplyItemID   string `json:"supplyItemId"`
	SupplyItemName string `json:"supplyItemName"`
	Quantity       int    `json:"quantity"`
	Unit           Unit   `json:"unit"`
	SignatureURL   string `json:"signatureUrl"`
	Remaining      int    `json:"remaining"`
}
