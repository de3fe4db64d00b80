package models

import "time"

// Transaction is the passive ledger entry cut when a request is accepted.
// The amount is the request's price at acceptance time and never changes here;
// settlement is handled outside this service.
type Transaction struct {
	ID               string    `bson:"id" json:"id"`
	ServiceRequestID string    `bson:"service_request_id" json:"serviceRequestId"`
	BuyerID          string    `bson:"buyer_id" json:"buyerId"`
	SellerID         string    `bson:"seller_id" json:"sellerId"`
	Amount           float64   `bson:"amount" json:"amount"`
	Status           string    `bson:"status" json:"status"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
}

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusRefunded  = "refunded"
)
