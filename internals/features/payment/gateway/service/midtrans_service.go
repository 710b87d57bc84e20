// file: internals/features/payment/gateway/service/midtrans_service.go
package service

import (
	"errors"
	"os"
	"strings"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Midtrans Client
========================================================= */

var (
	SnapClient snap.Client
	CoreClient coreapi.Client
)

// InitMidtrans harus dipanggil saat bootstrap app.
// MIDTRANS_ENV=production memakai endpoint production, selain itu Sandbox.
func InitMidtrans(serverKey string) {
	env := midtrans.Sandbox
	if strings.EqualFold(os.Getenv("MIDTRANS_ENV"), "production") {
		env = midtrans.Production
	}
	SnapClient.New(serverKey, env)
	CoreClient.New(serverKey, env)
}

/* =========================================================
   Order ID <-> Case
========================================================= */

const caseOrderPrefix = "case-"

// Order ID gateway selalu diturunkan dari case ID supaya webhook
// bisa dipetakan balik tanpa tabel mapping.
func CaseOrderID(caseID uuid.UUID) string {
	return caseOrderPrefix + caseID.String()
}

func ParseCaseOrderID(orderID string) (uuid.UUID, error) {
	if !strings.HasPrefix(orderID, caseOrderPrefix) {
		return uuid.Nil, errors.New("order_id bukan format case")
	}
	return uuid.Parse(strings.TrimPrefix(orderID, caseOrderPrefix))
}

/* =========================================================
   Snap checkout
========================================================= */

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// GenerateSnapToken membuat transaksi Snap untuk satu case.
func GenerateSnapToken(orderID string, amountIDR int64, itemName string, cust CustomerInput) (string, string, error) {
	if amountIDR <= 0 {
		return "", "", errors.New("invalid amount_idr")
	}
	if orderID == "" {
		return "", "", errors.New("order_id is required")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       orderID,
				Price:    amountIDR,
				Qty:      1,
				Name:     defaultString(itemName, "Advisory Case"),
				Category: "advisory",
			},
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

// CheckTransaction menanyakan status transaksi langsung ke Midtrans
// (dipakai untuk rekonsiliasi manual di luar webhook).
func CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, error) {
	resp, err := CoreClient.CheckTransaction(orderID)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func defaultString(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
