// file: internals/features/payment/gateway/controller/payment_gateway_controller.go
package controller

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"studycase_backend/internals/configs"
	caseModel "studycase_backend/internals/features/advisory/cases/model"
	caseService "studycase_backend/internals/features/advisory/cases/service"
	caseTemplateModel "studycase_backend/internals/features/catalog/case_templates/model"
	notifierService "studycase_backend/internals/features/home/notifications/service"
	gatewayService "studycase_backend/internals/features/payment/gateway/service"
	helper "studycase_backend/internals/helpers"
)

type PaymentGatewayController struct {
	DB       *gorm.DB
	Workflow *caseService.WorkflowService
}

func NewPaymentGatewayController(db *gorm.DB) *PaymentGatewayController {
	return &PaymentGatewayController{
		DB:       db,
		Workflow: caseService.NewWorkflowService(db, notifierService.NewNotifier(db)),
	}
}

/* =======================================================================
   Checkout (Snap)
======================================================================= */

// POST /cases/:id/checkout
// Snap token untuk pembayaran case; harga diambil dari case template.
func (h *PaymentGatewayController) CreateCheckout(c *fiber.Ctx) error {
	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Case ID tidak valid")
	}

	var cs caseModel.AdvisoryCaseModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("advisory_case_id = ?", caseID).Take(&cs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Case tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil case")
	}
	if cs.AdvisoryCasePaymentStatus == caseModel.CasePaymentConfirmed {
		return helper.JsonError(c, fiber.StatusConflict, "Pembayaran case sudah dikonfirmasi")
	}
	if cs.IsTerminal() {
		return helper.JsonError(c, fiber.StatusConflict, "Case sudah "+cs.AdvisoryCaseStage)
	}

	var tpl caseTemplateModel.CaseTemplateModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("case_template_id = ?", cs.AdvisoryCaseCaseTemplateID).Take(&tpl).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil case template")
	}

	orderID := gatewayService.CaseOrderID(caseID)
	token, redirectURL, err := gatewayService.GenerateSnapToken(
		orderID, tpl.CaseTemplatePrice, tpl.CaseTemplateName, gatewayService.CustomerInput{})
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal membuat transaksi Midtrans")
	}

	return helper.JsonOK(c, "Checkout dibuat", fiber.Map{
		"order_id":     orderID,
		"snap_token":   token,
		"redirect_url": redirectURL,
		"amount_idr":   tpl.CaseTemplatePrice,
	})
}

/* =======================================================================
   Webhook Midtrans
======================================================================= */

type midtransNotif struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
	// field lain aman diabaikan
}

func (h *PaymentGatewayController) MidtransWebhook(c *fiber.Ctx) error {
	// 1) Parse payload
	var notif midtransNotif
	if err := c.BodyParser(&notif); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}

	// 2) Verify signature — SHA512(order_id + status_code + gross_amount + ServerKey)
	want := strings.ToLower(notif.SignatureKey)
	raw := notif.OrderID + notif.StatusCode + notif.GrossAmount + configs.MidtransServerKey
	got := sha512sum(raw)
	if want == "" || got != want {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid signature")
	}

	// 3) Petakan order_id → case
	caseID, err := gatewayService.ParseCaseOrderID(notif.OrderID)
	if err != nil {
		// Balas 200 supaya Midtrans tidak retry terus untuk order asing
		return c.JSON(fiber.Map{"status": "ignored", "reason": "unknown order_id"})
	}

	// 4) Hanya status paid yang memicu workflow
	if !isPaidStatus(notif) {
		return c.JSON(fiber.Map{
			"status":             "ok",
			"transaction_status": notif.TransactionStatus,
			"applied":            false,
		})
	}

	var cs caseModel.AdvisoryCaseModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("advisory_case_id = ?", caseID).Take(&cs).Error; err != nil {
		return c.JSON(fiber.Map{"status": "ignored", "reason": "case not found"})
	}

	// Konfirmasi dicatat atas nama planner case
	res, err := h.Workflow.ConfirmPayment(c.UserContext(), caseService.ConfirmPaymentInput{
		CaseID:  caseID,
		ActorID: cs.AdvisoryCasePlannerID,
		Method:  notif.PaymentType,
		Note:    fmt.Sprintf("midtrans %s (%s)", notif.TransactionStatus, notif.TransactionID),
	})
	if err != nil {
		if we := caseService.AsWorkflowError(err); we != nil {
			// Case sudah di stage lain — jangan bikin Midtrans retry
			return c.JSON(fiber.Map{"status": "ignored", "reason": we.Message})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "update case failed: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"status":             "ok",
		"case_id":            caseID,
		"transaction_status": notif.TransactionStatus,
		"applied":            !res.NoOp,
	})
}

/* =======================================================================
   Helpers: webhook
======================================================================= */

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

func isPaidStatus(n midtransNotif) bool {
	ts := strings.ToLower(n.TransactionStatus)
	switch ts {
	case "settlement":
		return true
	case "capture":
		// untuk cc: capture + fraud=accept -> paid
		return strings.ToLower(n.FraudStatus) == "accept"
	}
	return false
}
