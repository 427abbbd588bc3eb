package stripe

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dinkhousedev/dink-house-db/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func newTestHandler(gormDB *gorm.DB) *Handler {
	return &Handler{
		db:               gormDB,
		webhookSecret:    testWebhookSecret,
		sponsorThreshold: 1000,
	}
}

// signPayload builds a Stripe-Signature header the webhook library accepts.
func signPayload(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(h *Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	r := testutils.SetupTestRouter()
	r.POST("/stripe/webhook", h.HandleWebhook)

	req, _ := http.NewRequest(http.MethodPost, "/stripe/webhook", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signature)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)
	return resp
}

func eventPayload(eventType string, object map[string]interface{}) []byte {
	// api_version must match the pinned stripe-go API version or
	// webhook.ConstructEvent rejects the event before dispatch
	payload, _ := json.Marshal(map[string]interface{}{
		"id":          "evt_test_1",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data": map[string]interface{}{
			"object": object,
		},
	})
	return payload
}

func contributionColumns() []string {
	return []string{"id", "backer_id", "campaign_id", "tier_id", "amount", "status",
		"stripe_checkout_session_id", "stripe_payment_intent_id", "stripe_charge_id",
		"is_public", "show_amount"}
}

func TestWebhook_InvalidSignature(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{"id": "cs_1"})

	resp := postWebhook(h, payload, "t=1,v1=deadbeef")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	// No statement may reach the database for an unverified payload
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_UnknownEventType(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	h := newTestHandler(gormDB)
	payload := eventPayload("customer.created", map[string]interface{}{"id": "cus_1"})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"received":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutSessionCompleted_AllocatesBenefits(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_checkout_session_id = \$1 ORDER BY "contributions"\."id" LIMIT \$2`).
		WithArgs("cs_1", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c1", "b1", "camp1", "t1", 50.0, "pending", "cs_1", "", "", true, true))

	// completed transition
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// first completion bumps the running totals
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "campaigns" SET "current_amount"=current_amount \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contribution_tiers" SET "current_backers"=current_backers \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "backers" SET "total_contributed"=total_contributed \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// fan-out: backer, tier with one lifetime benefit
	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial", "city", "state", "total_contributed"}).
			AddRow("b1", "jane@example.com", "Jane", "D", "Austin", "TX", 50.0))
	mock.ExpectQuery(`SELECT \* FROM "contribution_tiers" WHERE id = \$1`).
		WithArgs("t1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "name", "amount", "benefits"}).
			AddRow("t1", "camp1", "Founding Member", 50.0, []byte(`[{"type":"t-shirt","lifetime":true}]`)))

	mock.ExpectQuery(`SELECT \* FROM "benefit_allocations" WHERE contribution_id = \$1 AND benefit_type = \$2`).
		WithArgs("c1", "t-shirt", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "benefit_allocations" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alloc-1"))
	mock.ExpectCommit()

	// amount 50 stays below the sponsor threshold: no court sponsor queries

	mock.ExpectQuery(`SELECT \* FROM "founders_wall_entries" WHERE backer_id = \$1`).
		WithArgs("b1", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "founders_wall_entries" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("wall-1"))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs("c1", "contribution_thank_you", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "email_logs" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mail-1"))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id":                   "cs_1",
		"payment_intent":       "pi_1",
		"payment_method_types": []string{"card"},
		"metadata": map[string]string{
			"contribution_id": "c1",
			"tier_id":         "t1",
			"backer_id":       "b1",
		},
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"received":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutSessionCompleted_RedeliveryIsIdempotent(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	completedAt := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_checkout_session_id = \$1`).
		WithArgs("cs_1", 1).
		WillReturnRows(sqlmock.NewRows(append(contributionColumns(), "completed_at")).
			AddRow("c1", "b1", "camp1", "t1", 50.0, "completed", "cs_1", "pi_1", "", true, true, completedAt))

	// The guarded claim matches no row this time, so no totals move
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial", "total_contributed"}).
			AddRow("b1", "jane@example.com", "Jane", "D", 50.0))
	mock.ExpectQuery(`SELECT \* FROM "contribution_tiers" WHERE id = \$1`).
		WithArgs("t1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "name", "benefits"}).
			AddRow("t1", "camp1", "Founding Member", []byte(`[{"type":"t-shirt","lifetime":true}]`)))

	// existing allocation: no insert
	mock.ExpectQuery(`SELECT \* FROM "benefit_allocations" WHERE contribution_id = \$1 AND benefit_type = \$2`).
		WithArgs("c1", "t-shirt", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "contribution_id", "benefit_type"}).
			AddRow("alloc-1", "c1", "t-shirt"))

	// existing wall entry: refreshed, not duplicated
	mock.ExpectQuery(`SELECT \* FROM "founders_wall_entries" WHERE backer_id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "backer_id", "total_contributed"}).
			AddRow("wall-1", "b1", 50.0))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "founders_wall_entries" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// thank-you email already queued
	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs("c1", "contribution_thank_you", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("mail-1", "sent"))

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id":             "cs_1",
		"payment_intent": "pi_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutSessionCompleted_CreatesCourtSponsor(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_checkout_session_id = \$1`).
		WithArgs("cs_2", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c2", "b1", "camp1", nil, 1500.0, "pending", "cs_2", "", "", false, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "campaigns" SET "current_amount"=current_amount \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "backers" SET "total_contributed"=total_contributed \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial", "total_contributed"}).
			AddRow("b1", "jane@example.com", "Jane", "D", 1500.0))

	// no tier on this contribution: allocation is skipped entirely

	mock.ExpectQuery(`SELECT \* FROM "court_sponsors" WHERE contribution_id = \$1`).
		WithArgs("c2", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "court_sponsors" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sponsor-1"))
	mock.ExpectCommit()

	// private contribution: no founders wall entry

	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs("c2", "contribution_thank_you", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "email_logs" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mail-1"))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id":                   "cs_2",
		"payment_intent":       "pi_2",
		"payment_method_types": []string{"card"},
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutSessionCompleted_ExistingSponsorNotDuplicated(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	completedAt := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_checkout_session_id = \$1`).
		WithArgs("cs_2", 1).
		WillReturnRows(sqlmock.NewRows(append(contributionColumns(), "completed_at")).
			AddRow("c2", "b1", "camp1", nil, 1500.0, "completed", "cs_2", "pi_2", "", false, true, completedAt))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))

	// sponsor already exists for this contribution: creation is skipped
	mock.ExpectQuery(`SELECT \* FROM "court_sponsors" WHERE contribution_id = \$1`).
		WithArgs("c2", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "contribution_id", "sponsor_name", "is_active"}).
			AddRow("sponsor-1", "c2", "Jane D.", true))

	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs("c2", "contribution_thank_you", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("mail-1", "sent"))

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id":             "cs_2",
		"payment_intent": "pi_2",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutSessionCompleted_UnknownSessionAcknowledged(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_checkout_session_id = \$1`).
		WithArgs("cs_late", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE id = \$1`).
		WithArgs("c_late", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id": "cs_late",
		"metadata": map[string]string{
			"contribution_id": "c_late",
		},
	})

	resp := postWebhook(h, payload, signPayload(payload))

	// Acknowledged without writes: Stripe redelivery covers read-after-write lag
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"received":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_PaymentIntentSucceeded_RecoversFailedContribution(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_payment_intent_id = \$1`).
		WithArgs("pi_1", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c1", "b1", "camp1", nil, 50.0, "failed", "cs_1", "pi_1", "", false, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "campaigns" SET "current_amount"=current_amount \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "backers" SET "total_contributed"=total_contributed \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))

	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs("c1", "contribution_thank_you", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "email_logs" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mail-1"))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("payment_intent.succeeded", map[string]interface{}{
		"id":            "pi_1",
		"latest_charge": "ch_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_PaymentIntentFailed_OnlyFailsPendingRows(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET "status"=\$1`).
		WithArgs("failed", sqlmock.AnyArg(), "pi_1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("payment_intent.payment_failed", map[string]interface{}{
		"id": "pi_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_PaymentIntentFailed_CompletedRowUntouched(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// The guarded update matches nothing: the contribution already completed
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET "status"=\$1`).
		WithArgs("failed", sqlmock.AnyArg(), "pi_1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("payment_intent.payment_failed", map[string]interface{}{
		"id": "pi_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_ChargeRefunded_DeactivatesBenefitsAndSponsor(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_charge_id = \$1`).
		WithArgs("ch_1", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c1", "b1", "camp1", "t1", 1500.0, "completed", "cs_1", "pi_1", "ch_1", true, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "benefit_allocations" SET "is_active"=`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "court_sponsors" SET "is_active"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("charge.refunded", map[string]interface{}{
		"id":             "ch_1",
		"payment_intent": "pi_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_ChargeRefunded_SponsorDeactivatedEvenIfBenefitsFail(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_charge_id = \$1`).
		WithArgs("ch_1", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c1", "b1", "camp1", "t1", 1500.0, "completed", "cs_1", "pi_1", "ch_1", true, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "benefit_allocations" SET "is_active"=`).
		WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	// The sibling step still runs
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "court_sponsors" SET "is_active"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("charge.refunded", map[string]interface{}{
		"id": "ch_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	// 500 forces Stripe to redeliver the whole event
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_ChargeRefunded_FallsBackToPaymentIntent(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_charge_id = \$1`).
		WithArgs("ch_1", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_payment_intent_id = \$1`).
		WithArgs("pi_1", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c1", "b1", "camp1", nil, 50.0, "completed", "cs_1", "pi_1", "", true, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "benefit_allocations" SET "is_active"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "court_sponsors" SET "is_active"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("charge.refunded", map[string]interface{}{
		"id":             "ch_1",
		"payment_intent": "pi_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutSessionCompleted_ConcurrentClaimBumpsOnce(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// The row still reads pending, but a concurrent delivery claims the
	// transition first: the guarded update matches nothing and the totals
	// stay untouched here.
	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_checkout_session_id = \$1`).
		WithArgs("cs_1", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c1", "b1", "camp1", nil, 50.0, "pending", "cs_1", "", "", false, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))

	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs("c1", "contribution_thank_you", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("mail-1", "pending"))

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id": "cs_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_CheckoutSessionCompleted_AllocatesEachDescriptor(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_checkout_session_id = \$1`).
		WithArgs("cs_1", 1).
		WillReturnRows(sqlmock.NewRows(contributionColumns()).
			AddRow("c1", "b1", "camp1", "t1", 250.0, "pending", "cs_1", "", "", false, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "campaigns" SET "current_amount"=current_amount \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contribution_tiers" SET "current_backers"=current_backers \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "backers" SET "total_contributed"=total_contributed \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))
	mock.ExpectQuery(`SELECT \* FROM "contribution_tiers" WHERE id = \$1`).
		WithArgs("t1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "name", "benefits"}).
			AddRow("t1", "camp1", "Club Founder",
				[]byte(`[{"type":"t-shirt","lifetime":true},{"type":"guest-passes","details":{"quantity":4},"expiresAt":"2026-12-31"}]`)))

	// two descriptors, two allocations, in catalog order
	mock.ExpectQuery(`SELECT \* FROM "benefit_allocations" WHERE contribution_id = \$1 AND benefit_type = \$2`).
		WithArgs("c1", "t-shirt", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "benefit_allocations" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alloc-1"))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "benefit_allocations" WHERE contribution_id = \$1 AND benefit_type = \$2`).
		WithArgs("c1", "guest-passes", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "benefit_allocations" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("alloc-2"))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs("c1", "contribution_thank_you", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("mail-1", "sent"))

	h := newTestHandler(gormDB)
	payload := eventPayload("checkout.session.completed", map[string]interface{}{
		"id": "cs_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_ChargeRefunded_RedeliverySameEndState(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	refundedAt := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE stripe_charge_id = \$1`).
		WithArgs("ch_1", 1).
		WillReturnRows(sqlmock.NewRows(append(contributionColumns(), "refunded_at")).
			AddRow("c1", "b1", "camp1", "t1", 1500.0, "refunded", "cs_1", "pi_1", "ch_1", true, true, refundedAt))

	// status and charge id are re-applied; refunded_at is already set and stays
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "contributions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "benefit_allocations" SET "is_active"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "court_sponsors" SET "is_active"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	h := newTestHandler(gormDB)
	payload := eventPayload("charge.refunded", map[string]interface{}{
		"id": "ch_1",
	})

	resp := postWebhook(h, payload, signPayload(payload))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"received":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
