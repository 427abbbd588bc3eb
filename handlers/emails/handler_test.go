package emails

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dinkhousedev/dink-house-db/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	// No GOOGLE_SMTP_MDP in the test environment: SendMail stays a no-op
	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

const contributionID = "55555555-5555-5555-5555-555555555555"

func performPost(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSendThankYou_InvalidBody(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/contribution-emails/send-thank-you", SendThankYou)

	resp := performPost(r, "/contribution-emails/send-thank-you",
		map[string]interface{}{"contributionId": "not-a-uuid"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid request body")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendThankYou_ContributionNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE id = \$1`).
		WithArgs(contributionID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.POST("/contribution-emails/send-thank-you", SendThankYou)

	resp := performPost(r, "/contribution-emails/send-thank-you",
		map[string]interface{}{"contributionId": contributionID})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Contribution not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendThankYou_NotCompleted(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE id = \$1`).
		WithArgs(contributionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "backer_id", "campaign_id", "amount", "status"}).
			AddRow(contributionID, "b1", "camp1", 50.0, "pending"))
	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))

	r := testutils.SetupTestRouter()
	r.POST("/contribution-emails/send-thank-you", SendThankYou)

	resp := performPost(r, "/contribution-emails/send-thank-you",
		map[string]interface{}{"contributionId": contributionID})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Contribution is not completed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendThankYou_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE id = \$1`).
		WithArgs(contributionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "backer_id", "campaign_id", "tier_id", "amount", "status"}).
			AddRow(contributionID, "b1", "camp1", nil, 1500.0, "completed"))
	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))
	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE contribution_id = \$1 AND template_key = \$2`).
		WithArgs(contributionID, "contribution_thank_you", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "to_email", "template_key", "status"}).
			AddRow("mail-1", "jane@example.com", "contribution_thank_you", "pending"))
	mock.ExpectQuery(`SELECT \* FROM "campaigns" WHERE id = \$1`).
		WithArgs("camp1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("camp1", "Build the Courts"))
	mock.ExpectQuery(`SELECT \* FROM "court_sponsors" WHERE contribution_id = \$1`).
		WithArgs(contributionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "contribution_id", "sponsor_name", "is_active"}).
			AddRow("sponsor-1", contributionID, "Jane D.", true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "email_logs" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/contribution-emails/send-thank-you", SendThankYou)

	resp := performPost(r, "/contribution-emails/send-thank-you",
		map[string]interface{}{"contributionId": contributionID})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "jane@example.com")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendRefundNotice_NotRefunded(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE id = \$1`).
		WithArgs(contributionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "backer_id", "campaign_id", "amount", "status"}).
			AddRow(contributionID, "b1", "camp1", 50.0, "completed"))
	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))

	r := testutils.SetupTestRouter()
	r.POST("/contribution-emails/send-refund-notice", SendRefundNotice)

	resp := performPost(r, "/contribution-emails/send-refund-notice",
		map[string]interface{}{"contributionId": contributionID})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Contribution is not refunded")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessPending(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "email_logs" WHERE template_key = \$1 AND status = \$2 ORDER BY created_at asc LIMIT \$3`).
		WithArgs("contribution_thank_you", "pending", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "to_email", "template_key", "status", "contribution_id"}).
			AddRow("mail-1", "jane@example.com", "contribution_thank_you", "pending", contributionID))

	mock.ExpectQuery(`SELECT \* FROM "contributions" WHERE id = \$1`).
		WithArgs(contributionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "backer_id", "campaign_id", "amount", "status"}).
			AddRow(contributionID, "b1", "camp1", 50.0, "completed"))
	mock.ExpectQuery(`SELECT \* FROM "backers" WHERE id = \$1`).
		WithArgs("b1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_initial"}).
			AddRow("b1", "jane@example.com", "Jane", "D"))
	mock.ExpectQuery(`SELECT \* FROM "campaigns" WHERE id = \$1`).
		WithArgs("camp1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("camp1", "Build the Courts"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "email_logs" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/contribution-emails/process-pending", ProcessPending)

	resp := performPost(r, "/contribution-emails/process-pending", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"processed":1`)
	assert.Contains(t, resp.Body.String(), `"failed":0`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
