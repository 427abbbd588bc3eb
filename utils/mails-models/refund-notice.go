package mailsmodels

import (
	"fmt"

	"github.com/dinkhousedev/dink-house-db/utils"
)

type RefundEmailData struct {
	FirstName    string
	LastInitial  string
	Email        string
	Amount       float64
	CampaignName string
}

func RefundNotice(data RefundEmailData) error {
	subject := "Subject: Your Dink House contribution has been refunded \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #1B3C53; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%;  min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Refund confirmation</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">
						<p>Hi %s %s.,</p>
						<p>Your contribution of <strong>$%.2f</strong> to <strong>%s</strong> has been refunded.</p>
						<p>Any benefits tied to this contribution are no longer active.</p>
						<p>We hope to see you back at The Dink House soon.</p>
					</td>
				</tr>
			</tbody>
		</table>
	</div>
`, data.FirstName, data.LastInitial, data.Amount, data.CampaignName)

	message := []byte(subject + mime + body)
	return utils.SendMail(data.Email, message)
}
