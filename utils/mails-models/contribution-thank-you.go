package mailsmodels

import (
	"fmt"

	"github.com/dinkhousedev/dink-house-db/utils"
)

type ContributionEmailData struct {
	FirstName    string
	LastInitial  string
	Email        string
	Amount       float64
	CampaignName string
	TierName     string
	IsSponsor    bool
}

func ContributionThankYou(data ContributionEmailData) error {
	subject := "Subject: Thank you for backing The Dink House! \r\n"
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"

	tierLine := ""
	if data.TierName != "" {
		tierLine = fmt.Sprintf(`<p>Your <strong>%s</strong> benefits are on their way.</p>`, data.TierName)
	}
	sponsorLine := ""
	if data.IsSponsor {
		sponsorLine = `<p>As a court sponsor, your name will be displayed courtside. We will reach out with the details.</p>`
	}

	body := fmt.Sprintf(`
	<div style="background-color: #1B3C53; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%;  min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Thank you, %s %s.!</h1></td>
				</tr>
				<tr>
					<td style="text-align:center; padding-bottom: 30px;">
						<p>We received your contribution of <strong>$%.2f</strong> to <strong>%s</strong>.</p>
						%s
						%s
						<p>See you on the courts!</p>
					</td>
				</tr>
			</tbody>
		</table>
	</div>
`, data.FirstName, data.LastInitial, data.Amount, data.CampaignName, tierLine, sponsorLine)

	message := []byte(subject + mime + body)
	return utils.SendMail(data.Email, message)
}
