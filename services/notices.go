package services

import "github.com/akinalp/mqvi-modbot/models"

// Notice titles and field labels. Field names are part of what moderators
// search for in the log channel, keep them stable.
const (
	titleInfractionIssued  = "🚨 Infraction Issued"
	titleInfractionRevoked = "❌ Infraction Revoked"
	titlePromotionIssued   = "📈 Promotion Issued"

	fieldUser   = "User"
	fieldReason = "Reason"
	fieldRole   = "Role"
	fieldCaseID = "Case ID"
)

func infractionIssuedNotice(inf *models.Infraction) *models.Notice {
	n := &models.Notice{Kind: models.NoticeInfractionIssued, Title: titleInfractionIssued, Color: models.NoticeColorRed}
	return n.AddField(fieldUser, models.UserMention(inf.SubjectUserID)).
		AddField(fieldReason, inf.Reason).
		AddField(fieldCaseID, inf.CaseID)
}

func infractionRevokedNotice(inf *models.Infraction) *models.Notice {
	n := &models.Notice{Kind: models.NoticeInfractionRevoked, Title: titleInfractionRevoked, Color: models.NoticeColorGreen}
	return n.AddField(fieldCaseID, inf.CaseID)
}

func promotionIssuedNotice(p *models.Promotion) *models.Notice {
	n := &models.Notice{Kind: models.NoticePromotionIssued, Title: titlePromotionIssued, Color: models.NoticeColorGreen}
	return n.AddField(fieldUser, models.UserMention(p.SubjectUserID)).
		AddField(fieldRole, models.RoleMention(p.RoleID)).
		AddField(fieldCaseID, p.CaseID)
}
