package blocks

import (
	"fmt"

	"github.com/safeops/YASE/domain/entity"
	"github.com/slack-go/slack"
)

func kindLabel(kind entity.EscalatableKind) string {
	switch kind {
	case entity.KindIncidentScreening:
		return "インシデント一次確認"
	case entity.KindCorrectiveAction:
		return "是正処置"
	default:
		return string(kind)
	}
}

func elapsedLabel(event entity.EscalationEvent) string {
	hours := int(event.Elapsed.Hours())
	minutes := int(event.Elapsed.Minutes()) % 60
	return fmt.Sprintf("%d時間%d分", hours, minutes)
}

func EscalationWarning(event entity.EscalationEvent, notificationType string) []slack.Block {
	notificationText := AddNotification("SLA警告: 対応期限が近づいています", notificationType)

	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", notificationText, false, false),
			nil,
			nil,
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn",
				fmt.Sprintf("%s `%s` が未対応のまま *%s* 経過しています", kindLabel(event.Kind), event.EntityID, elapsedLabel(event)),
				false, false),
			nil,
			nil,
		),
	}
}
