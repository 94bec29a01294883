package blocks

import (
	"fmt"

	"github.com/safeops/YASE/domain/entity"
	"github.com/slack-go/slack"
)

func EscalationNotice(event entity.EscalationEvent, notificationType string) []slack.Block {
	notificationText := AddNotification("SLA超過によりエスカレーションされました", notificationType)

	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", notificationText, false, false),
			nil,
			nil,
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn",
				fmt.Sprintf("%s `%s` のエスカレーションレベルが「 *%d* 」になりました(経過 %s)", kindLabel(event.Kind), event.EntityID, event.NewLevel, elapsedLabel(event)),
				false, false),
			nil,
			nil,
		),
	}
}
