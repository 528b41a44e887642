package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Notifier публикует доменные события в очереди уведомлений.
type Notifier struct {
	ch *amqp.Channel
}

// NewNotifier создает Notifier поверх открытого канала RabbitMQ.
func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{ch: ch}
}

// PublishBidDecision публикует событие о решении по предложению.
func (n *Notifier) PublishBidDecision(event models.BidDecisionEvent) error {
	return PublishMessage(n.ch, NotificationExchange, BidDecisionKey, event)
}
