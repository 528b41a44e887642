package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// QueueConfig описание очереди и ключа маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// BidDecisionQueue очередь уведомлений о решениях по предложениям.
const (
	NotificationExchange = "notifications"
	BidDecisionQueue     = "notification.bid-decision"
	BidDecisionKey       = "bid-decision"
)

// GetNotificationQueues возвращает очереди, которые должны существовать
// для доставки уведомлений участникам тендеров.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BidDecisionQueue, RoutingKey: BidDecisionKey},
	}
}

// SetupQueues объявляет exchange и очереди уведомлений.
func SetupQueues(ch *amqp.Channel) error {
	const op = "rabbitmq.SetupQueues"
	if err := ch.ExchangeDeclare(NotificationExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, q := range GetNotificationQueues() {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, NotificationExchange, false, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
