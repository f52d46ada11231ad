// Package rabbitmq содержит подключение к RabbitMQ, объявление очередей,
// публикацию и потребление JSON-сообщений.
package rabbitmq

// NotificationsExchange direct-exchange для уведомлений сервиса.
const NotificationsExchange = "notifications"

// SubscriptionRoutingKey ключ маршрутизации событий о новой подписке на встречу.
const SubscriptionRoutingKey = "subscription"

// ReminderRoutingKey ключ маршрутизации напоминаний о скорых встречах.
const ReminderRoutingKey = "reminder"

// QueueConfig описывает очередь и ключ, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые слушает notification-sender.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.subscription", RoutingKey: SubscriptionRoutingKey},
		{QueueName: "notification.reminder", RoutingKey: ReminderRoutingKey},
	}
}
