package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Event routing keys published by this service.
const (
	LessonCompleted = "lesson.completed"
	TaskGenerated   = "task.generated"
	QuizStarted     = "quiz.started"
	QuizSubmitted   = "quiz.submitted"
	QuizExpired     = "quiz.expired"
	RoadmapEnrolled = "roadmap.enrolled"
	WeeklyReport    = "report.weekly"
)

type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
}

// NewEventPublisher connects to the topic exchange. An empty URL
// yields a disabled publisher so callers never need nil checks.
func NewEventPublisher(amqpURL, exchange string) (*EventPublisher, error) {
	if amqpURL == "" {
		log.Println("RabbitMQ not configured, events will not be published")
		return &EventPublisher{enabled: false}, nil
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange, enabled: true}, nil
}

// Publish is fire-and-forget: failures are logged and swallowed so a
// broker outage can never fail the operation that emitted the event.
func (p *EventPublisher) Publish(eventType string, payload interface{}) {
	if p == nil || !p.enabled {
		return
	}
	event := map[string]interface{}{
		"type":      eventType,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[EVENT] failed to marshal %s: %v", eventType, err)
		return
	}

	err = p.channel.Publish(
		p.exchange,
		eventType, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("[EVENT] failed to publish %s: %v", eventType, err)
	}
}

func (p *EventPublisher) Close() {
	if p == nil || !p.enabled {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
