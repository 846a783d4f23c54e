package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/asquebay/dreamgirl-boutique/internal/config"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
)

// IntakeSubmitter - это интерфейс, который абстрагирует консьюмер
// от конкретной реализации приёма заказов
type IntakeSubmitter interface {
	Submit(ctx context.Context, form model.IntakeForm) (model.Order, error)
}

// MessageReader - часть kafka.Reader, которой пользуется консьюмер
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer читает формы заказов из топика и передаёт их в приём заказов
// так заказы могут приходить не только из админки, но и от внешних систем
type Consumer struct {
	reader  MessageReader
	service IntakeSubmitter
	log     *slog.Logger
}

// NewConsumer создает консьюмер по настройкам из конфига
func NewConsumer(cfg config.Kafka, service IntakeSubmitter, log *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
	})
	return NewConsumerWithReader(reader, service, log)
}

// NewConsumerWithReader нужен, чтобы подсунуть свой ридер (например, в тестах)
func NewConsumerWithReader(reader MessageReader, service IntakeSubmitter, log *slog.Logger) *Consumer {
	return &Consumer{
		reader:  reader,
		service: service,
		log:     log.With(slog.String("component", "kafka_consumer")),
	}
}

// Run запускает цикл чтения сообщений из Kafka
// функция блокирующая, поэтому запускается в отдельной горутине
func (c *Consumer) Run(ctx context.Context) {
	log := c.log
	log.Info("kafka consumer started")

	for {
		select {
		case <-ctx.Done():
			log.Info("context cancelled, stopping consumer")
			return
		default:
		}

		// FetchMessage блокирует, пока не придёт сообщение или не случится ошибка
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, io.EOF) {
				log.Info("kafka reader closed")
				return
			}
			log.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}

		log.Debug("received message", slog.String("topic", msg.Topic), slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset))

		if err := c.handleMessage(ctx, msg); err != nil {
			log.Error("failed to handle message", slog.String("error", err.Error()))
			// offset не фиксируем - Kafka отдаст сообщение снова
			continue
		}

		// фиксируем offset только после успешной обработки
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("failed to commit message", slog.String("error", err.Error()))
		}
	}
}

// handleMessage парсит и обрабатывает одно сообщение
// битые и невалидные формы пропускаются: перечитывать их бессмысленно
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var form model.IntakeForm
	if err := json.Unmarshal(msg.Value, &form); err != nil {
		c.log.Warn("failed to unmarshal message, skipping", slog.String("error", err.Error()))
		return nil
	}

	order, err := c.service.Submit(ctx, form)
	if err != nil {
		var fieldErrs model.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.log.Warn("intake form validation failed, skipping", slog.String("error", fieldErrs.Error()))
			return nil
		}
		return err
	}

	c.log.Info("order accepted from kafka", slog.Int64("order_id", order.ID))
	return nil
}

// Close останавливает консьюмер
func (c *Consumer) Close() error {
	c.log.Info("closing kafka consumer")
	return c.reader.Close()
}
