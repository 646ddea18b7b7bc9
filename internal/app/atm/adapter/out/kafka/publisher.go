package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-atm/internal/app/atm/domain"
	"github.com/JoeShih716/go-mem-atm/internal/app/atm/usecase"
)

// TransactionEvent 發布到 Kafka 的交易事件
// 只帶帳號，不帶密碼
type TransactionEvent struct {
	TransactionID string          `json:"transaction_id"`
	AccountNumber int             `json:"account_number"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// messageWriter 是 *kafka.Writer 用到的部分，方便測試替換
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher 將完成的交易發布到 Kafka
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond, // 預設 1 秒湊一批，同步發布時要縮短
		},
	}
}

// Publish 以帳號為 key 送出，同一帳戶的事件會落在同一個 partition，保持順序
func (p *Publisher) Publish(ctx context.Context, tran domain.Transaction) error {
	data, err := json.Marshal(newTransactionEvent(tran))
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(tran.Number)),
		Value: data,
		Time:  tran.CreatedAt,
	})
}

// Close 關閉 writer，送出緩衝中的訊息
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newTransactionEvent(tran domain.Transaction) TransactionEvent {
	return TransactionEvent{
		TransactionID: tran.TransactionID.String(),
		AccountNumber: tran.Number,
		Type:          tran.Type.String(),
		Amount:        tran.Amount,
		Balance:       tran.Balance,
		OccurredAt:    tran.CreatedAt,
	}
}

var _ usecase.EventPublisher = (*Publisher)(nil)
