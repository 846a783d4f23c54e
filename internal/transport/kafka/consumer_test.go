package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/dreamgirl-boutique/internal/lib/logger"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	forms []model.IntakeForm
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, form model.IntakeForm) (model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if errs := form.Validate(); len(errs) > 0 {
		return model.Order{}, errs
	}
	if f.err != nil {
		return model.Order{}, f.err
	}
	f.forms = append(f.forms, form)
	return model.Order{ID: int64(len(f.forms))}, nil
}

// fakeReader отдаёт заранее заданные сообщения, потом io.EOF
type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

const validForm = `{"fullName":"A","phone":"9876543210","address":"B","productName":"C","price":"100","productImage":"data:image/png;base64,iVBORw0KGgo="}`

func TestRunCommitsHandledMessages(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: []byte(validForm)},
		{Offset: 2, Value: []byte("{broken")},
		{Offset: 3, Value: []byte(`{"fullName":"","phone":"1"}`)},
	}}
	sub := &fakeSubmitter{}

	NewConsumerWithReader(reader, sub, logger.Discard()).Run(context.Background())

	require.Len(t, sub.forms, 1)
	assert.Equal(t, "A", sub.forms[0].FullName)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestRunDoesNotCommitOnServiceFailure(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Offset: 7, Value: []byte(validForm)}}}
	sub := &fakeSubmitter{err: errors.New("store down")}

	NewConsumerWithReader(reader, sub, logger.Discard()).Run(context.Background())

	assert.Empty(t, reader.committed)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &fakeReader{msgs: []kafka.Message{{Offset: 1, Value: []byte(validForm)}}}
	sub := &fakeSubmitter{}
	NewConsumerWithReader(reader, sub, logger.Discard()).Run(ctx)

	assert.Empty(t, sub.forms)
}
