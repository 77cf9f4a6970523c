package service

import (
	"context"
	"errors"
	"io"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestNotifier(tg *mockTelegramService, store *mockIdentityStore, staticAdmins []int64) *Notifier {
	logger := zerolog.New(io.Discard)
	return NewNotifier(tg, store, staticAdmins, 1000, 1000, &logger)
}

func TestBroadcastToAll(t *testing.T) {
	tg := new(mockTelegramService)
	store := new(mockIdentityStore)
	notifier := newTestNotifier(tg, store, nil)

	store.On("GetAdminChatIDs", mock.Anything).Return([]int64{10, 20}, nil).Once()
	tg.On("SendMessage", int64(10), "текст").Return(tgbotapi.Message{}, nil).Once()
	tg.On("SendMessage", int64(20), "текст").Return(tgbotapi.Message{}, nil).Once()

	sent := notifier.Broadcast(context.Background(), "текст")
	assert.Equal(t, 2, sent)
	tg.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestBroadcastPartialFailure(t *testing.T) {
	tg := new(mockTelegramService)
	store := new(mockIdentityStore)
	notifier := newTestNotifier(tg, store, nil)

	store.On("GetAdminChatIDs", mock.Anything).Return([]int64{10, 20, 30}, nil).Once()
	tg.On("SendMessage", int64(10), "текст").Return(tgbotapi.Message{}, nil).Once()
	tg.On("SendMessage", int64(20), "текст").Return(tgbotapi.Message{}, errors.New("blocked by user")).Once()
	tg.On("SendMessage", int64(30), "текст").Return(tgbotapi.Message{}, nil).Once()

	// Отказ одного получателя не прерывает рассылку остальным.
	sent := notifier.Broadcast(context.Background(), "текст")
	assert.Equal(t, 2, sent)
	tg.AssertExpectations(t)
}

func TestBroadcastStoreFailureUsesStaticList(t *testing.T) {
	tg := new(mockTelegramService)
	store := new(mockIdentityStore)
	notifier := newTestNotifier(tg, store, []int64{77})

	store.On("GetAdminChatIDs", mock.Anything).Return(nil, errors.New("db down")).Once()
	tg.On("SendMessage", int64(77), "текст").Return(tgbotapi.Message{}, nil).Once()

	sent := notifier.Broadcast(context.Background(), "текст")
	assert.Equal(t, 1, sent)
	tg.AssertExpectations(t)
}

func TestBroadcastDeduplicates(t *testing.T) {
	tg := new(mockTelegramService)
	store := new(mockIdentityStore)
	notifier := newTestNotifier(tg, store, []int64{10, 77})

	store.On("GetAdminChatIDs", mock.Anything).Return([]int64{10, 0}, nil).Once()
	tg.On("SendMessage", int64(10), "текст").Return(tgbotapi.Message{}, nil).Once()
	tg.On("SendMessage", int64(77), "текст").Return(tgbotapi.Message{}, nil).Once()

	// 10 есть и в базе, и в статическом списке; нулевой chat_id
	// пропускается.
	sent := notifier.Broadcast(context.Background(), "текст")
	assert.Equal(t, 2, sent)
	tg.AssertExpectations(t)
}

func TestBroadcastNoRecipients(t *testing.T) {
	tg := new(mockTelegramService)
	store := new(mockIdentityStore)
	notifier := newTestNotifier(tg, store, nil)

	store.On("GetAdminChatIDs", mock.Anything).Return([]int64{}, nil).Once()

	sent := notifier.Broadcast(context.Background(), "текст")
	assert.Equal(t, 0, sent)
	tg.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestBroadcastCancelledContext(t *testing.T) {
	tg := new(mockTelegramService)
	store := new(mockIdentityStore)
	notifier := newTestNotifier(tg, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store.On("GetAdminChatIDs", ctx).Return([]int64{10, 20}, nil).Once()

	sent := notifier.Broadcast(ctx, "текст")
	assert.Equal(t, 0, sent)
	tg.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
