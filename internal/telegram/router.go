package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/service"
)

// flow identifies a pending conversational flow for a chat.
type flowKind int

const (
	flowAdd flowKind = iota
	flowEdit
)

// flowState is the in-memory draft a chat builds step by step. It is not
// persisted; an interrupted flow simply starts over.
type flowState struct {
	kind    flowKind
	step    int
	editID  string
	patient string
	med     string
	qty     string
	hour    int
	minute  int
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
	svc *service.Service

	mu    sync.Mutex
	flows map[int64]*flowState // chatID -> pending flow
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, svc *service.Service) *Router {
	return &Router{
		bot:   bot,
		log:   log,
		svc:   svc,
		flows: make(map[int64]*flowState),
	}
}

func (r *Router) setFlow(chatID int64, f *flowState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[chatID] = f
}

func (r *Router) getFlow(chatID int64) *flowState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flows[chatID]
}

func (r *Router) clearFlow(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.clearFlow(chatID)
			r.handleStart(chatID)
		case strings.HasPrefix(text, "/lista"):
			r.clearFlow(chatID)
			r.handleList(ctx, chatID)
		case strings.HasPrefix(text, "/novo"):
			r.handleNew(chatID)
		case strings.HasPrefix(text, "/editar"):
			r.handleEdit(ctx, chatID, text)
		case strings.HasPrefix(text, "/apagar"):
			r.clearFlow(chatID)
			r.handleDelete(ctx, chatID, text)
		default:
			// Free-form text feeds the pending add/edit flow.
			r.handleFreeForm(ctx, chatID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		chatID := cb.Message.Chat.ID

		switch {
		case strings.HasPrefix(cb.Data, "del:"):
			r.handleDeleteConfirmed(ctx, chatID, strings.TrimPrefix(cb.Data, "del:"), cb.ID)
		case cb.Data == "del_cancel":
			_ = r.answerCallback(cb.ID, "")
			r.sendText(chatID, deleteKept)
		default:
			// Unknown callback — ignore silently
		}
		return
	}
}
