package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/store"
)

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

// userError translates the error taxonomy into a dismissable message.
func userError(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return errFillAll
	case errors.Is(err, domain.ErrScheduling):
		return errScheduleFail
	case errors.Is(err, domain.ErrPersistenceWrite):
		return errSaveFail
	case errors.Is(err, domain.ErrNotFound):
		return errBadIndex
	default:
		return errSaveFail
	}
}

// reminderByIndex resolves the 1-based index shown by /lista to a reminder.
func (r *Router) reminderByIndex(ctx context.Context, idx int) (domain.Reminder, bool) {
	reminders, err := r.svc.List(ctx)
	if err != nil || idx < 1 || idx > len(reminders) {
		return domain.Reminder{}, false
	}
	return reminders[idx-1], true
}

func parseIndexArg(text string) (int, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, false
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return idx, true
}

// --- Core commands ---

func (r *Router) handleStart(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, startText)
	msg.ReplyMarkup = mainMenuKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleList(ctx context.Context, chatID int64) {
	reminders, err := r.svc.List(ctx)
	if err != nil {
		r.log.Error("list failed", zap.Error(err))
		r.sendText(chatID, errListFail)
		return
	}
	if len(reminders) == 0 {
		r.sendText(chatID, listEmpty)
		return
	}

	var b strings.Builder
	b.WriteString(listTitle + "\n\n")
	for i, rem := range reminders {
		fmt.Fprintf(&b, listFmt, i+1, rem.PatientName, rem.MedName, rem.MedQuantity, domain.FormatClock(rem.Time))
	}
	r.sendText(chatID, b.String())
}

func (r *Router) handleNew(chatID int64) {
	r.setFlow(chatID, &flowState{kind: flowAdd})
	r.sendText(chatID, askPatient)
}

func (r *Router) handleEdit(ctx context.Context, chatID int64, text string) {
	idx, ok := parseIndexArg(text)
	if !ok {
		r.sendText(chatID, errUsageEdit)
		return
	}
	rem, ok := r.reminderByIndex(ctx, idx)
	if !ok {
		r.sendText(chatID, errBadIndex)
		return
	}

	r.setFlow(chatID, &flowState{kind: flowEdit, editID: rem.ID})
	r.sendText(chatID, askPatient+fmt.Sprintf(keepHint, rem.PatientName))
}

func (r *Router) handleDelete(ctx context.Context, chatID int64, text string) {
	idx, ok := parseIndexArg(text)
	if !ok {
		r.sendText(chatID, errUsageDelete)
		return
	}
	rem, ok := r.reminderByIndex(ctx, idx)
	if !ok {
		r.sendText(chatID, errBadIndex)
		return
	}

	body := fmt.Sprintf("%s — %s (%s) às %s\n\n%s",
		rem.PatientName, rem.MedName, rem.MedQuantity, domain.FormatClock(rem.Time), confirmDeleteMsg)
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ReplyMarkup = confirmDeleteKeyboard(rem.ID)
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleDeleteConfirmed(ctx context.Context, chatID int64, id, cbID string) {
	_ = r.answerCallback(cbID, "")
	if err := r.svc.Delete(ctx, id); err != nil {
		r.log.Error("delete failed", zap.String("id", id), zap.Error(err))
		r.sendText(chatID, userError(err))
		return
	}
	r.sendText(chatID, deletedMsg)
}

// --- Conversational add/edit flow ---

// handleFreeForm advances the pending flow with the user's answer. Outside a
// flow the text is ignored with a pointer to /start.
func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	f := r.getFlow(chatID)
	if f == nil {
		r.handleStart(chatID)
		return
	}

	keep := f.kind == flowEdit && text == "-"

	switch f.step {
	case 0:
		if !keep {
			f.patient = text
		}
		f.step++
		r.askNext(ctx, chatID, f, askMed)
	case 1:
		if !keep {
			f.med = text
		}
		f.step++
		r.askNext(ctx, chatID, f, askQuantity)
	case 2:
		if !keep {
			f.qty = text
		}
		f.step++
		r.askNext(ctx, chatID, f, askTime)
	case 3:
		if !keep {
			h, m, err := domain.ParseClock(text)
			if err != nil {
				r.sendText(chatID, errBadTime)
				return // stay on this step
			}
			f.hour, f.minute = h, m
		} else {
			f.hour, f.minute = -1, -1
		}
		r.clearFlow(chatID)
		r.finishFlow(ctx, chatID, f)
	}
}

// askNext prompts for the next field; in edit mode the current value is shown
// as the keep-default.
func (r *Router) askNext(ctx context.Context, chatID int64, f *flowState, prompt string) {
	if f.kind != flowEdit {
		r.sendText(chatID, prompt)
		return
	}
	rem, err := r.svc.Get(ctx, f.editID)
	if err != nil {
		r.clearFlow(chatID)
		r.sendText(chatID, errBadIndex)
		return
	}
	current := ""
	switch f.step {
	case 1:
		current = rem.MedName
	case 2:
		current = rem.MedQuantity
	case 3:
		current = domain.FormatClock(rem.Time)
	}
	r.sendText(chatID, prompt+fmt.Sprintf(keepHint, current))
}

func (r *Router) finishFlow(ctx context.Context, chatID int64, f *flowState) {
	if f.kind == flowAdd {
		rem, err := r.svc.Create(ctx, f.patient, f.med, f.qty, f.hour, f.minute)
		if err != nil {
			r.log.Warn("create failed", zap.Error(err))
			r.sendText(chatID, userError(err))
			return
		}
		r.sendText(chatID, fmt.Sprintf(createdFmt, rem.MedName, domain.FormatClock(rem.Time)))
		return
	}

	fields := store.UpdateFields{}
	if f.patient != "" {
		fields.PatientName = &f.patient
	}
	if f.med != "" {
		fields.MedName = &f.med
	}
	if f.qty != "" {
		fields.MedQuantity = &f.qty
	}
	if f.hour >= 0 {
		t := time.Date(2000, 1, 1, f.hour, f.minute, 0, 0, time.Local)
		fields.Time = &t
	}

	rem, err := r.svc.Edit(ctx, f.editID, fields)
	if err != nil {
		r.log.Warn("edit failed", zap.String("id", f.editID), zap.Error(err))
		r.sendText(chatID, userError(err))
		return
	}
	r.sendText(chatID, fmt.Sprintf(updatedFmt, rem.MedName, domain.FormatClock(rem.Time)))
}
