package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// UI texts in Portuguese, matching the app's voice.
const (
	startText = "💊 Eu sou o seu lembrete de medicamentos.\n\n" +
		"Cadastre paciente, remédio, quantidade e horário — eu aviso todo dia na hora certa.\n\n" +
		"Comandos:\n" +
		"/novo — adicionar lembrete\n" +
		"/lista — lembretes salvos\n" +
		"/editar N — editar o lembrete N\n" +
		"/apagar N — apagar o lembrete N"

	listTitle = "Lembretes Salvos"
	listEmpty = "Nenhum lembrete salvo. Use /novo para criar o primeiro."
	listFmt   = "%d. %s — %s (%s) às %s\n"

	askPatient  = "Nome do Paciente?"
	askMed      = "Nome do Remédio?"
	askQuantity = "Quantidade do Remédio?"
	askTime     = "Horário? (HH:MM, 24h)"
	keepHint    = "\nEnvie - para manter: %s"

	createdFmt = "✅ Lembrete criado!\nLembrete para %s às %s configurado."
	updatedFmt = "✅ Alterações salvas. Próximo aviso de %s às %s."
	deletedMsg = "🗑 Lembrete apagado."

	confirmDeleteMsg = "Você tem certeza que quer apagar este lembrete?"
	deleteKept       = "Ok, lembrete mantido."

	errFillAll      = "Erro: por favor, preencha todos os campos."
	errBadTime      = "Horário inválido. Use o formato HH:MM, por exemplo 08:30."
	errBadIndex     = "Não encontrei esse lembrete. Veja os números com /lista."
	errUsageEdit    = "Uso: /editar N (o número aparece em /lista)."
	errUsageDelete  = "Uso: /apagar N (o número aparece em /lista)."
	errScheduleFail = "Erro: não foi possível agendar a notificação."
	errSaveFail     = "Erro: não foi possível salvar as alterações."
	errListFail     = "Erro ao carregar os lembretes."
)

// mainMenuKeyboard is the persistent reply keyboard with the core commands.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/novo"),
			tgbotapi.NewKeyboardButton("/lista"),
		),
	)
}

// confirmDeleteKeyboard asks for explicit confirmation before a delete.
func confirmDeleteKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Apagar", "del:"+id),
			tgbotapi.NewInlineKeyboardButtonData("Cancelar", "del_cancel"),
		),
	)
}
