package service

// Notice levels.
const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

// Notice is an interruptive message shown to the user after an action.
type Notice struct {
	Level string
	Text  string
}

// Notice texts shown to users.
const (
	MsgInvalidCredentials  = "Credenciais inválidas"
	MsgUnauthorizedProfile = "Perfil não autorizado."
	MsgInvalidForm         = "Preencha todos os campos obrigatórios corretamente."
	MsgAccountCreated      = "Conta criada com sucesso!"
	MsgCreateAccountFailed = "Erro ao criar conta."
	MsgLoadAccountsFailed  = "Erro ao carregar contas."
	MsgLoadAccountFailed   = "Erro ao carregar dados da conta."
	MsgTransferFailed      = "Erro ao efetuar transferência."
	MsgLoadExtractFailed   = "Erro ao carregar extrato de transações."
)

// Actions label failure notices in metrics.
const (
	actionLogin         = "login"
	actionProfile       = "profile"
	actionValidation    = "validation"
	actionCreateAccount = "create_account"
	actionLoadAccounts  = "load_accounts"
	actionLoadAccount   = "load_account"
	actionTransfer      = "transfer"
	actionLoadExtract   = "load_extract"
)

func info(text string) Notice {
	return Notice{Level: NoticeInfo, Text: text}
}

func failure(text string) Notice {
	return Notice{Level: NoticeError, Text: text}
}
