package service

import "errors"

// Business-rule failures. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("registro não encontrado")
	ErrInvalidReference   = errors.New("referência inválida")
	ErrNoOpenSession      = errors.New("nenhum caixa aberto")
	ErrSessionAlreadyOpen = errors.New("já existe um caixa aberto")
	ErrNotWashOwner       = errors.New("apenas o responsável ou o gerente pode finalizar esta lavagem")
	ErrAlreadyFinalized   = errors.New("lavagem já finalizada")
	ErrOrderNotFinished   = errors.New("a OS precisa estar finalizada para emitir nota")
	ErrInvoiceExists      = errors.New("nota fiscal já emitida para esta OS")
	ErrEmissionInFlight   = errors.New("emissão já em andamento para esta OS")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrMaintenanceMode    = errors.New("sistema em manutenção")
	ErrInvalidStatus      = errors.New("status inválido")
	ErrLineIndex          = errors.New("item inexistente na OS")
)
