package reporting

import (
	"errors"
)

// Erros específicos para o contexto de relatórios
var (
	ErrNoDatasetsSelected = errors.New("nenhum dataset selecionado")
	ErrDatasetNotFound    = errors.New("dataset não encontrado")
	ErrMonthGroupNotFound = errors.New("grupo mensal não encontrado")
	ErrMonthNotFound      = errors.New("mês não encontrado")
	ErrDatabaseOperation  = errors.New("erro de operação de banco de dados")
)
