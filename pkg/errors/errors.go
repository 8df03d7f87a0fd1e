package errors

import "fmt"

var (
	ErrNotFound   = fmt.Errorf("Solicitação não encontrada")
	ErrBadRequest = fmt.Errorf("requisição inválida")
	ErrEmptySheet = fmt.Errorf("planilha sem cabeçalho reconhecível")
)

// HttpError несёт код ответа и сообщение для клиента; Err и Context идут только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}
